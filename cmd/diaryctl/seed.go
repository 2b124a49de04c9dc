package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"moodiary/internal/app"
	"moodiary/internal/config"
	"moodiary/internal/dates"
	"moodiary/internal/logging"
	"moodiary/internal/model"
	"moodiary/internal/service"
)

type demoUser struct {
	email, name string
	entries     []demoEntry
}

type demoEntry struct {
	daysAgo int
	text    string
	mood    model.Mood
	shared  bool
}

const demoPassword = "password123"

var demoUsers = []demoUser{
	{
		email: "alice@example.com", name: "Alice",
		entries: []demoEntry{
			{2, "Finished the quarterly report. Long day but relieved.", model.MoodOkay, true},
			{1, "Went for a run by the river before work.", model.MoodGood, true},
			{0, "Slept badly, a bit anxious about tomorrow.", model.MoodBad, false},
		},
	},
	{
		email: "bob@example.com", name: "Bob",
		entries: []demoEntry{
			{1, "Cooked dinner with friends.", model.MoodGreat, true},
			{0, "Rainy commute, quiet evening.", model.MoodOkay, true},
		},
	},
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert two demo users who are friends, with a few diary entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()
			return runSeed(ctx, cmd.OutOrStdout())
		},
	}
}

func runSeed(ctx context.Context, w io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		return err
	}
	defer logger.Sync()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	accounts := make([]*model.LoginResponse, len(demoUsers))
	for i, u := range demoUsers {
		acct, err := ensureUser(ctx, a.AuthService, u)
		if err != nil {
			return err
		}
		accounts[i] = acct
		fmt.Fprintf(w, "user %s publicId=%s\n", u.email, acct.PublicID)
	}

	if err := befriend(ctx, a.FriendService, accounts[0], accounts[1]); err != nil {
		return err
	}

	now := time.Now()
	for i, u := range demoUsers {
		for _, e := range u.entries {
			_, err := a.DiaryService.Create(ctx, accounts[i].UserID, model.DiaryEntryInput{
				Day:    dates.DayKey(dates.AddDays(now, -e.daysAgo), cfg.Location),
				Text:   e.text,
				Mood:   e.mood,
				Shared: e.shared,
			})
			if err != nil {
				return fmt.Errorf("seed entry for %s: %w", u.email, err)
			}
		}
	}

	logger.Info("seed complete", zap.Int("users", len(demoUsers)))
	fmt.Fprintf(w, "seeded %d users, password %q\n", len(demoUsers), demoPassword)
	return nil
}

// ensureUser registers the demo user, or logs in when it already exists.
func ensureUser(ctx context.Context, auth *service.AuthService, u demoUser) (*model.LoginResponse, error) {
	resp, err := auth.Register(ctx, model.RegisterRequest{Email: u.email, Password: demoPassword, DisplayName: u.name})
	if errors.Is(err, service.ErrEmailTaken) {
		return auth.Login(ctx, u.email, demoPassword)
	}
	if err != nil {
		return nil, fmt.Errorf("register %s: %w", u.email, err)
	}
	return resp, nil
}

func befriend(ctx context.Context, friends *service.FriendService, from, to *model.LoginResponse) error {
	req, err := friends.SendRequest(ctx, from.UserID, to.PublicID)
	switch {
	case errors.Is(err, service.ErrAlreadyFriends):
		return nil
	case errors.Is(err, service.ErrRequestExists):
		return errors.New("a pending request already exists; accept it from the app")
	case err != nil:
		return fmt.Errorf("send friend request: %w", err)
	}
	if req.Status == model.FriendRequestAccepted {
		return nil
	}
	if _, err := friends.Respond(ctx, to.UserID, req.ID, true); err != nil {
		return fmt.Errorf("accept friend request: %w", err)
	}
	return nil
}
