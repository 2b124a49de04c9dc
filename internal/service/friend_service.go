package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"moodiary/internal/cache"
	"moodiary/internal/model"
	"moodiary/internal/repository"
)

// FriendService manages friend requests and the approved friend list
type FriendService struct {
	friends     repository.FriendRepo
	users       repository.UserRepo
	feedCache   cache.FeedCache
	broadcaster Broadcaster
	logger      *zap.Logger
	now         func() time.Time
}

// NewFriendService creates a new friend service
func NewFriendService(friends repository.FriendRepo, users repository.UserRepo, feedCache cache.FeedCache, logger *zap.Logger) *FriendService {
	return &FriendService{
		friends:     friends,
		users:       users,
		feedCache:   feedCache,
		broadcaster: nopBroadcaster{},
		logger:      logger,
		now:         time.Now,
	}
}

// SetBroadcaster sets the realtime broadcaster
func (s *FriendService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SendRequest asks the user with toPublicID to become friends. If that user
// already asked fromID, their request is accepted instead.
func (s *FriendService) SendRequest(ctx context.Context, fromID, toPublicID string) (*model.FriendRequest, error) {
	target, err := s.users.GetByPublicID(ctx, strings.ToUpper(strings.TrimSpace(toPublicID)))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if target == nil {
		return nil, ErrNotFound
	}
	if target.ID == fromID {
		return nil, ErrSelfFriend
	}

	friends, err := s.friends.AreFriends(ctx, fromID, target.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check friendship: %w", err)
	}
	if friends {
		return nil, ErrAlreadyFriends
	}

	outgoing, err := s.friends.FindPending(ctx, fromID, target.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check requests: %w", err)
	}
	if outgoing != nil {
		return nil, ErrRequestExists
	}

	incoming, err := s.friends.FindPending(ctx, target.ID, fromID)
	if err != nil {
		return nil, fmt.Errorf("failed to check requests: %w", err)
	}
	if incoming != nil {
		if err := s.accept(ctx, incoming); err != nil {
			return nil, err
		}
		return incoming, nil
	}

	req := &model.FriendRequest{
		ID:         uuid.NewString(),
		FromUserID: fromID,
		ToUserID:   target.ID,
		Status:     model.FriendRequestPending,
		CreatedAt:  s.now(),
	}
	if err := s.friends.CreateRequest(ctx, req); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrRequestExists
		}
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	s.broadcaster.SendToUser(target.ID, EventFriendRequest, req)
	s.logger.Info("friend request sent", zap.String("from", fromID), zap.String("to", target.ID))
	return req, nil
}

// Respond accepts or rejects a pending request addressed to userID
func (s *FriendService) Respond(ctx context.Context, userID, requestID string, accept bool) (*model.FriendRequest, error) {
	req, err := s.friends.GetRequest(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	if req == nil {
		return nil, ErrNotFound
	}
	if req.ToUserID != userID {
		return nil, ErrForbidden
	}
	if req.Status != model.FriendRequestPending {
		return nil, fmt.Errorf("%w: request is already %s", ErrValidation, req.Status)
	}

	if accept {
		if err := s.accept(ctx, req); err != nil {
			return nil, err
		}
		return req, nil
	}

	now := s.now()
	req.Status = model.FriendRequestRejected
	req.RespondedAt = &now
	if err := s.friends.UpdateRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to update request: %w", err)
	}
	return req, nil
}

func (s *FriendService) accept(ctx context.Context, req *model.FriendRequest) error {
	if err := s.friends.AddFriendship(ctx, req.FromUserID, req.ToUserID); err != nil {
		return fmt.Errorf("failed to add friendship: %w", err)
	}

	now := s.now()
	req.Status = model.FriendRequestAccepted
	req.RespondedAt = &now
	if err := s.friends.UpdateRequest(ctx, req); err != nil {
		return fmt.Errorf("failed to update request: %w", err)
	}

	s.invalidateFeeds(ctx, req.FromUserID, req.ToUserID)
	s.broadcaster.SendToUser(req.FromUserID, EventFriendAccepted, req)
	s.logger.Info("friend request accepted", zap.String("requestId", req.ID))
	return nil
}

// ListRequests returns pending requests addressed to (incoming) or sent by the user
func (s *FriendService) ListRequests(ctx context.Context, userID string, incoming bool) ([]*model.FriendRequestView, error) {
	reqs, err := s.friends.ListPending(ctx, userID, incoming)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}

	ids := make([]string, 0, len(reqs))
	for _, r := range reqs {
		if incoming {
			ids = append(ids, r.FromUserID)
		} else {
			ids = append(ids, r.ToUserID)
		}
	}
	profiles, err := publicUsers(ctx, s.users, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve users: %w", err)
	}

	views := make([]*model.FriendRequestView, len(reqs))
	for i, r := range reqs {
		views[i] = &model.FriendRequestView{
			FriendRequest: *r,
			From:          profiles[r.FromUserID],
			To:            profiles[r.ToUserID],
		}
	}
	return views, nil
}

// ListFriends returns the approved friends of the user
func (s *FriendService) ListFriends(ctx context.Context, userID string) ([]*model.PublicUser, error) {
	ids, err := s.FriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	profiles, err := publicUsers(ctx, s.users, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve users: %w", err)
	}

	out := make([]*model.PublicUser, 0, len(ids))
	for _, id := range ids {
		if p, ok := profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *FriendService) FriendIDs(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.friends.ListFriendIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	return ids, nil
}

func (s *FriendService) AreFriends(ctx context.Context, userID, otherID string) (bool, error) {
	return s.friends.AreFriends(ctx, userID, otherID)
}

// Remove ends a friendship in both directions
func (s *FriendService) Remove(ctx context.Context, userID, friendID string) error {
	removed, err := s.friends.RemoveFriendship(ctx, userID, friendID)
	if err != nil {
		return fmt.Errorf("failed to remove friendship: %w", err)
	}
	if !removed {
		return ErrNotFound
	}
	s.invalidateFeeds(ctx, userID, friendID)
	s.logger.Info("friendship removed", zap.String("userId", userID), zap.String("friendId", friendID))
	return nil
}

func (s *FriendService) invalidateFeeds(ctx context.Context, userIDs ...string) {
	if err := s.feedCache.Invalidate(ctx, userIDs...); err != nil {
		s.logger.Warn("failed to invalidate feed cache", zap.Strings("userIds", userIDs), zap.Error(err))
	}
}
