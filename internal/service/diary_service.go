package service

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"moodiary/internal/cache"
	"moodiary/internal/dates"
	"moodiary/internal/model"
	"moodiary/internal/repository"
)

const (
	maxEntryTextLen  = 5000
	maxPhotoSize     = 10 << 20
	defaultFeedLimit = 20
	maxFeedLimit     = 50
)

var photoExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/heic": "heic",
	"image/webp": "webp",
}

// PhotoStore keeps the image attached to a diary entry
type PhotoStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// DiaryService handles diary entries and the friend feed
type DiaryService struct {
	entries     repository.DiaryRepo
	users       repository.UserRepo
	friendSvc   *FriendService
	photos      PhotoStore
	feedCache   cache.FeedCache
	statsCache  cache.MoodStatsCache
	broadcaster Broadcaster
	loc         *time.Location
	photoURLTTL time.Duration
	logger      *zap.Logger
	now         func() time.Time
}

// NewDiaryService creates a new diary service
func NewDiaryService(
	entries repository.DiaryRepo,
	users repository.UserRepo,
	friendSvc *FriendService,
	photos PhotoStore,
	feedCache cache.FeedCache,
	statsCache cache.MoodStatsCache,
	loc *time.Location,
	photoURLTTL time.Duration,
	logger *zap.Logger,
) *DiaryService {
	return &DiaryService{
		entries:     entries,
		users:       users,
		friendSvc:   friendSvc,
		photos:      photos,
		feedCache:   feedCache,
		statsCache:  statsCache,
		broadcaster: nopBroadcaster{},
		loc:         loc,
		photoURLTTL: photoURLTTL,
		logger:      logger,
		now:         time.Now,
	}
}

// SetBroadcaster sets the realtime broadcaster
func (s *DiaryService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Create writes a new entry. Shared entries are pushed to online friends.
func (s *DiaryService) Create(ctx context.Context, userID string, in model.DiaryEntryInput) (*model.DiaryEntryView, error) {
	day, err := s.validate(userID, &in)
	if err != nil {
		return nil, err
	}

	now := s.now()
	entry := &model.DiaryEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Day:       day,
		Text:      in.Text,
		Mood:      in.Mood,
		PhotoKey:  in.PhotoKey,
		Shared:    in.Shared,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}

	s.invalidateStats(ctx, userID, entry.Day)
	view := s.view(ctx, entry, nil)
	if entry.Shared {
		s.shareWithFriends(ctx, userID, view)
	}
	s.logger.Info("diary entry created",
		zap.String("userId", userID),
		zap.String("entryId", entry.ID),
		zap.Bool("shared", entry.Shared))
	return view, nil
}

// Update replaces the writable fields of the user's own entry
func (s *DiaryService) Update(ctx context.Context, userID, entryID string, in model.DiaryEntryInput) (*model.DiaryEntryView, error) {
	entry, err := s.owned(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}
	if in.Day == "" {
		in.Day = entry.Day
	}
	day, err := s.validate(userID, &in)
	if err != nil {
		return nil, err
	}

	wasShared := entry.Shared
	oldPhoto := entry.PhotoKey
	oldDay := entry.Day

	entry.Day = day
	entry.Text = in.Text
	entry.Mood = in.Mood
	entry.PhotoKey = in.PhotoKey
	entry.Shared = in.Shared
	entry.UpdatedAt = s.now()
	if err := s.entries.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}

	s.invalidateStats(ctx, userID, oldDay, entry.Day)
	if oldPhoto != "" && oldPhoto != entry.PhotoKey {
		s.deletePhoto(ctx, oldPhoto)
	}
	if wasShared || entry.Shared {
		s.invalidateFriendFeeds(ctx, userID)
	}
	return s.view(ctx, entry, nil), nil
}

// Delete removes the user's own entry and its photo
func (s *DiaryService) Delete(ctx context.Context, userID, entryID string) error {
	entry, err := s.owned(ctx, userID, entryID)
	if err != nil {
		return err
	}
	if err := s.entries.Delete(ctx, entry.ID); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	s.invalidateStats(ctx, userID, entry.Day)
	if entry.PhotoKey != "" {
		s.deletePhoto(ctx, entry.PhotoKey)
	}
	if entry.Shared {
		s.invalidateFriendFeeds(ctx, userID)
	}
	return nil
}

// Get returns an entry the viewer may see: their own, or a friend's shared one.
// Anything else is reported as not found.
func (s *DiaryService) Get(ctx context.Context, viewerID, entryID string) (*model.DiaryEntryView, error) {
	entry, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	if entry == nil {
		return nil, ErrNotFound
	}
	if entry.UserID == viewerID {
		return s.view(ctx, entry, nil), nil
	}
	if !entry.Shared {
		return nil, ErrNotFound
	}

	ok, err := s.friendSvc.AreFriends(ctx, viewerID, entry.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check friendship: %w", err)
	}
	if !ok {
		return nil, ErrNotFound
	}

	author, err := s.users.GetByID(ctx, entry.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get author: %w", err)
	}
	var pub *model.PublicUser
	if author != nil {
		p := author.Public()
		pub = &p
	}
	return s.view(ctx, entry, pub), nil
}

// ListMine returns the user's entries for one month, newest day first
func (s *DiaryService) ListMine(ctx context.Context, userID string, year int, month time.Month) ([]*model.DiaryEntryView, error) {
	start, end := dates.MonthRange(year, month, s.loc)
	entries, err := s.entries.ListByUserDays(ctx, userID, dates.DayKey(start, s.loc), dates.DayKey(end, s.loc))
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	views := make([]*model.DiaryEntryView, len(entries))
	for i, e := range entries {
		views[i] = s.view(ctx, e, nil)
	}
	return views, nil
}

// MonthStats summarizes the user's moods for one month
func (s *DiaryService) MonthStats(ctx context.Context, userID string, year int, month time.Month) (*model.MoodStats, error) {
	start, end := dates.MonthRange(year, month, s.loc)
	key := start.Format(dates.MonthLayout)

	cached, err := s.statsCache.Get(ctx, userID, key)
	if err != nil {
		s.logger.Warn("stats cache read failed", zap.String("userId", userID), zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	entries, err := s.entries.ListByUserDays(ctx, userID, dates.DayKey(start, s.loc), dates.DayKey(end, s.loc))
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	stats := model.NewMoodStats(key, entries)
	if err := s.statsCache.Set(ctx, userID, stats); err != nil {
		s.logger.Warn("stats cache write failed", zap.String("userId", userID), zap.Error(err))
	}
	return stats, nil
}

// Feed returns friends' shared entries created before the cursor, newest first.
// The default first page is cached per user.
func (s *DiaryService) Feed(ctx context.Context, userID string, before *time.Time, limit int) ([]*model.DiaryEntryView, error) {
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	limit = min(limit, maxFeedLimit)
	cacheable := before == nil && limit == defaultFeedLimit

	if cacheable {
		cached, err := s.feedCache.Get(ctx, userID)
		if err != nil {
			s.logger.Warn("feed cache read failed", zap.String("userId", userID), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	friendIDs, err := s.friendSvc.FriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	cursor := s.now()
	if before != nil {
		cursor = *before
	}
	entries, err := s.entries.ListShared(ctx, friendIDs, cursor, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list feed: %w", err)
	}

	authors, err := publicUsers(ctx, s.users, friendIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve authors: %w", err)
	}
	views := make([]*model.DiaryEntryView, len(entries))
	for i, e := range entries {
		views[i] = s.view(ctx, e, authors[e.UserID])
	}

	if cacheable {
		if err := s.feedCache.Set(ctx, userID, views); err != nil {
			s.logger.Warn("feed cache write failed", zap.String("userId", userID), zap.Error(err))
		}
	}
	return views, nil
}

// UploadPhoto stores an image and returns the key to attach to an entry
func (s *DiaryService) UploadPhoto(ctx context.Context, userID, contentType string, body io.Reader, size int64) (string, error) {
	ext, ok := photoExtensions[strings.ToLower(contentType)]
	if !ok {
		return "", fmt.Errorf("%w: content type %q", ErrUnsupportedPhoto, contentType)
	}
	if size <= 0 || size > maxPhotoSize {
		return "", fmt.Errorf("%w: size must be between 1 byte and %d bytes", ErrUnsupportedPhoto, maxPhotoSize)
	}

	key := fmt.Sprintf("%s%s.%s", photoPrefix(userID), uuid.NewString(), ext)
	if err := s.photos.Put(ctx, key, contentType, body, size); err != nil {
		return "", fmt.Errorf("failed to store photo: %w", err)
	}
	return key, nil
}

func photoPrefix(userID string) string {
	return "photos/" + userID + "/"
}

// validate normalizes the input and returns the entry's day key
func (s *DiaryService) validate(userID string, in *model.DiaryEntryInput) (string, error) {
	in.Text = strings.TrimSpace(in.Text)
	if in.Text == "" {
		return "", fmt.Errorf("%w: text is required", ErrValidation)
	}
	if utf8.RuneCountInString(in.Text) > maxEntryTextLen {
		return "", fmt.Errorf("%w: text must be at most %d characters", ErrValidation, maxEntryTextLen)
	}
	if !in.Mood.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidMood, in.Mood)
	}
	if in.PhotoKey != "" && !strings.HasPrefix(in.PhotoKey, photoPrefix(userID)) {
		return "", fmt.Errorf("%w: photo does not belong to user", ErrValidation)
	}

	today := dates.DayKey(s.now(), s.loc)
	if in.Day == "" {
		return today, nil
	}
	day, err := dates.ParseDayKey(in.Day, s.loc)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}
	key := dates.DayKey(day, s.loc)
	if key > today {
		return "", fmt.Errorf("%w: day %s is in the future", ErrValidation, key)
	}
	return key, nil
}

func (s *DiaryService) owned(ctx context.Context, userID, entryID string) (*model.DiaryEntry, error) {
	entry, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	if entry == nil {
		return nil, ErrNotFound
	}
	if entry.UserID != userID {
		return nil, ErrForbidden
	}
	return entry, nil
}

func (s *DiaryService) view(ctx context.Context, entry *model.DiaryEntry, author *model.PublicUser) *model.DiaryEntryView {
	v := &model.DiaryEntryView{DiaryEntry: *entry, Author: author}
	if day, err := dates.ParseDayKey(entry.Day, s.loc); err == nil {
		v.RelativeDay = dates.RelativeLabel(day, s.now(), s.loc)
	}
	if entry.PhotoKey != "" {
		url, err := s.photos.PresignGet(ctx, entry.PhotoKey, s.photoURLTTL)
		if err != nil {
			s.logger.Warn("failed to presign photo", zap.String("key", entry.PhotoKey), zap.Error(err))
		} else {
			v.PhotoURL = url
		}
	}
	return v
}

func (s *DiaryService) shareWithFriends(ctx context.Context, userID string, view *model.DiaryEntryView) {
	friendIDs, err := s.friendSvc.FriendIDs(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to load friends for sharing", zap.String("userId", userID), zap.Error(err))
		return
	}
	if len(friendIDs) == 0 {
		return
	}
	if err := s.feedCache.Invalidate(ctx, friendIDs...); err != nil {
		s.logger.Warn("failed to invalidate feed cache", zap.Error(err))
	}

	if author, err := s.users.GetByID(ctx, userID); err == nil && author != nil {
		pub := author.Public()
		shared := *view
		shared.Author = &pub
		view = &shared
	}
	s.broadcaster.SendToUsers(friendIDs, EventDiaryEntryShared, view)
}

func (s *DiaryService) invalidateFriendFeeds(ctx context.Context, userID string) {
	friendIDs, err := s.friendSvc.FriendIDs(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to load friends", zap.String("userId", userID), zap.Error(err))
		return
	}
	if err := s.feedCache.Invalidate(ctx, friendIDs...); err != nil {
		s.logger.Warn("failed to invalidate feed cache", zap.Error(err))
	}
}

// invalidateStats drops the cached summaries of the months the days fall in
func (s *DiaryService) invalidateStats(ctx context.Context, userID string, days ...string) {
	months := make([]string, 0, len(days))
	for _, d := range days {
		if len(d) < len(dates.MonthLayout) {
			continue
		}
		m := d[:len(dates.MonthLayout)]
		if !slices.Contains(months, m) {
			months = append(months, m)
		}
	}
	if err := s.statsCache.Invalidate(ctx, userID, months...); err != nil {
		s.logger.Warn("failed to invalidate stats cache", zap.String("userId", userID), zap.Error(err))
	}
}

func (s *DiaryService) deletePhoto(ctx context.Context, key string) {
	if err := s.photos.Delete(ctx, key); err != nil {
		s.logger.Warn("failed to delete photo", zap.String("key", key), zap.Error(err))
	}
}
