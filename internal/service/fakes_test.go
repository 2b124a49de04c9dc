package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"moodiary/internal/model"
	"moodiary/internal/repository"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
	err   error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*model.User{}}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email || u.PublicID == user.PublicID {
			return repository.ErrDuplicate
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) find(match func(*model.User) bool) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.ID == id })
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) GetByPublicID(ctx context.Context, publicID string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.PublicID == publicID })
}

func (r *fakeUserRepo) GetByIDs(ctx context.Context, ids []string) ([]*model.User, error) {
	var out []*model.User
	for _, id := range ids {
		u, _ := r.GetByID(ctx, id)
		if u != nil {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) PublicIDExists(ctx context.Context, publicID string) (bool, error) {
	u, err := r.GetByPublicID(ctx, publicID)
	return u != nil, err
}

func (r *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) add(id, publicID, name string) *model.User {
	u := &model.User{ID: id, PublicID: publicID, Email: id + "@example.com", DisplayName: name}
	r.users[id] = u
	return u
}

type fakeDiaryRepo struct {
	mu      sync.Mutex
	entries map[string]*model.DiaryEntry
}

func newFakeDiaryRepo() *fakeDiaryRepo {
	return &fakeDiaryRepo{entries: map[string]*model.DiaryEntry{}}
}

func (r *fakeDiaryRepo) Create(ctx context.Context, e *model.DiaryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *e
	r.entries[e.ID] = &cp
	return nil
}

func (r *fakeDiaryRepo) GetByID(ctx context.Context, id string) (*model.DiaryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeDiaryRepo) Update(ctx context.Context, e *model.DiaryEntry) error {
	return r.Create(ctx, e)
}

func (r *fakeDiaryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
	return nil
}

func (r *fakeDiaryRepo) ListByUserDays(ctx context.Context, userID, fromDay, toDay string) ([]*model.DiaryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.DiaryEntry
	for _, e := range r.entries {
		if e.UserID == userID && e.Day >= fromDay && e.Day < toDay {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day > out[j].Day })
	return out, nil
}

func (r *fakeDiaryRepo) ListShared(ctx context.Context, userIDs []string, before time.Time, limit int) ([]*model.DiaryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	allowed := map[string]bool{}
	for _, id := range userIDs {
		allowed[id] = true
	}
	var out []*model.DiaryEntry
	for _, e := range r.entries {
		if allowed[e.UserID] && e.Shared && e.CreatedAt.Before(before) {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeFriendRepo struct {
	mu       sync.Mutex
	requests map[string]*model.FriendRequest
	pairs    map[[2]string]bool
}

func newFakeFriendRepo() *fakeFriendRepo {
	return &fakeFriendRepo{requests: map[string]*model.FriendRequest{}, pairs: map[[2]string]bool{}}
}

func (r *fakeFriendRepo) CreateRequest(ctx context.Context, req *model.FriendRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *req
	r.requests[req.ID] = &cp
	return nil
}

func (r *fakeFriendRepo) GetRequest(ctx context.Context, id string) (*model.FriendRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if req, ok := r.requests[id]; ok {
		cp := *req
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeFriendRepo) FindPending(ctx context.Context, from, to string) (*model.FriendRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.requests {
		if req.FromUserID == from && req.ToUserID == to && req.Status == model.FriendRequestPending {
			cp := *req
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeFriendRepo) ListPending(ctx context.Context, userID string, incoming bool) ([]*model.FriendRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.FriendRequest
	for _, req := range r.requests {
		party := req.FromUserID
		if incoming {
			party = req.ToUserID
		}
		if party == userID && req.Status == model.FriendRequestPending {
			cp := *req
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeFriendRepo) UpdateRequest(ctx context.Context, req *model.FriendRequest) error {
	return r.CreateRequest(ctx, req)
}

func (r *fakeFriendRepo) AddFriendship(ctx context.Context, a, b string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pairs[[2]string{a, b}] = true
	r.pairs[[2]string{b, a}] = true
	return nil
}

func (r *fakeFriendRepo) RemoveFriendship(ctx context.Context, a, b string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existed := r.pairs[[2]string{a, b}] || r.pairs[[2]string{b, a}]
	delete(r.pairs, [2]string{a, b})
	delete(r.pairs, [2]string{b, a})
	return existed, nil
}

func (r *fakeFriendRepo) AreFriends(ctx context.Context, a, b string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pairs[[2]string{a, b}], nil
}

func (r *fakeFriendRepo) ListFriendIDs(ctx context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for p := range r.pairs {
		if p[0] == userID {
			ids = append(ids, p[1])
		}
	}
	sort.Strings(ids)
	return ids, nil
}

type fakeAssessmentRepo struct {
	mu        sync.Mutex
	items     map[string]*model.Assessment
	createErr error
}

func newFakeAssessmentRepo() *fakeAssessmentRepo {
	return &fakeAssessmentRepo{items: map[string]*model.Assessment{}}
}

func (r *fakeAssessmentRepo) Create(ctx context.Context, a *model.Assessment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, it := range r.items {
		if it.UserID == a.UserID && it.Day == a.Day {
			return repository.ErrDuplicate
		}
	}
	cp := *a
	r.items[a.ID] = &cp
	return nil
}

func (r *fakeAssessmentRepo) GetByID(ctx context.Context, id string) (*model.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.items[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeAssessmentRepo) GetByUserDay(ctx context.Context, userID, day string) (*model.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.items {
		if a.UserID == userID && a.Day == day {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeAssessmentRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*model.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Assessment
	for _, a := range r.items {
		if a.UserID == userID {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeFeedCache struct {
	mu          sync.Mutex
	feeds       map[string][]*model.DiaryEntryView
	invalidated []string
}

func newFakeFeedCache() *fakeFeedCache {
	return &fakeFeedCache{feeds: map[string][]*model.DiaryEntryView{}}
}

func (c *fakeFeedCache) Get(ctx context.Context, userID string) ([]*model.DiaryEntryView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.feeds[userID], nil
}

func (c *fakeFeedCache) Set(ctx context.Context, userID string, entries []*model.DiaryEntryView) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entries == nil {
		entries = []*model.DiaryEntryView{}
	}
	c.feeds[userID] = entries
	return nil
}

func (c *fakeFeedCache) Invalidate(ctx context.Context, userIDs ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range userIDs {
		delete(c.feeds, id)
	}
	c.invalidated = append(c.invalidated, userIDs...)
	return nil
}

type fakeLock struct {
	mu       sync.Mutex
	held     map[string]time.Duration
	released []string
	err      error
}

func newFakeLock() *fakeLock {
	return &fakeLock{held: map[string]time.Duration{}}
}

func (l *fakeLock) Acquire(ctx context.Context, userID, day string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return false, l.err
	}
	k := userID + ":" + day
	if _, ok := l.held[k]; ok {
		return false, nil
	}
	l.held[k] = ttl
	return true, nil
}

func (l *fakeLock) Release(ctx context.Context, userID, day string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	k := userID + ":" + day
	delete(l.held, k)
	l.released = append(l.released, k)
	return nil
}

type fakePhotos struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

func newFakePhotos() *fakePhotos {
	return &fakePhotos{objects: map[string][]byte{}}
}

func (p *fakePhotos) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.objects[key] = data
	return nil
}

func (p *fakePhotos) Delete(ctx context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.objects[key]; !ok {
		return errors.New("no such key")
	}
	delete(p.objects, key)
	p.deleted = append(p.deleted, key)
	return nil
}

func (p *fakePhotos) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return "https://photos.test/" + key, nil
}

type sentEvent struct {
	UserID  string
	Type    string
	Payload interface{}
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []sentEvent
}

func (b *recordingBroadcaster) SendToUser(userID, msgType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, sentEvent{UserID: userID, Type: msgType, Payload: payload})
}

func (b *recordingBroadcaster) SendToUsers(userIDs []string, msgType string, payload interface{}) {
	for _, id := range userIDs {
		b.SendToUser(id, msgType, payload)
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

type fakeStatsCache struct {
	mu          sync.Mutex
	stats       map[string]*model.MoodStats
	invalidated []string
}

func newFakeStatsCache() *fakeStatsCache {
	return &fakeStatsCache{stats: map[string]*model.MoodStats{}}
}

func (c *fakeStatsCache) Get(ctx context.Context, userID, month string) (*model.MoodStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats[userID+"/"+month], nil
}

func (c *fakeStatsCache) Set(ctx context.Context, userID string, stats *model.MoodStats) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats[userID+"/"+stats.Month] = stats
	return nil
}

func (c *fakeStatsCache) Invalidate(ctx context.Context, userID string, months ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range months {
		delete(c.stats, userID+"/"+m)
		c.invalidated = append(c.invalidated, userID+"/"+m)
	}
	return nil
}

type fakeSessions struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{revoked: map[string]time.Duration{}}
}

func (s *fakeSessions) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenID] = ttl
	return nil
}

func (s *fakeSessions) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[tokenID]
	return ok, nil
}
