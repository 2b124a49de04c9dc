package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"moodiary/internal/cache"
	"moodiary/internal/config"
	"moodiary/internal/dates"
	"moodiary/internal/model"
	"moodiary/internal/repository"
	"moodiary/internal/scoring"
)

const (
	defaultHistoryLimit = 30
	maxHistoryLimit     = 365
)

// AssessmentService runs the stress check questionnaire flow
type AssessmentService struct {
	assessments   repository.AssessmentRepo
	lock          cache.SubmissionLock
	questionnaire *config.Questionnaire
	loc           *time.Location
	logger        *zap.Logger
	now           func() time.Time
}

// NewAssessmentService creates a new assessment service
func NewAssessmentService(
	assessments repository.AssessmentRepo,
	lock cache.SubmissionLock,
	questionnaire *config.Questionnaire,
	loc *time.Location,
	logger *zap.Logger,
) *AssessmentService {
	return &AssessmentService{
		assessments:   assessments,
		lock:          lock,
		questionnaire: questionnaire,
		loc:           loc,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *AssessmentService) Questionnaire() *config.Questionnaire {
	return s.questionnaire
}

// Submit scores the answers and stores the result. A user may submit once per
// calendar day.
func (s *AssessmentService) Submit(ctx context.Context, userID string, answers []*int) (*model.AssessmentView, error) {
	if err := s.questionnaire.CheckAnswers(answers); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAnswers, err)
	}

	now := s.now()
	day := dates.DayKey(now, s.loc)

	acquired, err := s.lock.Acquire(ctx, userID, day, dates.UntilEndOfDay(now, s.loc))
	if err != nil {
		return nil, fmt.Errorf("failed to acquire submission lock: %w", err)
	}
	if !acquired {
		return nil, ErrAlreadySubmittedToday
	}

	view, err := s.store(ctx, userID, day, now, answers)
	if err != nil && !errors.Is(err, ErrAlreadySubmittedToday) {
		if relErr := s.lock.Release(ctx, userID, day); relErr != nil {
			s.logger.Warn("failed to release submission lock", zap.String("userId", userID), zap.Error(relErr))
		}
	}
	return view, err
}

func (s *AssessmentService) store(ctx context.Context, userID, day string, now time.Time, answers []*int) (*model.AssessmentView, error) {
	// The lock can be lost with the cache, the store is authoritative.
	existing, err := s.assessments.GetByUserDay(ctx, userID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing assessment: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadySubmittedToday
	}

	stored := make([]*int, len(answers))
	for i, a := range answers {
		if a != nil {
			v := *a
			stored[i] = &v
		}
	}

	a := &model.Assessment{
		ID:              uuid.NewString(),
		UserID:          userID,
		Day:             day,
		QuestionnaireID: s.questionnaire.ID,
		Answers:         stored,
		Result:          scoring.ComputeEvaluation(s.questionnaire.SplitIndex(), stored),
		SubmittedAt:     now,
	}
	if err := s.assessments.Create(ctx, a); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadySubmittedToday
		}
		return nil, fmt.Errorf("failed to store assessment: %w", err)
	}

	s.logger.Info("assessment submitted",
		zap.String("userId", userID),
		zap.String("day", day),
		zap.Int("scoreA", a.ScoreA),
		zap.Int("scoreB", a.ScoreB),
		zap.String("evaluation", string(a.Evaluation)))
	return model.NewAssessmentView(a), nil
}

// TodayStatus reports whether the user has already submitted today
func (s *AssessmentService) TodayStatus(ctx context.Context, userID string) (*model.TodayStatus, error) {
	day := dates.DayKey(s.now(), s.loc)
	a, err := s.assessments.GetByUserDay(ctx, userID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}
	return &model.TodayStatus{
		Day:        day,
		Submitted:  a != nil,
		Assessment: model.NewAssessmentView(a),
	}, nil
}

// History lists the user's assessments, newest first
func (s *AssessmentService) History(ctx context.Context, userID string, limit int) ([]*model.AssessmentView, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	limit = min(limit, maxHistoryLimit)

	list, err := s.assessments.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	views := make([]*model.AssessmentView, len(list))
	for i, a := range list {
		views[i] = model.NewAssessmentView(a)
	}
	return views, nil
}

// Get returns one of the user's own assessments
func (s *AssessmentService) Get(ctx context.Context, userID, id string) (*model.AssessmentView, error) {
	a, err := s.assessments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}
	if a == nil || a.UserID != userID {
		return nil, ErrNotFound
	}
	return model.NewAssessmentView(a), nil
}
