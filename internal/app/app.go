// Package app connects the backing stores and assembles the services shared
// by the server and the CLI.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"moodiary/internal/cache"
	"moodiary/internal/config"
	"moodiary/internal/repository"
	"moodiary/internal/service"
	"moodiary/internal/storage"
	"moodiary/internal/transport/rest"
	"moodiary/internal/transport/ws"
)

const pingTimeout = 5 * time.Second

type App struct {
	Config *config.Config
	Logger *zap.Logger

	Mongo *mongo.Client
	DB    *mongo.Database
	Redis *redis.Client

	UserRepo       repository.UserRepo
	DiaryRepo      repository.DiaryRepo
	FriendRepo     repository.FriendRepo
	AssessmentRepo repository.AssessmentRepo

	AuthService       *service.AuthService
	UserService       *service.UserService
	FriendService     *service.FriendService
	DiaryService      *service.DiaryService
	AssessmentService *service.AssessmentService

	WSHub *ws.Hub
}

// New connects to MongoDB, Redis and the photo bucket and wires every service.
// The realtime hub is started and injected as the services' broadcaster.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	questionnaire, err := config.LoadQuestionnaire(cfg.QuestionnaireFile)
	if err != nil {
		return nil, err
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		mongoClient.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("db", cfg.MongoDB))

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		mongoClient.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	logger.Info("connected to Redis", zap.String("addr", cfg.RedisAddr))

	photos, err := storage.New(ctx, cfg.Storage, logger)
	if err != nil {
		rdb.Close()
		mongoClient.Disconnect(ctx)
		return nil, fmt.Errorf("failed to configure photo storage: %w", err)
	}

	db := mongoClient.Database(cfg.MongoDB)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		rdb.Close()
		mongoClient.Disconnect(ctx)
		return nil, err
	}

	a := &App{
		Config:         cfg,
		Logger:         logger,
		Mongo:          mongoClient,
		DB:             db,
		Redis:          rdb,
		UserRepo:       repository.NewUserRepo(db),
		DiaryRepo:      repository.NewDiaryRepo(db),
		FriendRepo:     repository.NewFriendRepo(db),
		AssessmentRepo: repository.NewAssessmentRepo(db),
		WSHub:          ws.NewHub(logger),
	}

	// Initialize caches
	feedCache := cache.NewFeedCache(rdb, cfg.FeedCacheTTL)
	sessions := cache.NewSessionCache(rdb)
	statsCache := cache.NewMoodStatsCache(rdb)
	submissionLock := cache.NewSubmissionLock(rdb)

	// Initialize services
	a.AuthService = service.NewAuthService(a.UserRepo, sessions, cfg.JWTSecret, cfg.TokenTTL, logger)
	a.UserService = service.NewUserService(a.UserRepo, logger)
	a.FriendService = service.NewFriendService(a.FriendRepo, a.UserRepo, feedCache, logger)
	a.DiaryService = service.NewDiaryService(a.DiaryRepo, a.UserRepo, a.FriendService, photos, feedCache, statsCache, cfg.Location, cfg.Storage.URLTTL, logger)
	a.AssessmentService = service.NewAssessmentService(a.AssessmentRepo, submissionLock, questionnaire, cfg.Location, logger)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	a.FriendService.SetBroadcaster(a.WSHub)
	a.DiaryService.SetBroadcaster(a.WSHub)

	return a, nil
}

// Router builds the HTTP handler for the API
func (a *App) Router() http.Handler {
	return rest.NewRouter(&rest.Container{
		AuthService:       a.AuthService,
		UserService:       a.UserService,
		FriendService:     a.FriendService,
		DiaryService:      a.DiaryService,
		AssessmentService: a.AssessmentService,
		WSHub:             a.WSHub,
		Location:          a.Config.Location,
		CORSOrigins:       a.Config.CORSOrigins,
		Logger:            a.Logger,
	})
}

// Close stops the hub and releases the store connections
func (a *App) Close(ctx context.Context) {
	a.WSHub.Close()
	if err := a.Redis.Close(); err != nil {
		a.Logger.Warn("failed to close Redis", zap.Error(err))
	}
	if err := a.Mongo.Disconnect(ctx); err != nil {
		a.Logger.Warn("failed to disconnect MongoDB", zap.Error(err))
	}
}
