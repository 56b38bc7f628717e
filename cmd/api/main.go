package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"
	"github.com/lupa-app/lupa/internal/auth"
	"github.com/lupa-app/lupa/internal/cache"
	"github.com/lupa-app/lupa/internal/config"
	"github.com/lupa-app/lupa/internal/database"
	"github.com/lupa-app/lupa/internal/handler"
	"github.com/lupa-app/lupa/internal/logger"
	"github.com/lupa-app/lupa/internal/question"
	"github.com/lupa-app/lupa/internal/repository"
	"github.com/lupa-app/lupa/internal/session"
	"github.com/lupa-app/lupa/internal/webhook"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type application struct {
	DB         *pgxpool.Pool
	Redis      *redis.Client
	Logger     *zap.Logger
	Config     *config.Config
	Repository *repository.Repository
	Handler    *handler.Handler
}

func main() {
	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, _ := logger.NewLogger(cfg.Env)
	defer log.Sync()
	sugar := log.Sugar()
	sugar.Infof("config loaded: %s", cfg)

	pool, err := database.Connect(ctx, cfg.DB)
	if err != nil {
		sugar.Fatal(err)
	}
	defer pool.Close()

	rdb := cache.NewRedisClient(cfg.Redis)
	if err := cache.Ping(ctx, rdb); err != nil {
		sugar.Fatal(err)
	}
	defer rdb.Close()

	repo := repository.NewRepository(pool)

	handlerApp := &handler.Handler{
		Logger:     log,
		Config:     cfg,
		Store:      repo,
		Sessions:   session.NewRedisStore(rdb, cfg.Session.TTL),
		Questions:  question.NewProvider(repo, cfg.Evaluation.QuestionLimit),
		TokenMaker: auth.NewJWTMaker(cfg.JWT.Secret),
		Webhook:    webhook.NewClient(cfg.Webhook),
	}

	app := &application{
		DB:         pool,
		Redis:      rdb,
		Logger:     log,
		Config:     cfg,
		Repository: repo,
		Handler:    handlerApp,
	}

	if err := app.serve(); err != nil {
		sugar.Fatal(err)
	}
}
