package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v9"

	"github.com/jwen23/campusbot/pkg/auth"
	"github.com/jwen23/campusbot/pkg/command"
	"github.com/jwen23/campusbot/pkg/database"
	"github.com/jwen23/campusbot/pkg/domain"
	"github.com/jwen23/campusbot/pkg/llm"
	"github.com/jwen23/campusbot/pkg/logger"
	"github.com/jwen23/campusbot/pkg/reply"
	"github.com/jwen23/campusbot/pkg/repository"
	"github.com/jwen23/campusbot/pkg/service"
	"github.com/jwen23/campusbot/pkg/services"
	"github.com/jwen23/campusbot/pkg/transport"
	"github.com/jwen23/campusbot/pkg/workers"
)

type Config struct {
	LLMToken       string        `env:"LLM_API_TOKEN,required"`
	LLMBaseURL     string        `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel       string        `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	LLMTemperature float32       `env:"LLM_TEMPERATURE" envDefault:"0.7"`
	LLMMaxTokens   int           `env:"LLM_MAX_TOKENS" envDefault:"1024"`
	LLMTopP        float32       `env:"LLM_TOP_P" envDefault:"1.0"`
	LLMTimeout     time.Duration `env:"LLM_TIMEOUT" envDefault:"60s"`

	SystemPrompt string `env:"SYSTEM_PROMPT" envDefault:"You are a helpful campus assistant. Answer briefly and stay on topic."`

	BotListenAddr string  `env:"BOT_LISTEN_ADDR" envDefault:":5700"`
	BotAPIURL     string  `env:"BOT_API_URL" envDefault:"http://localhost:3000"`
	CommandPrefix string  `env:"COMMAND_PREFIX" envDefault:"/"`
	AdminUserIDs  []int64 `env:"ADMIN_USER_IDS" envSeparator:" "`
	AutoCapture   bool    `env:"GROUP_AUTO_CAPTURE" envDefault:"true"`

	SessionCapacity    int           `env:"SESSION_CAPACITY" envDefault:"1000"`
	SessionMaxHistory  int           `env:"SESSION_MAX_HISTORY" envDefault:"20"`
	SessionIdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"10m"`
	HistoryLimit       int           `env:"HISTORY_LIMIT" envDefault:"10"`

	ConfigCacheCapacity int           `env:"CONFIG_CACHE_CAPACITY" envDefault:"500"`
	ConfigCacheTTL      time.Duration `env:"CONFIG_CACHE_TTL" envDefault:"5m"`

	PgURL string `env:"DATABASE_URL,required"`
}

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, logger.DefaultOptions)))

	if err := runMain(); err != nil {
		slog.Error("shutting down due to error", logger.Err(err))
		os.Exit(1)
	}
	slog.Info("shutdown complete")
}

func runMain() error {
	serviceGroup, err := setupServices()
	if err != nil {
		return err
	}

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case s := <-sigCh:
			slog.Info("shutting down due to signal", "signal", s.String())
			cancelFn()
		case <-ctx.Done():
		}
	}()

	return serviceGroup.Run(ctx)
}

func setupServices() (service.Group, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing env config: %w", err)
	}

	db, err := database.NewPostgres(cfg.PgURL)
	if err != nil {
		return nil, fmt.Errorf("creating db: %w", err)
	}

	llmClient, err := llm.NewClient(llm.Config{
		Token:       cfg.LLMToken,
		BaseURL:     cfg.LLMBaseURL,
		Temperature: cfg.LLMTemperature,
		MaxTokens:   cfg.LLMMaxTokens,
		TopP:        cfg.LLMTopP,
		Timeout:     cfg.LLMTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("creating llm client: %w", err)
	}

	botTransport := transport.NewHTTPTransport(cfg.BotListenAddr, cfg.BotAPIURL)
	admins := auth.NewAdminChecker(cfg.AdminUserIDs)

	sessionRepository := repository.NewSessionRepository(cfg.SessionCapacity, cfg.SessionIdleTimeout)
	userConfigRepository := repository.NewUserConfigRepository(db)
	groupConfigRepository := repository.NewGroupConfigRepository(db)
	studentRepository := repository.NewStudentRepository(db)
	gradeRepository := repository.NewGradeRepository(db)

	conversationService := services.NewConversationService(
		sessionRepository,
		cfg.SessionMaxHistory,
		cfg.SessionIdleTimeout,
	)
	strategyService := services.NewStrategyService(
		userConfigRepository,
		groupConfigRepository,
		cfg.ConfigCacheCapacity,
		cfg.ConfigCacheTTL,
		domain.EffectiveConfig{
			Strategy: domain.StrategyGenerative,
			Model:    cfg.LLMModel,
		},
	)
	studentService := services.NewStudentService(studentRepository)
	gradeService := services.NewGradeService(studentRepository, gradeRepository)
	pushService := services.NewPushService(botTransport)

	registry := command.NewRegistry(map[string]command.Handler{
		"bind":     command.NewBindHandler(studentService),
		"query":    command.NewQueryHandler(gradeService),
		"strategy": command.NewStrategyHandler(strategyService),
		"push":     command.NewPushHandler(pushService),
	})

	responseCh := make(chan domain.OutboundMessage)

	router := reply.NewRouter(
		strategyService,
		conversationService,
		reply.NewCommandStrategy(registry, cfg.CommandPrefix),
		reply.NewGenerativeStrategy(
			llmClient,
			conversationService,
			strategyService,
			cfg.SystemPrompt,
			cfg.HistoryLimit,
		),
		admins,
		cfg.CommandPrefix,
		cfg.AutoCapture,
		responseCh,
	)

	return service.Group{
		botTransport,
		workers.NewEventListener(botTransport, router, responseCh),
	}, nil
}
