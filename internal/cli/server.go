package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"quizgate/internal/app"
	"quizgate/internal/config"
	"quizgate/internal/domain"
	"quizgate/internal/infra/directory"
	filestore "quizgate/internal/infra/file"
	"quizgate/internal/infra/memory"
	pgloader "quizgate/internal/infra/postgres"
	redisinfra "quizgate/internal/infra/redis"
	transport "quizgate/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the gate.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz gate",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var store app.CooldownStore
	switch {
	case redisClient != nil:
		store = redisinfra.NewCooldownStore(redisClient)
	case cfg.Cooldowns.File != "":
		store = filestore.NewCooldownStore(cfg.Cooldowns.File)
	default:
		store = memory.NewCooldownStore()
	}
	ledger, err := app.NewCooldownLedger(ctx, store, time.Duration(cfg.Quiz.FailureCooldown)*time.Hour, cfg.Quiz.CooldownMultiplier)
	if err != nil {
		return err
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	bankID := cfg.Quiz.BankID
	if bankID == "" {
		bankID = "default"
	}

	var loader memory.BankLoader = memory.NewStaticBankLoader(sampleBanks(bankID))
	switch {
	case pool != nil:
		loader = pgloader.NewBankLoader(pool)
	case cfg.Quiz.File != "":
		loader = filestore.NewBankLoader(cfg.Quiz.File)
	}

	bankTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var bankRepo app.BankRepository
	if redisClient != nil {
		bankRepo = redisinfra.NewBankRepository(redisClient, loader, bankTTL)
	} else {
		bankRepo = memory.NewBankRepository(loader, bankTTL)
	}

	settings := app.Settings{
		SourceMessageID: cfg.Gateway.SourceMessageID,
		BankID:          bankID,
		TimeLimit:       time.Duration(cfg.Quiz.TimeLimit) * time.Minute,
		MaxWrongAnswers: cfg.Quiz.MaxWrongAnswers,
		QuestionCount:   cfg.Quiz.QuestionCount,
		Target: domain.RoleTarget{
			AddRoleID:    strings.TrimSpace(cfg.RoleIDs.Add),
			RemoveRoleID: strings.TrimSpace(cfg.RoleIDs.Remove),
		},
	}

	hub := transport.NewHub()
	service := app.NewGateService(settings, ledger, bankRepo, app.NewSelector(nil), directory.NewClient(cfg.Directory.URL), hub)
	wsHandler := transport.NewWSHandler(service, hub)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz gate on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleBanks provides a minimal question set; swap in a file or Postgres
// loader for real deployments.
func sampleBanks(bankID string) map[string]domain.Bank {
	return map[string]domain.Bank{
		bankID: {
			ID: bankID,
			Questions: []domain.Question{
				{
					Prompt:  "What is 2 + 2?",
					Correct: "4",
					Wrong:   []string{"3", "5"},
				},
				{
					Prompt:  "Which rule is listed first in #rules?",
					Correct: "Be respectful",
					Wrong:   []string{"No spoilers", "English only"},
				},
			},
		},
	}
}
