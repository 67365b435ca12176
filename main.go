package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/BorisDmv/tweetbot/internal/config"
	"github.com/BorisDmv/tweetbot/internal/content"
	"github.com/BorisDmv/tweetbot/internal/db"
	"github.com/BorisDmv/tweetbot/internal/handlers"
	"github.com/BorisDmv/tweetbot/internal/logging"
	"github.com/BorisDmv/tweetbot/internal/metrics"
	appmiddleware "github.com/BorisDmv/tweetbot/internal/middleware"
	"github.com/BorisDmv/tweetbot/internal/publisher"
	"github.com/BorisDmv/tweetbot/internal/schedule"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "tweetbot",
		Short:        "Posts a generated joke to X/Twitter on a randomized schedule",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP endpoint invoked by the scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	})
	root.AddCommand(newGenerateCmd())
	return root
}

func newGenerateCmd() *cobra.Command {
	var post bool
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one tweet and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger := logging.NewLogger(cfg.LogLevel)
			if cfg.ClaudeAPIKey == "" {
				return errors.New("CLAUDE_API_KEY is required")
			}

			ctx := cmd.Context()
			text, err := content.NewGenerator(content.ConfigFrom(cfg), logger).Generate(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			if !post {
				return nil
			}

			if err := cfg.Validate(); err != nil {
				return err
			}
			backend, err := db.Open(ctx, cfg)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			store := db.NewStore(backend, logger, nil)
			defer store.Close()

			tw := publisher.NewTwitter(publisher.CredentialsFrom(cfg), cfg.TwitterAPIURL, nil, logger)
			result, err := tw.Publish(ctx, text)
			if err != nil {
				return err
			}
			store.UpdateLastPostTime(ctx, schedule.FormatTimestamp(time.Now()))
			fmt.Fprintf(cmd.OutOrStdout(), "posted tweet %s\n", result.ID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&post, "post", false, "also publish the tweet and record the post time")
	return cmd
}

func serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := config.Load()
	logger := logging.NewLogger(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Error("invalid configuration")
		return err
	}

	backend, err := db.Open(ctx, cfg)
	if err != nil {
		logger.WithError(err).Error("store connect failed")
		return err
	}
	m := metrics.New()
	store := db.NewStore(backend, logger, m.StoreError)
	defer store.Close()
	logger.WithField("backend", backend.Name()).Info("last post time store ready")

	bot := handlers.NewBotHandler(
		content.NewGenerator(content.ConfigFrom(cfg), logger),
		publisher.NewTwitter(publisher.CredentialsFrom(cfg), cfg.TwitterAPIURL, nil, logger),
		store,
		m,
		logger,
	)

	limiterCtx, stopLimiter := context.WithCancel(ctx)
	defer stopLimiter()

	r := handlers.NewRouter(handlers.RouterOptions{
		Bot:                bot,
		Metrics:            m.Handler(),
		Limiter:            appmiddleware.NewRateLimiter(limiterCtx, cfg.BotRateLimit, cfg.BotRateWindow),
		CorsAllowedOrigins: cfg.CorsAllowedOrigins,
	})

	// Generation plus publishing can take most of a minute.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(logging.Fields{"port": cfg.Port, "persona_mode": cfg.PersonaMode}).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-stop:
	case err := <-errCh:
		logger.WithError(err).Error("server error")
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("shutdown error")
		return err
	}
	return nil
}
