package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dispatch/cmd"
	"dispatch/internal/adapters/in/telegram"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/notify"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
)

const pollerRestartDelay = 5 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := cmd.LoadConfig()
	if err != nil {
		logger.Error("configuration failed", "error", err)
		os.Exit(1)
	}

	db := postgres.MustConnect(cfg.DSN())
	if err := postgres.Migrate(db); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}

	customerBot, err := telegram.NewBot(cfg.CustomerBotToken, logger)
	if err != nil {
		logger.Error("customer bot init failed", "error", err)
		os.Exit(1)
	}
	courierBot, err := telegram.NewBot(cfg.CourierBotToken, logger)
	if err != nil {
		logger.Error("courier bot init failed", "error", err)
		os.Exit(1)
	}
	adminBot, err := telegram.NewBot(cfg.AdminBotToken, logger)
	if err != nil {
		logger.Error("admin bot init failed", "error", err)
		os.Exit(1)
	}

	root := cmd.NewCompositionRoot(cfg, db, notify.Senders{
		Customer: customerBot,
		Courier:  courierBot,
		Admin:    adminBot,
	}, logger)

	if err := root.SeedRoles(context.Background()); err != nil {
		logger.Error("admin role seed failed", "error", err)
		os.Exit(1)
	}

	if err := root.JobManager().StartAll(); err != nil {
		logger.Error("job startup failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	pollers := []*telegram.Poller{
		telegram.NewPoller(customerBot, root.Router(), kernel.RoleCustomer, logger),
		telegram.NewPoller(courierBot, root.Router(), kernel.RoleCourier, logger),
		telegram.NewPoller(adminBot, root.Router(), kernel.RoleAdmin, logger),
	}
	for _, poller := range pollers {
		g.Go(func() error {
			return supervise(ctx, poller, logger)
		})
	}

	e := echo.New()
	e.HideBanner = true
	root.HTTPServer().Register(e)

	g.Go(func() error {
		err := e.Start(fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort))
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	logger.Info("dispatch coordinator started", "http_port", cfg.HTTPPort)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("shutdown with error", "error", err)
	}

	root.JobManager().StopAll()
	root.Notifier().Wait()
	logger.Info("dispatch coordinator stopped")
}

// supervise restarts the poller when it dies with a live context, so a
// transport hiccup on one role's connection never takes the process down.
func supervise(ctx context.Context, poller *telegram.Poller, logger *slog.Logger) error {
	for {
		err := poller.Run(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		logger.Error("poller exited, restarting", "error", err)
		select {
		case <-time.After(pollerRestartDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
