package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ledgerdesk/internal/infrastructure/postgres"
	"ledgerdesk/internal/interfaces/scheduler"
	"ledgerdesk/internal/shared/config"
	"ledgerdesk/internal/shared/telemetry"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := context.Background()

	// Initialize telemetry (if enabled)
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Init(ctx, telemetry.Config{
			ServiceName:  cfg.Telemetry.ServiceName,
			Environment:  cfg.Telemetry.Environment,
			OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
			MetricsPort:  cfg.Telemetry.MetricsPort,
		})
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				log.Printf("Error shutting down telemetry: %v", err)
			}
		}()
		log.Println("Telemetry initialized")
	}

	// Initialize dependencies
	deps, err := NewDependencies(ctx, cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	// Run database migrations
	if err := postgres.Migrate(deps.DB); err != nil {
		return err
	}

	// Start the transaction event listener
	deps.Listener.Start(ctx)

	// Initialize scheduler (if enabled)
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		log.Println("Initializing scheduler...")

		scheduleTimes := make([]scheduler.ScheduleTime, 0, len(cfg.Scheduler.ScheduleTimes))
		for _, raw := range cfg.Scheduler.ScheduleTimes {
			st, err := scheduler.ParseScheduleTime(raw)
			if err != nil {
				return err
			}
			scheduleTimes = append(scheduleTimes, st)
		}

		sched = scheduler.New(scheduler.Config{
			ScheduleTimes: scheduleTimes,
			RunOnStartup:  cfg.Scheduler.RunOnStartup,
			WorkerCount:   cfg.Scheduler.WorkerCount,
			JobDelay:      cfg.Scheduler.JobDelay,
			QueueSize:     cfg.Scheduler.QueueSize,
		}, func(ctx context.Context) ([]scheduler.Job, error) {
			return []scheduler.Job{
				scheduler.NewAttestationExpiryJob(deps.AttestationService),
			}, nil
		})
		sched.Start()
	} else {
		log.Println("Scheduler is disabled")
	}

	// Build routes and start servers
	handler := SetupRoutes(deps, cfg)
	srv, redirectSrv := StartServers(NewServerConfigFromConfig(handler, cfg))

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	GracefulShutdown(srv, redirectSrv, sched, 30*time.Second)
	return nil
}
