package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/JGonCor/lottery-platform-sub001/application"
	"github.com/JGonCor/lottery-platform-sub001/config"
	"github.com/JGonCor/lottery-platform-sub001/database"
	"github.com/JGonCor/lottery-platform-sub001/infrastructure"
	"github.com/JGonCor/lottery-platform-sub001/infrastructure/observability"
)

// Run initializes and starts the lottery platform
func Run(ctx context.Context) error {
	log.Println("Starting lottery platform...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize metrics
	if err := observability.InitializeGlobalMetrics(ctx, cfg); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}

	// Connect to NATS for event publishing and the oracle boundary
	log.Println("Connecting to NATS...")
	natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
	if err := natsClient.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	if err := natsClient.EnsureRandomnessStream(); err != nil {
		return fmt.Errorf("failed to ensure randomness stream: %w", err)
	}

	subjectMapper := infrastructure.NewEventSubjectMapper()
	eventPublisher := infrastructure.NewNATSEventPublisher(natsClient, subjectMapper)
	if err := eventPublisher.EnsureDomainEventStream(); err != nil {
		return fmt.Errorf("failed to ensure domain event stream: %w", err)
	}

	// Initialize unit of work factory
	uowFactory := infrastructure.NewUnitOfWorkFactory(db, eventPublisher)

	// Initialize the oracle and the application facade
	oracle := infrastructure.NewNATSRandomnessOracle(natsClient)
	app := application.NewApp(uowFactory, oracle, cfg)

	// Start the draw worker
	drawWorker := application.NewDrawWorker(app, cfg)
	stopWorker := drawWorker.Start(ctx)

	// Start consuming oracle fulfillments
	consumer := infrastructure.NewRandomnessConsumer(cfg.NATSServers, app)
	consumerErr := make(chan error, 1)
	go func() {
		consumerErr <- consumer.Start(ctx)
	}()

	// Wait for context cancellation or a consumer failure
	log.Printf("Lottery platform is running in %s mode...", cfg.Environment)
	select {
	case <-ctx.Done():
	case err := <-consumerErr:
		if err != nil {
			log.Printf("Randomness consumer failed: %v", err)
		}
	}

	// Cleanup resources
	log.Println("Shutting down lottery platform...")

	stopWorker()
	consumer.Stop()

	if err := natsClient.Close(); err != nil {
		log.Printf("Error closing NATS connection: %v", err)
	}

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := observability.GetMetrics().Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down metrics: %v", err)
	}

	// Close database connection
	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}
