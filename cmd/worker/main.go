package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/planwise/planwise/internal/automation"
	"github.com/planwise/planwise/internal/config"
	"github.com/planwise/planwise/internal/database"
	"github.com/planwise/planwise/internal/logger"
	"github.com/planwise/planwise/internal/queue"
	"github.com/planwise/planwise/internal/services/ai"
)

const consumePrefetch = 5

func main() {
	// Parse command-line flags
	debugFlag := flag.Bool("debug", false, "Enable debug mode for LLM API logging")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Override debug mode if flag is set
	debugMode := cfg.WorkerDebugMode || *debugFlag

	// Initialize logger
	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		if syncErr := zapLogger.Sync(); syncErr != nil {
			// Ignore sync errors in production
			_ = syncErr
		}
	}()

	zapLogger.Info("starting_worker",
		zap.Bool("debug_mode", debugMode),
		zap.String("ai_model", cfg.AIModel),
		zap.Int("sync_hour", cfg.SyncHour),
		zap.Int("urgent_items_per_sync", cfg.UrgentItemsPerSync),
	)

	// Initialize database connection
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zapLogger.Warn("failed_to_close_database_connection", zap.Error(err))
		}
	}()

	zapLogger.Info("connected_to_database")

	// Initialize repositories
	userRepo := database.NewUserRepository(db)
	itemRepo := database.NewWorkItemRepository(db)
	blockRepo := database.NewBlockRepository(db)
	agendaRepo := database.NewAgendaRepository(db)

	// Initialize RabbitMQ queue
	jobQueue, err := queue.NewRabbitMQQueue(cfg.RabbitMQURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_rabbitmq", zap.Error(err))
	}
	defer func() {
		if err := jobQueue.Close(); err != nil {
			zapLogger.Warn("failed_to_close_rabbitmq_connection", zap.Error(err))
		}
	}()

	zapLogger.Info("connected_to_rabbitmq",
		zap.Int("prefetch", consumePrefetch),
	)

	// Create the agenda suggester. Without one the syncer always builds
	// agendas deterministically.
	suggester, err := createSuggester(cfg, zapLogger, debugMode)
	if err != nil {
		zapLogger.Warn("agenda_suggester_unavailable_using_fallback", zap.Error(err))
		suggester = nil
	} else {
		zapLogger.Info("initialized_agenda_suggester",
			zap.String("provider", cfg.AIProvider),
			zap.String("model", cfg.AIModel),
		)
	}

	// Create the sync pass runner and the nightly automation loop
	syncer := automation.NewSyncer(itemRepo, blockRepo, agendaRepo, userRepo, suggester, zapLogger, cfg.UrgentItemsPerSync)
	loop := automation.NewLoop(syncer, zapLogger, cfg.SyncHour)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop.Start(ctx)

	// Status endpoint for operators and planctl
	statusSrv := startStatusServer(cfg.WorkerStatusPort, loop, zapLogger)

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start consuming messages
	msgChan, errChan, err := jobQueue.Consume(ctx, consumePrefetch)
	if err != nil {
		zapLogger.Fatal("failed_to_start_consuming", zap.Error(err))
	}

	zapLogger.Info("worker_started_consuming")

	// Process messages
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgChan:
				if !ok {
					zapLogger.Info("message_channel_closed")
					return
				}
				processMessage(ctx, msg, syncer, jobQueue, zapLogger)
			}
		}
	}()

	// Handle errors
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-errChan:
				if !ok {
					return
				}
				zapLogger.Error("queue_error", zap.Error(err))
			}
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	zapLogger.Info("shutdown_signal_received")

	loop.Stop()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := statusSrv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Warn("status_server_shutdown_failed", zap.Error(err))
	}

	zapLogger.Info("worker_stopped")
}

// createSuggester builds the agenda suggester named by configuration. The
// openai provider is constructed directly so it carries the logger; anything
// else goes through the registry.
func createSuggester(cfg *config.Config, zapLogger *zap.Logger, debugMode bool) (ai.AgendaSuggester, error) {
	if cfg.AIProvider == "openai" {
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key not configured")
		}
		return ai.NewOpenAIProviderWithLogger(
			cfg.OpenAIKey,
			cfg.AIBaseURL,
			cfg.AIModel,
			zapLogger,
			debugMode,
		), nil
	}

	registry := ai.NewProviderRegistry()
	ai.RegisterOpenAI(registry)
	ai.RegisterFallback(registry)

	return registry.GetProvider(cfg.AIProvider, map[string]string{
		"api_key":  cfg.OpenAIKey,
		"model":    cfg.AIModel,
		"base_url": cfg.AIBaseURL,
	})
}

// processMessage runs one sync job and settles the delivery. Retryable
// failures are re-enqueued with a delay; exhausted jobs go to the DLQ.
func processMessage(ctx context.Context, msg *queue.Message, syncer *automation.Syncer, jobQueue queue.JobQueue, zapLogger *zap.Logger) {
	job := msg.GetJob()

	var err error
	switch job.Type {
	case queue.JobTypeSyncUser:
		if job.UserID == nil {
			err = fmt.Errorf("sync_user job %s has no user id", job.ID)
		} else {
			err = syncer.SyncUser(ctx, *job.UserID, job.TargetDate)
		}
	case queue.JobTypeSyncAll:
		err = syncer.SyncAll(ctx, job.TargetDate)
	default:
		err = fmt.Errorf("unknown job type %q", job.Type)
	}

	if err == nil {
		if ackErr := msg.Ack(); ackErr != nil {
			zapLogger.Error("failed_to_ack_message",
				zap.String("job_id", job.ID.String()),
				zap.Error(ackErr),
			)
		}
		return
	}

	zapLogger.Error("job_failed",
		zap.String("job_id", job.ID.String()),
		zap.String("job_type", string(job.Type)),
		zap.Int("retry_count", job.RetryCount),
		zap.Error(err),
	)

	if !job.CanRetry() {
		// Exhausted: route to the dead letter queue
		if nackErr := msg.Nack(false); nackErr != nil {
			zapLogger.Error("failed_to_nack_message", zap.Error(nackErr))
		}
		return
	}

	// Re-enqueue a delayed retry and drop the original delivery. Rate
	// limit errors push the delay out further.
	job.IncrementRetry()
	notBefore := time.Now().Add(ai.GetRetryDelay(err, job.RetryCount))
	job.NotBefore = &notBefore

	if enqueueErr := jobQueue.Enqueue(ctx, job); enqueueErr != nil {
		zapLogger.Error("failed_to_enqueue_retry",
			zap.String("job_id", job.ID.String()),
			zap.Error(enqueueErr),
		)
		if nackErr := msg.Nack(true); nackErr != nil {
			zapLogger.Error("failed_to_nack_message", zap.Error(nackErr))
		}
		return
	}

	if ackErr := msg.Ack(); ackErr != nil {
		zapLogger.Error("failed_to_ack_message", zap.Error(ackErr))
	}
}

// startStatusServer exposes the automation loop state on a local port.
func startStatusServer(port string, loop *automation.Loop, zapLogger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/statusz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(loop.Status()); err != nil {
			zapLogger.Warn("failed_to_encode_status", zap.Error(err))
		}
	})

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	go func() {
		zapLogger.Info("status_server_starting", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Error("status_server_failed", zap.Error(err))
		}
	}()

	return srv
}
