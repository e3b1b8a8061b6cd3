package admin

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/nagrik-labs/nagrikai/internal/api/handlers"
	"github.com/nagrik-labs/nagrikai/internal/config"
	"github.com/nagrik-labs/nagrikai/internal/jobs"
	"github.com/nagrik-labs/nagrikai/internal/openai"
	"github.com/nagrik-labs/nagrikai/internal/repository"
	"github.com/nagrik-labs/nagrikai/internal/server"
	"github.com/nagrik-labs/nagrikai/internal/service"
	"github.com/nagrik-labs/nagrikai/internal/storage"
	"github.com/nagrik-labs/nagrikai/internal/telemetry"
	"github.com/spf13/cobra"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the answer API server",
		Long:  "Start the citizen answer API server together with the embedding worker",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}

		sampleRate := 0.1
		if environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              dsn,
			Environment:      environment,
			TracesSampleRate: sampleRate,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	log.Println("connected to database")

	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	if !cfg.HasOpenAI() {
		return fmt.Errorf("NAGRIK_OPENAI_API_KEY is required: the answer pipeline cannot run without a model provider")
	}

	knowledgeRepo := repository.NewKnowledgeRepository(pool)
	embeddingJobRepo := repository.NewEmbeddingJobRepository(pool)
	searchRepo := repository.NewSearchRepository(pool)
	txRunner := repository.NewTxRunner(pool)

	aiClient := openai.NewClientWithConfig(openai.Config{
		APIKey:         cfg.OpenAIAPIKey,
		EmbeddingModel: cfg.EmbeddingModel,
		ChatModel:      cfg.ChatModel,
	})

	embeddingSvc := service.NewEmbeddingService(aiClient, knowledgeRepo, cfg.EmbedTimeout)

	embeddingProcessor := jobs.NewEmbeddingWorker(embeddingJobRepo, embeddingSvc)
	embeddingWorker := jobs.NewWorker(embeddingProcessor, 10*time.Second)
	go embeddingWorker.Start(ctx)
	log.Println("embedding worker started")

	var archive service.AudioArchive
	if cfg.HasS3() {
		audioArchive, err := storage.NewAudioArchive(ctx, storage.AudioArchiveConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			UsePathStyle:    true,
		})
		if err != nil {
			return fmt.Errorf("failed to create audio archive: %w", err)
		}
		if err := audioArchive.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("failed to ensure audio bucket: %w", err)
		}
		log.Printf("audio archive bucket '%s' ready", cfg.S3Bucket)
		archive = audioArchive
	}

	retriever := service.NewRetriever(searchRepo, service.RetrieverConfig{
		Namespaces:   cfg.Namespaces,
		TopK:         cfg.TopK,
		QueryTimeout: cfg.QueryTimeout,
	})
	assembler := service.NewContextAssembler(cfg.ContextCharBudget)
	generator := service.NewAnswerGenerator(aiClient, service.GeneratorConfig{
		AssistantName:     cfg.AssistantName,
		Jurisdiction:      cfg.Jurisdiction,
		CompletionTimeout: cfg.CompletionTimeout,
	})

	answerSvc := service.NewAnswerService(
		embeddingSvc, retriever, assembler, generator, aiClient,
		cfg.DefaultLanguage, cfg.TranslateTimeout,
	)
	transcriptionSvc := service.NewTranscriptionService(aiClient, archive, cfg.TranscribeTimeout)
	knowledgeSvc := service.NewKnowledgeService(txRunner, knowledgeRepo)

	router := server.NewRouter(server.RouterConfig{
		AdminToken:       cfg.AdminToken,
		AnswerHandler:    handlers.NewAnswerHandler(answerSvc, transcriptionSvc),
		KnowledgeHandler: handlers.NewKnowledgeHandler(knowledgeSvc),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	embeddingWorker.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

func runMigrations(databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if err == migrate.ErrNilVersion {
		log.Println("migrations: database is up to date (no migrations applied)")
	} else if dirty {
		return fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	} else if err == migrate.ErrNoChange {
		log.Printf("migrations: database is up to date (version %d)", version)
	} else {
		log.Printf("migrations: applied successfully (version %d)", version)
	}

	return nil
}
