package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"

	"github.com/Min-Trees/abc-interview-microservice/internal/config"
	"github.com/Min-Trees/abc-interview-microservice/internal/delivery/httpd"
	"github.com/Min-Trees/abc-interview-microservice/internal/middleware"
	"github.com/Min-Trees/abc-interview-microservice/internal/nlp"
	"github.com/Min-Trees/abc-interview-microservice/internal/repository"
	"github.com/Min-Trees/abc-interview-microservice/internal/service"
	"github.com/Min-Trees/abc-interview-microservice/internal/service/analyzer"
	"github.com/Min-Trees/abc-interview-microservice/internal/service/integration"
	"github.com/Min-Trees/abc-interview-microservice/internal/worker"
	"github.com/Min-Trees/abc-interview-microservice/internal/worker/queue"
)

type App struct {
	server        *http.Server
	logger        zerolog.Logger
	config        *config.Config
	gemini        *genai.Client
	rabbitMQRepo  repository.RabbitMQRepository
	gradingWorker worker.GradingWorker
	workerCancel  context.CancelFunc
}

// New builds every shared resource once. The embedder, analyzer and AI client
// are read-only after this point and shared by all requests.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	a := &App{logger: log, config: cfg}

	geminiCfg := integration.GeminiConfig{
		APIKey:          cfg.AI.APIKey,
		Model:           cfg.AI.Model,
		EmbeddingModel:  cfg.AI.EmbeddingModel,
		Timeout:         cfg.AI.Timeout,
		Temperature:     cfg.AI.Temperature,
		TopK:            cfg.AI.TopK,
		TopP:            cfg.AI.TopP,
		MaxOutputTokens: cfg.AI.MaxOutputTokens,
	}

	if cfg.AI.APIKey != "" && (cfg.AI.Enabled || cfg.NLP.EmbeddingProvider == "gemini") {
		client, err := integration.NewGeminiClient(ctx, cfg.AI.APIKey)
		if err != nil {
			return nil, err
		}
		a.gemini = client
	}

	var generator integration.TextGenerator
	switch {
	case !cfg.AI.Enabled:
		log.Info().Msg("AI grading disabled, using traditional grading only")
	case a.gemini == nil:
		log.Warn().Msg("No AI Studio API key configured, AI grading will always fall back")
	default:
		generator = integration.NewGeminiGenerator(a.gemini, geminiCfg, log)
	}

	var embedder analyzer.Embedder
	if cfg.NLP.EmbeddingProvider == "gemini" && a.gemini != nil {
		embedder = integration.NewGeminiEmbedder(a.gemini, geminiCfg)
	} else {
		embedder = analyzer.NewHashingEmbedder(cfg.NLP.EmbeddingDimensions)
	}
	log.Info().Str("provider", cfg.NLP.EmbeddingProvider).Msg("Embedding provider ready")

	textAnalyzer := nlp.NewAnalyzer(cfg.NLP.MaxKeywords)
	similarity := analyzer.NewSimilarityAnalyzer(embedder, log)
	engine := analyzer.NewGradingEngine(similarity, textAnalyzer, analyzer.Weights{
		Content:   cfg.Grading.ContentWeight,
		Structure: cfg.Grading.StructureWeight,
		Language:  cfg.Grading.LanguageWeight,
		Relevance: cfg.Grading.RelevanceWeight,
	}, log)

	aiClient := integration.NewAIStudioClient(generator, cfg.Grading.CorrectThreshold, log)

	questionClient := integration.NewQuestionClient(
		cfg.Services.Question.URL,
		cfg.Services.Question.Timeout,
		cfg.Services.Question.RetryCount,
		cfg.Services.Question.RetryDelay,
		log,
	)

	examClient := integration.NewExamClient(
		cfg.Services.Exam.URL,
		cfg.Services.Exam.Timeout,
		cfg.Services.Exam.RetryCount,
		cfg.Services.Exam.RetryDelay,
		log,
	)

	publisher := service.NewNopPublisher()
	if cfg.RabbitMQ.Enabled {
		repo, err := repository.NewRabbitMQRepository(cfg.RabbitMQ.URL, log)
		if err != nil {
			a.closeGemini()
			return nil, err
		}
		a.rabbitMQRepo = repo

		if err := repo.SetupQueue(cfg.RabbitMQ.Exchange, cfg.RabbitMQ.QueueName, cfg.RabbitMQ.RoutingKey); err != nil {
			a.close()
			return nil, err
		}

		publisher = queue.NewEventPublisher(
			queue.NewRabbitMQPublisher(repo.Channel(), log),
			cfg.RabbitMQ.Exchange,
			cfg.RabbitMQ.GradedRoutingKey,
			log,
		)
	}

	textService := service.NewTextService(similarity, textAnalyzer, cfg.Grading.SimilarityThreshold, log)

	gradingService := service.NewGradingService(aiClient, engine, log, service.GradingConfig{
		AIEnabled:    cfg.AI.Enabled,
		AIConfidence: cfg.Grading.AIConfidence,
	})

	examService := service.NewExamService(questionClient, examClient, gradingService, publisher, log, service.ExamConfig{
		BatchConcurrency: cfg.Grading.BatchConcurrency,
	})

	questionService := service.NewQuestionService(
		questionClient,
		examClient,
		similarity,
		cfg.Grading.QuestionDuplicateThreshold,
		log,
	)

	if a.rabbitMQRepo != nil {
		consumer := queue.NewRabbitMQConsumer(
			a.rabbitMQRepo.Channel(),
			cfg.RabbitMQ.QueueName,
			cfg.RabbitMQ.ConsumerTag,
			cfg.RabbitMQ.PrefetchCount,
			log,
		)
		a.gradingWorker = worker.NewGradingWorker(
			worker.NewWorkerPool(cfg.Worker.MaxWorkers, log),
			consumer,
			queue.NewMessageHandler(examService, log),
			cfg.Worker.JobTimeout,
			log,
		)
	}

	handler := httpd.NewHandler(
		textService,
		gradingService,
		examService,
		questionService,
		httpd.RouteTimeouts{
			Request: cfg.Server.RequestTimeout,
			Batch:   cfg.Server.BatchTimeout,
		},
		cfg.Server.Version,
		log,
	)

	router := chi.NewRouter()

	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.NewCORS(
		cfg.CORS.AllowedOrigins,
		cfg.CORS.AllowedMethods,
		cfg.CORS.AllowedHeaders,
		cfg.CORS.ExposedHeaders,
		cfg.CORS.AllowCredentials,
		cfg.CORS.MaxAge,
	))

	handler.RegisterRoutes(router)

	a.server = &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return a, nil
}

// Run starts the queue worker when messaging is enabled and blocks serving HTTP.
func (a *App) Run() error {
	if err := a.startWorker(); err != nil {
		return err
	}

	a.logger.Info().Msgf("Starting nlp service on %s", a.config.Server.Address)
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// RunWorker consumes exam submissions without serving HTTP until ctx is done.
func (a *App) RunWorker(ctx context.Context) error {
	if a.gradingWorker == nil {
		return fmt.Errorf("worker mode requires rabbitmq.enabled=true")
	}
	if err := a.startWorker(); err != nil {
		return err
	}

	<-ctx.Done()
	return nil
}

func (a *App) startWorker() error {
	if a.gradingWorker == nil {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.workerCancel = cancel
	if err := a.gradingWorker.Start(ctx); err != nil {
		cancel()
		a.logger.Error().Err(err).Msg("Failed to start grading worker")
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info().Msg("Shutting down nlp service...")

	var shutdownErr error
	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error().Err(err).Msg("Failed to shutdown HTTP server")
		shutdownErr = err
	}

	if a.gradingWorker != nil && a.workerCancel != nil {
		if err := a.gradingWorker.Stop(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to stop grading worker")
		}
		a.workerCancel()
	}

	a.close()

	a.logger.Info().Msg("Nlp service stopped")
	return shutdownErr
}

func (a *App) close() {
	if a.rabbitMQRepo != nil {
		if err := a.rabbitMQRepo.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close RabbitMQ connection")
		}
	}
	a.closeGemini()
}

func (a *App) closeGemini() {
	if a.gemini != nil {
		if err := a.gemini.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close AI Studio client")
		}
	}
}
