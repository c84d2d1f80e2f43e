package bootstrap

import (
	"context"
	"log"
	"time"

	"coding-assessment-be/internal/config"
	"coding-assessment-be/internal/controller"
	"coding-assessment-be/internal/handler"
	"coding-assessment-be/internal/pkg/logger"
	"coding-assessment-be/internal/pkg/serverutils"
	"coding-assessment-be/internal/repository/contract"
	"coding-assessment-be/internal/repository/memory"
	redisrepo "coding-assessment-be/internal/repository/redis"
	"coding-assessment-be/internal/repository/unitofwork"
	"coding-assessment-be/internal/service"
	"coding-assessment-be/internal/websocket"
	"coding-assessment-be/pkg/assessment"
	"coding-assessment-be/pkg/llm"
	"coding-assessment-be/pkg/llm/factory"

	pktNats "coding-assessment-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

const historyTTL = 24 * time.Hour

type Container struct {
	// Controllers
	SessionController  controller.ISessionController
	LiveSessionHandler *handler.LiveSessionHandler

	// Background Services (Exposed for main.go to run)
	ReportConsumer service.IReportConsumer

	WebSocketHub *websocket.Hub

	closers []func()
}

// NewContainer wires the application. db may be nil when the memory storage driver is selected.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	c := &Container{}

	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	c.closers = append(c.closers, func() { _ = sysLogger.Sync() })

	var store contract.AssessmentStore
	if cfg.App.StorageDriver == "postgres" && db != nil {
		store = unitofwork.NewAssessmentStore(unitofwork.NewRepositoryFactory(db))
		log.Printf("[INFO] Using storage driver: POSTGRES")
	} else {
		store = memory.NewAssessmentStore()
		log.Printf("[INFO] Using storage driver: MEMORY")
	}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Infrastructure
	// NATS
	var sink service.EventSink
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		sink = natsPub
		c.closers = append(c.closers, natsPub.Close)
	}
	eventPublisher := service.NewNatsEventPublisher(sink, sysLogger)

	// Redis
	historyRepo := newHistoryRepository(cfg, c)

	// LLM
	llmProvider, err := factory.NewLLMProvider(context.Background(), cfg.Ai)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)
	pipeline := assessment.NewLLMPipeline(llmProvider, llm.WithTemperature(cfg.Ai.Temperature))

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger(cfg.App.WsLogFilePath)
	c.closers = append(c.closers, func() { _ = wsLogger.Sync() })
	wsHub := websocket.NewHub(wsLogger)
	c.WebSocketHub = wsHub

	// 4. Services
	historyService := service.NewHistoryService(historyRepo)
	sequencer := service.NewSessionSequencer()

	trigger := service.NewTriggerEngine(service.TriggerConfig{
		MinInterval:    cfg.Assessment.TriggerMinInterval,
		MinChangeLines: cfg.Assessment.TriggerMinChangeLines,
	}, sysLogger)

	assembler := service.NewContextAssembler(historyService, service.ContextConfig{
		MaxHistoryMessages:    cfg.Assessment.MaxHistoryMessages,
		ReportHistoryMessages: cfg.Assessment.ReportHistoryMessages,
	})

	orchestrator := service.NewOrchestrator(
		store,
		historyService,
		assembler,
		pipeline,
		wsHub, // Hub implements Notifier
		eventPublisher,
		sysLogger,
	)
	router := service.NewEventRouter(store, trigger, orchestrator, wsHub, sequencer, sysLogger)

	publisherService := service.NewPublisherService(pubSub, cfg.Assessment.ReportTopic)
	c.ReportConsumer = service.NewReportConsumer(pubSub, cfg.Assessment.ReportTopic, orchestrator, sequencer, sysLogger)

	tokens := serverutils.NewSessionTokenIssuer(cfg.Auth.JwtSecret, cfg.Auth.SessionTokenTTL)
	sessionService := service.NewSessionService(store, tokens, publisherService, sysLogger)

	// 5. Controllers & Handlers
	c.SessionController = controller.NewSessionController(sessionService)
	c.LiveSessionHandler = handler.NewLiveSessionHandler(wsHub, router, store, tokens, wsLogger)

	return c
}

func newHistoryRepository(cfg *config.Config, c *Container) contract.HistoryRepository {
	if cfg.App.HistoryDriver != "redis" {
		log.Printf("[INFO] Using history driver: MEMORY")
		return memory.NewHistoryRepository(historyTTL)
	}

	rdb, err := redisrepo.NewClient(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Falling back to in-memory history", err)
		return memory.NewHistoryRepository(historyTTL)
	}
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Falling back to in-memory history", err)
		_ = rdb.Close()
		return memory.NewHistoryRepository(historyTTL)
	}

	c.closers = append(c.closers, func() { _ = rdb.Close() })
	log.Printf("[INFO] Using history driver: REDIS")
	return redisrepo.NewHistoryRepository(rdb, historyTTL)
}

// Close releases connections in reverse order of acquisition.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}
