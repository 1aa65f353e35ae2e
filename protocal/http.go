package protocal

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"support-relay/configs"
	httpAdapter "support-relay/internal/adapters/input/http"
	lineAdapter "support-relay/internal/adapters/output/line"
	mailAdapter "support-relay/internal/adapters/output/mail"
	"support-relay/internal/adapters/output/memory"
	"support-relay/internal/adapters/output/openai"
	"support-relay/internal/adapters/output/postgres"
	"support-relay/internal/application"
	"support-relay/internal/domain"
	"support-relay/internal/ports/output"
	driver "support-relay/pkg/database_driver/gorm"
	"support-relay/pkg/metrics"

	swagger "github.com/arsmn/fiber-swagger/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type config struct {
	ENV string `mapstructure:"env"`
}

// server holds the fiber app and the resources released on shutdown
type server struct {
	app        *fiber.App
	dispatcher *application.NotificationDispatcher
	sessions   *memory.MemorySessionStore
}

// ServeHTTP func
func ServeHTTP() error {
	var cfg config
	flag.StringVar(&cfg.ENV, "env", "", "the environment to use")
	flag.Parse()
	configs.InitViper("./configs", cfg.ENV)
	conf := configs.GetViper()
	setupLogger(conf.App)
	logrus.Info(conf.App.Env)

	profile, err := configs.LoadProfile(conf.Catalog.ProfileFile)
	if err != nil {
		return err
	}
	intents, err := configs.LoadIntents(conf.Catalog.IntentsFile)
	if err != nil {
		return err
	}

	var db *gorm.DB
	dbConGorm, err := driver.ConnectToPostgreSQL(conf.Postgres)
	switch {
	case err == nil:
		db = dbConGorm.Postgres
	case errors.Is(err, driver.ErrNotConfigured):
		logrus.Info("Postgres not configured; support tickets are not persisted")
	default:
		return err
	}

	srv, err := newServer(conf, profile, intents, db)
	if err != nil {
		return err
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		logrus.Println("Gracefull shut down ...")
		if err := srv.app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logrus.Println("Error when shutdown server: ", err)
		}
	}()

	logrus.Println("Listerning on port: ", conf.App.Port)
	err = srv.app.Listen(":" + conf.App.Port)

	// Flush notifications already accepted before closing their stores
	srv.dispatcher.Wait()
	driver.DisconnectPostgres(db)
	return err
}

// setupLogger configures the package-level logrus logger
func setupLogger(app configs.App) {
	logrus.SetLevel(logrus.InfoLevel)
	if app.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	if app.Env == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}

// newServer wires the hexagonal layers and registers every route
func newServer(conf *configs.Config, profile domain.BusinessProfile, intents []domain.Intent, db *gorm.DB) (*server, error) {
	// Output adapters
	sessions := memory.NewMemorySessionStore(conf.Session.MaxTurns)
	collector := metrics.New(sessions.Len)
	completionClient := openai.NewOpenAIClientAdapter(conf.OpenAI)

	var lineClient output.LineClient
	if conf.Line.ChannelToken != "" {
		client, err := lineAdapter.NewLineClientAdapter(conf.Line.ChannelToken)
		if err != nil {
			return nil, err
		}
		lineClient = client
	}

	notifiers, err := buildNotifiers(conf, lineClient, db)
	if err != nil {
		return nil, err
	}

	// Application services
	dispatcher := application.NewNotificationDispatcher(notifiers, time.Duration(conf.Notification.Timeout)*time.Second, collector)
	gateway := application.NewCompletionGateway(completionClient, application.CompletionSettings{
		Model:       conf.OpenAI.Model,
		Temperature: conf.OpenAI.Temperature,
		MaxTokens:   conf.OpenAI.MaxTokens,
	}, collector)
	chatSrv := application.NewChatService(sessions, gateway, dispatcher, application.ChatServiceConfig{
		Profile:        profile,
		Intents:        intents,
		TriggerPhrases: conf.Support.TriggerPhrases,
		Acknowledgment: conf.Support.Acknowledgment,
		MaxTurns:       conf.Session.MaxTurns,
	}, collector)

	// Input adapters
	hdl := httpAdapter.New(chatSrv, db, sessions.Len)

	app := fiber.New(fiber.Config{
		ErrorHandler: httpAdapter.ErrorHandler,
	})
	app.Use(requestid.New())
	app.Use(httpAdapter.AccessLog())
	app.Use(recover.New())
	app.Use(helmet.New(helmet.Config{
		CrossOriginEmbedderPolicy: "unsafe-none",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept,Authorization",
	}))

	app.Get("/swagger/*", swagger.HandlerDefault) // default
	app.Get("/health", hdl.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(collector.Handler()))

	window := time.Duration(conf.RateLimit.Window) * time.Second
	api := app.Group("/api", httpAdapter.RateLimiter(conf.RateLimit.Max, window))
	{
		api.Post("/chat", hdl.Chat)
	}

	if lineClient != nil && conf.Line.ChannelSecret != "" {
		lineWebhookSrv := application.NewLineWebhookService(lineClient, chatSrv, profile.CompanyName)
		lineWebhookHdl := httpAdapter.NewLineWebhookHandler(lineWebhookSrv, conf.Line.ChannelSecret)
		webhook := app.Group("/webhook")
		{
			webhook.Post("/line", lineWebhookHdl.HandleWebhook)
		}
	}

	// Single-page front end: unknown GET paths get index.html
	publicDir := conf.App.PublicDir
	app.Static("/", publicDir)
	app.Get("*", func(c *fiber.Ctx) error {
		return c.SendFile(filepath.Join(publicDir, "index.html"))
	})

	return &server{app: app, dispatcher: dispatcher, sessions: sessions}, nil
}

// buildNotifiers enables every support transport that has its settings
func buildNotifiers(conf *configs.Config, lineClient output.LineClient, db *gorm.DB) ([]output.Notifier, error) {
	var notifiers []output.Notifier

	smtpNotifier, err := mailAdapter.NewSMTPNotifier(conf.SMTP, conf.Support)
	switch {
	case err == nil:
		notifiers = append(notifiers, smtpNotifier)
	case errors.Is(err, mailAdapter.ErrNotConfigured):
		logrus.Info("SUPPORT_EMAIL not configured; mail notifications disabled")
	default:
		return nil, fmt.Errorf("failed to set up mail notifications: %w", err)
	}

	if lineClient != nil && conf.Line.SupportUserID != "" {
		notifiers = append(notifiers, lineAdapter.NewOperatorNotifier(lineClient, conf.Line.SupportUserID))
	}

	if db != nil {
		tickets, err := postgres.NewSupportTicketRepository(db)
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, tickets)
	}

	return notifiers, nil
}
