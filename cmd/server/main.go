package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/db"
	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/db/migrations"
	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/docs"
	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/lib/logging"
	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/lib/middlewares"
	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/lib/service"
	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/lib/transport"
	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/rabbitmq"
	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/uptrace/bun/migrate"
	ddEcho "gopkg.in/DataDog/dd-trace-go.v1/contrib/labstack/echo.v4"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// @title        Invoice Tokenization Registry
// @version      0.1.0
// @description  Registry of invoices, their verification and the transferable tokens minted from them.

// @BasePath  /

// @securityDefinitions.apikey  CallToken
// @in                          header
// @name                        Authorization
// @schemes                     https http
func main() {

	c := &service.Config{}

	// Load configruation from environment variables
	err := godotenv.Load(".env")
	if err != nil {
		fmt.Println("Failed to load .env file")
	}
	err = envconfig.Process("", c)
	if err != nil {
		log.Fatalf("Error loading environment variables: %v", err)
	}

	// Setup logging to STDOUT or a configrued log file
	logger := logging.Logger(c.LogFilePath, c.LogLevel)

	// Open a DB connection based on the configured DATABASE_URI
	dbConn, err := db.Open(c)
	if err != nil {
		logger.Fatalf("Error initializing db connection: %v", err)
	}

	// Migrate the DB
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), time.Minute)
	defer cancelStartup()
	migrator := migrate.NewMigrator(dbConn, migrations.Migrations)
	err = migrator.Init(startupCtx)
	if err != nil {
		logger.Fatalf("Error initializing db migrator: %v", err)
	}
	_, err = migrator.Migrate(startupCtx)
	if err != nil {
		logger.Fatalf("Error migrating database: %v", err)
	}
	// Setup exception tracking with Sentry if configured
	// sentry init needs to happen before the echo middlewares are added
	if c.SentryDSN != "" {
		if err = sentry.Init(sentry.ClientOptions{
			Dsn:              c.SentryDSN,
			IgnoreErrors:     []string{"401"},
			EnableTracing:    c.SentryTracesSampleRate > 0,
			TracesSampleRate: c.SentryTracesSampleRate,
		}); err != nil {
			logger.Errorf("sentry init error: %v", err)
		}
	}

	svc := &service.RegistryService{
		Config:         c,
		DB:             dbConn,
		Logger:         logger,
		TransferPubSub: service.NewPubsub(),
	}

	admin, err := svc.InitAdmin(startupCtx, c.InitialAdmin)
	if err != nil {
		logger.Fatalf("Error initializing admin: %v", err)
	}
	logger.Infof("Registry admin: %s", admin)

	// If no RABBITMQ_URI was provided we will not attempt to create a client
	// No rabbitmq features will be available in this case.
	var rabbitmqClient rabbitmq.Client
	if c.RabbitMQUri != "" {
		amqpClient, err := rabbitmq.DialAMQP(c.RabbitMQUri, rabbitmq.WithAmqpLogger(logger))
		if err != nil {
			logger.Fatal(err)
		}

		rabbitmqClient, err = rabbitmq.NewClient(amqpClient,
			rabbitmq.WithLogger(logger),
			rabbitmq.WithCallExchange(c.RabbitMQCallExchange),
			rabbitmq.WithCallConsumerQueueName(c.RabbitMQCallConsumerQueueName),
			rabbitmq.WithTransferExchange(c.RabbitMQTransferExchange),
		)
		if err != nil {
			logger.Fatal(err)
		}

		// close the connection gently at the end of the runtime
		defer rabbitmqClient.Close()
	}

	//init echo server
	e := transport.InitEcho(c, logger)
	//if Datadog is configured, add datadog middleware
	if c.DatadogAgentUrl != "" {
		tracer.Start(tracer.WithAgentAddr(c.DatadogAgentUrl))
		defer tracer.Stop()
		e.Use(ddEcho.Middleware(ddEcho.WithServiceName("invoice-registry")))
	}

	logMw := transport.CreateLoggingMiddleware(logger)
	// strict rate limit for requests that change the registry
	strictRateLimitMiddleware := transport.CreateRateLimitMiddleware(c.StrictRateLimit, c.BurstRateLimit)

	secured := e.Group("", middlewares.CallAuth(c.JWTSecret), logMw)
	securedWithStrictRateLimit := e.Group("", middlewares.CallAuth(c.JWTSecret), strictRateLimitMiddleware, logMw)

	transport.RegisterV2Endpoints(svc, e, secured, securedWithStrictRateLimit)

	//Swagger API spec
	docs.SwaggerInfo.Host = c.Host
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	var backgroundWg sync.WaitGroup
	backGroundCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if rabbitmqClient != nil {
		// Execute host calls delivered over rabbitmq
		backgroundWg.Add(1)
		go func() {
			defer backgroundWg.Done()
			err := rabbitmqClient.SubscribeToHostCalls(backGroundCtx, svc)
			if err != nil && err != context.Canceled {
				sentry.CaptureException(err)
				//without the consumer the registry only serves HTTP, so restart
				svc.Logger.Fatal(err)
			}
			svc.Logger.Info("Host call consumer done")
		}()

		//Start rabbit publisher
		backgroundWg.Add(1)
		go func() {
			defer backgroundWg.Done()
			err := rabbitmqClient.StartPublishTransferEvents(backGroundCtx,
				svc.SubscribeTransferEvents,
				svc.EncodeTransferEvent,
			)
			if err != nil && err != context.Canceled {
				svc.Logger.Error(err)
				sentry.CaptureException(err)
			}

			svc.Logger.Info("Rabbit transfer publisher done")
		}()
	}

	//Start Prometheus server if necessary
	if svc.Config.EnablePrometheus {
		go transport.StartPrometheusEcho(logger, svc, e)
	}

	// Start server
	go func() {
		if err := e.Start(fmt.Sprintf(":%v", c.Port)); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server")
		}
	}()

	<-backGroundCtx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal(err)
	}
	//Wait for graceful shutdown of background routines
	backgroundWg.Wait()
	svc.Logger.Info("Registry exiting gracefully. Goodbye.")
}
