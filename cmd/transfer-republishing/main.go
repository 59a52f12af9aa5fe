package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/db"
	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/db/models"
	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/lib/logging"
	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/lib/service"
	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/rabbitmq"
	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Replays ledger entries START_ID..END_ID (inclusive) onto the transfer
// exchange, e.g. after the broker was unreachable. Set DRY_RUN=true to only
// list what would be published.
func main() {
	c := &service.Config{}
	// Load configruation from environment variables
	err := godotenv.Load(".env")
	if err != nil {
		fmt.Println("Failed to load .env file")
	}
	err = envconfig.Process("", c)
	if err != nil {
		fmt.Printf("Error loading environment variables: %v\n", err)
		os.Exit(1)
	}
	logger := logging.Logger(c.LogFilePath, c.LogLevel)
	startID, endID, err := loadStartAndEndIdFromEnv()
	if err != nil {
		logger.Fatalf("Could not load start and end id from env %v", err)
	}
	if c.RabbitMQUri == "" {
		logger.Fatal("RABBITMQ_URI is required to republish transfers")
	}

	dbConn, err := db.Open(c)
	if err != nil {
		logger.Fatalf("Error initializing db connection: %v", err)
	}
	defer dbConn.Close()

	svc := &service.RegistryService{
		Config: c,
		DB:     dbConn,
		Logger: logger,
	}
	ctx := context.Background()
	result, err := svc.TransfersBetween(ctx, startID, endID)
	if err != nil {
		logger.Fatal(err)
	}
	logger.Infof("Found %d transfer events", len(result))

	dryRun := os.Getenv("DRY_RUN") == "true"
	if dryRun {
		for _, event := range result {
			logger.Infof("Would publish transfer event %d of token %d", event.EventID, event.TokenID)
		}
		return
	}

	amqpClient, err := rabbitmq.DialAMQP(c.RabbitMQUri, rabbitmq.WithAmqpLogger(logger))
	if err != nil {
		logger.Fatal(err)
	}

	rabbitmqClient, err := rabbitmq.NewClient(amqpClient,
		rabbitmq.WithLogger(logger),
		rabbitmq.WithTransferExchange(c.RabbitMQTransferExchange),
	)
	if err != nil {
		logger.Fatal(err)
	}
	// closes the underlying connection too
	defer rabbitmqClient.Close()

	// the publisher stops once the prefilled feed is drained
	replay := func() (chan models.TransferEvent, func(), error) {
		events := make(chan models.TransferEvent, len(result))
		for _, event := range result {
			events <- event
		}
		close(events)
		return events, func() {}, nil
	}
	err = rabbitmqClient.StartPublishTransferEvents(ctx, replay, svc.EncodeTransferEvent)
	if err != nil {
		logger.Error(err)
		sentry.CaptureException(err)
		os.Exit(1)
	}
	logger.Infof("Republished %d transfer events", len(result))
}

func loadStartAndEndIdFromEnv() (start, end int64, err error) {
	start, err = strconv.ParseInt(os.Getenv("START_ID"), 10, 64)
	if err != nil {
		return
	}
	end, err = strconv.ParseInt(os.Getenv("END_ID"), 10, 64)
	return
}
