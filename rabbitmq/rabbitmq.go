package rabbitmq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/common"
	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/db/models"
	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/lib/service"
	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/ziflex/lecho/v3"
)

// bufPool lets the publisher reuse encode buffers instead of allocating one
// per transfer event.
var bufPool = sync.Pool{
	New: func() interface{} { return new(bytes.Buffer) },
}

const (
	contentTypeJSON = "application/json"

	// reported on replies when the call failed for a reason outside the registry rules
	errorKindInternal = "Internal"
)

var ErrDisconnected = errors.New("disconnected from RabbitMQ")

type (
	SubscribeToTransferEventsFunc = func() (events chan models.TransferEvent, unsubscribe func(), err error)
	EncodeTransferEventFunc       = func(ctx context.Context, w io.Writer, event models.TransferEvent) error
)

type Client interface {
	// SubscribeToHostCalls executes host calls one at a time and replies to
	// ReplyTo when the caller asked for a reply.
	SubscribeToHostCalls(context.Context, RegistryService) error
	StartPublishTransferEvents(context.Context, SubscribeToTransferEventsFunc, EncodeTransferEventFunc) error
	// Close will close all connections to rabbitmq
	Close() error
}

type RegistryService interface {
	HandleHostCall(context.Context, service.HostCall) (service.HostCallResult, error)
}

type DefaultClient struct {
	amqpClient AMQPClient

	logger *lecho.Logger

	callExchange          string
	callConsumerQueueName string
	transferExchange      string
}

type ClientOption = func(client *DefaultClient)

func WithCallExchange(exchange string) ClientOption {
	return func(client *DefaultClient) {
		client.callExchange = exchange
	}
}

func WithCallConsumerQueueName(name string) ClientOption {
	return func(client *DefaultClient) {
		client.callConsumerQueueName = name
	}
}

func WithTransferExchange(exchange string) ClientOption {
	return func(client *DefaultClient) {
		client.transferExchange = exchange
	}
}

func WithLogger(logger *lecho.Logger) ClientOption {
	return func(client *DefaultClient) {
		client.logger = logger
	}
}

func NewClient(amqpClient AMQPClient, options ...ClientOption) (Client, error) {
	client := &DefaultClient{
		amqpClient: amqpClient,

		logger: lecho.New(
			os.Stdout,
			lecho.WithLevel(log.DEBUG),
			lecho.WithTimestamp(),
		),

		callExchange:          "registry_call",
		callConsumerQueueName: "registry_call_consumer",
		transferExchange:      "registry_transfer",
	}

	for _, opt := range options {
		opt(client)
	}

	return client, nil
}

func (client *DefaultClient) Close() error { return client.amqpClient.Close() }

func (client *DefaultClient) SubscribeToHostCalls(ctx context.Context, svc RegistryService) error {
	deliveryChan, err := client.amqpClient.Listen(ctx, client.callExchange, common.RoutingKeyCalls, client.callConsumerQueueName)
	if err != nil {
		return err
	}

	client.logger.Info("Starting host call consumer loop")
	for {
		select {
		case <-ctx.Done():
			return context.Canceled
		case delivery, ok := <-deliveryChan:
			if !ok {
				return ErrDisconnected
			}
			client.handleDelivery(ctx, svc, delivery)
		}
	}
}

func (client *DefaultClient) handleDelivery(ctx context.Context, svc RegistryService, delivery amqp.Delivery) {
	hostCall := service.HostCall{}
	if err := json.Unmarshal(delivery.Body, &hostCall); err != nil {
		client.logger.Errorf("Malformed host call %s: %v", delivery.MessageId, err)
		client.reply(ctx, delivery, service.HostCallResult{
			Error:   "InvalidData",
			Message: fmt.Sprintf("malformed host call: %v", err),
		})

		// Badly formatted calls will never succeed, so they are dropped
		// without requeueing.
		if err := delivery.Nack(false, false); err != nil {
			captureErr(client.logger, err)
		}
		return
	}
	if hostCall.Operation == "" {
		hostCall.Operation = strings.TrimPrefix(delivery.RoutingKey, "call.")
	}

	result, err := svc.HandleHostCall(ctx, hostCall)
	if err != nil {
		captureErr(client.logger, err)
		client.reply(ctx, delivery, service.HostCallResult{
			Operation: hostCall.Operation,
			Error:     errorKindInternal,
			Message:   err.Error(),
		})

		// Requeueing a call that hit a storage fault could apply it after
		// later calls and break the global order, so it is dropped.
		if err := delivery.Nack(false, false); err != nil {
			captureErr(client.logger, err)
		}
		return
	}

	client.reply(ctx, delivery, result)
	if err := delivery.Ack(false); err != nil {
		captureErr(client.logger, err)
	}
}

func (client *DefaultClient) reply(ctx context.Context, delivery amqp.Delivery, result service.HostCallResult) {
	if delivery.ReplyTo == "" {
		return
	}
	body, err := json.Marshal(result)
	if err != nil {
		captureErr(client.logger, err)
		return
	}
	err = client.amqpClient.PublishWithContext(ctx,
		// default exchange routes on the queue name
		"",
		delivery.ReplyTo,
		false,
		false,
		amqp.Publishing{
			ContentType:   contentTypeJSON,
			CorrelationId: delivery.CorrelationId,
			MessageId:     uuid.NewString(),
			Body:          body,
		},
	)
	if err != nil {
		captureErr(client.logger, err)
	}
}

func (client *DefaultClient) StartPublishTransferEvents(ctx context.Context, subscribeFunc SubscribeToTransferEventsFunc, payloadFunc EncodeTransferEventFunc) error {
	err := client.amqpClient.ExchangeDeclare(
		client.transferExchange,
		// topic is a type of exchange that allows routing messages to different queue's bases on a routing key
		"topic",
		// Durable and Non-Auto-Deleted exchanges will survive server restarts and remain
		// declared when there are no remaining bindings.
		true,
		false,
		// Non-Internal exchange's accept direct publishing
		false,
		// Nowait: We set this to false as we want to wait for a server response
		// to check whether the exchange was created succesfully
		false,
		nil,
	)
	if err != nil {
		return err
	}

	client.logger.Info("Starting rabbitmq transfer publisher")

	events, unsubscribe, err := subscribeFunc()
	if err != nil {
		return err
	}
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return context.Canceled
		case event, ok := <-events:
			// a closed feed means the source is drained
			if !ok {
				client.logger.Info("Transfer event feed closed, stopping publisher")
				return nil
			}
			if err := client.publishTransferEvent(ctx, event, payloadFunc); err != nil {
				captureErr(client.logger, err)
			}
		}
	}
}

func (client *DefaultClient) publishTransferEvent(ctx context.Context, event models.TransferEvent, payloadFunc EncodeTransferEventFunc) error {
	payload := bufPool.Get().(*bytes.Buffer)
	payload.Reset()
	defer bufPool.Put(payload)

	if err := payloadFunc(ctx, payload, event); err != nil {
		return err
	}

	err := client.amqpClient.PublishWithContext(ctx,
		client.transferExchange,
		common.RoutingKeyTransfer,
		false,
		false,
		amqp.Publishing{
			ContentType: contentTypeJSON,
			MessageId:   uuid.NewString(),
			Body:        payload.Bytes(),
		},
	)
	if err != nil {
		return err
	}

	client.logger.Debugf("Successfully published transfer event %d of token %d", event.EventID, event.TokenID)

	return nil
}

func captureErr(logger *lecho.Logger, err error) {
	logger.Error(err)
	sentry.CaptureException(err)
}
