package rabbitmq_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/common"
	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/db/models"
	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/lib/service"
	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/rabbitmq"
	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/rabbitmq/mock_rabbitmq"
	"github.com/golang/mock/gomock"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//go:generate mockgen -destination=./mock_rabbitmq/rabbitmq.go github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/rabbitmq RegistryService,AMQPClient

func TestSubscribeToHostCalls(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registryService := mock_rabbitmq.NewMockRegistryService(ctrl)
	amqpClient := mock_rabbitmq.NewMockAMQPClient(ctrl)

	client, err := rabbitmq.NewClient(amqpClient, rabbitmq.WithCallExchange("calls"), rabbitmq.WithCallConsumerQueueName("calls_consumer"))
	assert.NoError(t, err)

	ch := make(chan amqp.Delivery, 2)
	var deliveries <-chan amqp.Delivery = ch
	amqpClient.EXPECT().
		Listen(gomock.Any(), "calls", common.RoutingKeyCalls, "calls_consumer").
		Times(1).
		Return(deliveries, nil)

	// the operation comes from the routing key when the body leaves it out
	registryService.EXPECT().
		HandleHostCall(gomock.Any(), gomock.Eq(service.HostCall{
			Operation: service.OpGetAdmin,
			Caller:    "alice",
			Clock:     42,
		})).
		Times(1).
		Return(service.HostCallResult{Operation: service.OpGetAdmin, Ok: true, Result: "alice"}, nil)

	replies := make(chan amqp.Publishing, 2)
	amqpClient.EXPECT().
		PublishWithContext(gomock.Any(), "", "reply_queue", false, false, gomock.Any()).
		Times(2).
		DoAndReturn(func(_ context.Context, _, _ string, _, _ bool, msg amqp.Publishing) error {
			replies <- msg
			return nil
		})

	okCall, err := json.Marshal(map[string]interface{}{"caller": "alice", "clock": 42})
	require.NoError(t, err)
	ch <- amqp.Delivery{RoutingKey: "call.get_admin", ReplyTo: "reply_queue", CorrelationId: "first", Body: okCall}
	ch <- amqp.Delivery{RoutingKey: "call.get_admin", ReplyTo: "reply_queue", CorrelationId: "second", Body: []byte("{not json")}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- client.SubscribeToHostCalls(ctx, registryService)
	}()

	first := receiveReply(t, replies)
	assert.Equal(t, "first", first.CorrelationId)
	assert.NotEmpty(t, first.MessageId)
	result := service.HostCallResult{}
	require.NoError(t, json.Unmarshal(first.Body, &result))
	assert.True(t, result.Ok)
	assert.Equal(t, "alice", result.Result)

	second := receiveReply(t, replies)
	assert.Equal(t, "second", second.CorrelationId)
	result = service.HostCallResult{}
	require.NoError(t, json.Unmarshal(second.Body, &result))
	assert.False(t, result.Ok)
	assert.Equal(t, "InvalidData", result.Error)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestSubscribeToHostCallsReportsInternalErrors(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registryService := mock_rabbitmq.NewMockRegistryService(ctrl)
	amqpClient := mock_rabbitmq.NewMockAMQPClient(ctrl)

	client, err := rabbitmq.NewClient(amqpClient)
	assert.NoError(t, err)

	ch := make(chan amqp.Delivery, 1)
	var deliveries <-chan amqp.Delivery = ch
	amqpClient.EXPECT().
		Listen(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(deliveries, nil)

	registryService.EXPECT().
		HandleHostCall(gomock.Any(), gomock.Any()).
		Return(service.HostCallResult{Operation: service.OpGetToken}, errors.New("database is gone"))

	replies := make(chan amqp.Publishing, 1)
	amqpClient.EXPECT().
		PublishWithContext(gomock.Any(), "", "reply_queue", false, false, gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ string, _, _ bool, msg amqp.Publishing) error {
			replies <- msg
			return nil
		})

	body, err := json.Marshal(service.HostCall{Operation: service.OpGetToken, Caller: "bob", Args: json.RawMessage(`{"token_id":0}`)})
	require.NoError(t, err)
	ch <- amqp.Delivery{ReplyTo: "reply_queue", Body: body}
	close(ch)

	err = client.SubscribeToHostCalls(context.Background(), registryService)
	assert.ErrorIs(t, err, rabbitmq.ErrDisconnected)

	reply := receiveReply(t, replies)
	result := service.HostCallResult{}
	require.NoError(t, json.Unmarshal(reply.Body, &result))
	assert.False(t, result.Ok)
	assert.Equal(t, "Internal", result.Error)
	assert.Equal(t, service.OpGetToken, result.Operation)
}

func TestSubscribeToHostCallsWithoutReplyTo(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registryService := mock_rabbitmq.NewMockRegistryService(ctrl)
	amqpClient := mock_rabbitmq.NewMockAMQPClient(ctrl)

	client, err := rabbitmq.NewClient(amqpClient)
	assert.NoError(t, err)

	ch := make(chan amqp.Delivery, 1)
	var deliveries <-chan amqp.Delivery = ch
	amqpClient.EXPECT().
		Listen(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(deliveries, nil)
	registryService.EXPECT().
		HandleHostCall(gomock.Any(), gomock.Any()).
		Return(service.HostCallResult{Ok: true}, nil)
	// fire and forget calls get no reply
	amqpClient.EXPECT().PublishWithContext(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	ch <- amqp.Delivery{Body: []byte(`{"operation":"get_admin","caller":"alice","clock":1}`)}
	close(ch)

	assert.ErrorIs(t, client.SubscribeToHostCalls(context.Background(), registryService), rabbitmq.ErrDisconnected)
}

func TestStartPublishTransferEvents(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	amqpClient := mock_rabbitmq.NewMockAMQPClient(ctrl)

	client, err := rabbitmq.NewClient(amqpClient, rabbitmq.WithTransferExchange("transfers"))
	assert.NoError(t, err)

	amqpClient.EXPECT().
		ExchangeDeclare("transfers", "topic", true, false, false, false, gomock.Nil()).
		Times(1).
		Return(nil)

	published := make(chan amqp.Publishing, 2)
	amqpClient.EXPECT().
		PublishWithContext(gomock.Any(), "transfers", common.RoutingKeyTransfer, false, false, gomock.Any()).
		Times(2).
		DoAndReturn(func(_ context.Context, _, _ string, _, _ bool, msg amqp.Publishing) error {
			// the buffer is reused once this returns
			msg.Body = append([]byte(nil), msg.Body...)
			published <- msg
			return nil
		})

	events := make(chan models.TransferEvent, 2)
	unsubscribed := make(chan struct{})
	subscribe := func() (chan models.TransferEvent, func(), error) {
		return events, func() { close(unsubscribed) }, nil
	}
	encode := func(ctx context.Context, w io.Writer, event models.TransferEvent) error {
		return json.NewEncoder(w).Encode(event)
	}

	events <- models.TransferEvent{EventID: 0, TokenID: 3, From: "alice", To: "bob", Amount: 1000, Timestamp: 5}
	events <- models.TransferEvent{EventID: 1, TokenID: 3, From: "bob", To: "carol", Amount: 1000, Timestamp: 6}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- client.StartPublishTransferEvents(ctx, subscribe, encode)
	}()

	for _, expected := range []string{"bob", "carol"} {
		msg := receiveReply(t, published)
		assert.Equal(t, "application/json", msg.ContentType)
		event := models.TransferEvent{}
		require.NoError(t, json.Unmarshal(msg.Body, &event))
		assert.Equal(t, expected, event.To)
		assert.Equal(t, int64(3), event.TokenID)
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	<-unsubscribed
}

func TestStartPublishTransferEventsStopsOnClosedFeed(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	amqpClient := mock_rabbitmq.NewMockAMQPClient(ctrl)
	client, err := rabbitmq.NewClient(amqpClient)
	assert.NoError(t, err)

	amqpClient.EXPECT().ExchangeDeclare(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	var eventIDs []int64
	amqpClient.EXPECT().
		PublishWithContext(gomock.Any(), "registry_transfer", common.RoutingKeyTransfer, false, false, gomock.Any()).
		Times(3).
		DoAndReturn(func(_ context.Context, _, _ string, _, _ bool, msg amqp.Publishing) error {
			event := models.TransferEvent{}
			require.NoError(t, json.Unmarshal(msg.Body, &event))
			eventIDs = append(eventIDs, event.EventID)
			return nil
		})

	events := make(chan models.TransferEvent, 3)
	for i := int64(4); i < 7; i++ {
		events <- models.TransferEvent{EventID: i, TokenID: 1, From: "alice", To: "bob", Amount: 10, Timestamp: i}
	}
	close(events)

	err = client.StartPublishTransferEvents(context.Background(), func() (chan models.TransferEvent, func(), error) {
		return events, func() {}, nil
	}, func(ctx context.Context, w io.Writer, event models.TransferEvent) error {
		return json.NewEncoder(w).Encode(event)
	})
	assert.NoError(t, err)
	assert.Equal(t, []int64{4, 5, 6}, eventIDs)
}

func TestStartPublishTransferEventsExchangeError(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	amqpClient := mock_rabbitmq.NewMockAMQPClient(ctrl)
	client, err := rabbitmq.NewClient(amqpClient)
	assert.NoError(t, err)

	declareErr := errors.New("access refused")
	amqpClient.EXPECT().ExchangeDeclare(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(declareErr)

	err = client.StartPublishTransferEvents(context.Background(), func() (chan models.TransferEvent, func(), error) {
		t.Fatal("subscribed before the exchange was declared")
		return nil, nil, nil
	}, nil)
	assert.ErrorIs(t, err, declareErr)
}

func receiveReply(t *testing.T, ch chan amqp.Publishing) amqp.Publishing {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a published message")
		return amqp.Publishing{}
	}
}
