package service

import (
	"context"
	"encoding/json"
	"io"

	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/db/models"
)

// transfer events buffered per subscriber before Publish starts dropping
const transferSubscriberBuffer = 256

// TransfersFor lists the ledger entries of one token, oldest first.
func (svc *RegistryService) TransfersFor(ctx context.Context, tokenID int64) (events []models.TransferEvent, err error) {
	err = svc.view(ctx, "get_transfers", func(ctx context.Context) error {
		if _, err := tokenIn(ctx, svc.DB, tokenID); err != nil {
			return err
		}
		events = []models.TransferEvent{}
		return svc.DB.NewSelect().Model(&events).Where("token_id = ?", tokenID).OrderExpr("event_id ASC").Scan(ctx)
	})
	return events, err
}

// TransfersBetween lists ledger entries with startID <= event_id <= endID
// across all tokens, in ledger order.
func (svc *RegistryService) TransfersBetween(ctx context.Context, startID, endID int64) (events []models.TransferEvent, err error) {
	err = svc.view(ctx, "get_transfers_between", func(ctx context.Context) error {
		events = []models.TransferEvent{}
		return svc.DB.NewSelect().
			Model(&events).
			Where("event_id >= ?", startID).
			Where("event_id <= ?", endID).
			OrderExpr("event_id ASC").
			Scan(ctx)
	})
	return events, err
}

// SubscribeTransferEvents streams transfer events committed after the call.
// The returned function ends the subscription and closes the channel.
func (svc *RegistryService) SubscribeTransferEvents() (events chan models.TransferEvent, unsubscribe func(), err error) {
	events = make(chan models.TransferEvent, transferSubscriberBuffer)
	subId := svc.TransferPubSub.Subscribe(events)
	return events, func() { svc.TransferPubSub.Unsubscribe(subId) }, nil
}

func (svc *RegistryService) EncodeTransferEvent(ctx context.Context, w io.Writer, event models.TransferEvent) error {
	return json.NewEncoder(w).Encode(event)
}

// publishTransfer runs while the write lock is still held so subscribers see
// events in ledger order.
func (svc *RegistryService) publishTransfer(event models.TransferEvent) {
	if svc.TransferPubSub == nil {
		return
	}
	if dropped := svc.TransferPubSub.Publish(event); dropped > 0 {
		svc.Logger.Warnf("Transfer event %d not delivered to %d slow subscriber(s)", event.EventID, dropped)
	}
}
