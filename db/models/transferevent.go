package models

import "github.com/uptrace/bun"

// TransferEvent : Transfer Ledger Model, append only
type TransferEvent struct {
	bun.BaseModel `bun:"table:transfer_events"`

	EventID   int64  `json:"event_id" bun:",pk"`
	TokenID   int64  `json:"token_id" bun:",notnull"`
	From      string `json:"from" bun:"sender,notnull"`
	To        string `json:"to" bun:"recipient,notnull"`
	Amount    int64  `json:"amount" bun:",notnull"`
	Timestamp int64  `json:"timestamp" bun:"transferred_at,notnull"`
}
