package models

import "github.com/uptrace/bun"

// Sequence holds the next value of one identifier space (tokens, transfer events).
type Sequence struct {
	bun.BaseModel `bun:"table:sequences"`

	Name      string `bun:",pk"`
	NextValue int64  `bun:",notnull"`
}
