package models

import "github.com/uptrace/bun"

type AdminState struct {
	bun.BaseModel `bun:"table:admin_states"`

	ID       int64  `bun:",pk"`
	Identity string `bun:",notnull"`
}
