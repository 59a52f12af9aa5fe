package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/ziflex/lecho/v3"
)

// RegistryService owns the invoice, verification, token, transfer and admin
// tables. Every exported operation is serialized against all other mutating
// operations; lookups share a read lock.
type RegistryService struct {
	Config         *Config
	DB             *bun.DB
	Logger         *lecho.Logger
	TransferPubSub *Pubsub

	mu sync.RWMutex
}

// update runs fn as one step of the global order. Once admitted the step is
// not cancelled by the caller going away.
func (svc *RegistryService) update(ctx context.Context, operation string, fn func(ctx context.Context, tx bun.Tx) error, onCommit ...func()) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	err := svc.DB.RunInTx(context.WithoutCancel(ctx), svc.txOptions(), fn)
	observeOperation(operation, err)
	if err != nil {
		return err
	}
	for _, f := range onCommit {
		f()
	}
	return nil
}

func (svc *RegistryService) view(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	err := fn(ctx)
	observeOperation(operation, err)
	return err
}

func (svc *RegistryService) txOptions() *sql.TxOptions {
	if svc.DB.Dialect().Name() == dialect.PG {
		return &sql.TxOptions{Isolation: sql.LevelSerializable}
	}
	return &sql.TxOptions{}
}

func (svc *RegistryService) validateIdentifier(field, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s must not be empty", ErrInvalidData, field)
	}
	if len(value) > svc.Config.MaxIdentifierLength {
		return fmt.Errorf("%w: %s exceeds %d characters", ErrInvalidData, field, svc.Config.MaxIdentifierLength)
	}
	return nil
}

func (svc *RegistryService) validateTag(field, value string) error {
	if len(value) > svc.Config.MaxStatusLength {
		return fmt.Errorf("%w: %s exceeds %d characters", ErrInvalidData, field, svc.Config.MaxStatusLength)
	}
	return nil
}

func validateFuture(field string, value, clock int64) error {
	if value <= clock {
		return fmt.Errorf("%w: %s %d is not after clock %d", ErrInvalidData, field, value, clock)
	}
	return nil
}
