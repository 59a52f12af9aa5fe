package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/common"
	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/db/models"
	"github.com/uptrace/bun"
)

// InitAdmin stores the first administrator. It is a no-op once an admin
// exists, so restarting with a different INITIAL_ADMIN never takes over.
func (svc *RegistryService) InitAdmin(ctx context.Context, identity string) (admin string, err error) {
	if identity == "" {
		return "", fmt.Errorf("%w: initial admin must not be empty", ErrInvalidData)
	}
	err = svc.update(ctx, "init_admin", func(ctx context.Context, tx bun.Tx) error {
		current, err := adminIn(ctx, tx)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if err == nil {
			admin = current
			return nil
		}
		state := models.AdminState{ID: common.AdminStateID, Identity: identity}
		if _, err := tx.NewInsert().Model(&state).Exec(ctx); err != nil {
			return err
		}
		admin = identity
		return nil
	})
	return admin, err
}

func (svc *RegistryService) CurrentAdmin(ctx context.Context) (admin string, err error) {
	err = svc.view(ctx, "get_admin", func(ctx context.Context) error {
		admin, err = adminIn(ctx, svc.DB)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: admin has not been initialized", ErrNotFound)
		}
		return err
	})
	return admin, err
}

// SetAdmin hands the admin role to newAdmin with immediate effect.
func (svc *RegistryService) SetAdmin(ctx context.Context, call Call, newAdmin string) error {
	if err := call.Validate(); err != nil {
		return err
	}
	return svc.update(ctx, "set_admin", func(ctx context.Context, tx bun.Tx) error {
		admin, err := adminIn(ctx, tx)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: admin has not been initialized", ErrUnauthorized)
		}
		if err != nil {
			return err
		}
		if call.Caller != admin {
			return fmt.Errorf("%w: %s is not the admin", ErrUnauthorized, call.Caller)
		}
		if newAdmin == "" {
			return fmt.Errorf("%w: new admin must not be empty", ErrInvalidData)
		}
		_, err = tx.NewUpdate().
			Model((*models.AdminState)(nil)).
			Set("identity = ?", newAdmin).
			Where("id = ?", common.AdminStateID).
			Exec(ctx)
		if err != nil {
			return err
		}
		svc.Logger.Infof("Admin changed: from:%s to:%s clock:%d", admin, newAdmin, call.Clock)
		return nil
	})
}

func adminIn(ctx context.Context, db bun.IDB) (string, error) {
	state := models.AdminState{}
	err := db.NewSelect().Model(&state).Where("id = ?", common.AdminStateID).Limit(1).Scan(ctx)
	if err != nil {
		return "", err
	}
	return state.Identity, nil
}

// adminOrNone is adminIn for authorization checks: without an admin nobody
// gets admin rights.
func adminOrNone(ctx context.Context, db bun.IDB) (string, error) {
	admin, err := adminIn(ctx, db)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return admin, err
}

func isAdminOr(admin, caller string, others ...string) bool {
	if caller == "" {
		return false
	}
	if caller == admin {
		return true
	}
	for _, other := range others {
		if caller == other {
			return true
		}
	}
	return false
}
