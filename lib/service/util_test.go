package service_test

import (
	"context"
	"fmt"

	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/db"
	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/db/migrations"
	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/lib/logging"
	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/lib/service"
	"github.com/google/uuid"
	"github.com/uptrace/bun/migrate"
)

const (
	testAdmin = "admin"
	alice     = "alice"
	bob       = "bob"
	carol     = "carol"
)

// newTestService migrates a private in-memory database and seeds the admin.
func newTestService() (*service.RegistryService, error) {
	c := &service.Config{
		DatabaseUri:         fmt.Sprintf("sqlite://file:%s?mode=memory&cache=shared", uuid.NewString()),
		InitialAdmin:        testAdmin,
		MaxIdentifierLength: 64,
		MaxStatusLength:     32,
		MaxPayloadLength:    1024,
	}

	dbConn, err := db.Open(c)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx := context.Background()
	migrator := migrate.NewMigrator(dbConn, migrations.Migrations)
	if err = migrator.Init(ctx); err != nil {
		return nil, fmt.Errorf("failed to init migrations: %w", err)
	}
	if _, err = migrator.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	svc := &service.RegistryService{
		Config:         c,
		DB:             dbConn,
		Logger:         logging.Logger("", "error"),
		TransferPubSub: service.NewPubsub(),
	}
	if _, err = svc.InitAdmin(ctx, c.InitialAdmin); err != nil {
		return nil, fmt.Errorf("failed to init admin: %w", err)
	}
	return svc, nil
}

func callAs(caller string, clock int64) service.Call {
	return service.Call{Caller: caller, Clock: clock}
}
