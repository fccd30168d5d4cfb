// Package db persists the singleton iqamah/tarawih settings and the
// administrator accounts that may change them.
package db

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/Nixie-Tech-LLC/minaret/internal/model"
)

type Store interface {
	// settings
	GetIqamahSettings(ctx context.Context) (*model.IqamahConfiguration, error)
	SaveIqamahSettings(ctx context.Context, cfg model.IqamahConfiguration) (*model.IqamahConfiguration, error)
	GetTarawihSettings(ctx context.Context) (*model.TarawihConfiguration, error)
	SaveTarawihSettings(ctx context.Context, cfg model.TarawihConfiguration) (*model.TarawihConfiguration, error)

	// health
	Ping(ctx context.Context) error

	// admins
	UpsertAdmin(ctx context.Context, email, hashedPassword string, name *string) (int, error)
	GetAdminByEmail(ctx context.Context, email string) (*model.Admin, error)
	GetAdminByID(ctx context.Context, id int) (*model.Admin, error)
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore(conn *sqlx.DB) Store {
	return &pgStore{db: conn}
}

// Ping checks the connection without touching any table.
func (s *pgStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
