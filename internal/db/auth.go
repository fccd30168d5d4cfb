package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minaret/internal/model"
)

// UpsertAdmin creates the admin or resets its password, returning the ID.
func (s *pgStore) UpsertAdmin(ctx context.Context, email, hashedPassword string, name *string) (int, error) {
	const q = `
	INSERT INTO admins (email, hashed_password, name, created_at, updated_at)
	VALUES ($1, $2, $3, now(), now())
	ON CONFLICT (email) DO UPDATE
	   SET hashed_password = EXCLUDED.hashed_password,
	       name = COALESCE(EXCLUDED.name, admins.name),
	       updated_at = now()
	RETURNING id;`
	var id int
	if err := s.db.QueryRowContext(ctx, q, email, hashedPassword, name).Scan(&id); err != nil {
		log.Error().Err(err).Str("email", email).Msg("failed to upsert admin")
		return 0, err
	}
	return id, nil
}

// GetAdminByEmail returns nil, sql.ErrNoRows if not found.
func (s *pgStore) GetAdminByEmail(ctx context.Context, email string) (*model.Admin, error) {
	var a model.Admin
	const q = `
	SELECT id, email, hashed_password, name, created_at, updated_at
	  FROM admins
	 WHERE email = $1;`
	if err := s.db.GetContext(ctx, &a, q, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		log.Error().Err(err).Msg("failed to get admin by email")
		return nil, err
	}
	return &a, nil
}

// GetAdminByID returns nil, sql.ErrNoRows if not found.
func (s *pgStore) GetAdminByID(ctx context.Context, id int) (*model.Admin, error) {
	var a model.Admin
	const q = `
	SELECT id, email, hashed_password, name, created_at, updated_at
	  FROM admins
	 WHERE id = $1;`
	if err := s.db.GetContext(ctx, &a, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		log.Error().Err(err).Int("admin_id", id).Msg("failed to get admin by id")
		return nil, err
	}
	return &a, nil
}
