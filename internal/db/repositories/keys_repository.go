package repositories

import (
	"context"
	"database/sql"
	"errors"

	"urbanlight/columnforge/internal/constants"
	"urbanlight/columnforge/internal/models/entities"

	"github.com/jmoiron/sqlx"
)

type KeysRepo struct {
	db *sqlx.DB
}

func NewAPIKeysRepo(db *sqlx.DB) *KeysRepo {
	return &KeysRepo{db}
}

// GetByHash looks up an active API key by its hash. Returns nil without
// error when no key matches.
func (r *KeysRepo) GetByHash(ctx context.Context, keyHash string) (*entities.APIKey, error) {
	var key entities.APIKey

	err := r.db.QueryRowxContext(ctx, constants.GetAPIKeyByHash, keyHash).StructScan(&key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &key, nil
}

// Touch records key usage
func (r *KeysRepo) Touch(ctx context.Context, keyID string) error {
	_, err := r.db.ExecContext(ctx, constants.TouchAPIKey, keyID)
	return err
}

// Insert stores a freshly generated key
func (r *KeysRepo) Insert(ctx context.Context, id, tenantID, label, keyHash string) error {
	_, err := r.db.ExecContext(ctx, constants.InsertAPIKey, id, tenantID, label, keyHash)
	return err
}
