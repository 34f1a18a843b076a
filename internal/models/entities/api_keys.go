package entities

import "time"

type APIKey struct {
	ID         string     `db:"id"`
	TenantID   string     `db:"tenant_id"`
	Label      string     `db:"label"`
	KeyHash    string     `db:"key_hash"`
	IsActive   bool       `db:"is_active"`
	CreatedAt  time.Time  `db:"created_at"`
	LastUsedAt *time.Time `db:"last_used_at"`
}
