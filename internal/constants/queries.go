package constants

const (
	GetAPIKeyByHash = `
	SELECT * FROM api_keys WHERE key_hash = $1 AND is_active = true
	`

	TouchAPIKey = `
	UPDATE api_keys SET last_used_at = NOW() WHERE id = $1
	`

	InsertAPIKey = `
	INSERT INTO api_keys (id, tenant_id, label, key_hash, is_active, created_at)
	VALUES ($1, $2, $3, $4, true, NOW())
	`
)
