package auth

import "context"

type contextKey string

var tenantClaimsKey contextKey = "tenant_claims"

// TenantClaims identifies the authenticated caller. Every API request is
// scoped to one tenant of the dashboard.
type TenantClaims struct {
	TenantID string
	KeyID    string
	KeyLabel string
}

func SetTenantClaims(ctx context.Context, claims *TenantClaims) context.Context {
	return context.WithValue(ctx, tenantClaimsKey, claims)
}

func GetTenantClaims(ctx context.Context) *TenantClaims {
	val := ctx.Value(tenantClaimsKey)
	if claims, ok := val.(*TenantClaims); ok {
		return claims
	}
	return nil
}
