// Package authctx carries request-scoped identity and tracing values.
// The auth context is an explicit value passed through context.Context so the
// domain core stays testable without any ambient session state.
package authctx

import (
	"context"
)

// Role describes what a caller is allowed to see.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleViewer  Role = "viewer"
)

// AuthContext contains the authenticated caller's scope.
// CompanyID limits which deliveries are visible; admins see all companies.
type AuthContext struct {
	UserID    string
	Role      Role
	CompanyID string
}

// IsAdmin reports whether the caller has unrestricted company scope.
func (a *AuthContext) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanAccessCompany checks company-level visibility.
func (a *AuthContext) CanAccessCompany(companyID string) bool {
	if a.IsAdmin() {
		return true
	}
	return a.CompanyID == companyID
}

type authContextKey struct{}

// WithAuth adds AuthContext to context.
func WithAuth(ctx context.Context, auth *AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey{}, auth)
}

// GetAuth returns AuthContext from context, or nil when unauthenticated.
func GetAuth(ctx context.Context) *AuthContext {
	if v, ok := ctx.Value(authContextKey{}).(*AuthContext); ok {
		return v
	}
	return nil
}

// GetUserID returns user ID from context or empty string.
func GetUserID(ctx context.Context) string {
	if a := GetAuth(ctx); a != nil {
		return a.UserID
	}
	return ""
}

// GetCompanyID returns the caller's company scope or empty string.
func GetCompanyID(ctx context.Context) string {
	if a := GetAuth(ctx); a != nil {
		return a.CompanyID
	}
	return ""
}
