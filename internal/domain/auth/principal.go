package auth

import "context"

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID     string
	EmployeeID string
	Name       string
	Email      string
	BadgeID    string
	IsAdmin    bool
}

// CanActFor reports whether the principal may read or write data of employeeID.
func (p Principal) CanActFor(employeeID string) bool {
	return p.IsAdmin || (p.EmployeeID != "" && p.EmployeeID == employeeID)
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
