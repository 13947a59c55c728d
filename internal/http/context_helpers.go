package httpx

import (
	"context"

	domainauth "github.com/wiqayah/admin-console/internal/domain/auth"
	"github.com/wiqayah/admin-console/internal/service"
)

// gateKey is an unexported context key type to avoid collisions across packages.
type gateKey struct{}

// SetGateInContext returns a child context carrying the browser's gate.
// If g is nil, the original ctx is returned unchanged.
func SetGateInContext(ctx context.Context, g *service.Gate) context.Context {
	if g == nil {
		return ctx
	}
	return context.WithValue(ctx, gateKey{}, g)
}

// GateFromContext returns the gate attached by the Sessions middleware.
func GateFromContext(ctx context.Context) (*service.Gate, bool) {
	g, ok := ctx.Value(gateKey{}).(*service.Gate)
	return g, ok && g != nil
}

// ProfileFromContext returns the admitted operator, if any.
func ProfileFromContext(ctx context.Context) (domainauth.Profile, bool) {
	g, ok := GateFromContext(ctx)
	if !ok {
		return domainauth.Profile{}, false
	}
	return g.Profile()
}
