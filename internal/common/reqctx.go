package common

import (
	"context"
	"strings"

	"github.com/Rhymond/go-money"
)

// RequestContext carries per-request values set by the HTTP middleware.
type RequestContext struct {
	CorrelationID   string
	DisplayCurrency string // optional X-Carteira-Currency override
}

type contextKey int

const requestContextKey contextKey = iota

// WithRequestContext stores rc in ctx.
func WithRequestContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, requestContextKey, rc)
}

// RequestContextFromContext returns the stored RequestContext, or nil.
func RequestContextFromContext(ctx context.Context) *RequestContext {
	rc, _ := ctx.Value(requestContextKey).(*RequestContext)
	return rc
}

// CorrelationID returns the request's correlation id, or "".
func CorrelationID(ctx context.Context) string {
	if rc := RequestContextFromContext(ctx); rc != nil {
		return rc.CorrelationID
	}
	return ""
}

// ResolveDisplayCurrency returns the request override when it names a known
// ISO currency, otherwise fallback.
func ResolveDisplayCurrency(ctx context.Context, fallback string) string {
	if rc := RequestContextFromContext(ctx); rc != nil && rc.DisplayCurrency != "" {
		code := strings.ToUpper(strings.TrimSpace(rc.DisplayCurrency))
		if money.GetCurrency(code) != nil {
			return code
		}
	}
	return fallback
}
