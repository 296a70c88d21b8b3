package audit

import "context"

type ctxKey struct{}

// RequestInfo identifies who made a request and from where.
type RequestInfo struct {
	UserID    *uint
	IPAddress string
	UserAgent string
	SessionID string
	RequestID string
	Endpoint  string
}

// WithRequestInfo attaches request metadata so entries written deeper in the
// call chain carry it.
func WithRequestInfo(ctx context.Context, info RequestInfo) context.Context {
	return context.WithValue(ctx, ctxKey{}, info)
}

func RequestInfoFrom(ctx context.Context) RequestInfo {
	if ctx == nil {
		return RequestInfo{}
	}
	if info, ok := ctx.Value(ctxKey{}).(RequestInfo); ok {
		return info
	}
	return RequestInfo{}
}
