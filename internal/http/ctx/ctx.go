package ctx

import (
	"github.com/valyala/fasthttp"
)

const (
	RequestIDKey     = "requestID"
	RequestIDHeader  = "X-Request-ID"
	maxRequestIDSize = 128
)

func SetRequestID(ctx *fasthttp.RequestCtx, id string) {
	ctx.SetUserValue(RequestIDKey, id)
}

func RequestIDFromCtx(ctx *fasthttp.RequestCtx) (string, bool) {
	v := ctx.UserValue(RequestIDKey)
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// IncomingRequestID returns the caller-supplied request id if it is short
// enough to be worth echoing.
func IncomingRequestID(ctx *fasthttp.RequestCtx) (string, bool) {
	v := ctx.Request.Header.Peek(RequestIDHeader)
	if len(v) == 0 || len(v) > maxRequestIDSize {
		return "", false
	}
	return string(v), true
}
