package middleware

import (
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	httpctx "surveyreport/internal/http/ctx"
)

// RequestID tags every request with an id, reusing X-Request-ID when the
// caller sent one, and echoes it on the response.
func RequestID(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		id, ok := httpctx.IncomingRequestID(ctx)
		if !ok {
			id = uuid.NewString()
		}
		httpctx.SetRequestID(ctx, id)
		ctx.Response.Header.Set(httpctx.RequestIDHeader, id)
		next(ctx)
	}
}
