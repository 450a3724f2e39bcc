package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/orderflow-dashboard/pkg/httpcontext"
)

// AccessLog logs one line per request and turns handler panics into a 500.
func AccessLog(logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			started := time.Now()
			reqID := httpcontext.RequestID(ctx)

			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("handler panic",
						zap.String("request_id", reqID),
						zap.ByteString("path", ctx.Path()),
						zap.String("panic", fmt.Sprint(rec)),
						zap.Stack("stack"))
					ctx.Response.Reset()
					ctx.Response.Header.Set(httpcontext.HeaderRequestID, reqID)
					ctx.Response.Header.SetContentType("application/json")
					ctx.SetStatusCode(http.StatusInternalServerError)
					ctx.SetBodyString(`{"status":"error","code":"INTERNAL","error":"internal error"}`)
				}

				status := ctx.Response.StatusCode()
				fields := []zap.Field{
					zap.String("request_id", reqID),
					zap.ByteString("method", ctx.Method()),
					zap.ByteString("path", ctx.Path()),
					zap.Int("status", status),
					zap.Duration("elapsed", time.Since(started)),
				}
				if status >= http.StatusInternalServerError {
					logger.Warn("request completed", fields...)
					return
				}
				logger.Info("request completed", fields...)
			}()

			next(ctx)
		}
	}
}
