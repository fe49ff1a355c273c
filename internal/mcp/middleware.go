package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/workflow/internal/metrics"
)

type contextKey int

const sessionIDKey contextKey = iota

func getSessionID(ctx context.Context) string {
	v, _ := ctx.Value(sessionIDKey).(string)
	return v
}

// sessionMiddleware stores the caller's session ID in the context. HTTP
// clients send it as Mcp-Session-Id; stdio clients may put it in _meta.
func sessionMiddleware() sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if id := requestSessionID(req); id != "" {
				ctx = context.WithValue(ctx, sessionIDKey, id)
			}
			return next(ctx, method, req)
		}
	}
}

func requestSessionID(req sdkmcp.Request) (id string) {
	if req == nil {
		return ""
	}
	// Some request kinds carry typed-nil params or sessions.
	defer func() {
		if recover() != nil {
			id = ""
		}
	}()

	if extra := req.GetExtra(); extra != nil && extra.Header != nil {
		if id = extra.Header.Get("Mcp-Session-Id"); id != "" {
			return id
		}
	}
	if params := req.GetParams(); params != nil {
		if sid, ok := params.GetMeta()["session_id"].(string); ok && sid != "" {
			return sid
		}
	}
	if session := req.GetSession(); session != nil {
		return session.ID()
	}
	return ""
}

// toolMetricsMiddleware counts tools/call outcomes per tool. A tool result
// flagged IsError counts as an error even though the call itself succeeded.
func toolMetricsMiddleware() sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			result, err := next(ctx, method, req)

			call, ok := req.(*sdkmcp.CallToolRequest)
			if !ok || call.Params == nil {
				return result, err
			}
			outcome := "ok"
			if res, isTool := result.(*sdkmcp.CallToolResult); err != nil || (isTool && res != nil && res.IsError) {
				outcome = "error"
			}
			metrics.IncMCPToolCall(call.Params.Name, outcome)
			return result, err
		}
	}
}

// trafficLoggingMiddleware logs each message at debug level.
func trafficLoggingMiddleware(logger *slog.Logger, direction string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if !logger.Enabled(ctx, slog.LevelDebug) {
				return next(ctx, method, req)
			}

			sessionID := getSessionID(ctx)
			if sessionID == "" {
				sessionID = requestSessionID(req)
			}
			log := logger.With("direction", direction, "method", method, "session_id", sessionID)
			log.Debug("mcp request", "params", encodeForLog(paramsOf(req)))

			result, err := next(ctx, method, req)
			if strings.HasPrefix(method, "notifications/") {
				return result, err
			}
			if err != nil {
				log.Debug("mcp response", "error", err)
			} else {
				log.Debug("mcp response", "result", encodeForLog(result))
			}
			return result, err
		}
	}
}

func paramsOf(req sdkmcp.Request) (params any) {
	if req == nil {
		return nil
	}
	defer func() {
		if recover() != nil {
			params = nil
		}
	}()
	return req.GetParams()
}

func encodeForLog(v any) string {
	if v == nil {
		return "<nil>"
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%T", v)
	}
	return string(data)
}
