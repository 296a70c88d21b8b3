package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tillgate/tillgate/internal/application/audit"
	"github.com/tillgate/tillgate/internal/shared/constants"
	"github.com/tillgate/tillgate/internal/shared/logger"
	"github.com/tillgate/tillgate/internal/shared/utils"
)

const redacted = "[REDACTED]"

var sensitiveKeys = map[string]bool{
	"password":      true,
	"password_hash": true,
	"token":         true,
	"access_token":  true,
}

type MutationRecorder interface {
	RecordMutation(ctx context.Context, m audit.Mutation)
}

// captureWriter keeps the first limit bytes of the response body so the
// audit entry can carry the error message.
type captureWriter struct {
	gin.ResponseWriter
	buf   bytes.Buffer
	limit int
}

func (w *captureWriter) Write(b []byte) (int, error) {
	if room := w.limit - w.buf.Len(); room > 0 {
		if len(b) > room {
			w.buf.Write(b[:room])
		} else {
			w.buf.Write(b)
		}
	}
	return w.ResponseWriter.Write(b)
}

// MutationAudit records every state-changing request after it completes:
// method, route, resource ID, the redacted JSON request body when it fits in
// bodyLimit bytes, status code and duration. Requests already audited by
// a guard denial are skipped.
func MutationAudit(recorder MutationRecorder, bodyLimit int, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isMutation(c.Request.Method) {
			c.Next()
			return
		}

		start := time.Now()
		body := readBody(c, bodyLimit, log)
		writer := &captureWriter{ResponseWriter: c.Writer, limit: bodyLimit}
		c.Writer = writer

		c.Next()

		if c.GetBool(constants.ContextKeyAuditRecorded) {
			return
		}

		status := c.Writer.Status()
		success := status < http.StatusBadRequest
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		m := audit.Mutation{
			Action:    strings.ToLower(c.Request.Method),
			Resource:  route,
			NewValues: bodySnapshot(body, bodyLimit),
			Success:   success,
			Metadata: map[string]any{
				"statusCode": status,
				"durationMs": time.Since(start).Milliseconds(),
				"endpoint":   c.Request.Method + " " + c.Request.URL.Path,
			},
		}
		if q := c.Request.URL.RawQuery; q != "" {
			m.Metadata["query"] = q
		}
		if id := c.Param("id"); id != "" {
			m.ResourceID = &id
		}
		if !success {
			m.ErrorMessage = responseMessage(writer.buf.Bytes(), status)
		}

		c.Set(constants.ContextKeyAuditRecorded, true)
		recorder.RecordMutation(c.Request.Context(), m)
	}
}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// readBody buffers at most limit+1 bytes for the snapshot and hands the
// handler the full body unchanged.
func readBody(c *gin.Context, limit int, log logger.Interface) []byte {
	body := c.Request.Body
	if body == nil || body == http.NoBody {
		return nil
	}
	head, err := io.ReadAll(io.LimitReader(body, int64(limit)+1))
	if err != nil {
		log.Warnw("failed to read request body for audit", "error", err)
	}
	c.Request.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(head), body), body}
	return head
}

// bodySnapshot keeps a redacted copy of a JSON body no larger than limit.
// Anything that cannot be decoded and redacted is recorded by size only.
func bodySnapshot(body []byte, limit int) map[string]any {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if len(body) > limit {
		return map[string]any{"truncated": true, "bytes": len(body)}
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return map[string]any{"omitted": "non-json body", "bytes": len(body)}
	}
	switch v := redact(decoded).(type) {
	case map[string]any:
		return v
	default:
		return map[string]any{"body": v}
	}
}

func redact(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, field := range val {
			if sensitiveKeys[strings.ToLower(k)] {
				val[k] = redacted
				continue
			}
			val[k] = redact(field)
		}
		return val
	case []any:
		for i, item := range val {
			val[i] = redact(item)
		}
		return val
	default:
		return v
	}
}

func responseMessage(body []byte, status int) string {
	var resp utils.APIResponse
	if err := json.Unmarshal(body, &resp); err == nil && resp.Error != nil && resp.Error.Message != "" {
		return resp.Error.Message
	}
	return http.StatusText(status)
}
