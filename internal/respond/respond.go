// Package respond wires the shared error-document convention into huma and
// the chi fallback handlers, so every failure body a client can observe is a
// jsonapi.ErrorDocument served as application/vnd.api+json.
package respond

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/gfw-api/gfw-user-api/internal/jsonapi"
	applog "github.com/gfw-api/gfw-user-api/internal/platform/logging"
)

const (
	msgNotFound         = "Endpoint not found"
	msgMethodNotAllowed = "Method not allowed"
	msgUnexpected       = "Unexpected error"
)

var (
	installOnce sync.Once
	production  atomic.Bool
)

// Install ensures huma uses the shared error document for all error
// responses. When productionMode is set, 500s hide their real message behind
// a generic detail while the original error still lands in the logs.
func Install(productionMode bool) {
	production.Store(productionMode)
	installOnce.Do(func() {
		huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
			return statusError(context.Background(), status, msg, errs...)
		}

		huma.NewErrorWithContext = func(hctx huma.Context, status int, msg string, errs ...error) huma.StatusError {
			goCtx := context.Background()
			if hctx != nil {
				goCtx = hctx.Context()
			}
			return statusError(goCtx, status, msg, errs...)
		}
	})
}

// statusDocumentError adapts an error document to huma.StatusError.
type statusDocumentError struct {
	jsonapi.ErrorDocument
	status int
}

func (e *statusDocumentError) Error() string {
	if len(e.Errors) > 0 && e.Errors[0].Detail != "" {
		return e.Errors[0].Detail
	}
	return http.StatusText(e.status)
}

func (e *statusDocumentError) GetStatus() int {
	return e.status
}

func statusError(ctx context.Context, status int, msg string, errs ...error) huma.StatusError {
	logged := msg
	if msg == "" {
		msg = http.StatusText(status)
	}
	doc := jsonapi.NewErrorDocument(status, maskMessage(status, msg))
	for _, err := range errs {
		if err == nil {
			continue
		}
		detail := err.Error()
		if detailer, ok := err.(huma.ErrorDetailer); ok {
			if d := detailer.ErrorDetail(); d != nil && d.Message != "" {
				detail = d.Message
				if d.Location != "" {
					detail = d.Location + ": " + detail
				}
			}
		}
		doc.Errors = append(doc.Errors, jsonapi.Error{Status: status, Detail: maskMessage(status, detail)})
	}

	fields := []zap.Field{zap.Int("status", status)}
	switch {
	case status >= 500:
		applog.LogError(ctx, logged, joinErrors(errs), fields...)
	case status >= 400:
		applog.LogWarn(ctx, logged, fields...)
	default:
		applog.LogInfo(ctx, logged, fields...)
	}

	return &statusDocumentError{ErrorDocument: doc, status: status}
}

// maskMessage hides internal error details on 500s in production builds.
func maskMessage(status int, msg string) string {
	if production.Load() && status >= http.StatusInternalServerError {
		return msgUnexpected
	}
	return msg
}

func joinErrors(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return fmt.Errorf("%v", errs)
	}
}

// write serializes an error document directly to the ResponseWriter, for
// paths that never reach huma (fallback handlers, panics).
func write(w http.ResponseWriter, ctx context.Context, status int, detail string) {
	w.Header().Set("Content-Type", jsonapi.MediaType)
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(jsonapi.NewErrorDocument(status, detail)); err != nil {
		applog.LogError(ctx, "failed to render error document", err)
	}
}

// NotFoundHandler emits a shared-document 404 response.
func NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		write(w, r.Context(), http.StatusNotFound, msgNotFound)
	}
}

// MethodNotAllowedHandler emits a shared-document 405 response.
func MethodNotAllowedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		write(w, r.Context(), http.StatusMethodNotAllowed, msgMethodNotAllowed)
	}
}

// Recoverer converts panics into structured 500 responses.
func Recoverer() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					var err error
					switch v := rec.(type) {
					case error:
						err = v
					default:
						err = fmt.Errorf("%v", v)
					}
					applog.LogError(r.Context(), "panic recovered", fmt.Errorf("%w\n%s", err, debug.Stack()))
					detail := err.Error()
					if production.Load() {
						detail = msgUnexpected
					}
					write(w, r.Context(), http.StatusInternalServerError, detail)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
