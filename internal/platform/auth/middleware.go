package auth

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	applog "github.com/gfw-api/gfw-user-api/internal/platform/logging"
)

// maxPeekBytes bounds how much of a request body the extractor will buffer
// while looking for a loggedUser field. Bodies are already capped by the
// router's request size limit; this is the same ceiling.
const maxPeekBytes = 1 << 20

// Extract returns middleware that pulls the gateway-attached loggedUser
// descriptor out of the query string and/or the JSON request body and stores
// it in the request context. Values from the body override values from the
// query, matching how the gateway merges them. The middleware never rejects a
// request; operations that need an identity enforce it via Require.
func Extract() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var user *LoggedUser

			if raw := r.URL.Query().Get("loggedUser"); raw != "" {
				parsed, err := Parse(raw)
				if err != nil {
					applog.LogWarn(r.Context(), "discarding malformed loggedUser query parameter")
				} else {
					user = parsed
				}
			}

			if hasJSONBody(r) {
				body, err := io.ReadAll(io.LimitReader(r.Body, maxPeekBytes))
				if err == nil {
					_ = r.Body.Close()
					r.Body = io.NopCloser(bytes.NewReader(body))
					user = overlayBodyUser(user, body)
				}
			}

			if user != nil {
				r = r.WithContext(WithUser(r.Context(), user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func hasJSONBody(r *http.Request) bool {
	if r.Body == nil || r.Body == http.NoBody {
		return false
	}
	return strings.Contains(r.Header.Get("Content-Type"), "json")
}

// overlayBodyUser merges a body-level loggedUser field over the query-derived
// descriptor. Keys present in the body win; keys absent keep the query value.
func overlayBodyUser(base *LoggedUser, body []byte) *LoggedUser {
	var envelope struct {
		LoggedUser json.RawMessage `json:"loggedUser"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.LoggedUser) == 0 {
		return base
	}

	merged := LoggedUser{}
	if base != nil {
		merged = *base
	}
	if err := json.Unmarshal(envelope.LoggedUser, &merged); err != nil {
		return base
	}
	return &merged
}
