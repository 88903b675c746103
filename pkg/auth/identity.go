// Package auth authenticates API callers and resolves viewer identity.
//
// Caller authentication (API keys, CORS, IP whitelist, rate limiting) is
// the gateway's job; viewer identity is a separate, optional concern: a
// request may legitimately carry no identity at all, in which case the
// capsule services see an anonymous viewer.
package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"capsuledb/pkg/config"
	"capsuledb/pkg/logger"
	"capsuledb/pkg/utils"
)

// Role represents the resolved caller role for a request.
type Role int

const (
	RoleUnauth Role = iota
	RoleFrontend
	RoleBackend
	RoleAdmin
)

// SecConfig mirrors the security-related configuration used to drive
// authentication, CORS and rate limiting behavior. Shared here so
// limiter.go and gateway.go can reference the type.
type SecConfig struct {
	AllowedOrigins []string
	RPS            float64
	Burst          int
	IPWhitelist    []string
	BackendKeys    map[string]struct{}
	FrontendKeys   map[string]struct{}
	AdminKeys      map[string]struct{}
	AllowUnauth    bool
}

type ctxViewerKey struct{}

// VerifySignedViewer checks X-User-ID/X-User-Signature headers when
// present and injects the verified viewer id into the request context.
// Requests without signature headers pass through untouched: viewer
// identity is optional, and an anonymous caller simply sees only public
// content.
func VerifySignedViewer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get("X-User-ID"))
		sig := strings.TrimSpace(r.Header.Get("X-User-Signature"))
		if sig == "" {
			next.ServeHTTP(w, r)
			return
		}
		if userID == "" {
			logger.Warn("signature_without_user_id", "path", r.URL.Path, "remote", r.RemoteAddr)
			utils.JSONError(w, http.StatusUnauthorized, "missing signature headers")
			return
		}
		keys := config.GetSigningKeys()
		if len(keys) == 0 {
			logger.Error("no_signing_keys_configured")
			utils.JSONError(w, http.StatusInternalServerError, "server misconfigured: no signing secrets available")
			return
		}
		ok := false
		for k := range keys {
			mac := hmac.New(sha256.New, []byte(k))
			mac.Write([]byte(userID))
			expected := hex.EncodeToString(mac.Sum(nil))
			if hmac.Equal([]byte(expected), []byte(sig)) {
				ok = true
				break
			}
		}
		if !ok {
			logger.Warn("invalid_signature", "user", userID)
			utils.JSONError(w, http.StatusUnauthorized, "invalid signature")
			return
		}
		logger.Debug("signature_verified", "user", userID)
		ctx := context.WithValue(r.Context(), ctxViewerKey{}, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ViewerIDFromContext returns the signature-verified viewer id or empty.
func ViewerIDFromContext(ctx context.Context) string {
	if v := ctx.Value(ctxViewerKey{}); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// ResolveViewer returns the caller identity for a request, or empty for an
// anonymous viewer. A signature-verified identity always wins; otherwise a
// plain X-User-ID header is trusted only from backend/admin callers, or
// from anyone when no signing keys are configured (development setups).
func ResolveViewer(r *http.Request) string {
	if id := ViewerIDFromContext(r.Context()); id != "" {
		return id
	}
	h := strings.TrimSpace(r.Header.Get("X-User-ID"))
	if h == "" {
		return ""
	}
	role := r.Header.Get("X-Role-Name")
	if role == "backend" || role == "admin" {
		return h
	}
	if len(config.GetSigningKeys()) == 0 {
		return h
	}
	return ""
}
