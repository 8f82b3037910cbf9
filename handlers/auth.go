package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trstyle/storefront-services/internal/config"
	"github.com/trstyle/storefront-services/internal/oidc"
	"github.com/trstyle/storefront-services/internal/profilesync"
	"github.com/trstyle/storefront-services/internal/sessions"
	"github.com/trstyle/storefront-services/internal/tokens"
	"github.com/trstyle/storefront-services/pkg/logger"
	"github.com/trstyle/storefront-services/pkg/middleware"
)

// LoginRequest carries the identity provider's ID token. Provider labels the
// identity source so the stored record reflects which integration wrote last
// (e.g. "google" via the web session vs "firebase" for the native client).
type LoginRequest struct {
	IDToken  string `json:"idToken" binding:"required"`
	Provider string `json:"provider"`
}

// AuthHandler turns a session-established event into a best-effort profile
// sync, a refresh session, and a signed access token.
type AuthHandler struct {
	cfg         *config.Config
	syncer      *profilesync.Syncer
	sessionsSvc *sessions.Service
	verifier    middleware.Verifier
}

func NewAuthHandler(cfg *config.Config, syncer *profilesync.Syncer, s *sessions.Service, verifier middleware.Verifier) *AuthHandler {
	return &AuthHandler{cfg: cfg, syncer: syncer, sessionsSvc: s, verifier: verifier}
}

// Register routes under /auth
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/auth")
	a.POST("/login", h.Login)
	a.POST("/refresh", h.Refresh)
	a.POST("/logout", h.Logout)
}

// Login verifies the ID token, syncs the profile to the user-record store
// (privileged path first, direct fallback — failures are logged, never
// returned to the client), and establishes a session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Provider == "" {
		req.Provider = "oidc"
	}

	claims, err := h.verifyIDToken(c.Request.Context(), req.IDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid id token", "details": err.Error()})
		return
	}

	key, profile := profilesync.ProfileFromClaims(claims, req.Provider)
	if key == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token carries no usable identity"})
		return
	}

	// Profile sync is a background side effect of login; a failed sync must
	// not block the session.
	if out := h.syncer.Sync(c.Request.Context(), key, profile); out.Status == profilesync.StatusFailed {
		logger.Warnf("login: profile sync failed for %q: %v", key, out.Err)
	}

	user, err := h.syncer.Read(c.Request.Context(), key)
	if err != nil {
		logger.Warnf("login: read-back failed for %q: %v", key, err)
	}

	refresh, err := h.sessionsSvc.CreateSession(c.Request.Context(), key, req.Provider, h.cfg.JWT.RefreshTokenTTL)
	if err != nil {
		logger.Errorf("failed to create session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	if user == nil {
		// sync failed on every path; answer from claims so login still works
		c.JSON(http.StatusOK, gin.H{"refreshToken": refresh, "claims": claims})
		return
	}

	access, err := tokens.GenerateAccessToken(h.cfg, user, h.cfg.JWT.AccessTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create access token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"accessToken":  access,
		"refreshToken": refresh,
		"user":         user,
		"expiresIn":    int(h.cfg.JWT.AccessTokenTTL.Seconds()),
	})
}

// Refresh accepts a refresh token and returns a new access token
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, err := h.sessionsSvc.ValidateRefresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "validation failed"})
		return
	}
	if sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	user, err := h.syncer.Read(c.Request.Context(), sess.UserKey)
	if err != nil || user == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user lookup failed"})
		return
	}
	access, err := tokens.GenerateAccessToken(h.cfg, user, h.cfg.JWT.AccessTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create access token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": access, "expires_in": int(h.cfg.JWT.AccessTokenTTL.Seconds())})
}

// Logout invalidates the refresh token and (optionally) blacklists the current access token
func (h *AuthHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// If the client supplied an Authorization Bearer token, attempt to blacklist it
	auth := c.GetHeader("Authorization")
	if auth != "" {
		var at string
		if n, _ := fmt.Sscanf(auth, "Bearer %s", &at); n == 1 {
			if exp, err := parseExpFromJWT(at); err == nil {
				if ttl := time.Until(exp); ttl > 0 {
					if err := sessions.BlacklistAccessToken(c.Request.Context(), at, ttl); err != nil {
						c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to blacklist access token"})
						return
					}
				}
			}
		}
	}

	if err := h.sessionsSvc.DeleteRefresh(c.Request.Context(), req.RefreshToken); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// verifyIDToken checks the ID token with the configured OIDC verifier. When
// no verifier is configured, payload-only parsing is allowed under the
// explicit ALLOW_INSECURE_TOKEN opt-in used by integration tests.
func (h *AuthHandler) verifyIDToken(ctx context.Context, idToken string) (map[string]interface{}, error) {
	ver := h.verifier
	if ver == nil {
		if strings.ToLower(strings.TrimSpace(os.Getenv("ALLOW_INSECURE_TOKEN"))) != "true" {
			return nil, fmt.Errorf("no token verifier configured")
		}
		ver = oidc.NewInsecureVerifier()
	}
	tkn, err := ver.Verify(ctx, idToken)
	if err != nil {
		return nil, err
	}
	var claims map[string]interface{}
	if err := tkn.Claims(&claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// parseExpFromJWT decodes the JWT payload and returns the `exp` claim as time.Time.
// This performs payload-only parsing (no signature verification) and is suitable
// for computing remaining TTLs for blacklisting purposes.
func parseExpFromJWT(tok string) (time.Time, error) {
	parts := strings.Split(tok, ".")
	if len(parts) < 2 {
		return time.Time{}, fmt.Errorf("invalid token")
	}
	payload := parts[1]
	b, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		// try standard base64 (pad) as a fallback
		b, err = base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return time.Time{}, err
		}
	}
	var claims map[string]interface{}
	if err := json.Unmarshal(b, &claims); err != nil {
		return time.Time{}, err
	}
	v, ok := claims["exp"]
	if !ok {
		return time.Time{}, fmt.Errorf("exp claim not present")
	}
	switch vv := v.(type) {
	case float64:
		return time.Unix(int64(vv), 0), nil
	case json.Number:
		i64, err := vv.Int64()
		if err != nil {
			return time.Time{}, err
		}
		return time.Unix(i64, 0), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported exp type %T", v)
	}
}
