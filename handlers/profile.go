package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trstyle/storefront-services/internal/profilesync"
	"github.com/trstyle/storefront-services/internal/storage"
	"github.com/trstyle/storefront-services/internal/userstore"
	"github.com/trstyle/storefront-services/pkg/logger"
	"github.com/trstyle/storefront-services/pkg/middleware"
)

// ProfileHandler serves the authenticated user's stored profile and avatar
// uploads. Routes require AuthMiddleware so verified claims are available.
type ProfileHandler struct {
	syncer  *profilesync.Syncer
	avatars *storage.AvatarStorage
}

// NewProfileHandler creates the handler. Avatars may be nil when no object
// store is configured; the upload route then reports 503.
func NewProfileHandler(syncer *profilesync.Syncer, avatars *storage.AvatarStorage) *ProfileHandler {
	return &ProfileHandler{syncer: syncer, avatars: avatars}
}

// Register routes under an authenticated group (e.g. /api/v1)
func (h *ProfileHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/me", h.Me)
	rg.POST("/me/avatar", h.UploadAvatar)
}

// Me returns the stored user record for the authenticated caller, upserting
// from the token claims when the record does not exist yet.
func (h *ProfileHandler) Me(c *gin.Context) {
	key := middleware.UserKeyFromContext(c)
	if key == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no identity on request"})
		return
	}

	user, err := h.syncer.Read(c.Request.Context(), key)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "profile store unavailable"})
		return
	}
	if user == nil {
		// first visit after login: seed the record from the verified claims
		claims, _ := c.Get("claims")
		if cm, ok := claims.(map[string]interface{}); ok {
			_, profile := profilesync.ProfileFromClaims(cm, "oidc")
			if out := h.syncer.Sync(c.Request.Context(), key, profile); out.Status == profilesync.StatusCommitted {
				user, _ = h.syncer.Read(c.Request.Context(), key)
			}
		}
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UploadAvatar stores the posted image in the object store and merges the
// presigned URL into the user record as the new image field.
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	key := middleware.UserKeyFromContext(c)
	if key == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no identity on request"})
		return
	}
	if h.avatars == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "avatar storage not configured"})
		return
	}

	file, header, err := c.Request.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file is required"})
		return
	}
	defer file.Close()

	objectKey, err := h.avatars.UploadAvatar(c.Request.Context(), key, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		logger.Errorf("avatar upload failed for %q: %v", key, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store avatar"})
		return
	}
	url, err := h.avatars.AvatarURL(c.Request.Context(), objectKey, 7*24*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign avatar url"})
		return
	}

	out := h.syncer.Sync(c.Request.Context(), key, userstore.Profile{Image: &url})
	if out.Status == profilesync.StatusFailed {
		logger.Warnf("avatar: image url not synced for %q: %v", key, out.Err)
	}
	c.JSON(http.StatusOK, gin.H{"image": url})
}
