package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trstyle/storefront-services/internal/userstore"
	"github.com/trstyle/storefront-services/pkg/logger"
)

const adminSetupInstructions = "To fix this: 1) Set STORE_ADMIN_URI with service-account credentials in .env, OR 2) Update the store access rules to allow user-record writes via the direct path."

// UsersHandler exposes the privileged users API. It commits with the
// service-credential store, bypassing per-record access rules; clients fall
// back to their direct path when this route reports an error.
type UsersHandler struct {
	store userstore.Store
}

func NewUsersHandler(store userstore.Store) *UsersHandler {
	return &UsersHandler{store: store}
}

// Register routes at the root: POST /users, GET /users
func (h *UsersHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/users", h.SaveUser)
	rg.GET("/users", h.GetUser)
}

type saveUserRequest struct {
	UserID   string             `json:"userId"`
	UserData *userstore.Profile `json:"userData"`
}

// SaveUser merge-writes userData under userId.
func (h *UsersHandler) SaveUser(c *gin.Context) {
	var req saveUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId and userData are required"})
		return
	}
	if req.UserID == "" || req.UserData == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId and userData are required"})
		return
	}

	if err := h.store.Set(c.Request.Context(), req.UserID, *req.UserData); err != nil {
		logger.Errorf("users API: save failed for %q: %v", req.UserID, err)
		switch userstore.KindOf(err) {
		case userstore.KindInvalidArgument:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case userstore.KindUnavailable:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":        "privileged store not configured",
				"instructions": adminSetupInstructions,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save user data"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "user data saved"})
}

// GetUser returns the stored record for userId.
func (h *UsersHandler) GetUser(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	rec, err := h.store.Get(c.Request.Context(), userID)
	if err != nil {
		logger.Errorf("users API: get failed for %q: %v", userID, err)
		switch userstore.KindOf(err) {
		case userstore.KindUnavailable:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":        "privileged store not configured",
				"instructions": adminSetupInstructions,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get user data"})
		}
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "userData": rec})
}
