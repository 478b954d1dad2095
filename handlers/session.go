package handlers

import (
	"net/http"
	"strings"

	"jetset/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StartSessionHandler issues a chat session token. A returning frontend may
// pass its user_id to keep the same conversation; otherwise one is minted.
func StartSessionHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var req struct {
		UserID string `json:"user_id"`
	}
	// An empty body is a fresh anonymous session.
	_ = c.ShouldBindJSON(&req)

	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		userID = uuid.New().String()
	}

	token, err := utils.GenerateSessionToken(userID, utils.SessionTokenTTL)
	if err != nil {
		logger.Error("failed to issue session token", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Could not start session", "please try again")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":    userID,
		"token":      token,
		"expires_in": int(utils.SessionTokenTTL.Seconds()),
	})
}

// EndSessionHandler revokes the presented token by denylisting its hash for
// the remainder of its validity window.
func EndSessionHandler(c *gin.Context) {
	logger := utils.GetLogger()

	authHeader := c.GetHeader("Authorization")
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == "" || tokenString == authHeader {
		utils.JSONError(c, http.StatusBadRequest, "No session token presented", "")
		return
	}

	denyKey := utils.SessionDenyPrefix + utils.HashToken(tokenString)
	if err := utils.GetSessionCacheClient().Set(c.Request.Context(), denyKey, "1", utils.SessionTokenTTL).Err(); err != nil {
		logger.Error("failed to revoke session token", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Could not end session", "please try again")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "session ended"})
}
