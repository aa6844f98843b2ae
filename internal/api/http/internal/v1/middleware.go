package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/btech-hub/backend/pkg/auth"
	"github.com/btech-hub/backend/pkg/logger"
)

const (
	authorizationHeader = "Authorization"
	bearerPrefix        = "Bearer "
	userIDKey           = "user_id"
)

var errNoBearerToken = errors.New("missing bearer token")

func (h *Handler) userIdentityMiddleware(c *gin.Context) {
	userID, err := h.bearerUserID(c.GetHeader(authorizationHeader))
	if err != nil {
		if !errors.Is(err, auth.ErrAccessTokenExpired) {
			logger.Debug("reject access token", zap.Error(err))
		}
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	c.Set(userIDKey, userID)
	c.Next()
}

func (h *Handler) bearerUserID(header string) (uuid.UUID, error) {
	token, ok := strings.CutPrefix(header, bearerPrefix)
	token = strings.TrimSpace(token)
	if !ok || token == "" {
		return uuid.Nil, errNoBearerToken
	}

	return h.tokenManager.Parse(token)
}

func (h *Handler) getUserUUID(c *gin.Context) (uuid.UUID, error) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return uuid.Nil, errors.New("user id not set on context")
	}

	userID, ok := v.(uuid.UUID)
	if !ok {
		return uuid.Nil, errors.New("user id has unexpected type")
	}

	return userID, nil
}
