package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/btech-hub/backend/pkg/logger"
)

func (h *Handler) initUsersRoutes(api *gin.RouterGroup) {
	users := api.Group("/users")

	users.GET("/me", h.userIdentityMiddleware, h.me)
}

type userResponse struct {
	ID              uuid.UUID  `json:"id"`
	Email           string     `json:"email"`
	FullName        string     `json:"full_name"`
	Course          string     `json:"course,omitempty"`
	PhoneNumber     string     `json:"phone_number,omitempty"`
	Year            string     `json:"year,omitempty"`
	Semester        string     `json:"semester,omitempty"`
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
} // @name UserResponse

// @Summary Current user
// @Tags Users
// @ModuleID me
// @Produce  json
// @Success 200 {object} userResponse
// @Failure 401
// @Failure 404 {object} ErrorStruct
// @Security UserAuth
// @Router /users/me [get]
func (h *Handler) me(c *gin.Context) {
	userID, err := h.getUserUUID(c)
	if err != nil {
		logger.Error("get user id from context failed", zap.Error(err))
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	user, err := h.services.Identity.GetOneByID(c.Request.Context(), userID)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, userResponse{
		ID:              user.ID,
		Email:           user.Email,
		FullName:        user.FullName,
		Course:          user.Course.String,
		PhoneNumber:     user.PhoneNumber.String,
		Year:            user.Year.String,
		Semester:        user.Semester.String,
		EmailVerifiedAt: user.EmailVerifiedAt,
		CreatedAt:       user.CreatedAt,
	})
}
