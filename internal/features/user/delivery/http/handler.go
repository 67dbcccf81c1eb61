package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"airdrop-backend/internal/features/user/models"
	"airdrop-backend/internal/features/user/service"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) RegisterRoutes(router *gin.Engine) {
	profile := router.Group("/profile")
	{
		profile.POST("/:telegram_uid", h.CreateProfile)
		profile.GET("/:telegram_uid", h.GetProfile)
		profile.GET("/:telegram_uid/referrals", h.GetReferrals)
	}
}

// @Summary Create or fetch a profile
// @Description Creates the profile for the Telegram identity on first call; later calls return the existing record unchanged.
// @Tags users
// @Accept json
// @Produce json
// @Param telegram_uid path string true "Telegram user ID"
// @Param profile body models.CreateProfileInput false "Profile fields and optional ref_by"
// @Success 200 {object} models.User "Existing profile"
// @Success 201 {object} models.User "Created profile"
// @Router /profile/{telegram_uid} [post]
func (h *UserHandler) CreateProfile(c *gin.Context) {
	telegramUID := c.Param("telegram_uid")

	var input models.CreateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, created, err := h.service.EnsureProfile(c.Request.Context(), telegramUID, input)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, user)
}

// @Summary Get a profile
// @Tags users
// @Produce json
// @Param telegram_uid path string true "Telegram user ID"
// @Success 200 {object} models.User
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Router /profile/{telegram_uid} [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.service.GetProfile(c.Request.Context(), c.Param("telegram_uid"))
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary List referred users
// @Description Users whose ref_by points at this identity, newest first.
// @Tags users
// @Produce json
// @Param telegram_uid path string true "Telegram user ID"
// @Success 200 {array} models.User
// @Router /profile/{telegram_uid}/referrals [get]
func (h *UserHandler) GetReferrals(c *gin.Context) {
	referrals, err := h.service.ListReferrals(c.Request.Context(), c.Param("telegram_uid"))
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	if referrals == nil {
		referrals = []*models.User{}
	}
	c.JSON(http.StatusOK, referrals)
}
