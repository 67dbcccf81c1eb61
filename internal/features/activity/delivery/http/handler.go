package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"airdrop-backend/internal/features/activity/models"
	"airdrop-backend/internal/features/activity/service"
)

type ActivityHandler struct {
	service service.ActivityService
}

func NewActivityHandler(service service.ActivityService) *ActivityHandler {
	return &ActivityHandler{service: service}
}

func (h *ActivityHandler) RegisterRoutes(router *gin.Engine) {
	activity := router.Group("/useractivity")
	{
		activity.POST("/", h.RecordActivity)
		activity.GET("/:telegram_uid", h.ListActivities)
	}

	router.POST("/verify/", h.Verify)
}

// @Summary Record task progress
// @Description Idempotent insert of a (telegram_uid, task_id) activity. Repeat calls are no-ops and return the existing record. No points are credited here.
// @Tags activities
// @Accept json
// @Produce json
// @Param activity body models.RecordActivityInput true "Activity"
// @Success 200 {object} models.UserActivity "Already recorded"
// @Success 201 {object} models.UserActivity "Recorded"
// @Router /useractivity/ [post]
func (h *ActivityHandler) RecordActivity(c *gin.Context) {
	var input models.RecordActivityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	activity, created, err := h.service.RecordActivity(c.Request.Context(), input)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, activity)
}

// @Summary Verify a task and credit its reward
// @Description Runs the verification strategy for the task's type. On success the activity is completed and the task reward credited at most once.
// @Tags activities
// @Accept json
// @Produce json
// @Param request body models.VerifyInput true "Identity and task"
// @Success 200 {object} models.VerifyResult
// @Failure 400 {object} middleware.ErrorResponse "Unsupported task type"
// @Failure 404 {object} middleware.ErrorResponse "Task not found"
// @Failure 502 {object} middleware.ErrorResponse "Telegram API failure"
// @Router /verify/ [post]
func (h *ActivityHandler) Verify(c *gin.Context) {
	var input models.VerifyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.VerifyAndCredit(c.Request.Context(), input.TelegramUID, input.TaskID)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary List a user's activities
// @Tags activities
// @Produce json
// @Param telegram_uid path string true "Telegram user ID"
// @Success 200 {array} models.UserActivity
// @Router /useractivity/{telegram_uid} [get]
func (h *ActivityHandler) ListActivities(c *gin.Context) {
	activities, err := h.service.ListActivities(c.Request.Context(), c.Param("telegram_uid"))
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	if activities == nil {
		activities = []*models.UserActivity{}
	}
	c.JSON(http.StatusOK, activities)
}
