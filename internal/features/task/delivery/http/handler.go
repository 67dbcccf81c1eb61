package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"airdrop-backend/internal/features/task/models"
	"airdrop-backend/internal/features/task/service"
)

type TaskHandler struct {
	service service.TaskService
}

func NewTaskHandler(service service.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// RegisterRoutes wires public task routes. Admin routes are registered
// separately so the entry point can guard them.
func (h *TaskHandler) RegisterRoutes(router *gin.Engine) {
	tasks := router.Group("/tasks")
	{
		tasks.GET("/", h.ListTasks)
	}
}

func (h *TaskHandler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.POST("/tasks/create", h.CreateTask)
}

// @Summary List active tasks
// @Tags tasks
// @Produce json
// @Success 200 {array} models.Task
// @Router /tasks/ [get]
func (h *TaskHandler) ListTasks(c *gin.Context) {
	tasks, err := h.service.ListActiveTasks(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	if tasks == nil {
		tasks = []*models.Task{}
	}
	c.JSON(http.StatusOK, tasks)
}

// @Summary Create a task
// @Description Admin-only. Task definitions are immutable; a duplicate task_id is rejected.
// @Tags tasks
// @Accept json
// @Produce json
// @Security TelegramInitData
// @Param task body models.CreateTaskInput true "Task definition"
// @Success 201 {object} models.Task
// @Failure 400 {object} middleware.ErrorResponse "Duplicate task_id or invalid fields"
// @Router /admin/tasks/create [post]
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var input models.CreateTaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.service.CreateTask(c.Request.Context(), input)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusCreated, task)
}
