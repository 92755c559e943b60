package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	taskapp "github.com/oksasatya/go-task-manager-api/internal/application"
	"github.com/oksasatya/go-task-manager-api/internal/interface/middleware"
	"github.com/oksasatya/go-task-manager-api/pkg/validation"
)

type TaskHandler struct {
	Svc    *taskapp.TaskService
	Logger *logrus.Logger
}

func NewTaskHandler(svc *taskapp.TaskService, logger *logrus.Logger) *TaskHandler {
	return &TaskHandler{Svc: svc, Logger: logger}
}

type createTaskRequest struct {
	Description string `json:"description" binding:"required"`
	Completed   bool   `json:"completed"`
}

// Create POST /tasks. The owner is always the authenticated caller;
// nothing in the body can change that.
func (h *TaskHandler) Create(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid payload", validation.ToDetails(err))
		return
	}

	t, err := h.Svc.Create(c.Request.Context(), uid, req.Description, req.Completed)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, t, "task created")
}

// List GET /tasks?completed=&sortBy=field:asc|desc&limit=&skip=
func (h *TaskHandler) List(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	opts := taskapp.ParseListOptions(
		c.Query("completed"),
		c.Query("sortBy"),
		c.Query("limit"),
		c.Query("skip"),
	)

	tasks, err := h.Svc.List(c.Request.Context(), uid, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, tasks, "tasks")
}

// Get GET /tasks/:id. A task owned by someone else is a 404.
func (h *TaskHandler) Get(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	t, err := h.Svc.Get(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, t, "task")
}

// Update PATCH /tasks/:id with a patch restricted to description/completed.
func (h *TaskHandler) Update(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	var patch map[string]json.RawMessage
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBadRequest(c, "invalid payload", validation.ToDetails(err))
		return
	}

	t, err := h.Svc.Update(c.Request.Context(), uid, c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, t, "task updated")
}

// Delete DELETE /tasks/:id returns the removed task.
func (h *TaskHandler) Delete(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	t, err := h.Svc.Delete(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, t, "task deleted")
}

// Search GET /tasks/search?q=&size= queries the caller's tasks in
// Elasticsearch.
func (h *TaskHandler) Search(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	q := c.Query("q")
	if q == "" {
		respondBadRequest(c, "q is required", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	hits, err := h.Svc.Search(c.Request.Context(), uid, q, size)
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Warn("task search failed")
		}
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, hits, "search results")
}
