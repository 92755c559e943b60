package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-task-manager-api/internal/container"
	handlers "github.com/oksasatya/go-task-manager-api/internal/interface/http"
	"github.com/oksasatya/go-task-manager-api/internal/interface/middleware"
)

// TaskModule wires the task routes; everything here requires a bearer token.

type TaskModule struct {
	Handler   *handlers.TaskHandler
	Validator middleware.TokenValidator
}

func NewTaskModule(h *handlers.TaskHandler, v middleware.TokenValidator) *TaskModule {
	return &TaskModule{Handler: h, Validator: v}
}

func (m *TaskModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Validator))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP()),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), middleware.AllowPrivateIP()),
	)
	{
		auth.POST("/tasks", m.Handler.Create)
		auth.GET("/tasks", m.Handler.List)
		auth.GET("/tasks/search", m.Handler.Search)
		auth.GET("/tasks/:id", m.Handler.Get)
		auth.PATCH("/tasks/:id", m.Handler.Update)
		auth.DELETE("/tasks/:id", m.Handler.Delete)
	}
}
