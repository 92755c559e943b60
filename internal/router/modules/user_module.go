package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-task-manager-api/internal/container"
	handlers "github.com/oksasatya/go-task-manager-api/internal/interface/http"
	"github.com/oksasatya/go-task-manager-api/internal/interface/middleware"
)

// UserModule wires the account routes.
// Public: POST /users, POST /users/login
// Protected: logout, logoutAll, /users/me (+avatar)

type UserModule struct {
	Handler   *handlers.UserHandler
	Validator middleware.TokenValidator
}

func NewUserModule(h *handlers.UserHandler, v middleware.TokenValidator) *UserModule {
	return &UserModule{Handler: h, Validator: v}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	// Public with rate limiting
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil) // 10 req/min per IP
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/users", registerLimiter, m.Handler.Register)
	rg.POST("/users/login", loginLimiter, m.Handler.Login)

	// Protected
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Validator))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP()),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), middleware.AllowPrivateIP()),
	)
	{
		auth.POST("/users/logout", m.Handler.Logout)
		auth.POST("/users/logoutAll", m.Handler.LogoutAll)
		auth.GET("/users/me", m.Handler.GetMe)
		auth.PATCH("/users/me", m.Handler.UpdateMe)
		auth.DELETE("/users/me", m.Handler.DeleteMe)
		auth.POST("/users/me/avatar", m.Handler.UploadAvatar)
		auth.GET("/users/me/avatar", m.Handler.GetAvatar)
		auth.DELETE("/users/me/avatar", m.Handler.DeleteAvatar)
	}
}
