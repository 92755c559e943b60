package router

import "github.com/gin-gonic/gin"

// Module is a feature area (accounts, tasks, debug) that knows how to
// attach its own routes to a router group.
type Module interface {
	Register(rg *gin.RouterGroup)
}
