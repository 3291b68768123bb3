package router

import "github.com/gin-gonic/gin"

// Module is a feature that mounts its routes on the /api group.
// Modules own their path prefix and guards.
type Module interface {
	Register(api *gin.RouterGroup)
}
