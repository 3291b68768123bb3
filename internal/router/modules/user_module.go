package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-account-service/internal/interface/http"
)

// UserModule mounts the account routes under /v1/users.
// Public: register, login, refresh-token. Everything else passes the guard first.
type UserModule struct {
	Handler *handlers.UserHandler
	Guard   gin.HandlerFunc
}

func NewUserModule(h *handlers.UserHandler, guard gin.HandlerFunc) *UserModule {
	return &UserModule{Handler: h, Guard: guard}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/v1/users")
	users.POST("/register", m.Handler.Register)
	users.POST("/login", m.Handler.Login)
	users.POST("/refresh-token", m.Handler.RefreshToken)

	auth := users.Group("")
	auth.Use(m.Guard)
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.POST("/change-password", m.Handler.ChangePassword)
		auth.GET("/current-user", m.Handler.CurrentUser)
		auth.PATCH("/update-account", m.Handler.UpdateAccount)
		auth.PATCH("/avatar", m.Handler.UpdateAvatar)
		auth.PATCH("/cover-image", m.Handler.UpdateCoverImage)
		auth.GET("/search", m.Handler.Search)
	}
}
