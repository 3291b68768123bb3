package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
	"github.com/oksasatya/go-account-service/pkg/apperror"
	"github.com/oksasatya/go-account-service/pkg/helpers"
	"github.com/oksasatya/go-account-service/pkg/response"
)

// Context keys set by VerifyJWT.
const (
	CtxUserID = "userID"
	CtxUser   = "user"
)

// Authenticator resolves an access token to a live user.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*entity.UserView, error)
}

// VerifyJWT guards a route. The access token is read from the Authorization
// bearer header, falling back to the access token cookie. On success the
// caller's public view and id are stored in the Gin context.
func VerifyJWT(auth Authenticator, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := auth.Authenticate(c.Request.Context(), accessToken(c))
		if err != nil {
			ae := apperror.From(err)
			if ae.Status() >= 500 {
				helpers.LogError(logger, "authenticate request", err, logrus.Fields{
					"path":       c.FullPath(),
					"request_id": c.GetString(CtxRequestID),
				})
			}
			response.Error(c, ae.Status(), ae.Message, ae.Errors)
			return
		}
		c.Set(CtxUserID, u.ID)
		c.Set(CtxUser, *u)
		c.Next()
	}
}

// CurrentUser returns the view stored by VerifyJWT.
func CurrentUser(c *gin.Context) (entity.UserView, bool) {
	v, ok := c.Get(CtxUser)
	if !ok {
		return entity.UserView{}, false
	}
	u, ok := v.(entity.UserView)
	return u, ok
}

func accessToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			if token = strings.TrimSpace(token); token != "" {
				return token
			}
		}
	}
	token, _ := c.Cookie(helpers.AccessCookie)
	return token
}
