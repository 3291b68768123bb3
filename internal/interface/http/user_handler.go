package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/go-account-service/internal/application"
	"github.com/oksasatya/go-account-service/internal/domain/entity"
	"github.com/oksasatya/go-account-service/internal/interface/middleware"
	"github.com/oksasatya/go-account-service/pkg/apperror"
	"github.com/oksasatya/go-account-service/pkg/helpers"
	"github.com/oksasatya/go-account-service/pkg/response"
	"github.com/oksasatya/go-account-service/pkg/validation"
)

type UserHandler struct {
	Svc       *userapp.Service
	Logger    *logrus.Logger
	Cookies   *helpers.Manager
	TempDir   string
	MaxUpload int64
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger, cookies *helpers.Manager, tempDir string, maxUpload int64) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, Cookies: cookies, TempDir: tempDir, MaxUpload: maxUpload}
}

type registerRequest struct {
	FullName string `json:"fullName" form:"fullName"`
	Email    string `json:"email" form:"email" binding:"omitempty,email"`
	Username string `json:"username" form:"username" binding:"omitempty,uname"`
	Password string `json:"password" form:"password" binding:"omitempty,pwd"`
}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" form:"refreshToken"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" form:"oldPassword"`
	NewPassword string `json:"newPassword" form:"newPassword" binding:"omitempty,pwd"`
}

type updateAccountRequest struct {
	FullName string `json:"fullName" form:"fullName"`
	Email    string `json:"email" form:"email" binding:"omitempty,email"`
}

type tokensResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type loginResponse struct {
	User         entity.UserView `json:"user"`
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken"`
}

// fail renders err through the error envelope. Internal errors are logged with their cause.
func (h *UserHandler) fail(c *gin.Context, err error) {
	ae := apperror.From(err)
	if ae.Status() >= http.StatusInternalServerError {
		helpers.LogError(h.Logger, ae.Message, err, logrus.Fields{
			"path":       c.FullPath(),
			"request_id": c.GetString(middleware.CtxRequestID),
		})
	}
	response.Error(c, ae.Status(), ae.Message, ae.Errors)
}

func (h *UserHandler) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBind(dst); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return false
	}
	return true
}

func (h *UserHandler) limitBody(c *gin.Context) {
	if h.MaxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUpload)
	}
}

// saveFile stores an uploaded file under the temp dir; "" means the field was absent.
func (h *UserHandler) saveFile(c *gin.Context, field string) (string, bool) {
	path, err := helpers.SaveTempFile(c, field, h.TempDir)
	if err != nil {
		h.Logger.WithError(err).WithField("field", field).Warn("save upload failed")
		response.Error(c, http.StatusBadRequest, "invalid upload", nil)
		return "", false
	}
	return path, true
}

func (h *UserHandler) Register(c *gin.Context) {
	h.limitBody(c)
	var req registerRequest
	if !h.bind(c, &req) {
		return
	}
	avatar, ok := h.saveFile(c, "avatar")
	if !ok {
		return
	}
	defer helpers.RemoveTempFiles(avatar)
	cover, ok := h.saveFile(c, "coverImage")
	if !ok {
		return
	}
	defer helpers.RemoveTempFiles(cover)

	user, err := h.Svc.Register(c.Request.Context(), userapp.RegisterInput{
		FullName:       req.FullName,
		Email:          req.Email,
		Username:       req.Username,
		Password:       req.Password,
		AvatarPath:     avatar,
		CoverImagePath: cover,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, user, "User registered successfully")
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if !h.bind(c, &req) {
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), userapp.LoginInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		IP:        middleware.ClientIP(c),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	t := res.Tokens
	h.Cookies.SetPair(c, t.AccessToken, t.AccessTokenExpiry, t.RefreshToken, t.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, loginResponse{
		User:         res.User,
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
	}, "User logged in successfully")
}

func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.Svc.Logout(c.Request.Context(), c.GetString(middleware.CtxUserID)); err != nil {
		h.fail(c, err)
		return
	}
	h.Cookies.Clear(c)
	response.Success(c, http.StatusOK, gin.H{}, "User logged out successfully")
}

// RefreshToken reads the refresh token from its cookie, falling back to the request body.
func (h *UserHandler) RefreshToken(c *gin.Context) {
	token, _ := c.Cookie(helpers.RefreshCookie)
	if token == "" && c.Request.ContentLength != 0 {
		var req refreshRequest
		if !h.bind(c, &req) {
			return
		}
		token = req.RefreshToken
	}
	pair, err := h.Svc.Refresh(c.Request.Context(), token)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, tokensResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "Access token refreshed")
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if !h.bind(c, &req) {
		return
	}
	err := h.Svc.ChangePassword(c.Request.Context(), c.GetString(middleware.CtxUserID), req.OldPassword, req.NewPassword)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{}, "Password changed successfully")
}

func (h *UserHandler) CurrentUser(c *gin.Context) {
	if _, ok := middleware.CurrentUser(c); !ok {
		response.Error(c, http.StatusUnauthorized, "unauthorized request", nil)
		return
	}
	u, err := h.Svc.GetCurrentUser(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "Current user fetched successfully")
}

func (h *UserHandler) UpdateAccount(c *gin.Context) {
	var req updateAccountRequest
	if !h.bind(c, &req) {
		return
	}
	u, err := h.Svc.UpdateAccountDetails(c.Request.Context(), c.GetString(middleware.CtxUserID), req.FullName, req.Email)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "Account details updated successfully")
}

func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	h.limitBody(c)
	path, ok := h.saveFile(c, "avatar")
	if !ok {
		return
	}
	defer helpers.RemoveTempFiles(path)

	u, err := h.Svc.UpdateAvatar(c.Request.Context(), c.GetString(middleware.CtxUserID), path)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "Avatar image updated successfully")
}

func (h *UserHandler) UpdateCoverImage(c *gin.Context) {
	h.limitBody(c)
	path, ok := h.saveFile(c, "coverImage")
	if !ok {
		return
	}
	defer helpers.RemoveTempFiles(path)

	u, err := h.Svc.UpdateCoverImage(c.Request.Context(), c.GetString(middleware.CtxUserID), path)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "Cover image updated successfully")
}

// Search handles GET /api/v1/users/search?q=term&size=10.
func (h *UserHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	users, err := h.Svc.SearchUsers(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, users, "Users fetched successfully")
}
