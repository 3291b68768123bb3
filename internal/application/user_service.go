package application

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
	repo "github.com/oksasatya/go-account-service/internal/domain/repository"
	"github.com/oksasatya/go-account-service/pkg/apperror"
	"github.com/oksasatya/go-account-service/pkg/helpers"
	"github.com/oksasatya/go-account-service/pkg/mailer"
	tpl "github.com/oksasatya/go-account-service/pkg/mailer/templates"
)

const (
	msgAllFieldsRequired = "All fields are required"
	msgUserExists        = "User with email or username already exists"
	msgAvatarRequired    = "Avatar file is required"
	msgUserNotFound      = "User does not exist"
	msgBadCredentials    = "Invalid user credentials"
	msgUnauthorized      = "unauthorized request"
	msgBadRefresh        = "invalid refresh token"
	msgRefreshUsed       = "refresh token is expired or used"
	msgBadAccess         = "invalid access token"
	msgTokenFailure      = "something went wrong while generating refresh and access token"
	msgRegisterFailure   = "something went wrong while registering the user"
	msgPasswordTooLong   = "Password must be at most 72 bytes"
)

// MediaHost uploads a local temp file and returns its public URL.
// Implementations remove the local file whatever the outcome.
type MediaHost interface {
	Upload(ctx context.Context, localPath string) (string, error)
}

// ProfileCache caches public user views.
type ProfileCache interface {
	Get(ctx context.Context, userID string) (*entity.UserView, bool, error)
	Set(ctx context.Context, v entity.UserView) error
	Invalidate(ctx context.Context, userID string) error
}

// UserIndexer mirrors public user views into a search index.
type UserIndexer interface {
	Index(ctx context.Context, v entity.UserView) error
	Search(ctx context.Context, q string, size int) ([]entity.UserView, error)
}

// Publisher enqueues notification jobs.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

type Service struct {
	Repo    repo.UserRepository
	JWT     *helpers.JWTManager
	Media   MediaHost
	Logger  *logrus.Logger
	Cache   ProfileCache
	Index   UserIndexer
	Pub     Publisher
	Events  *helpers.AuthEvents
	AppName string
}

type Option func(*Service)

func WithCache(c ProfileCache) Option         { return func(s *Service) { s.Cache = c } }
func WithIndexer(i UserIndexer) Option        { return func(s *Service) { s.Index = i } }
func WithPublisher(p Publisher) Option        { return func(s *Service) { s.Pub = p } }
func WithEvents(e *helpers.AuthEvents) Option { return func(s *Service) { s.Events = e } }
func WithAppName(name string) Option          { return func(s *Service) { s.AppName = name } }

func NewService(users repo.UserRepository, jwt *helpers.JWTManager, media MediaHost, logger *logrus.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	s := &Service{Repo: users, JWT: jwt, Media: media, Logger: logger}
	for _, o := range opts {
		o(s)
	}
	return s
}

type TokenPair struct {
	AccessToken        string    `json:"accessToken"`
	AccessTokenExpiry  time.Time `json:"-"`
	RefreshToken       string    `json:"refreshToken"`
	RefreshTokenExpiry time.Time `json:"-"`
}

type RegisterInput struct {
	FullName       string
	Email          string
	Username       string
	Password       string
	AvatarPath     string
	CoverImagePath string
}

type LoginInput struct {
	Username  string
	Email     string
	Password  string
	IP        string
	UserAgent string
}

type LoginResult struct {
	User   entity.UserView
	Tokens TokenPair
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

// passwordError reports an over-long password as a client error and anything else as internal.
func passwordError(err error, failure string) error {
	if errors.Is(err, helpers.ErrPasswordTooLong) {
		return apperror.Wrap(apperror.KindBadRequest, msgPasswordTooLong, err)
	}
	return apperror.Wrap(apperror.KindInternal, failure, err)
}

// Register creates an account. The avatar upload must succeed before anything is stored.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*entity.UserView, error) {
	if blank(in.FullName, in.Email, in.Username, in.Password) {
		return nil, apperror.BadRequest(msgAllFieldsRequired)
	}
	username, email := entity.NormalizeUsername(in.Username), entity.NormalizeEmail(in.Email)

	_, err := s.Repo.FindByUsernameOrEmail(ctx, username, email)
	switch {
	case err == nil:
		return nil, apperror.Conflict(msgUserExists)
	case !errors.Is(err, repo.ErrNotFound):
		return nil, apperror.Wrap(apperror.KindInternal, msgRegisterFailure, err)
	}

	if in.AvatarPath == "" {
		return nil, apperror.BadRequest(msgAvatarRequired)
	}
	// Nothing is uploaded until the password hashes.
	u, err := entity.NewUser(username, email, in.FullName, in.Password)
	if err != nil {
		return nil, passwordError(err, msgRegisterFailure)
	}

	avatarURL, err := s.Media.Upload(ctx, in.AvatarPath)
	if err != nil {
		s.Logger.WithError(err).WithField("username", username).Warn("avatar upload failed")
		return nil, apperror.Wrap(apperror.KindBadRequest, msgAvatarRequired, err)
	}
	var coverURL string
	if in.CoverImagePath != "" {
		if coverURL, err = s.Media.Upload(ctx, in.CoverImagePath); err != nil {
			s.Logger.WithError(err).WithField("username", username).Warn("cover image upload failed")
			coverURL = ""
		}
	}

	u.AvatarURL, u.CoverImageURL = avatarURL, coverURL

	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, apperror.Wrap(apperror.KindConflict, msgUserExists, err)
		}
		return nil, apperror.Wrap(apperror.KindInternal, msgRegisterFailure, err)
	}

	created, err := s.Repo.GetProfile(ctx, u.ID)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, msgRegisterFailure, err)
	}
	view := created.View()
	s.index(ctx, view)
	s.notify(ctx, tpl.Welcome, created)
	s.Logger.WithField("user_id", view.ID).Info("user registered")
	return &view, nil
}

// Login checks credentials, issues a token pair and stores the refresh token,
// replacing whatever session the user had before.
func (s *Service) Login(ctx context.Context, in LoginInput) (res *LoginResult, err error) {
	defer func() { s.Events.Observe("login", err) }()

	if blank(in.Username) && blank(in.Email) {
		return nil, apperror.BadRequest("username or email is required")
	}
	if in.Password == "" {
		return nil, apperror.BadRequest("password is required")
	}

	u, err := s.Repo.FindByUsernameOrEmail(ctx, entity.NormalizeUsername(in.Username), entity.NormalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperror.NotFound(msgUserNotFound)
		}
		return nil, apperror.Wrap(apperror.KindInternal, "login failed", err)
	}
	if !u.CheckPassword(in.Password) {
		return nil, apperror.Unauthorized(msgBadCredentials)
	}

	pair, err := s.issueTokens(u)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SetRefreshToken(ctx, u.ID, pair.RefreshToken); err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, msgTokenFailure, err)
	}
	s.invalidate(ctx, u.ID)

	profile, err := s.Repo.GetProfile(ctx, u.ID)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "login failed", err)
	}
	s.notify(ctx, tpl.LoginNotification, profile,
		tpl.WithIP(in.IP), tpl.WithUserAgent(in.UserAgent), tpl.WithTime(time.Now()))
	return &LoginResult{User: profile.View(), Tokens: pair}, nil
}

// Refresh exchanges the stored refresh token for a new pair. A token that
// verifies but is no longer the stored one (rotated or logged out) is rejected.
// The swap is a compare-and-set, so two concurrent calls with the same token
// cannot both succeed.
func (s *Service) Refresh(ctx context.Context, presented string) (pair TokenPair, err error) {
	defer func() { s.Events.Observe("refresh", err) }()

	if presented == "" {
		return TokenPair{}, apperror.Unauthorized(msgUnauthorized)
	}
	claims, err := s.JWT.ParseRefreshToken(presented)
	if err != nil {
		return TokenPair{}, apperror.Wrap(apperror.KindUnauthorized, msgBadRefresh, err)
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return TokenPair{}, apperror.Unauthorized(msgBadRefresh)
		}
		return TokenPair{}, apperror.Wrap(apperror.KindInternal, "refresh failed", err)
	}
	if subtle.ConstantTimeCompare([]byte(presented), []byte(u.RefreshToken)) != 1 {
		return TokenPair{}, apperror.Unauthorized(msgRefreshUsed)
	}

	pair, err = s.issueTokens(u)
	if err != nil {
		return TokenPair{}, err
	}
	swapped, err := s.Repo.RotateRefreshToken(ctx, u.ID, presented, pair.RefreshToken)
	if err != nil {
		return TokenPair{}, apperror.Wrap(apperror.KindInternal, msgTokenFailure, err)
	}
	if !swapped {
		return TokenPair{}, apperror.Unauthorized(msgRefreshUsed)
	}
	s.invalidate(ctx, u.ID)
	return pair, nil
}

// Logout clears the stored refresh token.
func (s *Service) Logout(ctx context.Context, userID string) (err error) {
	defer func() { s.Events.Observe("logout", err) }()

	if err := s.Repo.SetRefreshToken(ctx, userID, ""); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperror.NotFound(msgUserNotFound)
		}
		return apperror.Wrap(apperror.KindInternal, "logout failed", err)
	}
	s.invalidate(ctx, userID)
	return nil
}

// ChangePassword replaces the password hash. The stored refresh token is left as is,
// so an existing session survives a password change.
func (s *Service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) (err error) {
	defer func() { s.Events.Observe("change_password", err) }()

	if oldPassword == "" || newPassword == "" {
		return apperror.BadRequest(msgAllFieldsRequired)
	}
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperror.NotFound(msgUserNotFound)
		}
		return apperror.Wrap(apperror.KindInternal, "change password failed", err)
	}
	if !u.CheckPassword(oldPassword) {
		return apperror.BadRequest("Invalid old password")
	}
	if err := u.SetPassword(newPassword); err != nil {
		return passwordError(err, "change password failed")
	}
	if err := s.Repo.UpdatePassword(ctx, u.ID, u.Password); err != nil {
		return apperror.Wrap(apperror.KindInternal, "change password failed", err)
	}
	s.invalidate(ctx, u.ID)
	s.notify(ctx, tpl.PasswordChanged, u, tpl.WithTime(time.Now()))
	return nil
}

// GetCurrentUser returns the public view of userID, served from cache when possible.
func (s *Service) GetCurrentUser(ctx context.Context, userID string) (*entity.UserView, error) {
	if s.Cache != nil {
		v, ok, err := s.Cache.Get(ctx, userID)
		if err != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("profile cache read failed")
		}
		if ok {
			return v, nil
		}
	}
	u, err := s.Repo.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperror.NotFound(msgUserNotFound)
		}
		return nil, apperror.Wrap(apperror.KindInternal, "load user failed", err)
	}
	view := u.View()
	s.remember(ctx, view)
	return &view, nil
}

// Authenticate verifies an access token and resolves it to a live user.
// The record is read from the store, not the profile cache, and the fresh
// view replaces the cached one.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*entity.UserView, error) {
	if accessToken == "" {
		return nil, apperror.Unauthorized(msgUnauthorized)
	}
	claims, err := s.JWT.ParseAccessToken(accessToken)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindUnauthorized, msgBadAccess, err)
	}
	u, err := s.Repo.GetProfile(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			s.invalidate(ctx, claims.UserID)
			return nil, apperror.Unauthorized(msgBadAccess)
		}
		return nil, apperror.Wrap(apperror.KindInternal, "load user failed", err)
	}
	view := u.View()
	s.remember(ctx, view)
	return &view, nil
}

// UpdateAccountDetails sets full name and email.
func (s *Service) UpdateAccountDetails(ctx context.Context, userID, fullName, email string) (*entity.UserView, error) {
	if blank(fullName, email) {
		return nil, apperror.BadRequest(msgAllFieldsRequired)
	}
	fullName, email = strings.TrimSpace(fullName), entity.NormalizeEmail(email)
	return s.updateAccount(ctx, userID, entity.AccountUpdate{FullName: &fullName, Email: &email})
}

// UpdateAvatar uploads the file at localPath and points the avatar at it.
func (s *Service) UpdateAvatar(ctx context.Context, userID, localPath string) (*entity.UserView, error) {
	if localPath == "" {
		return nil, apperror.BadRequest("Avatar file is missing")
	}
	url, err := s.Media.Upload(ctx, localPath)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("avatar upload failed")
		return nil, apperror.Wrap(apperror.KindBadRequest, "Error while uploading avatar", err)
	}
	return s.updateAccount(ctx, userID, entity.AccountUpdate{AvatarURL: &url})
}

// UpdateCoverImage uploads the file at localPath and points the cover image at it.
func (s *Service) UpdateCoverImage(ctx context.Context, userID, localPath string) (*entity.UserView, error) {
	if localPath == "" {
		return nil, apperror.BadRequest("Cover image file is missing")
	}
	url, err := s.Media.Upload(ctx, localPath)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("cover image upload failed")
		return nil, apperror.Wrap(apperror.KindBadRequest, "Error while uploading cover image", err)
	}
	return s.updateAccount(ctx, userID, entity.AccountUpdate{CoverImageURL: &url})
}

func (s *Service) updateAccount(ctx context.Context, userID string, in entity.AccountUpdate) (*entity.UserView, error) {
	u, err := s.Repo.UpdateAccount(ctx, userID, in)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return nil, apperror.NotFound(msgUserNotFound)
		case errors.Is(err, repo.ErrDuplicate):
			return nil, apperror.Wrap(apperror.KindConflict, msgUserExists, err)
		default:
			return nil, apperror.Wrap(apperror.KindInternal, "update account failed", err)
		}
	}
	view := u.View()
	s.invalidate(ctx, userID)
	s.index(ctx, view)
	return &view, nil
}

// SearchUsers queries the user directory. Without an index it returns no results.
func (s *Service) SearchUsers(ctx context.Context, q string, size int) ([]entity.UserView, error) {
	q = strings.TrimSpace(q)
	if s.Index == nil || q == "" {
		return []entity.UserView{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	out, err := s.Index.Search(ctx, q, size)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "search failed", err)
	}
	return out, nil
}

func (s *Service) issueTokens(u *entity.User) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, u.Username, u.Email, u.FullName)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		return TokenPair{}, apperror.Wrap(apperror.KindInternal, msgTokenFailure, err)
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate refresh token failed")
		return TokenPair{}, apperror.Wrap(apperror.KindInternal, msgTokenFailure, err)
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *Service) remember(ctx context.Context, v entity.UserView) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Set(ctx, v); err != nil {
		s.Logger.WithError(err).WithField("user_id", v.ID).Warn("profile cache write failed")
	}
}

func (s *Service) invalidate(ctx context.Context, userID string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx, userID); err != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("profile cache invalidate failed")
	}
}

func (s *Service) index(ctx context.Context, v entity.UserView) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, v); err != nil {
		s.Logger.WithError(err).WithField("user_id", v.ID).Warn("es index failed")
	}
}

func (s *Service) notify(ctx context.Context, template string, u *entity.User, opts ...tpl.Option) {
	if s.Pub == nil {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: template,
		Data:     tpl.NewData(s.AppName, u.FullName, u.Username, u.Email, opts...),
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).WithField("template", template).Warn("publish notification failed")
	}
}
