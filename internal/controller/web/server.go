package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/betterthansis/unisis/internal/service"
	"github.com/betterthansis/unisis/internal/validation"
)

type (
	Options struct {
		Address        string
		RequestTimeout time.Duration
		// SessionSecret signs the session cookie. A random key is generated when empty,
		// which logs everybody out on restart.
		SessionSecret  []byte
		SecureCookies  bool
		DisableReqLogs bool
		Debug          bool
		// PhotoDir stores signup photos and is served under /photos. Uploads are
		// ignored when empty.
		PhotoDir string

		// HealthCheck is called by /healthz when set.
		HealthCheck func(ctx context.Context) error

		Auth        AuthService
		Enrollments EnrollmentService
		Lessons     LessonService
		People      *service.PeopleService
		Facilities  *service.FacilityService
		Academics   *service.AcademicService

		Validator *validation.Validator
		Logger    *zap.Logger
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts     *Options
		app      *echo.Echo
		sessions sessions.Store
		logger   *zap.Logger
	}
)

var _ Server = (*server)(nil)

// NewServer builds the HTTP server with every route registered.
func NewServer(opts *Options) Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	secret := opts.SessionSecret
	if len(secret) == 0 {
		secret = securecookie.GenerateRandomKey(32)
		logger.Warn("No session secret configured, sessions will not survive a restart")
	}
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}

	s := &server{
		opts:     opts,
		app:      echo.New(),
		sessions: store,
		logger:   logger,
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.HideBanner = true
	s.app.HidePort = true
	s.app.Debug = s.opts.Debug
	s.app.Renderer = newRenderer()
	s.app.HTTPErrorHandler = newHTTPErrorHandler(s.logger)
	if s.opts.Validator != nil {
		s.app.Validator = s.opts.Validator
	}

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: newRequestID,
	}))
	if !s.opts.DisableReqLogs {
		s.app.Use(requestLogger(s.logger))
	}
	s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			s.logger.Error("Panic recovered",
				zap.String("request_id", requestID(c)),
				zap.String("path", c.Request().URL.Path),
				zap.Error(err),
				zap.ByteString("stack", stack))
			return err
		},
	}))
	if s.opts.RequestTimeout > 0 {
		s.app.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
			Timeout: s.opts.RequestTimeout,
		}))
	}
	s.app.Use(s.loadAccount)

	if s.opts.PhotoDir != "" {
		s.app.Static("/photos", s.opts.PhotoDir)
	}

	s.registerPublic()
	s.registerLessons()
	s.registerSettings()
	s.registerAdmin()
}

func (s *server) Start() error {
	s.logger.Info("HTTP server listening", zap.String("address", s.opts.Address))
	if err := s.app.Start(s.opts.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.app.ServeHTTP(w, r)
}
