package echoapi

import (
	"context"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"github.com/trezcool/studyflow/core"
	"github.com/trezcool/studyflow/core/assignment"
	"github.com/trezcool/studyflow/core/class"
	appfs "github.com/trezcool/studyflow/fs"
)

type (
	Options struct {
		Conf           *core.Config
		Logger         core.Logger
		Validate       *validator.Validate
		Translator     ut.Translator
		AssignmentSvc  assignment.ServiceInterface
		ClassSvc       class.ServiceInterface
		Auth           core.Authenticator
		DisableReqLogs bool
	}

	Server struct {
		opts     Options
		app      *echo.Echo
		jwt      *jwtAuth
		pages    *template.Template
		shutdown chan os.Signal
		errors   chan error
	}
)

func NewServer(opts Options) (*Server, error) {
	pages, err := template.ParseFS(appfs.FS, "templates/*.gohtml")
	if err != nil {
		return nil, errors.Wrap(err, "parsing page templates")
	}

	s := &Server{
		opts:     opts,
		app:      echo.New(),
		jwt:      newJWTAuth(opts.Conf),
		pages:    pages,
		shutdown: make(chan os.Signal, 1),
		errors:   make(chan error, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s, nil
}

func (s *Server) setup() {
	conf := s.opts.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: newRequestID}))
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.Translator, s.jwt, s.SignalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", s.home)
	registerAuthPages(s.app, s.pages, s.opts.Auth, conf.AppName)

	v1 := s.app.Group("/v1", s.jwt.middleware())
	registerAssignmentAPI(v1, s.opts.AssignmentSvc, s.opts.Validate)
	registerClassAPI(v1, s.opts.ClassSvc, s.opts.AssignmentSvc, s.opts.Validate)
}

// Start serves until the server is shut down. Listener errors are reported on Errors().
func (s *Server) Start() {
	if err := s.app.Start(s.opts.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

// SignalShutdown asks main to gracefully shut the server down.
func (s *Server) SignalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func newRequestID() string {
	return uuid.New().String()
}

func (s *Server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+s.opts.Conf.AppName+" API!")
}
