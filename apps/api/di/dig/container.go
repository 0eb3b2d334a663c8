package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	"github.com/trezcool/studyflow/apps"
	echoapi "github.com/trezcool/studyflow/apps/api/echo"
	"github.com/trezcool/studyflow/core"
	"github.com/trezcool/studyflow/core/assignment"
	"github.com/trezcool/studyflow/core/class"
	"github.com/trezcool/studyflow/services/authwidget"
	logsvc "github.com/trezcool/studyflow/services/logger"
)

const backendSetupTimeout = 30 * time.Second

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

func newConfig() *core.Config {
	conf := core.NewConfig()
	if err := conf.CheckSecrets(); err != nil {
		log.Fatalf("config: %v", err)
	}
	return conf
}

func rollbarEnabled(conf *core.Config) bool {
	return conf.RollbarToken != "" && !(conf.Debug || conf.TestMode)
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(rollbarEnabled(conf))
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(rollbarEnabled(conf))
	return logger
}

func newBackend(conf *core.Config, loggerParam DBLoggerParam) (*apps.Backend, core.RecordClient) {
	ctx, cancel := context.WithTimeout(context.Background(), backendSetupTimeout)
	defer cancel()

	backend, err := apps.OpenBackend(ctx, conf, true /* migrate */)
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up %s backend: %v", conf.Backend.Driver, err), err)
	}
	loggerParam.Logger.Info(fmt.Sprintf("record backend ready : %s", backend.Driver))
	return backend, backend.Client
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

func newAuthenticator(conf *core.Config, logger core.Logger) core.Authenticator {
	return authwidget.NewApperUI(conf, logger)
}

type serverParams struct {
	dig.In
	Conf          *core.Config
	Logger        core.Logger
	Validate      *validator.Validate
	Translator    ut.Translator
	AssignmentSvc assignment.ServiceInterface
	ClassSvc      class.ServiceInterface
	Auth          core.Authenticator
}

func newServer(p serverParams) (*echoapi.Server, error) {
	return echoapi.NewServer(echoapi.Options{
		Conf:          p.Conf,
		Logger:        p.Logger,
		Validate:      p.Validate,
		Translator:    p.Translator,
		AssignmentSvc: p.AssignmentSvc,
		ClassSvc:      p.ClassSvc,
		Auth:          p.Auth,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(newConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newBackend))
	must(c.Provide(validator.New))
	must(c.Provide(newTranslator))
	must(c.Provide(assignment.NewService, dig.As(new(assignment.ServiceInterface))))
	must(c.Provide(class.NewService, dig.As(new(class.ServiceInterface))))
	must(c.Provide(newAuthenticator))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
