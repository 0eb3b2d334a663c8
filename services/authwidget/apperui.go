package authwidget

import (
	"context"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/studyflow/core"
)

var errMissingContainer = errors.New("container id is required")

// ApperUI is the hosted Apper sign-in widget. Its SDK script renders the login and signup
// forms client side, inside a container element of the page.
type ApperUI struct {
	sdkURL    string
	projectID string
	publicKey string
	logger    core.Logger

	mu    sync.RWMutex
	ready bool
}

var _ core.Authenticator = (*ApperUI)(nil)

func NewApperUI(conf *core.Config, logger core.Logger) *ApperUI {
	return &ApperUI{
		sdkURL:    conf.AuthWidget.SDKURL,
		projectID: conf.AuthWidget.ProjectID,
		publicKey: conf.AuthWidget.PublicKey,
		logger:    logger,
	}
}

// Initialize checks the SDK settings and marks the widget ready. It may be called more than once.
func (w *ApperUI) Initialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var missing []string
	if w.sdkURL == "" {
		missing = append(missing, "sdk url")
	} else if u, err := url.Parse(w.sdkURL); err != nil || u.Host == "" {
		return errors.Errorf("invalid sdk url %q", w.sdkURL)
	}
	if w.projectID == "" {
		missing = append(missing, "project id")
	}
	if w.publicKey == "" {
		missing = append(missing, "public key")
	}
	if missing != nil {
		return errors.Errorf("auth widget: missing %s", strings.Join(missing, ", "))
	}

	w.mu.Lock()
	w.ready = true
	w.mu.Unlock()
	w.logger.Info("auth widget ready", map[string]interface{}{"project": w.projectID})
	return nil
}

func (w *ApperUI) IsReady() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.ready
}

// Mount returns the bootstrap showing the given view (login by default) in containerID.
func (w *ApperUI) Mount(containerID string, view ...string) (core.Mount, error) {
	if !w.IsReady() {
		return core.Mount{}, core.ErrAuthNotReady
	}
	containerID = strings.TrimPrefix(core.CleanString(containerID), "#")
	if containerID == "" {
		return core.Mount{}, errMissingContainer
	}

	v := core.ViewLogin
	if len(view) > 0 && view[0] != "" {
		v = view[0]
	}
	var show string
	switch v {
	case core.ViewLogin:
		show = "showLogin"
	case core.ViewSignup:
		show = "showSignup"
	default:
		return core.Mount{}, errors.Errorf("unknown auth view %q", v)
	}

	script := fmt.Sprintf(
		`ApperUI.setup({projectId: "%s", publicKey: "%s"}); ApperUI.%s("#%s");`,
		template.JSEscapeString(w.projectID),
		template.JSEscapeString(w.publicKey),
		show,
		template.JSEscapeString(containerID),
	)
	return core.Mount{
		ContainerID: containerID,
		View:        v,
		SDKURL:      w.sdkURL,
		Script:      template.JS(script),
	}, nil
}
