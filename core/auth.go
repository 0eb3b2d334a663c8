package core

import (
	"context"
	"html/template"

	"github.com/pkg/errors"
)

var ErrAuthNotReady = errors.New("authentication widget not initialized")

// Widget views.
const (
	ViewLogin  = "login"
	ViewSignup = "signup"
)

type (
	// Authenticator is the vendor login widget. It renders itself client side into a container element.
	Authenticator interface {
		Initialize(ctx context.Context) error
		Mount(containerID string, view ...string) (Mount, error)
		IsReady() bool
	}

	// Mount holds what a page needs to show the widget in ContainerID.
	Mount struct {
		ContainerID string
		View        string
		SDKURL      string
		Script      template.JS
	}
)
