// Package login drives the login form.
package login

import (
	"context"

	"github.com/edvin/crmpanel/internal/crmapi"
	"github.com/edvin/crmpanel/internal/session"
	"github.com/edvin/crmpanel/internal/ui"
)

// Authenticator exchanges credentials for a token without using any stored one.
type Authenticator interface {
	Login(ctx context.Context, creds crmapi.Credentials) (string, error)
}

// View is the login screen. The error region is hidden unless ShowError
// was the last call.
type View interface {
	ui.Navigator
	ClearError()
	ShowError(message string)
}

type Controller struct {
	auth  Authenticator
	store session.Store
}

func NewController(auth Authenticator, store session.Store) *Controller {
	return &Controller{auth: auth, store: store}
}

// Submit attempts a login. On success the token replaces whatever the session
// held and the view moves to the dashboard; on failure the error is shown
// inline and nothing is stored.
func (c *Controller) Submit(ctx context.Context, v View, creds crmapi.Credentials) {
	v.ClearError()

	token, err := c.auth.Login(ctx, creds)
	if err != nil {
		v.ShowError(crmapi.Message(err))
		return
	}

	if err := c.store.Save(ctx, token); err != nil {
		v.ShowError(err.Error())
		return
	}

	v.Navigate(ui.RouteDashboard)
}
