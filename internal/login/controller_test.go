package login

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/edvin/crmpanel/internal/crmapi"
	"github.com/edvin/crmpanel/internal/session"
	"github.com/edvin/crmpanel/internal/ui"
)

type mockAuth struct {
	mock.Mock
}

func (m *mockAuth) Login(ctx context.Context, creds crmapi.Credentials) (string, error) {
	args := m.Called(ctx, creds)
	return args.String(0), args.Error(1)
}

// fakeView records what the controller asked the login screen to do.
type fakeView struct {
	calls      []string
	errorText  string
	errorShown bool
	navigated  []ui.Route
}

func (v *fakeView) ClearError() {
	v.calls = append(v.calls, "clear")
	v.errorText = ""
	v.errorShown = false
}

func (v *fakeView) ShowError(message string) {
	v.calls = append(v.calls, "error")
	v.errorText = message
	v.errorShown = true
}

func (v *fakeView) Navigate(route ui.Route) {
	v.calls = append(v.calls, "navigate")
	v.navigated = append(v.navigated, route)
}

func TestSubmit_Success(t *testing.T) {
	ctx := context.Background()
	creds := crmapi.Credentials{Email: "a@b.com", Password: "x"}

	auth := &mockAuth{}
	auth.On("Login", ctx, creds).Return("abc", nil).Once()
	store := session.NewMemoryStore("")
	view := &fakeView{}

	NewController(auth, store).Submit(ctx, view, creds)

	token, err := store.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", token)
	assert.Equal(t, []ui.Route{ui.RouteDashboard}, view.navigated)
	assert.False(t, view.errorShown)
	assert.Equal(t, []string{"clear", "navigate"}, view.calls)
	auth.AssertExpectations(t)
}

func TestSubmit_Failure(t *testing.T) {
	ctx := context.Background()
	creds := crmapi.Credentials{Email: "a@b.com", Password: "wrong"}

	auth := &mockAuth{}
	auth.On("Login", ctx, creds).Return("", &crmapi.Error{Message: "wrong password"})
	store := session.NewMemoryStore("")
	view := &fakeView{}

	NewController(auth, store).Submit(ctx, view, creds)

	assert.True(t, view.errorShown)
	assert.Equal(t, "wrong password", view.errorText)
	assert.Empty(t, view.navigated)
	assert.False(t, session.Authenticated(ctx, store))
}

func TestSubmit_ClearsPreviousError(t *testing.T) {
	ctx := context.Background()
	creds := crmapi.Credentials{Email: "a@b.com", Password: "x"}

	auth := &mockAuth{}
	auth.On("Login", ctx, creds).Return("", errors.New("first")).Once()
	auth.On("Login", ctx, creds).Return("abc", nil).Once()
	view := &fakeView{}
	c := NewController(auth, session.NewMemoryStore(""))

	c.Submit(ctx, view, creds)
	require.True(t, view.errorShown)

	c.Submit(ctx, view, creds)
	assert.False(t, view.errorShown)
	assert.Equal(t, []string{"clear", "error", "clear", "navigate"}, view.calls)
}

type brokenStore struct{ session.Store }

func (brokenStore) Save(context.Context, string) error { return errors.New("write session state: read-only") }

func TestSubmit_SaveFailure(t *testing.T) {
	ctx := context.Background()
	creds := crmapi.Credentials{Email: "a@b.com", Password: "x"}

	auth := &mockAuth{}
	auth.On("Login", ctx, creds).Return("abc", nil)
	view := &fakeView{}

	NewController(auth, brokenStore{}).Submit(ctx, view, creds)

	assert.Equal(t, "write session state: read-only", view.errorText)
	assert.Empty(t, view.navigated)
}
