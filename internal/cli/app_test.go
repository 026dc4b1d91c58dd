package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/crmpanel/internal/crmapi"
	"github.com/edvin/crmpanel/internal/session"
)

// fakeCRM answers the CRM endpoints with canned data and records calls.
type fakeCRM struct {
	mu     sync.Mutex
	calls  []string
	bodies map[string]string
	status map[string]int
}

func newFakeCRM(t *testing.T) (*fakeCRM, *httptest.Server) {
	t.Helper()
	f := &fakeCRM{bodies: map[string]string{}, status: map[string]int{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		call := r.Method + " " + r.URL.Path

		f.mu.Lock()
		f.calls = append(f.calls, call)
		f.bodies[call] = string(body)
		status, fail := f.status[call]
		f.mu.Unlock()

		if fail {
			w.WriteHeader(status)
			io.WriteString(w, `{"message":"rejected"}`)
			return
		}
		switch call {
		case "POST /api/login":
			io.WriteString(w, `{"token":"abc"}`)
		case "GET /api/customers":
			io.WriteString(w, `[{"id":1,"name":"Alice","email":"a@x.com","phone":"555"}]`)
		case "GET /api/contacts":
			io.WriteString(w, `[{"customer_name":"Alice","message":"Called","date":"2024-01-01"}]`)
		case "DELETE /api/customers/1":
			w.WriteHeader(http.StatusNoContent)
		default:
			io.WriteString(w, `{}`)
		}
	}))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeCRM) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type harness struct {
	app   *App
	out   *bytes.Buffer
	err   *bytes.Buffer
	store *session.FileStore
	crm   *fakeCRM
}

func newHarness(t *testing.T, token, input string) *harness {
	t.Helper()
	crm, srv := newFakeCRM(t)
	store := session.NewFileStore(filepath.Join(t.TempDir(), "state.json"))
	if token != "" {
		require.NoError(t, store.Save(context.Background(), token))
	}

	h := &harness{out: &bytes.Buffer{}, err: &bytes.Buffer{}, store: store, crm: crm}
	h.app = &App{
		Out:       h.out,
		Err:       h.err,
		In:        strings.NewReader(input),
		Store:     store,
		API:       crmapi.NewClient(srv.URL, store),
		StatePath: store.Path(),
	}
	return h
}

func (h *harness) run(args ...string) int {
	return h.app.Run(context.Background(), args)
}

func TestRun_Usage(t *testing.T) {
	h := newHarness(t, "", "")

	assert.Equal(t, 2, h.run())
	assert.Contains(t, h.err.String(), "Usage: crmctl")

	assert.Equal(t, 2, h.run("bogus"))
	assert.Contains(t, h.err.String(), "Unknown command: bogus")
}

func TestRun_Login(t *testing.T) {
	h := newHarness(t, "", "")

	code := h.run("login", "-email", "ops@example.com", "-password", "x")

	assert.Equal(t, 0, code)
	assert.Equal(t, "Logged in as ops@example.com\n", h.out.String())
	token, err := h.store.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	var sent map[string]string
	require.NoError(t, json.Unmarshal([]byte(h.crm.bodies["POST /api/login"]), &sent))
	assert.Equal(t, "ops@example.com", sent["email"])
}

func TestRun_LoginFailure(t *testing.T) {
	h := newHarness(t, "", "")
	h.crm.status["POST /api/login"] = http.StatusUnauthorized

	assert.Equal(t, 1, h.run("login", "-email", "ops@example.com", "-password", "bad"))
	assert.Equal(t, "Login failed: rejected\n", h.err.String())
	assert.False(t, session.Authenticated(context.Background(), h.store))
}

func TestRun_LoginValidation(t *testing.T) {
	h := newHarness(t, "", "")

	assert.Equal(t, 1, h.run("login", "-email", "nope", "-password", "x"))
	assert.Contains(t, h.err.String(), "email must be a valid email address")
	assert.Empty(t, h.crm.Calls())
}

func TestRun_GuardedCommandsWithoutSession(t *testing.T) {
	for _, args := range [][]string{
		{"customers"},
		{"contacts"},
		{"add", "-name", "A", "-email", "a@x.com"},
		{"edit", "-id", "1"},
		{"delete", "-yes", "1"},
		{"contact", "-customer", "1", "-message", "hi"},
	} {
		t.Run(args[0], func(t *testing.T) {
			h := newHarness(t, "", "")

			assert.Equal(t, 1, h.run(args...))
			assert.Contains(t, h.err.String(), "Not logged in. Run: crmctl login")
			assert.Empty(t, h.crm.Calls())
		})
	}
}

func TestRun_Customers(t *testing.T) {
	h := newHarness(t, "abc", "")

	assert.Equal(t, 0, h.run("customers"))
	assert.Contains(t, h.out.String(), "Alice")
	assert.Equal(t, []string{"GET /api/customers"}, h.crm.Calls())
}

func TestRun_CustomersFailure(t *testing.T) {
	h := newHarness(t, "abc", "")
	h.crm.status["GET /api/customers"] = http.StatusInternalServerError

	assert.Equal(t, 1, h.run("customers"))
	assert.Equal(t, "Error loading customers: rejected\n", h.err.String())
}

func TestRun_Add(t *testing.T) {
	h := newHarness(t, "abc", "")

	assert.Equal(t, 0, h.run("add", "-name", "Carol", "-email", "c@x.com"))
	assert.Equal(t, []string{"POST /api/customers", "GET /api/customers"}, h.crm.Calls())
	assert.JSONEq(t, `{"name":"Carol","email":"c@x.com","phone":""}`, h.crm.bodies["POST /api/customers"])
}

func TestRun_AddValidation(t *testing.T) {
	h := newHarness(t, "abc", "")

	assert.Equal(t, 1, h.run("add", "-email", "c@x.com"))
	assert.Equal(t, "name is required\n", h.err.String())
	assert.Empty(t, h.crm.Calls())
}

func TestRun_EditKeepsUnsetFields(t *testing.T) {
	h := newHarness(t, "abc", "")

	assert.Equal(t, 0, h.run("edit", "-id", "1", "-phone", "556"))
	assert.Equal(t, []string{"GET /api/customers", "PUT /api/customers/1", "GET /api/customers"}, h.crm.Calls())
	assert.JSONEq(t, `{"name":"Alice","email":"a@x.com","phone":"556"}`, h.crm.bodies["PUT /api/customers/1"])
}

func TestRun_EditUnknownCustomer(t *testing.T) {
	h := newHarness(t, "abc", "")

	assert.Equal(t, 1, h.run("edit", "-id", "9", "-name", "X"))
	assert.Equal(t, "Customer 9 not found\n", h.err.String())
	assert.Equal(t, []string{"GET /api/customers"}, h.crm.Calls())
}

func TestRun_Delete(t *testing.T) {
	t.Run("interactive yes", func(t *testing.T) {
		h := newHarness(t, "abc", "y\n")

		assert.Equal(t, 0, h.run("delete", "1"))
		assert.Equal(t, []string{"DELETE /api/customers/1", "GET /api/customers"}, h.crm.Calls())
	})

	t.Run("interactive no", func(t *testing.T) {
		h := newHarness(t, "abc", "n\n")

		assert.Equal(t, 0, h.run("delete", "1"))
		assert.Contains(t, h.err.String(), "Aborted.")
		assert.Empty(t, h.crm.Calls())
	})

	t.Run("assume yes", func(t *testing.T) {
		h := newHarness(t, "abc", "")

		assert.Equal(t, 0, h.run("delete", "-yes", "1"))
		assert.NotContains(t, h.err.String(), "[y/N]")
		assert.Len(t, h.crm.Calls(), 2)
	})

	t.Run("missing id", func(t *testing.T) {
		h := newHarness(t, "abc", "")

		assert.Equal(t, 2, h.run("delete"))
		assert.Contains(t, h.err.String(), "usage: crmctl delete")
	})
}

func TestRun_Contact(t *testing.T) {
	h := newHarness(t, "abc", "")

	assert.Equal(t, 0, h.run("contact", "-customer", "1", "-message", "Called"))
	assert.Equal(t, []string{"POST /api/contacts", "GET /api/contacts"}, h.crm.Calls())
	assert.JSONEq(t, `{"customer_id":1,"message":"Called"}`, h.crm.bodies["POST /api/contacts"])
	assert.Contains(t, h.out.String(), "Called")
}

func TestRun_ContactFailure(t *testing.T) {
	h := newHarness(t, "abc", "")
	h.crm.status["POST /api/contacts"] = http.StatusBadRequest

	assert.Equal(t, 1, h.run("contact", "-customer", "1", "-message", "Called"))
	assert.Equal(t, "Error: rejected\n", h.err.String())
}

func TestRun_StatusAndLogout(t *testing.T) {
	h := newHarness(t, "abc", "")

	assert.Equal(t, 0, h.run("status"))
	assert.Contains(t, h.out.String(), "Logged in.")
	assert.Contains(t, h.out.String(), h.store.Path())

	h.out.Reset()
	assert.Equal(t, 0, h.run("logout"))
	assert.Equal(t, "Logged out.\n", h.out.String())

	h.out.Reset()
	assert.Equal(t, 1, h.run("status"))
	assert.Equal(t, "Not logged in.\n", h.out.String())
}
