package session

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"
)

type contextKey string

const bindingKey contextKey = "session_binding"

// ErrUnbound is returned by cookie-backed stores used outside Middleware.
var ErrUnbound = errors.New("session store used outside an HTTP request")

// CookieOptions controls the cookie carrying session state to the browser.
type CookieOptions struct {
	Name   string
	Path   string
	Secure bool
	TTL    time.Duration
}

func (o CookieOptions) withDefaults() CookieOptions {
	if o.Name == "" {
		o.Name = "token"
	}
	if o.Path == "" {
		o.Path = "/"
	}
	if o.TTL <= 0 {
		o.TTL = 24 * time.Hour
	}
	return o
}

// binding ties cookie-backed stores to the request being served. Cookies
// written during the request shadow the ones the browser sent, so a Save
// followed by a Token in the same request sees the new value.
type binding struct {
	w http.ResponseWriter
	r *http.Request

	mu      sync.Mutex
	written map[string]string
}

// Middleware binds each request so cookie-backed stores can read and write
// the session cookie.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b := &binding{w: w, r: r, written: map[string]string{}}
		ctx := context.WithValue(r.Context(), bindingKey, b)
		b.r = r.WithContext(ctx)
		next.ServeHTTP(w, b.r)
	})
}

func bindingFrom(ctx context.Context) (*binding, error) {
	b, _ := ctx.Value(bindingKey).(*binding)
	if b == nil {
		return nil, ErrUnbound
	}
	return b, nil
}

func (b *binding) cookie(name string) string {
	b.mu.Lock()
	v, ok := b.written[name]
	b.mu.Unlock()
	if ok {
		return v
	}

	c, err := b.r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

func (b *binding) set(opts CookieOptions, value string) {
	c := &http.Cookie{
		Name:     opts.Name,
		Value:    value,
		Path:     opts.Path,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		c.MaxAge = -1
	} else {
		c.Expires = time.Now().Add(opts.TTL)
		c.MaxAge = int(opts.TTL.Seconds())
	}
	http.SetCookie(b.w, c)

	b.mu.Lock()
	b.written[opts.Name] = value
	b.mu.Unlock()
}
