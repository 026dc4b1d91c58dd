package panel

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/edvin/crmpanel/internal/crmapi"
	"github.com/edvin/crmpanel/internal/ui"
)

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.renderLogin(w, r, &loginPage{})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	creds := crmapi.Credentials{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	page := &loginPage{Email: creds.Email}

	if err := ui.Validate(creds); err != nil {
		page.ShowError(err.Error())
	} else {
		s.login.Submit(r.Context(), page, creds)
	}

	if page.redirect != "" {
		http.Redirect(w, r, page.redirect, http.StatusSeeOther)
		return
	}
	s.renderLogin(w, r, page)
}

func (s *Server) renderLogin(w http.ResponseWriter, r *http.Request, page *loginPage) {
	if err := s.pages.render(w, http.StatusOK, "login.html", page); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to render login page")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
