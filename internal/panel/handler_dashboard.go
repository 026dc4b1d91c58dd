package panel

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/edvin/crmpanel/internal/dashboard"
	"github.com/edvin/crmpanel/internal/model"
	"github.com/edvin/crmpanel/internal/ui"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := newDashboardPage()

	if tab, ok := dashboard.ParseTab(r.URL.Query().Get("tab")); ok {
		if s.dashboard.Guard(ctx, page) {
			s.dashboard.SwitchTab(ctx, page, tab)
		}
	} else {
		s.dashboard.Init(ctx, page)
	}

	s.finishDashboard(w, r, page)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	page := newDashboardPage()
	s.dashboard.Logout(r.Context(), page)
	s.finishDashboard(w, r, page)
}

func (s *Server) handleNewCustomer(w http.ResponseWriter, r *http.Request) {
	page := newDashboardPage()
	if s.dashboard.Init(r.Context(), page) {
		s.dashboard.NewCustomer(page)
	}
	s.finishDashboard(w, r, page)
}

func (s *Server) handleDismissCustomer(w http.ResponseWriter, r *http.Request) {
	page := newDashboardPage()
	if s.dashboard.Init(r.Context(), page) {
		s.dashboard.DismissCustomerModal(page)
	}
	s.finishDashboard(w, r, page)
}

func (s *Server) handleEditCustomer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := newDashboardPage()
	if s.dashboard.Init(ctx, page) {
		s.dashboard.EditCustomer(ctx, page, customerID(r))
	}
	s.finishDashboard(w, r, page)
}

func (s *Server) handleAddContact(w http.ResponseWriter, r *http.Request) {
	page := newDashboardPage()
	if s.dashboard.Init(r.Context(), page) {
		s.dashboard.AddContact(page, customerID(r))
	}
	s.finishDashboard(w, r, page)
}

// handleDeleteCustomer without confirm=yes renders the confirm dialog over
// the table. With it, the controller's own reload fills the table.
func (s *Server) handleDeleteCustomer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	page := newDashboardPage()
	page.deleting = customerID(r)
	page.confirmed = r.PostFormValue("confirm") == "yes"

	var ok bool
	if page.confirmed {
		ok = s.dashboard.Guard(ctx, page)
	} else {
		ok = s.dashboard.Init(ctx, page)
	}
	if ok {
		s.dashboard.DeleteCustomer(ctx, page, page.deleting)
	}
	s.finishDashboard(w, r, page)
}

func (s *Server) handleSubmitCustomer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	form := dashboard.CustomerForm{
		ID: model.ID(r.PostFormValue("id")),
		CustomerInput: model.CustomerInput{
			Name:  r.PostFormValue("name"),
			Email: r.PostFormValue("email"),
			Phone: r.PostFormValue("phone"),
		},
	}
	mode := dashboard.ModeAdd
	if !form.ID.IsZero() {
		mode = dashboard.ModeEdit
	}

	page := newDashboardPage()
	page.OpenCustomerModal(mode, form)

	if s.dashboard.Guard(ctx, page) {
		if err := ui.Validate(form.CustomerInput); err != nil {
			page.Alert(err.Error())
		} else {
			s.dashboard.SubmitCustomer(ctx, page, form)
		}
	}
	s.finishDashboard(w, r, page)
}

func (s *Server) handleSubmitContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	in := model.ContactInput{
		CustomerID: model.ID(r.PostFormValue("customer_id")),
		Message:    r.PostFormValue("message"),
	}

	page := newDashboardPage()
	page.OpenContactModal(in)

	if s.dashboard.Guard(ctx, page) {
		if err := ui.Validate(in); err != nil {
			page.Alert(err.Error())
		} else {
			s.dashboard.SubmitContact(ctx, page, in)
		}
	}
	s.finishDashboard(w, r, page)
}

// finishDashboard redirects when the controller navigated away. Otherwise it
// makes sure the active tab has a table to show (a form post that failed
// never reloaded one) and renders the page.
func (s *Server) finishDashboard(w http.ResponseWriter, r *http.Request, page *dashboardPage) {
	if page.redirect != "" {
		http.Redirect(w, r, page.redirect, http.StatusSeeOther)
		return
	}

	ctx := r.Context()
	if !page.activeTableLoaded() {
		if page.Tab == dashboard.TabContacts {
			s.dashboard.LoadContacts(ctx, page)
		} else {
			s.dashboard.LoadCustomers(ctx, page)
		}
	}
	page.Email = s.signedInAs(ctx)

	if err := s.pages.render(w, http.StatusOK, "dashboard.html", page); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to render dashboard")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func customerID(r *http.Request) model.ID {
	raw := chi.URLParam(r, "id")
	if id, err := url.PathUnescape(raw); err == nil {
		raw = id
	}
	return model.ID(raw)
}
