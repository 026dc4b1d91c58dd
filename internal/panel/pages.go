package panel

import (
	"github.com/edvin/crmpanel/internal/dashboard"
	"github.com/edvin/crmpanel/internal/model"
	"github.com/edvin/crmpanel/internal/ui"
)

// routePath maps a navigation target to its URL.
func routePath(route ui.Route) string {
	switch route {
	case ui.RouteDashboard:
		return "/dashboard"
	default:
		return "/login"
	}
}

// navigation is embedded by pages; a recorded route turns the response into
// a 303 instead of a render.
type navigation struct {
	redirect string
}

func (n *navigation) Navigate(route ui.Route) {
	n.redirect = routePath(route)
}

// loginPage implements login.View for one request.
type loginPage struct {
	navigation

	Email        string
	Error        string
	ErrorVisible bool
}

func (p *loginPage) ClearError() {
	p.Error = ""
	p.ErrorVisible = false
}

func (p *loginPage) ShowError(message string) {
	p.Error = message
	p.ErrorVisible = true
}

type table[T any] struct {
	Loaded  bool
	Loading bool
	Rows    []T
	Error   string
}

func (t *table[T]) loading() {
	*t = table[T]{Loading: true}
}

func (t *table[T]) show(rows []T) {
	*t = table[T]{Loaded: true, Rows: rows}
}

func (t *table[T]) failed(message string) {
	*t = table[T]{Loaded: true, Error: message}
}

type customerModal struct {
	Mode dashboard.ModalMode
	Form dashboard.CustomerForm
}

type confirmDialog struct {
	ID     model.ID
	Prompt string
}

// dashboardPage implements dashboard.View for one request. Fields set before
// the controller runs describe what the browser had on screen when the
// request was made.
type dashboardPage struct {
	navigation

	Email         string
	Tab           dashboard.Tab
	Customers     table[model.Customer]
	Contacts      table[model.Contact]
	CustomerModal *customerModal
	ContactModal  *model.ContactInput
	ConfirmDelete *confirmDialog
	Alerts        []string

	// deleting is the customer a Confirm call refers to; confirmed is the
	// operator's answer when the request already carries one.
	deleting  model.ID
	confirmed bool
}

func newDashboardPage() *dashboardPage {
	return &dashboardPage{Tab: dashboard.TabCustomers}
}

func (p *dashboardPage) CustomersLoading()                        { p.Customers.loading() }
func (p *dashboardPage) ShowCustomers(customers []model.Customer) { p.Customers.show(customers) }
func (p *dashboardPage) CustomersFailed(message string)           { p.Customers.failed(message) }
func (p *dashboardPage) ContactsLoading()                         { p.Contacts.loading() }
func (p *dashboardPage) ShowContacts(contacts []model.Contact)    { p.Contacts.show(contacts) }
func (p *dashboardPage) ContactsFailed(message string)            { p.Contacts.failed(message) }

func (p *dashboardPage) OpenCustomerModal(mode dashboard.ModalMode, form dashboard.CustomerForm) {
	p.CustomerModal = &customerModal{Mode: mode, Form: form}
}

func (p *dashboardPage) CloseCustomerModal() {
	p.CustomerModal = nil
}

func (p *dashboardPage) ResetCustomerModal() {
	if p.CustomerModal != nil {
		p.CustomerModal.Mode = dashboard.ModeAdd
		p.CustomerModal.Form = dashboard.CustomerForm{}
	}
}

func (p *dashboardPage) OpenContactModal(form model.ContactInput) {
	p.ContactModal = &form
}

func (p *dashboardPage) CloseContactModal() {
	p.ContactModal = nil
}

func (p *dashboardPage) ActivateTab(tab dashboard.Tab) {
	p.Tab = tab
}

// Confirm answers from the request. Without an answer it renders the confirm
// dialog, whose form repeats the request with confirm=yes.
func (p *dashboardPage) Confirm(prompt string) bool {
	if p.confirmed {
		return true
	}
	p.ConfirmDelete = &confirmDialog{ID: p.deleting, Prompt: prompt}
	return false
}

func (p *dashboardPage) Alert(message string) {
	p.Alerts = append(p.Alerts, message)
}

// activeTableLoaded reports whether the table of the active tab has data to
// render.
func (p *dashboardPage) activeTableLoaded() bool {
	if p.Tab == dashboard.TabContacts {
		return p.Contacts.Loaded
	}
	return p.Customers.Loaded
}
