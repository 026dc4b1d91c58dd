package dashboard

import (
	"github.com/edvin/crmpanel/internal/model"
	"github.com/edvin/crmpanel/internal/ui"
)

type Tab string

const (
	TabCustomers Tab = "customers"
	TabContacts  Tab = "contacts"
)

// ParseTab returns the tab named s.
func ParseTab(s string) (Tab, bool) {
	switch Tab(s) {
	case TabCustomers, TabContacts:
		return Tab(s), true
	}
	return "", false
}

// ModalMode selects the title of the customer modal.
type ModalMode int

const (
	ModeAdd ModalMode = iota
	ModeEdit
)

func (m ModalMode) Title() string {
	if m == ModeEdit {
		return "Edit Customer"
	}
	return "Add Customer"
}

// CustomerForm backs the single add/edit form. A non-empty ID is the edit
// state: submitting updates that customer instead of creating one.
type CustomerForm struct {
	ID model.ID
	model.CustomerInput
}

// View is everything the dashboard controller can do to a screen. Adapters
// keep the screen state (form fields, open modals, active tab); the
// controller keeps none.
type View interface {
	ui.Navigator

	CustomersLoading()
	ShowCustomers(customers []model.Customer)
	CustomersFailed(message string)

	ContactsLoading()
	ShowContacts(contacts []model.Contact)
	ContactsFailed(message string)

	// OpenCustomerModal fills the form, sets the title and shows the modal.
	OpenCustomerModal(mode ModalMode, form CustomerForm)
	CloseCustomerModal()
	// ResetCustomerModal empties the form (including the hidden ID) and
	// restores the add title.
	ResetCustomerModal()

	// OpenContactModal shows the contact modal filled from form. The
	// controller always passes an empty message.
	OpenContactModal(form model.ContactInput)
	CloseContactModal()

	ActivateTab(tab Tab)

	// Confirm asks the operator a yes/no question.
	Confirm(prompt string) bool
	// Alert shows a blocking message.
	Alert(message string)
}
