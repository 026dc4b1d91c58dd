package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/edvin/crmpanel/internal/dashboard"
	"github.com/edvin/crmpanel/internal/model"
	"github.com/edvin/crmpanel/internal/ui"
)

// Terminal implements login.View and dashboard.View on a pair of output
// streams. Tables go to Out; errors, alerts and prompts go to Err.
type Terminal struct {
	Out io.Writer
	Err io.Writer
	In  io.Reader
	// AssumeYes answers every confirmation with yes.
	AssumeYes bool

	failed    bool
	navigated ui.Route
	declined  bool
	customer  *dashboard.CustomerForm
	contact   *model.ContactInput
	reader    *bufio.Reader
}

// Failed reports whether anything was shown as an error.
func (t *Terminal) Failed() bool { return t.failed }

// Navigated returns the last route the controller sent the terminal to.
func (t *Terminal) Navigated() ui.Route { return t.navigated }

// Declined reports whether a confirmation was answered with no.
func (t *Terminal) Declined() bool { return t.declined }

// CustomerForm returns the form of the open customer modal, or nil.
func (t *Terminal) CustomerForm() *dashboard.CustomerForm { return t.customer }

// ContactForm returns the form of the open contact modal, or nil.
func (t *Terminal) ContactForm() *model.ContactInput { return t.contact }

func (t *Terminal) Navigate(route ui.Route) {
	t.navigated = route
}

func (t *Terminal) ClearError() {}

func (t *Terminal) ShowError(message string) {
	t.failed = true
	fmt.Fprintf(t.Err, "Login failed: %s\n", message)
}

func (t *Terminal) CustomersLoading() {}

func (t *Terminal) ShowCustomers(customers []model.Customer) {
	if len(customers) == 0 {
		fmt.Fprintln(t.Out, "No customers.")
		return
	}

	w := tabwriter.NewWriter(t.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE")
	for _, c := range customers {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID, oneLine(c.Name), oneLine(c.Email), oneLine(c.Phone))
	}
	w.Flush()
}

func (t *Terminal) CustomersFailed(message string) {
	t.failed = true
	fmt.Fprintf(t.Err, "Error loading customers: %s\n", message)
}

func (t *Terminal) ContactsLoading() {}

func (t *Terminal) ShowContacts(contacts []model.Contact) {
	if len(contacts) == 0 {
		fmt.Fprintln(t.Out, "No contacts.")
		return
	}

	w := tabwriter.NewWriter(t.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CUSTOMER\tMESSAGE\tDATE")
	for _, c := range contacts {
		fmt.Fprintf(w, "%s\t%s\t%s\n", oneLine(c.CustomerName), oneLine(c.Message), c.Date)
	}
	w.Flush()
}

func (t *Terminal) ContactsFailed(message string) {
	t.failed = true
	fmt.Fprintf(t.Err, "Error loading contacts: %s\n", message)
}

func (t *Terminal) OpenCustomerModal(_ dashboard.ModalMode, form dashboard.CustomerForm) {
	t.customer = &form
}

func (t *Terminal) CloseCustomerModal() {
	t.customer = nil
}

func (t *Terminal) ResetCustomerModal() {
	if t.customer != nil {
		*t.customer = dashboard.CustomerForm{}
	}
}

func (t *Terminal) OpenContactModal(form model.ContactInput) {
	t.contact = &form
}

func (t *Terminal) CloseContactModal() {
	t.contact = nil
}

// ActivateTab is a no-op: each command prints exactly one table.
func (t *Terminal) ActivateTab(dashboard.Tab) {}

// Confirm reads a y/N answer from In.
func (t *Terminal) Confirm(prompt string) bool {
	if t.AssumeYes {
		return true
	}
	t.declined = true
	if t.In == nil {
		return false
	}
	if t.reader == nil {
		t.reader = bufio.NewReader(t.In)
	}

	fmt.Fprintf(t.Err, "%s [y/N] ", prompt)
	answer, _ := t.reader.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		t.declined = false
		return true
	}
	return false
}

func (t *Terminal) Alert(message string) {
	t.failed = true
	fmt.Fprintln(t.Err, message)
}

// oneLine keeps multi-line values from breaking the table layout.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
