// Package dashboard drives the customer and contact tables and their forms.
package dashboard

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"golang.org/x/sync/singleflight"

	"github.com/edvin/crmpanel/internal/crmapi"
	"github.com/edvin/crmpanel/internal/model"
	"github.com/edvin/crmpanel/internal/session"
	"github.com/edvin/crmpanel/internal/ui"
)

// DeletePrompt is the confirmation question asked before deleting a customer.
const DeletePrompt = "Are you sure you want to delete this customer?"

// API is the part of the CRM client the dashboard uses.
type API interface {
	ListCustomers(ctx context.Context) ([]model.Customer, error)
	CreateCustomer(ctx context.Context, in model.CustomerInput) (*model.Customer, error)
	UpdateCustomer(ctx context.Context, id model.ID, in model.CustomerInput) (*model.Customer, error)
	DeleteCustomer(ctx context.Context, id model.ID) error
	ListContacts(ctx context.Context) ([]model.Contact, error)
	CreateContact(ctx context.Context, in model.ContactInput) (*model.Contact, error)
}

// Controller is safe for concurrent use; every method works only on the view
// it is handed.
type Controller struct {
	api   API
	store session.Store

	// inflight coalesces identical mutations submitted concurrently by the
	// same session into one API call.
	inflight singleflight.Group
}

func NewController(api API, store session.Store) *Controller {
	return &Controller{api: api, store: store}
}

// Guard sends the view to the login screen when no token is stored. It makes
// no API call.
func (c *Controller) Guard(ctx context.Context, v View) bool {
	if !session.Authenticated(ctx, c.store) {
		v.Navigate(ui.RouteLogin)
		return false
	}
	return true
}

// Init is page entry: the guard, then one customer load.
func (c *Controller) Init(ctx context.Context, v View) bool {
	if !c.Guard(ctx, v) {
		return false
	}
	c.LoadCustomers(ctx, v)
	return true
}

func (c *Controller) Logout(ctx context.Context, v View) {
	if err := c.store.Clear(ctx); err != nil {
		v.Alert(err.Error())
		return
	}
	v.Navigate(ui.RouteLogin)
}

func (c *Controller) LoadCustomers(ctx context.Context, v View) {
	v.CustomersLoading()

	customers, err := c.api.ListCustomers(ctx)
	if err != nil {
		v.CustomersFailed(crmapi.Message(err))
		return
	}
	v.ShowCustomers(customers)
}

// NewCustomer opens an empty add form.
func (c *Controller) NewCustomer(v View) {
	v.ResetCustomerModal()
	v.OpenCustomerModal(ModeAdd, CustomerForm{})
}

// EditCustomer re-fetches the list rather than trusting the rendered rows,
// then opens the form for id. An id that is no longer listed does nothing.
func (c *Controller) EditCustomer(ctx context.Context, v View, id model.ID) {
	customers, err := c.api.ListCustomers(ctx)
	if err != nil {
		v.Alert(alertText(err))
		return
	}

	customer, ok := model.FindCustomer(customers, id)
	if !ok {
		return
	}

	v.OpenCustomerModal(ModeEdit, CustomerForm{ID: customer.ID, CustomerInput: customer.Input()})
}

// DeleteCustomer deletes id after confirmation and reloads the table once.
func (c *Controller) DeleteCustomer(ctx context.Context, v View, id model.ID) {
	if !v.Confirm(DeletePrompt) {
		return
	}

	err := c.coalesce(ctx, "delete-customer", id, func(ctx context.Context) error {
		return c.api.DeleteCustomer(ctx, id)
	})
	if err != nil {
		v.Alert(alertText(err))
		return
	}
	c.LoadCustomers(ctx, v)
}

// SubmitCustomer creates or updates depending on the hidden ID. On failure
// the modal stays open with the operator's input.
func (c *Controller) SubmitCustomer(ctx context.Context, v View, form CustomerForm) {
	err := c.coalesce(ctx, "submit-customer", form, func(ctx context.Context) error {
		var err error
		if form.ID.IsZero() {
			_, err = c.api.CreateCustomer(ctx, form.CustomerInput)
		} else {
			_, err = c.api.UpdateCustomer(ctx, form.ID, form.CustomerInput)
		}
		return err
	})
	if err != nil {
		v.Alert(alertText(err))
		return
	}

	v.CloseCustomerModal()
	c.DismissCustomerModal(v)
	c.LoadCustomers(ctx, v)
}

// DismissCustomerModal runs whenever the customer modal closes, whether by
// submit or cancel.
func (c *Controller) DismissCustomerModal(v View) {
	v.ResetCustomerModal()
}

// AddContact opens the contact modal for customerID. It leaves the customer
// form's edit state alone.
func (c *Controller) AddContact(v View, customerID model.ID) {
	v.OpenContactModal(model.ContactInput{CustomerID: customerID})
}

func (c *Controller) SubmitContact(ctx context.Context, v View, in model.ContactInput) {
	err := c.coalesce(ctx, "submit-contact", in, func(ctx context.Context) error {
		_, err := c.api.CreateContact(ctx, in)
		return err
	})
	if err != nil {
		v.Alert(alertText(err))
		return
	}

	v.CloseContactModal()
	v.ActivateTab(TabContacts)
	c.LoadContacts(ctx, v)
}

func (c *Controller) LoadContacts(ctx context.Context, v View) {
	v.ContactsLoading()

	contacts, err := c.api.ListContacts(ctx)
	if err != nil {
		v.ContactsFailed(crmapi.Message(err))
		return
	}
	v.ShowContacts(contacts)
}

// SwitchTab activates tab and reloads its table. Unknown tabs are ignored.
func (c *Controller) SwitchTab(ctx context.Context, v View, tab Tab) {
	switch tab {
	case TabCustomers:
		v.ActivateTab(tab)
		c.LoadCustomers(ctx, v)
	case TabContacts:
		v.ActivateTab(tab)
		c.LoadContacts(ctx, v)
	}
}

// coalesce runs fn once for concurrent callers sharing the same session,
// action and payload. The shared call is not cancelled when one caller goes
// away; each caller stops waiting on its own ctx. Without a readable session
// fn runs uncoalesced.
func (c *Controller) coalesce(ctx context.Context, action string, payload any, fn func(context.Context) error) error {
	token, err := c.store.Token(ctx)
	if err != nil {
		return fn(ctx)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fn(ctx)
	}

	h := sha256.New()
	h.Write([]byte(token))
	h.Write([]byte{0})
	h.Write(data)
	key := action + ":" + hex.EncodeToString(h.Sum(nil))

	shared := context.WithoutCancel(ctx)
	ch := c.inflight.DoChan(key, func() (any, error) {
		return nil, fn(shared)
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func alertText(err error) string {
	return "Error: " + crmapi.Message(err)
}
