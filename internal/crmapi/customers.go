package crmapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/edvin/crmpanel/internal/model"
)

// ListCustomers returns all customers.
func (c *Client) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	var customers []model.Customer
	if err := c.Request(ctx, http.MethodGet, "/customers", nil, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// CreateCustomer creates a customer and returns what the API echoed back.
func (c *Client) CreateCustomer(ctx context.Context, in model.CustomerInput) (*model.Customer, error) {
	var created model.Customer
	if err := c.Request(ctx, http.MethodPost, "/customers", in, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateCustomer replaces the editable fields of a customer.
func (c *Client) UpdateCustomer(ctx context.Context, id model.ID, in model.CustomerInput) (*model.Customer, error) {
	var updated model.Customer
	if err := c.Request(ctx, http.MethodPut, customerPath(id), in, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteCustomer(ctx context.Context, id model.ID) error {
	return c.Request(ctx, http.MethodDelete, customerPath(id), nil, nil)
}

// ListContacts returns all contact messages. A payload that is not a JSON
// array (null, an object) yields an empty list rather than an error.
func (c *Client) ListContacts(ctx context.Context) ([]model.Contact, error) {
	var raw json.RawMessage
	if err := c.Request(ctx, http.MethodGet, "/contacts", nil, &raw); err != nil {
		return nil, err
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, nil
	}

	var contacts []model.Contact
	if err := json.Unmarshal(raw, &contacts); err != nil {
		return nil, newError(fmt.Sprintf("decode contacts: %v", err), err)
	}
	return contacts, nil
}

func (c *Client) CreateContact(ctx context.Context, in model.ContactInput) (*model.Contact, error) {
	var created model.Contact
	if err := c.Request(ctx, http.MethodPost, "/contacts", in, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func customerPath(id model.ID) string {
	return "/customers/" + url.PathEscape(id.String())
}
