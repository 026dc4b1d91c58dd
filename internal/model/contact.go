package model

// Contact is a message logged against a customer. CustomerName and Date are
// denormalised by the API for display.
type Contact struct {
	ID           ID     `json:"id,omitempty"`
	CustomerID   ID     `json:"customer_id,omitempty"`
	CustomerName string `json:"customer_name"`
	Message      string `json:"message"`
	Date         string `json:"date"`
}

type ContactInput struct {
	CustomerID ID     `json:"customer_id" validate:"required"`
	Message    string `json:"message" validate:"required"`
}
