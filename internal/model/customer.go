package model

type Customer struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// CustomerInput is the request body for creating and updating a customer.
type CustomerInput struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone"`
}

// Input returns the editable fields of c.
func (c Customer) Input() CustomerInput {
	return CustomerInput{Name: c.Name, Email: c.Email, Phone: c.Phone}
}

// FindCustomer returns the customer with the given ID from list.
func FindCustomer(list []Customer, id ID) (Customer, bool) {
	for _, c := range list {
		if c.ID == id {
			return c, true
		}
	}
	return Customer{}, false
}
