package order

import "time"

// StatusPending is the status of every newly placed order.
const StatusPending = "Pending"

// Owner is the user an order belongs to, copied at creation.
type Owner struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Item is one order line. Product is an optional reference to the product
// name; both are stored as supplied.
type Item struct {
	ID       string `json:"id" validate:"required"`
	Product  string `json:"product,omitempty"`
	Quantity int    `json:"quantity" validate:"gte=1"`
}

// Order is a placed order.
type Order struct {
	ID        string    `json:"id"`
	User      Owner     `json:"user"`
	Items     []Item    `json:"items"`
	Status    string    `json:"status"`
	OrderDate time.Time `json:"orderDate"`
}
