package models

import (
	"time"
)

type Product struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	Stock       int      `json:"stock"`
	Image       string   `json:"image"`
	Description string   `json:"description"`
	Sizes       []string `json:"sizes,omitempty"`  // offered sizes, shop falls back to S-XL
	Colors      []string `json:"colors,omitempty"` // offered colors
}

type CustomerStatus string

const (
	CustomerActive   CustomerStatus = "Active"
	CustomerInactive CustomerStatus = "Inactive"
)

func (s CustomerStatus) Valid() bool {
	return s == CustomerActive || s == CustomerInactive
}

type Customer struct {
	ID         int64          `json:"id"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Phone      string         `json:"phone"`
	Status     CustomerStatus `json:"status"`
	Orders     int            `json:"orders"`
	TotalSpent float64        `json:"totalSpent"`
}

// OrderCustomer is the shipping contact captured at checkout. It is a copy,
// not a reference to a Customer record.
type OrderCustomer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// OrderItem is an immutable snapshot of a cart line at the time the order was
// placed. Later product edits never reach it.
type OrderItem struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type Order struct {
	ID            string        `json:"id"`
	Customer      OrderCustomer `json:"customer"`
	Items         []OrderItem   `json:"items"`
	TotalAmount   float64       `json:"totalAmount"`
	Status        OrderStatus   `json:"status"`
	PaymentMethod string        `json:"paymentMethod"`
	CreatedAt     time.Time     `json:"createdAt"`
}

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"` // bcrypt hash, never the plain text
}
