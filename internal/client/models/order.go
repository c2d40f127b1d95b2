package models

import (
	"slices"
	"strings"
	"time"
)

type OrderStatus string
type PaymentStatus string

const (
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"

	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

var (
	OrderStatuses   = []OrderStatus{OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled}
	PaymentStatuses = []PaymentStatus{PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed}
)

func (s OrderStatus) Valid() bool   { return slices.Contains(OrderStatuses, s) }
func (s PaymentStatus) Valid() bool { return slices.Contains(PaymentStatuses, s) }

type OrderItem struct {
	Product  Ref     `json:"product"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type Address struct {
	FullName   string `json:"fullName,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}

// String joins the non-empty address parts.
func (a Address) String() string {
	parts := make([]string, 0, 7)
	for _, p := range []string{a.FullName, a.Street, a.City, a.State, a.PostalCode, a.Country, a.Phone} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

type Order struct {
	ID            string        `json:"_id"`
	User          Ref           `json:"user"`
	Items         []OrderItem   `json:"items"`
	OrderStatus   OrderStatus   `json:"orderStatus"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	TotalPrice    float64       `json:"totalPrice"`
	Discount      float64       `json:"discount"`
	GrandTotal    float64       `json:"grandTotal"`
	CreatedAt     time.Time     `json:"createdAt"`
	Address       Address       `json:"address"`
}

func (o Order) GetID() string { return o.ID }

// StatusUpdate is the admin patch body for an order. Empty fields are left
// unchanged by the backend.
type StatusUpdate struct {
	OrderStatus   OrderStatus   `json:"orderStatus,omitempty"`
	PaymentStatus PaymentStatus `json:"paymentStatus,omitempty"`
}
