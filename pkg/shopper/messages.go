package shopper

import (
	"github.com/example/tweenshop/pkg/checkout"
	"github.com/example/tweenshop/pkg/models"
	"github.com/example/tweenshop/pkg/paging"
	"github.com/example/tweenshop/pkg/session"
	"github.com/shopspring/decimal"
)

// Cart messages
type AddToCart struct {
	Item models.CartItem
}

type UpdateCartItem struct {
	ID       string
	Quantity int
}

type RemoveCartItem struct {
	ID string
}

type ClearCart struct{}

type GetCart struct {
	Page int
}

// GetCartItem replies with the *models.CartItem of line ID.
type GetCartItem struct {
	ID string
}

// Session messages
type Login struct {
	Email    string
	Password string
}

type Logout struct{}

type GetSession struct{}

// Checkout messages
type ValidateCart struct{}

type CheckoutLogin struct {
	Email    string
	Password string
}

type CheckoutGoogle struct{}

type SelectMethod struct {
	Method checkout.Method
}

type SubmitDetails struct {
	Details checkout.Details
}

type CheckoutBack struct{}

type ConfirmOrder struct{}

type CancelCheckout struct{}

type GetCheckout struct{}

type WhatsAppOrder struct {
	Phone string
}

// Admin confirmation messages. They require an admin session.
type RequestOrderDelete struct {
	OrderID string
}

type ConfirmOrderDelete struct{}

type CancelOrderDelete struct{}

type RequestProductDelete struct {
	ProductID string
}

type ConfirmProductDelete struct{}

type CancelProductDelete struct{}

// Responses
type CartView struct {
	Items      []models.CartItem `json:"items"`
	Page       int               `json:"page"`
	TotalPages int               `json:"totalPages"`
	Count      int               `json:"count"`
	Units      int               `json:"units"`
	Total      decimal.Decimal   `json:"total"`
}

func newCartView(p paging.Page[models.CartItem], units int, total decimal.Decimal) *CartView {
	return &CartView{
		Items:      p.Items,
		Page:       p.Page,
		TotalPages: p.TotalPages,
		Count:      p.TotalItems,
		Units:      units,
		Total:      total,
	}
}

type SessionView struct {
	session.Session
	Accepted bool `json:"accepted"`
}

type CheckoutView struct {
	Open        bool            `json:"open"`
	Step        string          `json:"step"`
	StepIndex   int             `json:"stepIndex"`
	Method      checkout.Method `json:"method,omitempty"`
	MethodLabel string          `json:"methodLabel,omitempty"`
	Total       decimal.Decimal `json:"total"`
	LoggedIn    bool            `json:"loggedIn"`
	// Taken reports whether the last command moved the wizard.
	Taken bool `json:"taken"`
}

type OrderConfirmed struct {
	Order    *models.Order `json:"order"`
	Checkout *CheckoutView `json:"checkout"`
}

type WhatsAppLink struct {
	URL string `json:"url"`
}

type DeletePending struct {
	ID      string `json:"id"`
	Pending bool   `json:"pending"`
}

// failure carries an error back through a future.
type failure struct {
	err error
}
