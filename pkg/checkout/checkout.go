// Package checkout implements the checkout wizard that turns a cart into
// an order.
//
//	Closed --Validate--> PaymentMethod
//	Login --Login/LoginWithGoogle--> PaymentMethod
//	PaymentMethod --SelectMethod(card, logged out)--> Login
//	PaymentMethod --SelectMethod--> PaymentDetails
//	PaymentDetails --SubmitDetails(valid)--> Confirm
//	Confirm --ConfirmOrder(non-empty cart)--> Closed
//	any --Cancel--> Closed
//
// Validate skips the Login step, so Login is only reached as a detour from
// the card branch or through Back.
package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/tweenshop/pkg/cart"
	"github.com/example/tweenshop/pkg/models"
	"github.com/example/tweenshop/pkg/session"
	"github.com/shopspring/decimal"
)

type Step int

const (
	StepClosed Step = iota - 1
	StepLogin
	StepPaymentMethod
	StepPaymentDetails
	StepConfirm
)

func (s Step) String() string {
	switch s {
	case StepClosed:
		return "closed"
	case StepLogin:
		return "login"
	case StepPaymentMethod:
		return "payment_method"
	case StepPaymentDetails:
		return "payment_details"
	case StepConfirm:
		return "confirm"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

type Method string

const (
	MethodWave   Method = "wave"
	MethodOrange Method = "orange"
	MethodCard   Method = "card"
)

func (m Method) Label() string {
	switch m {
	case MethodWave:
		return "Wave"
	case MethodOrange:
		return "Orange Money"
	case MethodCard:
		return "Carte bancaire"
	default:
		return string(m)
	}
}

// Details carries the fields of the payment details step. Which fields are
// required depends on the method.
type Details struct {
	PhoneNumber string `json:"phoneNumber,omitempty"`
	PIN         string `json:"pin,omitempty"`
	CardNumber  string `json:"cardNumber,omitempty"`
	ExpiryDate  string `json:"expiryDate,omitempty"`
	CVV         string `json:"cvv,omitempty"`
	Other       string `json:"other,omitempty"`
}

func (d Details) Complete(m Method) bool {
	switch m {
	case MethodWave, MethodOrange:
		return filled(d.PhoneNumber, d.PIN)
	case MethodCard:
		return filled(d.CardNumber, d.ExpiryDate, d.CVV)
	default:
		return filled(d.Other)
	}
}

func filled(fields ...string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return false
		}
	}
	return true
}

// OrderSink receives confirmed orders.
type OrderSink interface {
	AppendOrder(ctx context.Context, order models.Order) error
}

type Option func(*Flow)

func WithClock(now func() time.Time) Option {
	return func(f *Flow) { f.now = now }
}

// Flow is one visitor's checkout wizard. Like the cart it drives, a Flow
// is owned by a single shopper actor and is not safe for concurrent use.
type Flow struct {
	session *session.Session
	cart    *cart.Store
	orders  OrderSink
	now     func() time.Time

	step    Step
	method  Method
	details Details
}

func NewFlow(sess *session.Session, c *cart.Store, orders OrderSink, opts ...Option) *Flow {
	f := &Flow{
		session: sess,
		cart:    c,
		orders:  orders,
		now:     time.Now,
		step:    StepClosed,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Flow) Step() Step { return f.step }

func (f *Flow) Method() Method { return f.method }

func (f *Flow) Open() bool { return f.step != StepClosed }

func (f *Flow) Details() Details { return f.details }

func (f *Flow) Total() decimal.Decimal {
	return f.cart.Total()
}

// Validate opens a closed wizard on the payment method step. An open
// wizard keeps its step, method and details.
func (f *Flow) Validate() bool {
	if f.step != StepClosed {
		return false
	}
	f.step = StepPaymentMethod
	return true
}

// Login requires a non-empty email and password.
func (f *Flow) Login(email, password string) bool {
	if f.step != StepLogin {
		return false
	}
	if strings.TrimSpace(email) == "" || password == "" {
		return false
	}
	f.session.MarkLoggedIn(strings.TrimSpace(email), f.now())
	f.step = StepPaymentMethod
	return true
}

// LoginWithGoogle is the one-click shortcut of the login step.
func (f *Flow) LoginWithGoogle() bool {
	if f.step != StepLogin {
		return false
	}
	f.session.MarkLoggedIn("", f.now())
	f.step = StepPaymentMethod
	return true
}

// SelectMethod records m. Card payments need a logged-in session and
// detour to the login step otherwise; the result reports whether the flow
// moved on to payment details.
func (f *Flow) SelectMethod(m Method) bool {
	if f.step != StepPaymentMethod || m == "" {
		return false
	}
	f.method = m
	if m == MethodCard && !f.session.LoggedIn {
		f.step = StepLogin
		return false
	}
	f.step = StepPaymentDetails
	return true
}

func (f *Flow) SubmitDetails(d Details) bool {
	if f.step != StepPaymentDetails {
		return false
	}
	f.details = d
	if !d.Complete(f.method) {
		return false
	}
	f.step = StepConfirm
	return true
}

// Back returns to the previous wizard step.
func (f *Flow) Back() bool {
	switch f.step {
	case StepPaymentMethod:
		f.step = StepLogin
	case StepPaymentDetails:
		f.step = StepPaymentMethod
	case StepConfirm:
		f.step = StepPaymentDetails
	default:
		return false
	}
	return true
}

// ConfirmOrder snapshots the cart into a pending order, hands it to the
// order sink, clears the cart and closes the wizard. It returns a nil
// order when the flow is not on the confirm step or the cart is empty.
// The cart is left untouched if the sink fails.
func (f *Flow) ConfirmOrder(ctx context.Context) (*models.Order, error) {
	if f.step != StepConfirm || f.cart.Empty() {
		return nil, nil
	}

	now := f.now()
	items := f.cart.OrderItems()
	order := models.Order{
		ID:     models.NewID("ord", now),
		Items:  items,
		Total:  models.SumItems(items),
		Date:   now.UTC(),
		Status: models.OrderStatusPending,
	}

	if err := f.orders.AppendOrder(ctx, order.Clone()); err != nil {
		return nil, fmt.Errorf("failed to store order %s: %w", order.ID, err)
	}

	f.cart.Clear()
	f.reset()
	return &order, nil
}

// Cancel closes the wizard from any step.
func (f *Flow) Cancel() {
	f.reset()
}

func (f *Flow) reset() {
	f.step = StepClosed
	f.method = ""
	f.details = Details{}
}
