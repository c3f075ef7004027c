// Package shopper runs one actor per visitor session. The actor owns the
// visitor's session, cart, checkout wizard and pending admin deletions, so
// every mutation for a visitor is applied in mailbox order.
package shopper

import (
	"context"
	"errors"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/example/tweenshop/pkg/admin"
	"github.com/example/tweenshop/pkg/cart"
	"github.com/example/tweenshop/pkg/catalog"
	"github.com/example/tweenshop/pkg/checkout"
	"github.com/example/tweenshop/pkg/paging"
	"github.com/example/tweenshop/pkg/repository"
	"github.com/example/tweenshop/pkg/session"
	"go.uber.org/zap"
)

var (
	ErrForbidden        = errors.New("admin role required")
	ErrCartItemNotFound = errors.New("cart item not found")
)

// Deps are the shared services every shopper actor talks to.
type Deps struct {
	Orders     checkout.OrderSink
	Catalog    *catalog.Provider
	BackOffice *admin.BackOffice
	Auth       *session.Authenticator
	Audit      repository.AuditRecorder
	Logger     *zap.Logger
	IOTimeout  time.Duration
	Now        func() time.Time

	// IdleTimeout stops a shopper that received no message for this long.
	// Zero disables it.
	IdleTimeout time.Duration
}

type shopperActor struct {
	deps    Deps
	logger  *zap.Logger
	release func()

	session *session.Session
	cart    *cart.Store
	flow    *checkout.Flow

	orderDelete   admin.Confirmation
	productDelete admin.Confirmation
}

// newShopperActor builds the actor for session id. release is called once
// when the actor retires itself after being idle.
func newShopperActor(id string, deps Deps, release func()) *shopperActor {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.IOTimeout <= 0 {
		deps.IOTimeout = 3 * time.Second
	}
	a := &shopperActor{
		deps:    deps,
		logger:  deps.Logger.Named("shopper").With(zap.String("session_id", id)),
		release: release,
		session: session.New(id, deps.Now()),
		cart:    cart.New(),
	}
	a.flow = checkout.NewFlow(a.session, a.cart, deps.Orders, checkout.WithClock(deps.Now))
	return a
}

func (a *shopperActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		a.logger.Debug("Shopper actor started")
		if a.deps.IdleTimeout > 0 {
			ctx.SetReceiveTimeout(a.deps.IdleTimeout)
		}

	case *actor.ReceiveTimeout:
		a.logger.Info("Session expired", zap.Duration("idle", a.deps.IdleTimeout))
		if a.release != nil {
			a.release()
		}
		ctx.Stop(ctx.Self())

	case *actor.Stopped:
		a.logger.Debug("Shopper actor stopped")

	case *AddToCart:
		a.cart.Add(msg.Item)
		ctx.Respond(a.cartView(1))

	case *UpdateCartItem:
		a.cart.Update(msg.ID, msg.Quantity)
		ctx.Respond(a.cartView(1))

	case *RemoveCartItem:
		a.cart.Remove(msg.ID)
		ctx.Respond(a.cartView(1))

	case *ClearCart:
		a.cart.Clear()
		ctx.Respond(a.cartView(1))

	case *GetCart:
		ctx.Respond(a.cartView(msg.Page))

	case *GetCartItem:
		item, ok := a.cart.Get(msg.ID)
		if !ok {
			ctx.Respond(&failure{err: ErrCartItemNotFound})
			return
		}
		ctx.Respond(&item)

	case *Login:
		a.login(ctx, msg)

	case *Logout:
		a.session.SignOut()
		a.orderDelete.Cancel()
		a.productDelete.Cancel()
		a.logger.Info("Logged out")
		ctx.Respond(a.sessionView(true))

	case *GetSession:
		ctx.Respond(a.sessionView(true))

	case *ValidateCart:
		ctx.Respond(a.checkoutView(a.flow.Validate()))

	case *CheckoutLogin:
		ctx.Respond(a.checkoutView(a.flow.Login(msg.Email, msg.Password)))

	case *CheckoutGoogle:
		ctx.Respond(a.checkoutView(a.flow.LoginWithGoogle()))

	case *SelectMethod:
		ctx.Respond(a.checkoutView(a.flow.SelectMethod(msg.Method)))

	case *SubmitDetails:
		ctx.Respond(a.checkoutView(a.flow.SubmitDetails(msg.Details)))

	case *CheckoutBack:
		ctx.Respond(a.checkoutView(a.flow.Back()))

	case *CancelCheckout:
		a.flow.Cancel()
		ctx.Respond(a.checkoutView(true))

	case *GetCheckout:
		ctx.Respond(a.checkoutView(false))

	case *ConfirmOrder:
		a.confirmOrder(ctx)

	case *WhatsAppOrder:
		a.whatsApp(ctx, msg)

	case *RequestOrderDelete, *ConfirmOrderDelete, *CancelOrderDelete,
		*RequestProductDelete, *ConfirmProductDelete, *CancelProductDelete:
		if !a.session.IsAdmin() {
			ctx.Respond(&failure{err: ErrForbidden})
			return
		}
		a.adminDelete(ctx, msg)
	}
}

func (a *shopperActor) ioContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), a.deps.IOTimeout)
}

func (a *shopperActor) login(ctx actor.Context, msg *Login) {
	role, ok := a.deps.Auth.Authenticate(msg.Email, msg.Password)
	if !ok {
		ctx.Respond(a.sessionView(false))
		return
	}
	a.session.SignIn(msg.Email, role, a.deps.Now())
	a.logger.Info("Logged in", zap.String("role", string(role)))
	ctx.Respond(a.sessionView(true))
}

func (a *shopperActor) confirmOrder(ctx actor.Context) {
	ioCtx, cancel := a.ioContext()
	defer cancel()

	order, err := a.flow.ConfirmOrder(ioCtx)
	if err != nil {
		a.logger.Error("Failed to confirm order", zap.Error(err))
		ctx.Respond(&failure{err: err})
		return
	}
	if order != nil {
		a.logger.Info("Order confirmed",
			zap.String("order_id", order.ID),
			zap.Int("item_count", len(order.Items)),
			zap.String("total", order.Total.StringFixed(2)))
		if a.deps.Audit != nil {
			if err := a.deps.Audit.Record(ioCtx, "create_order", order.ID, map[string]interface{}{
				"total":      order.Total.StringFixed(2),
				"session_id": a.session.ID,
			}); err != nil {
				a.logger.Warn("Failed to write audit log", zap.Error(err))
			}
		}
	}
	ctx.Respond(&OrderConfirmed{Order: order, Checkout: a.checkoutView(order != nil)})
}

func (a *shopperActor) whatsApp(ctx actor.Context, msg *WhatsAppOrder) {
	ioCtx, cancel := a.ioContext()
	defer cancel()

	settings, err := a.deps.Catalog.Settings(ioCtx)
	if err != nil {
		ctx.Respond(&failure{err: err})
		return
	}
	images := func(productID string) []string {
		p, err := a.deps.Catalog.ProductByID(ioCtx, productID)
		if err != nil {
			return nil
		}
		return p.Images
	}

	link, err := checkout.WhatsAppLink(a.cart.Items(), images, settings.ContactPhone, msg.Phone)
	if err != nil {
		ctx.Respond(&failure{err: err})
		return
	}
	ctx.Respond(&WhatsAppLink{URL: link})
}

func (a *shopperActor) adminDelete(ctx actor.Context, msg interface{}) {
	ioCtx, cancel := a.ioContext()
	defer cancel()

	bo := a.deps.BackOffice
	var (
		id  string
		err error
	)
	switch m := msg.(type) {
	case *RequestOrderDelete:
		id, err = m.OrderID, bo.Orders.RequestDelete(ioCtx, &a.orderDelete, m.OrderID)
		if err == nil {
			ctx.Respond(&DeletePending{ID: id, Pending: true})
			return
		}
	case *ConfirmOrderDelete:
		id, err = bo.Orders.ConfirmDelete(ioCtx, &a.orderDelete)
	case *CancelOrderDelete:
		id, _ = a.orderDelete.Pending()
		a.orderDelete.Cancel()
	case *RequestProductDelete:
		id, err = m.ProductID, bo.Products.RequestDelete(ioCtx, &a.productDelete, m.ProductID)
		if err == nil {
			ctx.Respond(&DeletePending{ID: id, Pending: true})
			return
		}
	case *ConfirmProductDelete:
		id, err = bo.Products.ConfirmDelete(ioCtx, &a.productDelete)
	case *CancelProductDelete:
		id, _ = a.productDelete.Pending()
		a.productDelete.Cancel()
	}
	if err != nil {
		ctx.Respond(&failure{err: err})
		return
	}
	ctx.Respond(&DeletePending{ID: id, Pending: false})
}

func (a *shopperActor) cartView(page int) *CartView {
	return newCartView(a.cart.Page(page, paging.CartPerPage), a.cart.Units(), a.cart.Total())
}

func (a *shopperActor) sessionView(accepted bool) *SessionView {
	return &SessionView{Session: *a.session, Accepted: accepted}
}

func (a *shopperActor) checkoutView(taken bool) *CheckoutView {
	v := &CheckoutView{
		Open:      a.flow.Open(),
		Step:      a.flow.Step().String(),
		StepIndex: int(a.flow.Step()),
		Method:    a.flow.Method(),
		Total:     a.flow.Total(),
		LoggedIn:  a.session.LoggedIn,
		Taken:     taken,
	}
	if v.Method != "" {
		v.MethodLabel = v.Method.Label()
	}
	return v
}
