package gateway

import (
	"net/http"

	"github.com/example/tweenshop/pkg/checkout"
	"github.com/example/tweenshop/pkg/shopper"
	"github.com/gin-gonic/gin"
)

type methodRequest struct {
	Method checkout.Method `json:"method" binding:"required"`
}

type phoneRequest struct {
	Phone string `json:"phone"`
}

// askCheckout answers 200 when the wizard moved and 422 when the command
// was refused, with the wizard state in both cases.
func (g *Gateway) askCheckout(c *gin.Context, msg interface{}) {
	view, err := shopper.Ask[*shopper.CheckoutView](c.Request.Context(), g.services.Shoppers, sessionID(c), msg)
	if err != nil {
		g.respondError(c, err)
		return
	}
	status := http.StatusOK
	if !view.Taken {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, view)
}

// @Summary Checkout wizard state
// @Tags checkout
// @Produce json
// @Param X-Session-ID header string true "session id"
// @Success 200 {object} shopper.CheckoutView
// @Router /api/v1/checkout [get]
func (g *Gateway) getCheckout(c *gin.Context) {
	view, err := shopper.Ask[*shopper.CheckoutView](c.Request.Context(), g.services.Shoppers, sessionID(c), &shopper.GetCheckout{})
	if err != nil {
		g.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Open checkout on the payment method step
// @Tags checkout
// @Produce json
// @Param X-Session-ID header string true "session id"
// @Success 200 {object} shopper.CheckoutView
// @Router /api/v1/checkout/validate [post]
func (g *Gateway) validateCart(c *gin.Context) {
	g.askCheckout(c, &shopper.ValidateCart{})
}

// @Summary Log in from the checkout login step
// @Tags checkout
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "session id"
// @Success 200 {object} shopper.CheckoutView
// @Failure 422 {object} shopper.CheckoutView
// @Router /api/v1/checkout/login [post]
func (g *Gateway) checkoutLogin(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	g.askCheckout(c, &shopper.CheckoutLogin{Email: req.Email, Password: req.Password})
}

// @Summary One-click login from the checkout login step
// @Tags checkout
// @Produce json
// @Param X-Session-ID header string true "session id"
// @Success 200 {object} shopper.CheckoutView
// @Router /api/v1/checkout/google [post]
func (g *Gateway) checkoutGoogle(c *gin.Context) {
	g.askCheckout(c, &shopper.CheckoutGoogle{})
}

// @Summary Choose a payment method
// @Description Card payments detour to the login step when logged out.
// @Tags checkout
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "session id"
// @Success 200 {object} shopper.CheckoutView
// @Failure 422 {object} shopper.CheckoutView
// @Router /api/v1/checkout/method [post]
func (g *Gateway) selectMethod(c *gin.Context) {
	var req methodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	g.askCheckout(c, &shopper.SelectMethod{Method: req.Method})
}

// @Summary Submit payment details
// @Tags checkout
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "session id"
// @Success 200 {object} shopper.CheckoutView
// @Failure 422 {object} shopper.CheckoutView
// @Router /api/v1/checkout/details [post]
func (g *Gateway) submitDetails(c *gin.Context) {
	var req checkout.Details
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	g.askCheckout(c, &shopper.SubmitDetails{Details: req})
}

// @Summary Go back one step
// @Tags checkout
// @Produce json
// @Param X-Session-ID header string true "session id"
// @Success 200 {object} shopper.CheckoutView
// @Router /api/v1/checkout/back [post]
func (g *Gateway) checkoutBack(c *gin.Context) {
	g.askCheckout(c, &shopper.CheckoutBack{})
}

// @Summary Close the wizard
// @Tags checkout
// @Produce json
// @Param X-Session-ID header string true "session id"
// @Success 200 {object} shopper.CheckoutView
// @Router /api/v1/checkout/cancel [post]
func (g *Gateway) cancelCheckout(c *gin.Context) {
	g.askCheckout(c, &shopper.CancelCheckout{})
}

// @Summary Confirm the order
// @Description Answers 201 with the order, or 422 when nothing was ordered.
// @Tags checkout
// @Produce json
// @Param X-Session-ID header string true "session id"
// @Success 201 {object} shopper.OrderConfirmed
// @Failure 422 {object} shopper.OrderConfirmed
// @Router /api/v1/checkout/confirm [post]
func (g *Gateway) confirmOrder(c *gin.Context) {
	res, err := shopper.Ask[*shopper.OrderConfirmed](c.Request.Context(), g.services.Shoppers, sessionID(c), &shopper.ConfirmOrder{})
	if err != nil {
		g.respondError(c, err)
		return
	}
	if res.Order == nil {
		c.JSON(http.StatusUnprocessableEntity, res)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// @Summary Build a WhatsApp order link for the cart
// @Tags checkout
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "session id"
// @Success 200 {object} shopper.WhatsAppLink
// @Failure 400 {object} map[string]string
// @Router /api/v1/checkout/whatsapp [post]
func (g *Gateway) whatsAppOrder(c *gin.Context) {
	var req phoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	link, err := shopper.Ask[*shopper.WhatsAppLink](c.Request.Context(), g.services.Shoppers, sessionID(c), &shopper.WhatsAppOrder{Phone: req.Phone})
	if err != nil {
		g.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, link)
}
