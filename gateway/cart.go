package gateway

import (
	"net/http"

	"github.com/example/tweenshop/pkg/models"
	"github.com/example/tweenshop/pkg/shopper"
	"github.com/gin-gonic/gin"
)

type addItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

func (g *Gateway) askCart(c *gin.Context, msg interface{}) {
	view, err := shopper.Ask[*shopper.CartView](c.Request.Context(), g.services.Shoppers, sessionID(c), msg)
	if err != nil {
		g.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Get one cart line
// @Tags cart
// @Produce json
// @Param X-Session-ID header string true "session id"
// @Param id path string true "cart line id"
// @Success 200 {object} models.CartItem
// @Failure 404 {object} map[string]string
// @Router /api/v1/cart/items/{id} [get]
func (g *Gateway) getCartItem(c *gin.Context) {
	item, err := shopper.Ask[*models.CartItem](c.Request.Context(), g.services.Shoppers, sessionID(c), &shopper.GetCartItem{ID: c.Param("id")})
	if err != nil {
		g.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// @Summary Get the cart
// @Tags cart
// @Produce json
// @Param X-Session-ID header string true "session id"
// @Param page query int false "page number"
// @Success 200 {object} shopper.CartView
// @Router /api/v1/cart [get]
func (g *Gateway) getCart(c *gin.Context) {
	g.askCart(c, &shopper.GetCart{Page: pageParam(c)})
}

// @Summary Add a product variant to the cart
// @Description Title and price are taken from the catalog. Quantity defaults to 1.
// @Tags cart
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "session id"
// @Success 200 {object} shopper.CartView
// @Failure 404 {object} map[string]string
// @Router /api/v1/cart/items [post]
func (g *Gateway) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be positive"})
		return
	}

	product, err := g.services.Catalog.ProductByID(c.Request.Context(), req.ProductID)
	if err != nil {
		g.respondError(c, err)
		return
	}

	g.askCart(c, &shopper.AddToCart{Item: models.CartItem{
		ID:        models.VariantID(product.ID, req.Size, req.Color),
		ProductID: product.ID,
		Title:     product.Title,
		Price:     product.Price,
		Quantity:  req.Quantity,
		Size:      req.Size,
		Color:     req.Color,
	}})
}

// @Summary Set a line quantity; zero or less removes the line
// @Tags cart
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "session id"
// @Param id path string true "cart line id"
// @Success 200 {object} shopper.CartView
// @Router /api/v1/cart/items/{id} [put]
func (g *Gateway) updateCartItem(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	g.askCart(c, &shopper.UpdateCartItem{ID: c.Param("id"), Quantity: req.Quantity})
}

// @Summary Remove a cart line
// @Tags cart
// @Produce json
// @Param X-Session-ID header string true "session id"
// @Param id path string true "cart line id"
// @Success 200 {object} shopper.CartView
// @Router /api/v1/cart/items/{id} [delete]
func (g *Gateway) removeCartItem(c *gin.Context) {
	g.askCart(c, &shopper.RemoveCartItem{ID: c.Param("id")})
}

// @Summary Empty the cart
// @Tags cart
// @Produce json
// @Param X-Session-ID header string true "session id"
// @Success 200 {object} shopper.CartView
// @Router /api/v1/cart [delete]
func (g *Gateway) clearCart(c *gin.Context) {
	g.askCart(c, &shopper.ClearCart{})
}
