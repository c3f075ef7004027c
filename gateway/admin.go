package gateway

import (
	"net/http"
	"strconv"

	"github.com/example/tweenshop/pkg/admin"
	"github.com/example/tweenshop/pkg/models"
	"github.com/example/tweenshop/pkg/shopper"
	"github.com/gin-gonic/gin"
)

type statusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

type categoryRequest struct {
	Name string `json:"name"`
}

// @Summary Back office dashboard
// @Tags admin
// @Produce json
// @Param X-Session-ID header string true "admin session id"
// @Success 200 {object} admin.Dashboard
// @Router /api/v1/admin/dashboard [get]
func (g *Gateway) dashboard(c *gin.Context) {
	d, err := g.services.BackOffice.Dashboard(c.Request.Context())
	if err != nil {
		g.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// @Summary List orders
// @Tags admin
// @Produce json
// @Param X-Session-ID header string true "admin session id"
// @Param page query int false "page number"
// @Success 200 {object} paging.Page[models.Order]
// @Router /api/v1/admin/orders [get]
func (g *Gateway) adminListOrders(c *gin.Context) {
	page, err := g.services.BackOffice.Orders.List(c.Request.Context(), pageParam(c))
	if err != nil {
		g.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// @Summary Overwrite an order status
// @Tags admin
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "admin session id"
// @Param id path string true "order id"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/admin/orders/{id}/status [put]
func (g *Gateway) adminSetOrderStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := c.Param("id")
	if err := g.services.BackOffice.Orders.SetStatus(c.Request.Context(), id, req.Status); err != nil {
		g.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": req.Status})
}

func (g *Gateway) askDelete(c *gin.Context, msg interface{}) {
	res, err := shopper.Ask[*shopper.DeletePending](c.Request.Context(), g.services.Shoppers, sessionID(c), msg)
	if err != nil {
		g.respondError(c, err)
		return
	}
	if res.Pending {
		c.JSON(http.StatusAccepted, res)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Mark an order for deletion
// @Tags admin
// @Produce json
// @Param X-Session-ID header string true "admin session id"
// @Param id path string true "order id"
// @Success 202 {object} shopper.DeletePending
// @Router /api/v1/admin/orders/{id}/delete [post]
func (g *Gateway) adminRequestOrderDelete(c *gin.Context) {
	g.askDelete(c, &shopper.RequestOrderDelete{OrderID: c.Param("id")})
}

// @Summary Delete the order marked for deletion
// @Tags admin
// @Produce json
// @Param X-Session-ID header string true "admin session id"
// @Success 200 {object} shopper.DeletePending
// @Failure 409 {object} map[string]string
// @Router /api/v1/admin/orders/delete/confirm [post]
func (g *Gateway) adminConfirmOrderDelete(c *gin.Context) {
	g.askDelete(c, &shopper.ConfirmOrderDelete{})
}

// @Summary Drop the pending order deletion
// @Tags admin
// @Produce json
// @Param X-Session-ID header string true "admin session id"
// @Success 200 {object} shopper.DeletePending
// @Router /api/v1/admin/orders/delete/cancel [post]
func (g *Gateway) adminCancelOrderDelete(c *gin.Context) {
	g.askDelete(c, &shopper.CancelOrderDelete{})
}

// @Summary List all products
// @Tags admin
// @Produce json
// @Param X-Session-ID header string true "admin session id"
// @Param page query int false "page number"
// @Success 200 {object} paging.Page[models.Product]
// @Router /api/v1/admin/products [get]
func (g *Gateway) adminListProducts(c *gin.Context) {
	page, err := g.services.BackOffice.Products.List(c.Request.Context(), pageParam(c))
	if err != nil {
		g.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// @Summary Create a product
// @Tags admin
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "admin session id"
// @Param product body admin.ProductInput true "product"
// @Success 201 {object} models.Product
// @Failure 400 {object} map[string]string
// @Router /api/v1/admin/products [post]
func (g *Gateway) adminCreateProduct(c *gin.Context) {
	var req admin.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := g.services.BackOffice.Products.Create(c.Request.Context(), req)
	if err != nil {
		g.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// @Summary Update a product
// @Tags admin
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "admin session id"
// @Param id path string true "product id"
// @Param patch body admin.ProductPatch true "fields to change"
// @Success 200 {object} models.Product
// @Router /api/v1/admin/products/{id} [put]
func (g *Gateway) adminUpdateProduct(c *gin.Context) {
	var req admin.ProductPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := g.services.BackOffice.Products.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		g.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary Mark a product for deletion
// @Tags admin
// @Produce json
// @Param X-Session-ID header string true "admin session id"
// @Param id path string true "product id"
// @Success 202 {object} shopper.DeletePending
// @Router /api/v1/admin/products/{id}/delete [post]
func (g *Gateway) adminRequestProductDelete(c *gin.Context) {
	g.askDelete(c, &shopper.RequestProductDelete{ProductID: c.Param("id")})
}

// @Summary Delete the product marked for deletion
// @Tags admin
// @Produce json
// @Param X-Session-ID header string true "admin session id"
// @Success 200 {object} shopper.DeletePending
// @Router /api/v1/admin/products/delete/confirm [post]
func (g *Gateway) adminConfirmProductDelete(c *gin.Context) {
	g.askDelete(c, &shopper.ConfirmProductDelete{})
}

// @Summary Drop the pending product deletion
// @Tags admin
// @Produce json
// @Param X-Session-ID header string true "admin session id"
// @Success 200 {object} shopper.DeletePending
// @Router /api/v1/admin/products/delete/cancel [post]
func (g *Gateway) adminCancelProductDelete(c *gin.Context) {
	g.askDelete(c, &shopper.CancelProductDelete{})
}

// @Summary Add a category
// @Tags admin
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "admin session id"
// @Success 201 {object} models.Category
// @Router /api/v1/admin/categories [post]
func (g *Gateway) adminAddCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cat, err := g.services.BackOffice.Products.AddCategory(c.Request.Context(), req.Name)
	if err != nil {
		g.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

// @Summary Site settings, including admin fields
// @Tags admin
// @Produce json
// @Param X-Session-ID header string true "admin session id"
// @Success 200 {object} models.Settings
// @Router /api/v1/admin/settings [get]
func (g *Gateway) adminGetSettings(c *gin.Context) {
	s, err := g.services.BackOffice.Settings.Get(c.Request.Context())
	if err != nil {
		g.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// @Summary Replace site settings
// @Tags admin
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "admin session id"
// @Param settings body models.Settings true "settings"
// @Success 200 {object} models.Settings
// @Router /api/v1/admin/settings [put]
func (g *Gateway) adminSaveSettings(c *gin.Context) {
	var req models.Settings
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := g.services.BackOffice.Settings.Save(c.Request.Context(), req); err != nil {
		g.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// @Summary Audit history of an order or product
// @Tags admin
// @Produce json
// @Param X-Session-ID header string true "admin session id"
// @Param id path string true "order or product id"
// @Param limit query int false "maximum entries, newest first"
// @Success 200 {array} repository.AuditLog
// @Failure 503 {object} map[string]string
// @Router /api/v1/admin/audit/{id} [get]
func (g *Gateway) adminAuditHistory(c *gin.Context) {
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "0"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
		return
	}
	logs, err := g.services.BackOffice.AuditHistory(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		g.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
