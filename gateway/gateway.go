package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	_ "github.com/example/tweenshop/docs"
	"github.com/example/tweenshop/pkg/admin"
	"github.com/example/tweenshop/pkg/catalog"
	"github.com/example/tweenshop/pkg/config"
	"github.com/example/tweenshop/pkg/shopper"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// SessionHeader carries the id issued by POST /api/v1/session.
const SessionHeader = "X-Session-ID"

// Pinger reports storage reachability for /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services are the components the HTTP API fronts.
type Services struct {
	Catalog    *catalog.Provider
	Shoppers   *shopper.Registry
	BackOffice *admin.BackOffice
	Storage    Pinger
}

type Gateway struct {
	config   *config.Config
	logger   *zap.Logger
	router   *gin.Engine
	server   *http.Server
	services Services
}

func NewGateway(cfg *config.Config, logger *zap.Logger, services Services) *Gateway {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggerMiddleware(logger))

	return &Gateway{
		config:   cfg,
		logger:   logger,
		router:   router,
		services: services,
	}
}

func (g *Gateway) SetupRoutes() {
	g.router.GET("/health", g.health)

	v1 := g.router.Group("/api/v1")
	{
		v1.GET("/products", g.listProducts)
		v1.GET("/products/:slug", g.getProduct)
		v1.GET("/categories", g.listCategories)
		v1.GET("/settings", g.getSettings)

		v1.POST("/session", g.createSession)

		visitor := v1.Group("", g.sessionMiddleware())
		{
			sess := visitor.Group("/session")
			{
				sess.GET("", g.getSession)
				sess.POST("/login", g.login)
				sess.POST("/logout", g.logout)
			}

			cart := visitor.Group("/cart")
			{
				cart.GET("", g.getCart)
				cart.DELETE("", g.clearCart)
				cart.POST("/items", g.addCartItem)
				cart.GET("/items/:id", g.getCartItem)
				cart.PUT("/items/:id", g.updateCartItem)
				cart.DELETE("/items/:id", g.removeCartItem)
			}

			co := visitor.Group("/checkout")
			{
				co.GET("", g.getCheckout)
				co.POST("/validate", g.validateCart)
				co.POST("/login", g.checkoutLogin)
				co.POST("/google", g.checkoutGoogle)
				co.POST("/method", g.selectMethod)
				co.POST("/details", g.submitDetails)
				co.POST("/back", g.checkoutBack)
				co.POST("/cancel", g.cancelCheckout)
				co.POST("/confirm", g.confirmOrder)
				co.POST("/whatsapp", g.whatsAppOrder)
			}

			adm := visitor.Group("/admin", g.adminMiddleware())
			{
				adm.GET("/dashboard", g.dashboard)

				adm.GET("/orders", g.adminListOrders)
				adm.PUT("/orders/:id/status", g.adminSetOrderStatus)
				adm.POST("/orders/:id/delete", g.adminRequestOrderDelete)
				adm.POST("/orders/delete/confirm", g.adminConfirmOrderDelete)
				adm.POST("/orders/delete/cancel", g.adminCancelOrderDelete)

				adm.GET("/products", g.adminListProducts)
				adm.POST("/products", g.adminCreateProduct)
				adm.PUT("/products/:id", g.adminUpdateProduct)
				adm.POST("/products/:id/delete", g.adminRequestProductDelete)
				adm.POST("/products/delete/confirm", g.adminConfirmProductDelete)
				adm.POST("/products/delete/cancel", g.adminCancelProductDelete)

				adm.POST("/categories", g.adminAddCategory)

				adm.GET("/audit/:id", g.adminAuditHistory)

				adm.GET("/settings", g.adminGetSettings)
				adm.PUT("/settings", g.adminSaveSettings)
			}
		}
	}

	g.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func (g *Gateway) Handler() http.Handler {
	return g.router
}

func (g *Gateway) Start() error {
	addr := g.config.Gateway.Addr()
	g.server = &http.Server{
		Addr:              addr,
		Handler:           g.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g.logger.Info("Gateway starting", zap.String("address", addr))
	if err := g.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (g *Gateway) Shutdown(ctx context.Context) error {
	if g.server == nil {
		return nil
	}
	return g.server.Shutdown(ctx)
}

// @Summary Liveness and storage check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (g *Gateway) health(c *gin.Context) {
	if g.services.Storage != nil {
		if err := g.services.Storage.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
