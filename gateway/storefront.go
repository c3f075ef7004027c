package gateway

import (
	"net/http"

	"github.com/example/tweenshop/pkg/catalog"
	"github.com/example/tweenshop/pkg/paging"
	"github.com/gin-gonic/gin"
)

// @Summary List products with images
// @Tags storefront
// @Produce json
// @Param category query string false "category slug"
// @Param page query int false "page number"
// @Success 200 {object} paging.Page[models.Product]
// @Router /api/v1/products [get]
func (g *Gateway) listProducts(c *gin.Context) {
	products, err := g.services.Catalog.AllProducts(c.Request.Context())
	if err != nil {
		g.respondError(c, err)
		return
	}
	products = catalog.FilterByCategory(products, c.Query("category"))
	c.JSON(http.StatusOK, paging.New(products, pageParam(c), paging.ProductsPerPage))
}

// @Summary Get a product by slug
// @Tags storefront
// @Produce json
// @Param slug path string true "product slug"
// @Success 200 {object} models.Product
// @Failure 404 {object} map[string]string
// @Router /api/v1/products/{slug} [get]
func (g *Gateway) getProduct(c *gin.Context) {
	product, err := g.services.Catalog.ProductBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		g.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// @Summary List categories
// @Tags storefront
// @Produce json
// @Success 200 {array} models.Category
// @Router /api/v1/categories [get]
func (g *Gateway) listCategories(c *gin.Context) {
	categories, err := g.services.Catalog.Categories(c.Request.Context())
	if err != nil {
		g.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// @Summary Public site settings
// @Tags storefront
// @Produce json
// @Success 200 {object} models.Settings
// @Router /api/v1/settings [get]
func (g *Gateway) getSettings(c *gin.Context) {
	settings, err := g.services.Catalog.Settings(c.Request.Context())
	if err != nil {
		g.respondError(c, err)
		return
	}
	settings.AdminPassword = ""
	c.JSON(http.StatusOK, settings)
}
