package gateway

import (
	"net/http"

	"github.com/example/tweenshop/pkg/shopper"
	"github.com/gin-gonic/gin"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// @Summary Start a visitor session
// @Tags session
// @Produce json
// @Success 201 {object} map[string]string
// @Router /api/v1/session [post]
func (g *Gateway) createSession(c *gin.Context) {
	id, err := g.services.Shoppers.NewSession()
	if err != nil {
		g.respondError(c, err)
		return
	}
	c.Header(SessionHeader, id)
	c.JSON(http.StatusCreated, gin.H{"sessionId": id})
}

// @Summary Current session
// @Tags session
// @Produce json
// @Param X-Session-ID header string true "session id"
// @Success 200 {object} shopper.SessionView
// @Router /api/v1/session [get]
func (g *Gateway) getSession(c *gin.Context) {
	view, err := shopper.Ask[*shopper.SessionView](c.Request.Context(), g.services.Shoppers, sessionID(c), &shopper.GetSession{})
	if err != nil {
		g.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Log in
// @Tags session
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "session id"
// @Success 200 {object} shopper.SessionView
// @Failure 401 {object} map[string]string
// @Router /api/v1/session/login [post]
func (g *Gateway) login(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	view, err := shopper.Ask[*shopper.SessionView](c.Request.Context(), g.services.Shoppers, sessionID(c),
		&shopper.Login{Email: req.Email, Password: req.Password})
	if err != nil {
		g.respondError(c, err)
		return
	}
	if !view.Accepted {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "email and password are required"})
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Log out
// @Tags session
// @Produce json
// @Param X-Session-ID header string true "session id"
// @Success 200 {object} shopper.SessionView
// @Router /api/v1/session/logout [post]
func (g *Gateway) logout(c *gin.Context) {
	view, err := shopper.Ask[*shopper.SessionView](c.Request.Context(), g.services.Shoppers, sessionID(c), &shopper.Logout{})
	if err != nil {
		g.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
