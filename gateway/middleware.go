package gateway

import (
	"net/http"
	"strconv"
	"time"

	"github.com/example/tweenshop/pkg/shopper"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const sessionKey = "session_id"

func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// sessionMiddleware resolves the visitor session from SessionHeader.
func (g *Gateway) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(SessionHeader)
		if id == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing " + SessionHeader + " header"})
			return
		}
		if !g.services.Shoppers.Exists(id) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": shopper.ErrUnknownSession.Error()})
			return
		}
		c.Set(sessionKey, id)
		c.Next()
	}
}

func (g *Gateway) adminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := shopper.Ask[*shopper.SessionView](c.Request.Context(), g.services.Shoppers, sessionID(c), &shopper.GetSession{})
		if err != nil {
			g.respondError(c, err)
			c.Abort()
			return
		}
		if !view.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": shopper.ErrForbidden.Error()})
			return
		}
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}

func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
