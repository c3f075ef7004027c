package gateway

import (
	"context"
	"errors"
	"net/http"

	"github.com/example/tweenshop/pkg/admin"
	"github.com/example/tweenshop/pkg/catalog"
	"github.com/example/tweenshop/pkg/checkout"
	"github.com/example/tweenshop/pkg/shopper"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, shopper.ErrUnknownSession):
		return http.StatusUnauthorized
	case errors.Is(err, shopper.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, admin.ErrOrderNotFound),
		errors.Is(err, admin.ErrProductNotFound),
		errors.Is(err, shopper.ErrCartItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, admin.ErrInvalidStatus),
		errors.Is(err, admin.ErrImageRequired),
		errors.Is(err, admin.ErrTitleRequired),
		errors.Is(err, admin.ErrCategoryNameRequired),
		errors.Is(err, checkout.ErrPhoneRequired):
		return http.StatusBadRequest
	case errors.Is(err, admin.ErrNoPendingConfirmation):
		return http.StatusConflict
	case errors.Is(err, shopper.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, shopper.ErrClosed), errors.Is(err, admin.ErrAuditUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (g *Gateway) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		g.logger.Error("Request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
