// Package api exposes the HTTP surface. Handlers validate the request,
// call a service and translate the error taxonomy into a status code;
// nothing here mutates state directly.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AliIzzat/FlamingoBackend/pkg/logger"
	"github.com/AliIzzat/FlamingoBackend/pkg/models"
	"github.com/AliIzzat/FlamingoBackend/service"
)

type API struct {
	svc service.IServiceManager
	log logger.ILogger
}

func New(svc service.IServiceManager, log logger.ILogger) *gin.Engine {
	a := &API{svc: svc, log: log}

	r := gin.New()
	r.Use(gin.Recovery())

	orders := r.Group("/api/orders")
	{
		orders.POST("", a.checkout)
		orders.GET("/:id", a.getOrder)
		orders.GET("", a.customerOrders)
	}

	driver := r.Group("/api/driver")
	{
		driver.POST("/register", a.registerDriver)
		driver.GET("/orders/available", a.availableOrders)
		driver.POST("/orders/:id/claim", a.claimOrder)
		driver.GET("/orders/my", a.driverOrders)
		driver.POST("/orders/:id/status", a.advanceOrder)
		driver.GET("/notifications", a.driverNotifications)
	}

	payments := r.Group("/api/payments/myfatoorah")
	{
		payments.POST("/initiate", a.initiatePayment)
		payments.GET("/callback", a.paymentCallback)
		payments.GET("/error", a.paymentError)
	}

	disputes := r.Group("/api/customer/disputes")
	{
		disputes.POST("/:orderId", a.openDispute)
		disputes.GET("/:orderId", a.getDispute)
	}

	admin := r.Group("/admin")
	{
		admin.GET("/orders", a.adminOrders)
		admin.POST("/orders/:id/cancel", a.cancelOrder)
		admin.POST("/orders/:id/assign-driver", a.assignDriver)
		admin.POST("/disputes/:orderId/resolve", a.resolveDispute)
		admin.POST("/drivers/:id/status", a.setDriverStatus)
	}

	return r
}

// fail maps the shared error taxonomy onto HTTP statuses so callers can
// tell "already taken" from "not found" from "bad id".
func (a *API) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, models.ErrInvalidTransition):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrUpstream):
		status = http.StatusBadGateway
	}
	if status == http.StatusInternalServerError {
		a.log.Error("request failed", logger.String("path", c.FullPath()), logger.Error(err))
		c.JSON(status, gin.H{"ok": false, "error": "server error"})
		return
	}
	c.JSON(status, gin.H{"ok": false, "error": err.Error()})
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid order id"})
		return uuid.Nil, false
	}
	return id, true
}

// driverID pulls the caller's driver identity from the X-Driver-ID
// header. Token verification lives in the edge proxy, not here.
func driverID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetHeader("X-Driver-ID"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing or invalid X-Driver-ID"})
		return uuid.Nil, false
	}
	return id, true
}

func customerPhone(c *gin.Context) (string, bool) {
	phone := c.GetHeader("X-Customer-Phone")
	if phone == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing X-Customer-Phone"})
		return "", false
	}
	return phone, true
}
