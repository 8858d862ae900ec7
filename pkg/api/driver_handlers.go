package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AliIzzat/FlamingoBackend/pkg/models"
)

func (a *API) registerDriver(c *gin.Context) {
	var body struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body"})
		return
	}
	driver, err := a.svc.Driver().Register(c.Request.Context(), body.Name, body.Phone)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "driver": driver})
}

func (a *API) availableOrders(c *gin.Context) {
	if _, ok := driverID(c); !ok {
		return
	}
	orders, err := a.svc.Delivery().Available(c.Request.Context())
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "orders": orders})
}

func (a *API) claimOrder(c *gin.Context) {
	did, ok := driverID(c)
	if !ok {
		return
	}
	oid, ok := parseID(c, "id")
	if !ok {
		return
	}
	order, err := a.svc.Delivery().Claim(c.Request.Context(), oid, did)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "order": order})
}

func (a *API) driverOrders(c *gin.Context) {
	did, ok := driverID(c)
	if !ok {
		return
	}
	orders, err := a.svc.Delivery().DriverOrders(c.Request.Context(), did)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "orders": orders})
}

func (a *API) advanceOrder(c *gin.Context) {
	did, ok := driverID(c)
	if !ok {
		return
	}
	oid, ok := parseID(c, "id")
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body"})
		return
	}
	order, err := a.svc.Delivery().Advance(c.Request.Context(), oid, did, models.DeliveryStatus(body.Status))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "order": order})
}

func (a *API) driverNotifications(c *gin.Context) {
	did, ok := driverID(c)
	if !ok {
		return
	}
	notes, err := a.svc.Notification().ForDriver(c.Request.Context(), did)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "notifications": notes})
}

func (a *API) setDriverStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body"})
		return
	}
	if err := a.svc.Driver().SetStatus(c.Request.Context(), id, body.Status); err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
