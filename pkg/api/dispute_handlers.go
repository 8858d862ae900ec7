package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AliIzzat/FlamingoBackend/pkg/models"
)

func (a *API) openDispute(c *gin.Context) {
	phone, ok := customerPhone(c)
	if !ok {
		return
	}
	orderID, ok := parseID(c, "orderId")
	if !ok {
		return
	}
	var body struct {
		Reason string `json:"reason"`
		Notes  string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body"})
		return
	}

	order, err := a.svc.Dispute().Open(c.Request.Context(), orderID, phone, body.Reason, body.Notes)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "dispute": order.Dispute})
}

func (a *API) getDispute(c *gin.Context) {
	phone, ok := customerPhone(c)
	if !ok {
		return
	}
	orderID, ok := parseID(c, "orderId")
	if !ok {
		return
	}
	dispute, err := a.svc.Dispute().Get(c.Request.Context(), orderID, phone)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "dispute": dispute})
}

func (a *API) resolveDispute(c *gin.Context) {
	orderID, ok := parseID(c, "orderId")
	if !ok {
		return
	}
	var body struct {
		Status       string  `json:"status"`
		NotesAdmin   string  `json:"notes_admin"`
		RefundAmount float64 `json:"refund_amount"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body"})
		return
	}

	order, err := a.svc.Dispute().Resolve(c.Request.Context(), orderID, models.DisputeStatus(body.Status), body.NotesAdmin, body.RefundAmount)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "dispute": order.Dispute})
}

func (a *API) cancelOrder(c *gin.Context) {
	orderID, ok := parseID(c, "id")
	if !ok {
		return
	}
	order, err := a.svc.Delivery().Cancel(c.Request.Context(), orderID)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "order": order})
}

func (a *API) assignDriver(c *gin.Context) {
	orderID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var body struct {
		DriverID string `json:"driver_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body"})
		return
	}
	did, err := uuid.Parse(body.DriverID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid driver id"})
		return
	}
	order, err := a.svc.Delivery().AssignDriver(c.Request.Context(), orderID, did)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "order": order})
}
