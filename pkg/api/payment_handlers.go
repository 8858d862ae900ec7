package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AliIzzat/FlamingoBackend/service"
)

func (a *API) initiatePayment(c *gin.Context) {
	var body struct {
		OrderID string `json:"order_id"`
		Name    string `json:"customer_name"`
		Mobile  string `json:"customer_mobile"`
		Email   string `json:"customer_email"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body"})
		return
	}
	orderID, err := uuid.Parse(body.OrderID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid order id"})
		return
	}

	session, err := a.svc.Payment().Initiate(c.Request.Context(), orderID, service.PaymentContact{
		Name:   body.Name,
		Mobile: body.Mobile,
		Email:  body.Email,
	})
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "payment_url": session.PaymentURL, "invoice_id": session.InvoiceID})
}

// paymentCallback is the gateway's return URL. The order id rides the
// query string as an opaque reference and must parse before use; the
// payment id shows up under different keys depending on gateway setup.
func (a *API) paymentCallback(c *gin.Context) {
	orderID, err := uuid.Parse(c.Query("orderId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid orderId"})
		return
	}
	paymentID := c.Query("paymentId")
	if paymentID == "" {
		paymentID = c.Query("PaymentId")
	}
	if paymentID == "" {
		paymentID = c.Query("Id")
	}
	if paymentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "missing paymentId"})
		return
	}

	order, err := a.svc.Payment().Reconcile(c.Request.Context(), orderID, paymentID)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "payment_status": order.Payment.Status})
}

func (a *API) paymentError(c *gin.Context) {
	orderID, err := uuid.Parse(c.Query("orderId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid orderId"})
		return
	}
	order, err := a.svc.Payment().MarkFailed(c.Request.Context(), orderID)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "payment_status": order.Payment.Status})
}
