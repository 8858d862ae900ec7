package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AliIzzat/FlamingoBackend/service"
)

func (a *API) checkout(c *gin.Context) {
	var input service.CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body"})
		return
	}

	order, err := a.svc.Order().Checkout(c.Request.Context(), input)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "order": order})
}

func (a *API) getOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	order, err := a.svc.Order().GetByID(c.Request.Context(), id)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "order": order})
}

func (a *API) customerOrders(c *gin.Context) {
	phone, ok := customerPhone(c)
	if !ok {
		return
	}
	orders, err := a.svc.Order().GetByCustomerPhone(c.Request.Context(), phone)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "orders": orders})
}

func (a *API) adminOrders(c *gin.Context) {
	orders, err := a.svc.Order().GetAll(c.Request.Context())
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "orders": orders})
}
