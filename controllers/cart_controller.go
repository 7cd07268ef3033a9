package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kunalkumaramar/daadis/middleware"
	"github.com/kunalkumaramar/daadis/services"
)

type CartController struct {
	cart     *services.CartService
	quantity *services.QuantityController
	ledger   *services.DiscountLedger
}

func NewCartController(cart *services.CartService, quantity *services.QuantityController, ledger *services.DiscountLedger) *CartController {
	return &CartController{cart: cart, quantity: quantity, ledger: ledger}
}

// GetCart returns the cart summary: line items, server totals, shipping and
// grand total.
func (cc *CartController) GetCart(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	summary, svcErr := cc.cart.Summary(c.Request.Context(), userID)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	resp := gin.H{
		"items":           summary.Items,
		"totals":          summary.Totals,
		"shipping_charge": summary.ShippingCharge,
		"grand_total":     summary.GrandTotal,
	}
	if applied, ok := cc.ledger.Applied(userID); ok {
		resp["applied_discount"] = applied
	}
	c.JSON(http.StatusOK, resp)
}

type addItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

func (cc *CartController) AddItem(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	if svcErr := cc.cart.AddItem(c.Request.Context(), userID, req.ProductID, req.Quantity); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	cc.GetCart(c)
}

type updateItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// UpdateItem sets an absolute quantity on a line item.
func (cc *CartController) UpdateItem(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	itemID := c.Param("item_id")

	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if svcErr := cc.quantity.Set(c.Request.Context(), userID, itemID, req.Quantity); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	cc.GetCart(c)
}

func (cc *CartController) IncrementItem(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if svcErr := cc.quantity.Increment(c.Request.Context(), userID, c.Param("item_id")); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	cc.GetCart(c)
}

func (cc *CartController) DecrementItem(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if svcErr := cc.quantity.Decrement(c.Request.Context(), userID, c.Param("item_id")); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	cc.GetCart(c)
}

func (cc *CartController) RemoveItem(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if svcErr := cc.quantity.Remove(c.Request.Context(), userID, c.Param("item_id")); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	cc.GetCart(c)
}

func (cc *CartController) ClearCart(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if svcErr := cc.cart.Clear(c.Request.Context(), userID); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}

type applyCouponRequest struct {
	Code string `json:"code"`
}

func (cc *CartController) ApplyCoupon(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req applyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	applied, svcErr := cc.ledger.Apply(c.Request.Context(), userID, req.Code)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"applied_discount": applied})
}

func (cc *CartController) RemoveCoupon(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if svcErr := cc.ledger.Remove(c.Request.Context(), userID); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Discount removed"})
}
