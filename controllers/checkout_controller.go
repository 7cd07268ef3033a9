package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kunalkumaramar/daadis/middleware"
	"github.com/kunalkumaramar/daadis/providers"
	"github.com/kunalkumaramar/daadis/repository"
	"github.com/kunalkumaramar/daadis/services"
	"gorm.io/gorm"
)

type CheckoutController struct {
	checkout *services.CheckoutService
	address  *services.AddressFlow
	hosted   *providers.HostedCheckout
	receipts repository.ReceiptRepository
}

func NewCheckoutController(checkout *services.CheckoutService, address *services.AddressFlow, hosted *providers.HostedCheckout, receipts repository.ReceiptRepository) *CheckoutController {
	return &CheckoutController{checkout: checkout, address: address, hosted: hosted, receipts: receipts}
}

type beginCheckoutRequest struct {
	Note string `json:"note"`
}

// Begin starts a checkout attempt. The response state tells the client what
// to do next: open the payment widget (payment_ui_open, with session options)
// or collect an address (address_pending).
func (cc *CheckoutController) Begin(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login to proceed"})
		return
	}

	var req beginCheckoutRequest
	_ = c.ShouldBindJSON(&req) // body is optional

	status, svcErr := cc.checkout.Begin(c.Request.Context(), userID, req.Note)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, status)
}

// SubmitAddress validates a new address, saves it to the profile and resumes
// checkout with it. Validation failures come back as a field-keyed map.
func (cc *CheckoutController) SubmitAddress(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login to proceed"})
		return
	}

	var req services.NewAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	resolved, fieldErrors, svcErr := cc.address.SubmitNewAddress(c.Request.Context(), userID, &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	if len(fieldErrors) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrors})
		return
	}

	status, svcErr := cc.checkout.ProceedWithAddress(c.Request.Context(), userID, resolved, req.Note)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, status)
}

type selectAddressRequest struct {
	AddressID string `json:"address_id" binding:"required"`
	Phone     string `json:"phone"`
	Note      string `json:"note"`
}

// SelectAddress resumes checkout with one of the profile's saved addresses.
func (cc *CheckoutController) SelectAddress(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login to proceed"})
		return
	}

	var req selectAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	resolved, svcErr := cc.address.SelectSavedAddress(c.Request.Context(), userID, req.AddressID, req.Phone)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	status, svcErr := cc.checkout.ProceedWithAddress(c.Request.Context(), userID, resolved, req.Note)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, status)
}

// PaymentSuccess is the provider widget's success callback. It resolves the
// parked session, which runs verification and the post-payment steps.
func (cc *CheckoutController) PaymentSuccess(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login to proceed"})
		return
	}

	var result providers.PaymentResult
	if err := c.ShouldBindJSON(&result); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := cc.hosted.ResolveSuccess(c.Request.Context(), userID, result.OrderID, result); err != nil {
		cc.respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, cc.checkout.Status(userID))
}

type paymentFailureRequest struct {
	OrderID     string `json:"order_id" binding:"required"`
	Description string `json:"description"`
}

// PaymentFailure is the provider widget's payment.failed callback.
func (cc *CheckoutController) PaymentFailure(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login to proceed"})
		return
	}

	var req paymentFailureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := cc.hosted.ResolveFailure(c.Request.Context(), userID, req.OrderID, req.Description); err != nil {
		cc.respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, cc.checkout.Status(userID))
}

type paymentDismissRequest struct {
	OrderID string `json:"order_id" binding:"required"`
}

// PaymentDismiss is the provider widget's ondismiss callback.
func (cc *CheckoutController) PaymentDismiss(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login to proceed"})
		return
	}

	var req paymentDismissRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := cc.hosted.ResolveDismiss(c.Request.Context(), userID, req.OrderID); err != nil {
		cc.respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, cc.checkout.Status(userID))
}

func (cc *CheckoutController) Status(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login to proceed"})
		return
	}
	c.JSON(http.StatusOK, cc.checkout.Status(userID))
}

// GetReceipt serves the confirmation screen after a verified payment.
func (cc *CheckoutController) GetReceipt(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	receipt, err := cc.receipts.FindByPaymentID(c.Request.Context(), userID, c.Param("payment_id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Receipt not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load receipt"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": receipt})
}

func (cc *CheckoutController) ListReceipts(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	receipts, total, err := cc.receipts.FindByUserID(c.Request.Context(), userID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load receipts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  receipts,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (cc *CheckoutController) respondSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, providers.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "No open payment session"})
	case errors.Is(err, providers.ErrInvalidSession):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment session missing order id"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve payment session"})
	}
}
