package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kunalkumaramar/daadis/middleware"
	"github.com/kunalkumaramar/daadis/services"
)

type WishlistController struct {
	wishlist *services.WishlistService
}

func NewWishlistController(wishlist *services.WishlistService) *WishlistController {
	return &WishlistController{wishlist: wishlist}
}

// List serves the wishlist: the account list when authenticated, the guest
// list when only a guest token is present.
func (wc *WishlistController) List(c *gin.Context) {
	if userID, err := middleware.GetUserID(c); err == nil {
		items, svcErr := wc.wishlist.List(c.Request.Context(), userID)
		if svcErr != nil {
			c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": items})
		return
	}

	items, svcErr := wc.wishlist.GuestList(c.Request.Context(), middleware.GetGuestToken(c))
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

type wishlistAddRequest struct {
	Product string  `json:"product" binding:"required"`
	Price   float64 `json:"price"`
}

func (wc *WishlistController) Add(c *gin.Context) {
	var req wishlistAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if userID, err := middleware.GetUserID(c); err == nil {
		if svcErr := wc.wishlist.Add(c.Request.Context(), userID, req.Product); svcErr != nil {
			c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Added to wishlist"})
		return
	}

	if svcErr := wc.wishlist.GuestAdd(c.Request.Context(), middleware.GetGuestToken(c), req.Product, req.Price); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Added to wishlist"})
}

func (wc *WishlistController) Remove(c *gin.Context) {
	productID := c.Param("product_id")

	if userID, err := middleware.GetUserID(c); err == nil {
		if svcErr := wc.wishlist.Remove(c.Request.Context(), userID, productID); svcErr != nil {
			c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Removed from wishlist"})
		return
	}

	if svcErr := wc.wishlist.GuestRemove(c.Request.Context(), middleware.GetGuestToken(c), productID); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Removed from wishlist"})
}

// MoveToCart moves a wishlisted product into the cart (authenticated only).
func (wc *WishlistController) MoveToCart(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login to proceed"})
		return
	}

	if svcErr := wc.wishlist.MoveToCart(c.Request.Context(), userID, c.Param("product_id")); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Moved to cart"})
}

type mergeRequest struct {
	Confirm bool `json:"confirm"`
}

// Merge folds the guest wishlist into the account list after login. Requires
// explicit confirmation in the body.
func (wc *WishlistController) Merge(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login to proceed"})
		return
	}

	var req mergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	merged, svcErr := wc.wishlist.Merge(c.Request.Context(), userID, middleware.GetGuestToken(c), req.Confirm)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"merged": merged})
}
