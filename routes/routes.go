package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kunalkumaramar/daadis/config"
	"github.com/kunalkumaramar/daadis/controllers"
	"github.com/kunalkumaramar/daadis/logger"
	"github.com/kunalkumaramar/daadis/middleware"
)

func RegisterRoutes(
	r *gin.Engine,
	cfg config.Config,
	cart *controllers.CartController,
	checkout *controllers.CheckoutController,
	wishlist *controllers.WishlistController,
) {
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "https://daadis.in"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-User-ID", middleware.GuestTokenHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Cart page: requires a logged-in user.
	cartGroup := r.Group("/cart")
	cartGroup.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		cartGroup.GET("", cart.GetCart)
		cartGroup.POST("/items", cart.AddItem)
		cartGroup.PATCH("/items/:item_id", cart.UpdateItem)
		cartGroup.POST("/items/:item_id/increment", cart.IncrementItem)
		cartGroup.POST("/items/:item_id/decrement", cart.DecrementItem)
		cartGroup.DELETE("/items/:item_id", cart.RemoveItem)
		cartGroup.POST("/clear", cart.ClearCart)
		cartGroup.POST("/coupon", cart.ApplyCoupon)
		cartGroup.DELETE("/coupon", cart.RemoveCoupon)
	}

	// Checkout: tighter rate limit, payment callbacks included.
	checkoutGroup := r.Group("/checkout")
	checkoutGroup.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	checkoutGroup.Use(middleware.RateLimitMiddleware(30, 10))
	{
		checkoutGroup.POST("", checkout.Begin)
		checkoutGroup.POST("/address", checkout.SubmitAddress)
		checkoutGroup.POST("/address/select", checkout.SelectAddress)
		checkoutGroup.POST("/payment/success", checkout.PaymentSuccess)
		checkoutGroup.POST("/payment/failure", checkout.PaymentFailure)
		checkoutGroup.POST("/payment/dismiss", checkout.PaymentDismiss)
		checkoutGroup.GET("/status", checkout.Status)
	}

	receipts := r.Group("/receipts")
	receipts.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		receipts.GET("", checkout.ListReceipts)
		receipts.GET("/:payment_id", checkout.GetReceipt)
	}

	// Wishlist works for guests (token header) and logged-in users alike.
	wishlistGroup := r.Group("/wishlist")
	wishlistGroup.Use(middleware.OptionalAuth(cfg.JWTSecret))
	{
		wishlistGroup.GET("", wishlist.List)
		wishlistGroup.POST("", wishlist.Add)
		wishlistGroup.DELETE("/:product_id", wishlist.Remove)
	}

	wishlistAuth := r.Group("/wishlist")
	wishlistAuth.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		wishlistAuth.POST("/:product_id/move-to-cart", wishlist.MoveToCart)
		wishlistAuth.POST("/merge", wishlist.Merge)
	}
}
