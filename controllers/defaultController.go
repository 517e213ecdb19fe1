package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to Jokkoshop API. Enjoy seamless interaction with this API.

The following are the main endpoints:

AUTH
- POST "/auth/signup" - Create user account
- POST "/auth/login" - Access user account
- POST "/auth/verify-email/:activationToken" - Activate user account
- POST "/auth/forgot-password" - Request password reset
- POST "/auth/reset-password/:resetToken" - Reset user password

PRODUCT
- POST "/product" - Create new product (admin)
- GET "/product" - Get all products with stock reports
- GET "/product/:id" - Get product by ID
- GET "/product/:id/price" - Preview discounted price
- POST "/product/:id/restock" - Restock a product (admin)
- POST "/product-image" - Upload product image (admin)
- GET "/products/low-stock" - Products needing restock (admin)
- GET "/products/stock-statistics" - Stock breakdown (admin)

CATEGORY
- POST "/category" - Create category (admin)
- GET "/category" - List categories

PROMOTION
- POST "/promotion" - Create promotion (admin)
- GET "/promotion" - List promotions (admin)
- GET "/promotions/active" - Active promotions
- POST "/promotion/:id/products" - Link product (admin)
- DELETE "/promotion/:id/products/:productId" - Unlink product (admin)

ORDER
- POST "/order" - Create a new order
- POST "/order/availability" - Check stock availability
- GET "/order" - Retrieve all orders (admin)
- GET "/orders/mine" - Get my orders
- GET "/order/:orderId" - Get order by ID
- PATCH "/order/:orderId/status" - Update order status (employee)
- DELETE "/order/:orderId" - Delete order (admin)

DELIVERY
- GET "/delivery" - List deliveries (employee)
- POST "/delivery/:id/assign" - Assign employee (admin)
- POST "/delivery/:id/deliver" - Mark delivered (employee)
- GET "/deliveries/late" - Late deliveries (employee)
- GET "/deliveries/plan" - Day plan grouped by zone (employee)
- POST "/deliveries/fee" - Compute delivery fee

PAYMENT
- GET "/payment" - List payments (admin)
- GET "/payment/order/:orderId" - Payment of an order
- POST "/payment/:id/paid" - Mark paid (employee)
- POST "/payment/:id/refund" - Refund (admin)
- POST "/payment/:id/cancel" - Cancel (admin)`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}
