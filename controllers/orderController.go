package controllers

import (
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ndiayedev/jokkoshop-api/initializers"
	"github.com/ndiayedev/jokkoshop-api/models"
	"github.com/ndiayedev/jokkoshop-api/services"
	"github.com/ndiayedev/jokkoshop-api/utils"
)

// Send an order confirmation email, best-effort.
func sendOrderConfirmationEmail(order *models.Order) {
	var client models.User
	if err := initializers.DB.First(&client, order.ClientID).Error; err != nil {
		log.Printf("Order %d: could not load client for confirmation email: %v", order.ID, err)
		return
	}

	emailData := utils.EmailData{
		Name:    client.Fullname,
		Message: fmt.Sprintf("Your order #%d has been received. Total: %.2f. We will keep you posted on the delivery.", order.ID, order.Total),
	}
	templatePath := filepath.Join("templates", "order_confirmation.html")
	if err := utils.SendEmail(client.Email, "Order Confirmation", emailData, templatePath); err != nil {
		log.Printf("Order %d: confirmation email not sent: %v", order.ID, err)
	}
}

func CreateOrder(ctx *gin.Context) {
	var input services.CreateOrderInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		log.Printf("JSON binding error: %v", err)
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	clientID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	order, err := orderSvc().CreateOrder(clientID, input)
	if err != nil {
		respondWithAppError(ctx, err)
		return
	}

	sendOrderConfirmationEmail(order)

	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message": "Order created successfully.",
		"order":   order,
	})
}

func GetOrders(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "15"))
	offset := (page - 1) * limit

	orders, count, err := orderSvc().List(limit, offset)
	if err != nil {
		respondWithAppError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"metadata": gin.H{
			"total": count,
			"page":  page,
			"limit": limit,
		},
	})
}

func GetMyOrders(ctx *gin.Context) {
	clientID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	orders, err := orderSvc().ListByClient(clientID)
	if err != nil {
		respondWithAppError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"orders": orders})
}

func GetOrderById(ctx *gin.Context) {
	orderId, err := strconv.Atoi(ctx.Param("orderId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse orderId")
		return
	}

	order, svcErr := orderSvc().GetByID(uint(orderId))
	if svcErr != nil {
		respondWithAppError(ctx, svcErr)
		return
	}

	// Clients may only read their own orders.
	if currentUserRole(ctx) == models.RoleClient {
		if clientID, ok := currentUserID(ctx); !ok || order.ClientID != clientID {
			sendErrorResponse(ctx, http.StatusForbidden, "You cannot access this order")
			return
		}
	}

	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

func UpdateOrderStatus(ctx *gin.Context) {
	var orderStatusData struct {
		Status string `json:"status" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&orderStatusData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse request body")
		return
	}

	orderId, err := strconv.Atoi(ctx.Param("orderId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse orderId")
		return
	}

	order, svcErr := orderSvc().UpdateStatus(uint(orderId), orderStatusData.Status)
	if svcErr != nil {
		respondWithAppError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully.",
		"order":   order,
	})
}

func DeleteOrder(ctx *gin.Context) {
	orderId, err := strconv.Atoi(ctx.Param("orderId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse order id.")
		return
	}

	if err := orderSvc().Destroy(uint(orderId)); err != nil {
		respondWithAppError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Order deleted successfully."})
}

func CheckAvailability(ctx *gin.Context) {
	var body struct {
		Lines []services.OrderLineInput `json:"lines" binding:"required,min=1,dive"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	report, err := orderSvc().CheckAvailability(body.Lines)
	if err != nil {
		respondWithAppError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, report)
}

func GetUndeliveredOrders(ctx *gin.Context) {
	var count int64
	result := initializers.DB.
		Model(&models.Order{}).
		Where("status NOT IN ?", []string{models.OrderStatusDelivered, models.OrderStatusCancelled}).
		Count(&count)
	if result.Error != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count undelivered orders"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"undeliveredOrderCount": count})
}
