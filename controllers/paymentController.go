package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func GetPayments(ctx *gin.Context) {
	payments, err := paymentSvc().List()
	if err != nil {
		respondWithAppError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"payments": payments})
}

func GetOrderPayment(ctx *gin.Context) {
	orderId, err := strconv.Atoi(ctx.Param("orderId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse order id")
		return
	}

	payment, svcErr := paymentSvc().GetByOrder(uint(orderId))
	if svcErr != nil {
		respondWithAppError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"payment": payment})
}

func GetTodayPayments(ctx *gin.Context) {
	payments, err := paymentSvc().TodayPayments()
	if err != nil {
		respondWithAppError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"payments": payments})
}

func MarkPaymentPaid(ctx *gin.Context) {
	paymentId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse payment id")
		return
	}

	var body struct {
		Reference string `json:"reference"`
	}
	_ = ctx.ShouldBindJSON(&body)

	payment, svcErr := paymentSvc().MarkPaid(uint(paymentId), body.Reference)
	if svcErr != nil {
		respondWithAppError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"message": "Payment marked as paid.",
		"payment": payment,
	})
}

func RefundPayment(ctx *gin.Context) {
	paymentId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse payment id")
		return
	}

	var body struct {
		Amount *float64 `json:"amount"`
		Reason string   `json:"reason"`
	}
	_ = ctx.ShouldBindJSON(&body)

	reversal, svcErr := paymentSvc().Refund(uint(paymentId), body.Amount, body.Reason)
	if svcErr != nil {
		respondWithAppError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"message": "Payment refunded.",
		"refund":  reversal,
	})
}

func CancelPayment(ctx *gin.Context) {
	paymentId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse payment id")
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	_ = ctx.ShouldBindJSON(&body)

	payment, svcErr := paymentSvc().Cancel(uint(paymentId), body.Reason)
	if svcErr != nil {
		respondWithAppError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"message": "Payment cancelled.",
		"payment": payment,
	})
}
