package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ndiayedev/jokkoshop-api/services"
)

func GetDeliveries(ctx *gin.Context) {
	deliveries, err := deliverySvc().List()
	if err != nil {
		respondWithAppError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"deliveries": deliveries})
}

func GetDelivery(ctx *gin.Context) {
	deliveryId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse delivery id")
		return
	}

	delivery, svcErr := deliverySvc().GetByID(uint(deliveryId))
	if svcErr != nil {
		respondWithAppError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"delivery": delivery})
}

func UpdateDelivery(ctx *gin.Context) {
	deliveryId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse delivery id")
		return
	}

	var updates map[string]any
	if err := ctx.ShouldBindJSON(&updates); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	delivery, svcErr := deliverySvc().Update(uint(deliveryId), updates)
	if svcErr != nil {
		respondWithAppError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"message":  "Delivery updated successfully.",
		"delivery": delivery,
	})
}

func UpdateDeliveryStatus(ctx *gin.Context) {
	deliveryId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse delivery id")
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	delivery, svcErr := deliverySvc().UpdateStatus(uint(deliveryId), body.Status)
	if svcErr != nil {
		respondWithAppError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"message":  "Delivery status updated successfully.",
		"delivery": delivery,
	})
}

func AssignDeliveryEmployee(ctx *gin.Context) {
	deliveryId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse delivery id")
		return
	}

	var body struct {
		EmployeeID uint `json:"employeeId" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	delivery, svcErr := deliverySvc().AssignEmployee(uint(deliveryId), body.EmployeeID)
	if svcErr != nil {
		respondWithAppError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"message":  "Employee assigned successfully.",
		"delivery": delivery,
	})
}

func MarkDeliveryDelivered(ctx *gin.Context) {
	deliveryId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse delivery id")
		return
	}

	var body struct {
		Note string `json:"note"`
	}
	// Note is optional, an empty body is fine.
	_ = ctx.ShouldBindJSON(&body)

	delivery, svcErr := deliverySvc().MarkDelivered(uint(deliveryId), body.Note)
	if svcErr != nil {
		respondWithAppError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"message":  "Delivery marked as delivered.",
		"delivery": delivery,
	})
}

func GetLateDeliveries(ctx *gin.Context) {
	deliveries, err := deliverySvc().LateDeliveries()
	if err != nil {
		respondWithAppError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"deliveries": deliveries})
}

func GetTodayDeliveries(ctx *gin.Context) {
	deliveries, err := deliverySvc().TodayDeliveries()
	if err != nil {
		respondWithAppError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"deliveries": deliveries})
}

func GetEmployeeDeliveries(ctx *gin.Context) {
	employeeId, err := strconv.Atoi(ctx.Param("employeeId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse employee id")
		return
	}

	deliveries, svcErr := deliverySvc().ListByEmployee(uint(employeeId))
	if svcErr != nil {
		respondWithAppError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"deliveries": deliveries})
}

func PlanDeliveries(ctx *gin.Context) {
	dateStr := ctx.Query("date")
	if dateStr == "" {
		sendErrorResponse(ctx, http.StatusBadRequest, "Missing date query parameter")
		return
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	var employeeID *uint
	if employeeStr := ctx.Query("employeeId"); employeeStr != "" {
		parsed, err := strconv.Atoi(employeeStr)
		if err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, "Invalid employeeId")
			return
		}
		id := uint(parsed)
		employeeID = &id
	}

	plan, svcErr := deliverySvc().PlanFor(date, employeeID)
	if svcErr != nil {
		respondWithAppError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"date": dateStr,
		"plan": plan,
	})
}

func GetDeliveryFee(ctx *gin.Context) {
	var body struct {
		City     string   `json:"city" binding:"required"`
		Distance *float64 `json:"distance"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	fee := services.ComputeDeliveryFee(body.City, body.Distance)
	ctx.JSON(http.StatusOK, gin.H{
		"city": body.City,
		"fee":  fee,
	})
}

func GetDeliveryStats(ctx *gin.Context) {
	stats, err := deliverySvc().Stats(ctx.DefaultQuery("period", "month"))
	if err != nil {
		respondWithAppError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, stats)
}

func DeleteDelivery(ctx *gin.Context) {
	deliveryId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse delivery id")
		return
	}

	if err := deliverySvc().Delete(uint(deliveryId)); err != nil {
		respondWithAppError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Delivery deleted successfully."})
}
