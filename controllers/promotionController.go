package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ndiayedev/jokkoshop-api/models"
)

func CreatePromotion(ctx *gin.Context) {
	var promotion models.Promotion
	if err := ctx.ShouldBindJSON(&promotion); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := promotionSvc().Create(&promotion); err != nil {
		respondWithAppError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, promotion)
}

func GetPromotions(ctx *gin.Context) {
	promotions, err := promotionSvc().List()
	if err != nil {
		respondWithAppError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"promotions": promotions})
}

func GetActivePromotions(ctx *gin.Context) {
	promotions, err := promotionSvc().ListActive()
	if err != nil {
		respondWithAppError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"promotions": promotions})
}

func GetPromotion(ctx *gin.Context) {
	promotionId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid promotion ID", err)
		return
	}

	promotion, svcErr := promotionSvc().GetByID(uint(promotionId))
	if svcErr != nil {
		respondWithAppError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, promotion)
}

func UpdatePromotion(ctx *gin.Context) {
	promotionId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid promotion ID", err)
		return
	}

	var updates map[string]any
	if err := ctx.ShouldBindJSON(&updates); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	promotion, svcErr := promotionSvc().Update(uint(promotionId), updates)
	if svcErr != nil {
		respondWithAppError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, promotion)
}

func SetPromotionActive(ctx *gin.Context) {
	promotionId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid promotion ID", err)
		return
	}

	var body struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	promotion, svcErr := promotionSvc().SetActive(uint(promotionId), *body.Active)
	if svcErr != nil {
		respondWithAppError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, promotion)
}

func DeletePromotion(ctx *gin.Context) {
	promotionId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid promotion ID", err)
		return
	}

	if err := promotionSvc().Delete(uint(promotionId)); err != nil {
		respondWithAppError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Promotion deleted successfully."})
}

func AttachPromotionProduct(ctx *gin.Context) {
	promotionId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid promotion ID", err)
		return
	}

	var body struct {
		ProductID   uint     `json:"productId" binding:"required"`
		FixedAmount *float64 `json:"fixedAmount"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := promotionSvc().AttachProduct(uint(promotionId), body.ProductID, body.FixedAmount); err != nil {
		respondWithAppError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Product linked to promotion."})
}

func DetachPromotionProduct(ctx *gin.Context) {
	promotionId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid promotion ID", err)
		return
	}
	productId, err := strconv.Atoi(ctx.Param("productId"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid product ID", err)
		return
	}

	if err := promotionSvc().DetachProduct(uint(promotionId), uint(productId)); err != nil {
		respondWithAppError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Product unlinked from promotion."})
}

// GetProductPrice previews the discounted price of a product.
func GetProductPrice(ctx *gin.Context) {
	productId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid product ID", err)
		return
	}

	quote, svcErr := promotionSvc().PriceWithPromotion(uint(productId), nil)
	if svcErr != nil {
		respondWithAppError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, quote)
}
