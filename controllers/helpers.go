package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/ndiayedev/jokkoshop-api/apperrors"
	"github.com/ndiayedev/jokkoshop-api/initializers"
	"github.com/ndiayedev/jokkoshop-api/services"
)

func productSvc() *services.ProductService {
	return services.NewProductService(initializers.DB)
}

func promotionSvc() *services.PromotionService {
	return services.NewPromotionService(initializers.DB, services.SystemClock)
}

func deliverySvc() *services.DeliveryService {
	return services.NewDeliveryService(initializers.DB, services.SystemClock)
}

func paymentSvc() *services.PaymentService {
	return services.NewPaymentService(initializers.DB, services.SystemClock, services.NewGatewayClient())
}

func orderSvc() *services.OrderService {
	return services.NewOrderService(
		initializers.DB,
		services.SystemClock,
		productSvc(),
		promotionSvc(),
		deliverySvc(),
		paymentSvc(),
	)
}

var errorStatus = map[apperrors.Kind]int{
	apperrors.KindValidation:        http.StatusBadRequest,
	apperrors.KindNotFound:          http.StatusNotFound,
	apperrors.KindConflict:          http.StatusConflict,
	apperrors.KindInsufficientStock: http.StatusUnprocessableEntity,
	apperrors.KindBusinessRule:      http.StatusUnprocessableEntity,
	apperrors.KindInternal:          http.StatusInternalServerError,
}

// respondWithAppError maps a service error to its HTTP status. Internal
// errors are logged with full context and reported generically.
func respondWithAppError(ctx *gin.Context, err error) {
	kind := apperrors.KindOf(err)
	status, ok := errorStatus[kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status == http.StatusInternalServerError {
		log.Printf("internal error on %s %s: %v", ctx.Request.Method, ctx.Request.URL.Path, err)
		sendErrorResponse(ctx, status, "Internal server error")
		return
	}
	ctx.JSON(status, gin.H{"message": err.Error(), "kind": string(kind)})
}

func currentUserClaims(ctx *gin.Context) (jwt.MapClaims, bool) {
	userClaims, exists := ctx.Get("user")
	if !exists {
		return nil, false
	}
	claims, ok := userClaims.(jwt.MapClaims)
	return claims, ok
}

func currentUserID(ctx *gin.Context) (uint, bool) {
	claims, ok := currentUserClaims(ctx)
	if !ok {
		return 0, false
	}
	id, ok := claims["user_id"].(float64)
	if !ok {
		return 0, false
	}
	return uint(id), true
}

func currentUserRole(ctx *gin.Context) string {
	claims, ok := currentUserClaims(ctx)
	if !ok {
		return ""
	}
	role, _ := claims["role"].(string)
	return role
}
