package services

import (
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/ndiayedev/jokkoshop-api/apperrors"
)

// GatewayClient talks to the sandbox payment gateway. When no gateway URL
// is configured, transaction references are generated locally so the flow
// stays fully simulated.
type GatewayClient struct {
	baseURL string
	client  *resty.Client
}

func NewGatewayClient() *GatewayClient {
	return &GatewayClient{
		baseURL: os.Getenv("PAYMENT_GATEWAY_URL"),
		client:  resty.New().SetTimeout(10 * time.Second),
	}
}

type gatewayTransactionResponse struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
}

// InitiateTransaction returns a unique transaction reference for an online
// payment.
func (g *GatewayClient) InitiateTransaction(orderID uint, amount float64, phone, operator string) (string, error) {
	if g.baseURL == "" {
		return localTransactionRef(), nil
	}

	var parsed gatewayTransactionResponse
	resp, err := g.client.R().
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetBody(map[string]any{
			"order_id": fmt.Sprintf("ORDER-%d", orderID),
			"amount":   amount,
			"currency": "XOF",
			"phone":    phone,
			"operator": operator,
		}).
		SetResult(&parsed).
		Post(g.baseURL + "/transactions")
	if err != nil {
		return "", apperrors.Internal("payment gateway request failed", err)
	}
	if resp.StatusCode() != 200 && resp.StatusCode() != 201 {
		return "", apperrors.Internal(
			fmt.Sprintf("payment gateway returned status %d", resp.StatusCode()), nil)
	}
	if parsed.Reference == "" {
		return "", apperrors.Internal("payment gateway returned no reference", nil)
	}
	return parsed.Reference, nil
}

func localTransactionRef() string {
	return fmt.Sprintf("TXN-%d-%s", time.Now().Unix(), uuid.NewString()[:8])
}

func localRefundRef() string {
	return fmt.Sprintf("RFD-%d-%s", time.Now().Unix(), uuid.NewString()[:8])
}
