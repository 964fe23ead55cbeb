package utils

import (
	"encoding/json"
	"fingerpays/config"
	"fmt"
	"log"

	"github.com/go-resty/resty/v2"
)

// GatewayConfirmResponse represents the response from the payment gateway
// charge-confirmation API
type GatewayConfirmResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ConfirmGatewayCharge asks the payment gateway whether the charge behind a
// recharge order went through. When no gateway is configured the charge is
// treated as confirmed, which keeps local and demo environments working
// without a sandbox account.
//
// Returns (confirmed, err): err signals a transport problem worth retrying,
// confirmed=false with nil err means the gateway rejected the charge.
func ConfirmGatewayCharge(orderReference string, amount float64, paymentMethod string) (bool, error) {
	if config.AppConfig.GatewayApiURL == "" {
		return true, nil
	}

	client := resty.New()
	resp, err := client.R().
		SetHeader("Authorization", "Bearer "+config.AppConfig.GatewayApiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"order_reference": orderReference,
			"amount":          amount,
			"payment_method":  paymentMethod,
		}).
		Post(config.AppConfig.GatewayApiURL + "charges/confirm")
	if err != nil {
		log.Printf("Gateway confirmation request failed for %s: %v", orderReference, err)
		return false, err
	}

	if resp.StatusCode() != 200 {
		log.Printf("Gateway returned %d for %s: %s", resp.StatusCode(), orderReference, resp.String())
		return false, fmt.Errorf("gateway error: %d", resp.StatusCode())
	}

	var confirmResp GatewayConfirmResponse
	if err := json.Unmarshal(resp.Body(), &confirmResp); err != nil {
		return false, fmt.Errorf("invalid gateway response: %v", err)
	}

	return confirmResp.Status == "success", nil
}
