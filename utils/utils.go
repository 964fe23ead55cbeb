package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateOTP generates a 6-digit OTP
func GenerateOTP() string {
	rng := rand.New(rand.NewSource(time.Now().UnixNano())) // Create a new random number generator
	otp := ""
	for i := 0; i < 6; i++ {
		otp += fmt.Sprintf("%d", rng.Intn(10)) // Generate a random digit (0-9) and append to OTP string
	}
	return otp
}

// randomSuffix returns a short unique fragment for reference ids
func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
}

// GenerateOrderReference builds a client-visible recharge order reference,
// e.g. ORDER_1735600000000_a1b2c3d4e
func GenerateOrderReference() string {
	return fmt.Sprintf("ORDER_%d_%s", time.Now().UnixMilli(), randomSuffix())
}

// GeneratePaymentReference builds a payment transaction reference,
// e.g. PAY_1735600000000_a1b2c3d4e
func GeneratePaymentReference() string {
	return fmt.Sprintf("PAY_%d_%s", time.Now().UnixMilli(), randomSuffix())
}

// GenerateIdempotencyKey creates a server-side key for requests that
// did not supply one, so replays within the same client retry loop
// still dedupe against the stored row
func GenerateIdempotencyKey() string {
	return uuid.NewString()
}
