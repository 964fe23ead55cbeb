package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOTP(t *testing.T) {
	otp := GenerateOTP()
	assert.Len(t, otp, 6)
	for _, ch := range otp {
		assert.True(t, ch >= '0' && ch <= '9')
	}
}

func TestGenerateOrderReference(t *testing.T) {
	ref := GenerateOrderReference()
	assert.True(t, strings.HasPrefix(ref, "ORDER_"))
	assert.Len(t, strings.Split(ref, "_"), 3)
}

func TestGeneratePaymentReference(t *testing.T) {
	ref := GeneratePaymentReference()
	assert.True(t, strings.HasPrefix(ref, "PAY_"))
}

func TestReferencesAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ref := GenerateOrderReference()
		assert.False(t, seen[ref])
		seen[ref] = true
	}
}
