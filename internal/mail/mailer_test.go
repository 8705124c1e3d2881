package mail

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestConfirmationBody(t *testing.T) {
	body := confirmationBody(OrderConfirmation{
		ToEmail:     "one@example.com",
		FullName:    "User One",
		ClaimCode:   "ABCD2345",
		OrderDate:   time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
		TotalBooks:  6,
		Subtotal:    decimal.RequireFromString("60"),
		Discount:    decimal.RequireFromString("3"),
		FinalAmount: decimal.RequireFromString("57"),
	})

	assert.Contains(t, body, "User One")
	assert.Contains(t, body, "ABCD2345")
	assert.Contains(t, body, "60.00")
	assert.Contains(t, body, "3.00")
	assert.Contains(t, body, "57.00")
	assert.Contains(t, body, "14 Mar 2025")
}
