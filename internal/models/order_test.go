package models_test

import (
	"testing"

	"shopfront/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionOrder(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{models.OrderPending, models.OrderProcessing, true},
		{models.OrderPending, models.OrderShipped, true},
		{models.OrderProcessing, models.OrderDelivered, true},
		{models.OrderShipped, models.OrderCancelled, true},
		{models.OrderShipped, models.OrderPending, false},
		{models.OrderDelivered, models.OrderCancelled, false},
		{models.OrderCancelled, models.OrderProcessing, false},
		{models.OrderPending, models.OrderPending, false},
		{models.OrderPending, "lost", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, models.CanTransitionOrder(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestNormalizePaymentMethod(t *testing.T) {
	assert.Equal(t, models.PaymentCOD, models.NormalizePaymentMethod("cash"))
	assert.Equal(t, models.PaymentCOD, models.NormalizePaymentMethod("COD"))
	assert.Equal(t, models.PaymentCOD, models.NormalizePaymentMethod(""))
	assert.Equal(t, models.PaymentCOD, models.NormalizePaymentMethod("bitcoin"))
	assert.Equal(t, models.PaymentBankTransfer, models.NormalizePaymentMethod("Transfer"))
	assert.Equal(t, models.PaymentBankTransfer, models.NormalizePaymentMethod("bankTransfer"))
	assert.Equal(t, models.PaymentCreditCard, models.NormalizePaymentMethod("debit"))
	assert.Equal(t, models.PaymentCreditCard, models.NormalizePaymentMethod(" creditcard "))
}

func TestProductFilterConjunction(t *testing.T) {
	p := &models.Product{CategoryID: 2, Name: "Vitamin C Serum", Status: models.ProductActive, Price: 150000}

	assert.True(t, models.ProductFilter{}.Match(p))
	assert.True(t, models.ProductFilter{CategoryID: 2, Search: "serum", Status: "active"}.Match(p))
	assert.False(t, models.ProductFilter{CategoryID: 2, Search: "toner"}.Match(p))
	assert.False(t, models.ProductFilter{CategoryID: 3, Search: "serum"}.Match(p))
	assert.False(t, models.ProductFilter{MaxPrice: 100000}.Match(p))
	assert.True(t, models.ProductFilter{MinPrice: 100000, MaxPrice: 200000}.Match(p))
}
