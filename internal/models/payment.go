package models

import (
	"strings"
	"time"
)

// PaymentMethod is the normalised payment method stored with an order.
type PaymentMethod string

const (
	PaymentCOD          PaymentMethod = "COD"
	PaymentBankTransfer PaymentMethod = "BankTransfer"
	PaymentCreditCard   PaymentMethod = "CreditCard"
)

// Payment statuses.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

// Payment is created exactly once per order, together with the order.
type Payment struct {
	ID        uint          `json:"id" gorm:"primaryKey"`
	OrderID   uint          `json:"order_id" gorm:"uniqueIndex"`
	Method    PaymentMethod `json:"payment_method" gorm:"type:varchar(20)"`
	Status    string        `json:"payment_status" gorm:"type:varchar(20)"`
	Amount    float64       `json:"amount"`
	CreatedAt time.Time     `json:"payment_date"`
}

// NormalizePaymentMethod maps a client token onto a stored method.
// Unknown or empty tokens fall back to cash on delivery.
func NormalizePaymentMethod(token string) PaymentMethod {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "transfer", "banktransfer", "bank_transfer":
		return PaymentBankTransfer
	case "credit", "creditcard", "credit_card", "debit":
		return PaymentCreditCard
	default:
		return PaymentCOD
	}
}
