package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "PENDING"
	PaymentProcessing PaymentStatus = "PROCESSING"
	PaymentCompleted  PaymentStatus = "COMPLETED"
	PaymentFailed     PaymentStatus = "FAILED"
	PaymentRefunded   PaymentStatus = "REFUNDED"
)

func ParsePaymentStatus(v string) (PaymentStatus, error) {
	status := PaymentStatus(strings.ToUpper(strings.TrimSpace(v)))
	switch status {
	case PaymentPending, PaymentProcessing, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return status, nil
	}
	return "", NewError(ErrCodeInvalid, fmt.Sprintf("unknown payment status %q", v))
}

// Payment settles all or part of an invoice. Method is passed through as the
// upstream names it (CREDIT_CARD, BANK_TRANSFER, ...).
type Payment struct {
	ID              int64           `json:"id"`
	ReferenceNumber string          `json:"referenceNumber"`
	Invoice         Ref             `json:"invoice"`
	Method          string          `json:"method"`
	Amount          decimal.Decimal `json:"amount"`
	Status          PaymentStatus   `json:"status"`
	PaymentDate     Timestamp       `json:"paymentDate"`
	TransactionID   string          `json:"transactionId,omitempty"`
}

// CheckAgainst validates the amount against what the invoice still owes.
func (p *Payment) CheckAgainst(invoice *Invoice) error {
	if p == nil || invoice == nil {
		return ErrInvalidPayload
	}
	if !p.Amount.IsPositive() {
		return NewError(ErrCodeInvalid, "payment amount must be greater than zero")
	}
	if invoice.Status == InvoiceCancelled {
		return NewError(ErrCodeConflict, fmt.Sprintf("invoice %s is cancelled", invoice.InvoiceNumber))
	}
	if p.Amount.GreaterThan(invoice.Balance()) {
		return NewError(ErrCodeInvalid,
			fmt.Sprintf("payment amount %s exceeds invoice balance %s", p.Amount, invoice.Balance()))
	}
	return nil
}

func (p *Payment) UnreadableDates() map[string]string {
	return UnreadableDates(DateField{Name: "paymentDate", Value: p.PaymentDate})
}
