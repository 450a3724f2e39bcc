package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus mirrors the OrderFlow invoice lifecycle.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "DRAFT"
	InvoiceSent      InvoiceStatus = "SENT"
	InvoicePaid      InvoiceStatus = "PAID"
	InvoiceOverdue   InvoiceStatus = "OVERDUE"
	InvoiceCancelled InvoiceStatus = "CANCELLED"
)

func ParseInvoiceStatus(v string) (InvoiceStatus, error) {
	status := InvoiceStatus(strings.ToUpper(strings.TrimSpace(v)))
	switch status {
	case InvoiceDraft, InvoiceSent, InvoicePaid, InvoiceOverdue, InvoiceCancelled:
		return status, nil
	}
	return "", NewError(ErrCodeInvalid, fmt.Sprintf("unknown invoice status %q", v))
}

// Ref is a nested entity reference; only the id is read.
type Ref struct {
	ID int64 `json:"id"`
}

// Invoice is owned by the OrderFlow API. Order and customer arrive as nested
// objects.
type Invoice struct {
	ID            int64           `json:"id"`
	InvoiceNumber string          `json:"invoiceNumber"`
	Order         Ref             `json:"order"`
	Customer      Ref             `json:"customer"`
	InvoiceDate   Timestamp       `json:"invoiceDate"`
	DueDate       Timestamp       `json:"dueDate"`
	Status        InvoiceStatus   `json:"status"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	PaidAt        Timestamp       `json:"paidAt"`
}

// Balance is the amount still owed.
func (i *Invoice) Balance() decimal.Decimal {
	if i == nil {
		return decimal.Zero
	}
	return i.TotalAmount.Sub(i.PaidAmount)
}

// Settled invoices are paid or cancelled; nothing more can be collected.
func (i *Invoice) Settled() bool {
	return i != nil && (i.Status == InvoicePaid || i.Status == InvoiceCancelled)
}

// OverdueAt reports whether the invoice is unsettled past its due date. An
// invoice already flagged OVERDUE upstream is overdue regardless of date.
func (i *Invoice) OverdueAt(now time.Time) bool {
	if i == nil || i.Settled() {
		return false
	}
	if i.Status == InvoiceOverdue {
		return true
	}
	return !i.DueDate.IsZero() && i.DueDate.Before(now)
}

func (i *Invoice) UnreadableDates() map[string]string {
	return UnreadableDates(
		DateField{Name: "invoiceDate", Value: i.InvoiceDate},
		DateField{Name: "dueDate", Value: i.DueDate},
		DateField{Name: "paidAt", Value: i.PaidAt},
	)
}
