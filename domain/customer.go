package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CustomerSegment buckets customers by lifetime spend.
type CustomerSegment string

const (
	SegmentRegular CustomerSegment = "REGULAR"
	SegmentPremium CustomerSegment = "PREMIUM"
	SegmentVIP     CustomerSegment = "VIP"
)

// Customer is owned by the OrderFlow API; the dashboard only reads it.
type Customer struct {
	ID            int64           `json:"id"`
	CustomerCode  string          `json:"customerCode,omitempty"`
	FirstName     string          `json:"firstName"`
	LastName      string          `json:"lastName"`
	FullName      string          `json:"fullName,omitempty"`
	Email         string          `json:"email"`
	PhoneNumber   string          `json:"phoneNumber,omitempty"`
	CompanyName   string          `json:"companyName,omitempty"`
	Segment       CustomerSegment `json:"segment,omitempty"`
	LoyaltyPoints int             `json:"loyaltyPoints"`
	TotalOrders   int             `json:"totalOrders"`
	TotalSpent    decimal.Decimal `json:"totalSpent"`
	Active        bool            `json:"active"`
	Deleted       bool            `json:"deleted"`
	CreatedAt     Timestamp       `json:"createdAt"`
	UpdatedAt     Timestamp       `json:"updatedAt"`
}

// DisplayName prefers the API supplied full name and falls back to first + last.
func (c *Customer) DisplayName() string {
	if c == nil {
		return ""
	}
	if c.FullName != "" {
		return c.FullName
	}
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// IsActive reports whether the customer counts as active on the dashboard.
func (c *Customer) IsActive() bool {
	return c != nil && c.Active && !c.Deleted
}

func (c *Customer) UnreadableDates() map[string]string {
	return UnreadableDates(
		DateField{Name: "createdAt", Value: c.CreatedAt},
		DateField{Name: "updatedAt", Value: c.UpdatedAt},
	)
}
