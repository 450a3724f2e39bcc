package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stats is the dashboard aggregation over customers, products and orders.
type Stats struct {
	TotalCustomers   int             `json:"total_customers"`
	ActiveCustomers  int             `json:"active_customers"`
	TotalProducts    int             `json:"total_products"`
	LowStockProducts int             `json:"low_stock_products"`
	TotalOrders      int             `json:"total_orders"`
	PendingOrders    int             `json:"pending_orders"`
	DeliveredOrders  int             `json:"delivered_orders"`
	CancelledOrders  int             `json:"cancelled_orders"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
}

// Equal compares stats field by field; revenue is compared numerically.
func (s Stats) Equal(other Stats) bool {
	return s.TotalCustomers == other.TotalCustomers &&
		s.ActiveCustomers == other.ActiveCustomers &&
		s.TotalProducts == other.TotalProducts &&
		s.LowStockProducts == other.LowStockProducts &&
		s.TotalOrders == other.TotalOrders &&
		s.PendingOrders == other.PendingOrders &&
		s.DeliveredOrders == other.DeliveredOrders &&
		s.CancelledOrders == other.CancelledOrders &&
		s.TotalRevenue.Equal(other.TotalRevenue)
}

// Aggregate derives dashboard stats. It never mutates its inputs and nil
// slices count as empty collections.
func Aggregate(customers []Customer, products []Product, orders []Order) Stats {
	stats := Stats{TotalRevenue: decimal.Zero}

	for i := range customers {
		c := &customers[i]
		if c.Deleted {
			continue
		}
		stats.TotalCustomers++
		if c.IsActive() {
			stats.ActiveCustomers++
		}
	}

	for i := range products {
		p := &products[i]
		if p.Deleted {
			continue
		}
		stats.TotalProducts++
		if p.IsLowStock() {
			stats.LowStockProducts++
		}
	}

	stats.TotalOrders = len(orders)
	for i := range orders {
		o := &orders[i]
		switch o.Status {
		case OrderPending:
			stats.PendingOrders++
		case OrderDelivered:
			stats.DeliveredOrders++
		case OrderCancelled:
			stats.CancelledOrders++
		}
		if o.CountsTowardRevenue() {
			stats.TotalRevenue = stats.TotalRevenue.Add(o.TotalAmount)
		}
	}

	return stats
}

// Snapshot is one published aggregation result.
type Snapshot struct {
	ID         string    `json:"id"`
	Stats      Stats     `json:"stats"`
	ComputedAt time.Time `json:"computed_at"`
}

// IsZero reports whether nothing has been computed yet.
func (s Snapshot) IsZero() bool {
	return s.ComputedAt.IsZero()
}
