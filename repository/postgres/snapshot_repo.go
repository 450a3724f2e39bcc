package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/fastygo/orderflow-dashboard/domain"
	"github.com/fastygo/orderflow-dashboard/repository"
)

const snapshotColumns = `
	id, total_customers, active_customers, total_products, low_stock_products,
	total_orders, pending_orders, delivered_orders, cancelled_orders,
	total_revenue::text, computed_at
`

type snapshotRepository struct {
	pool *pgxpool.Pool
}

// NewSnapshotRepository returns a Postgres-backed snapshot history.
func NewSnapshotRepository(pool *pgxpool.Pool) repository.SnapshotRepository {
	return &snapshotRepository{pool: pool}
}

func (r *snapshotRepository) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	if snapshot == nil || snapshot.IsZero() {
		return domain.ErrInvalidPayload
	}
	if snapshot.ID == "" {
		snapshot.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO dashboard_snapshots (
		id, total_customers, active_customers, total_products, low_stock_products,
		total_orders, pending_orders, delivered_orders, cancelled_orders,
		total_revenue, computed_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::text::numeric, $11)
	ON CONFLICT (id) DO NOTHING
	`

	s := snapshot.Stats
	_, err := r.pool.Exec(ctx, query,
		snapshot.ID,
		s.TotalCustomers,
		s.ActiveCustomers,
		s.TotalProducts,
		s.LowStockProducts,
		s.TotalOrders,
		s.PendingOrders,
		s.DeliveredOrders,
		s.CancelledOrders,
		s.TotalRevenue.String(),
		snapshot.ComputedAt,
	)
	return err
}

func (r *snapshotRepository) Latest(ctx context.Context) (*domain.Snapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM dashboard_snapshots ORDER BY computed_at DESC LIMIT 1`
	return scanSnapshot(r.pool.QueryRow(ctx, query))
}

func (r *snapshotRepository) List(ctx context.Context, filter repository.SnapshotFilter) ([]domain.Snapshot, error) {
	query := `SELECT ` + snapshotColumns + `
	FROM dashboard_snapshots
	ORDER BY computed_at DESC
	LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, clampLimit(filter.Limit), clampOffset(filter.Offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []domain.Snapshot
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, *snapshot)
	}
	return snapshots, rows.Err()
}

func scanSnapshot(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Snapshot, error) {
	var (
		snapshot domain.Snapshot
		revenue  string
	)
	s := &snapshot.Stats

	if err := row.Scan(
		&snapshot.ID,
		&s.TotalCustomers,
		&s.ActiveCustomers,
		&s.TotalProducts,
		&s.LowStockProducts,
		&s.TotalOrders,
		&s.PendingOrders,
		&s.DeliveredOrders,
		&s.CancelledOrders,
		&revenue,
		&snapshot.ComputedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, err
	}

	parsed, err := decimal.NewFromString(revenue)
	if err != nil {
		return nil, err
	}
	s.TotalRevenue = parsed
	return &snapshot, nil
}
