package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fastygo/orderflow-dashboard/domain"
)

type fakeCatalog struct {
	orders map[int64]*domain.Order

	statusCalls  int
	cancelCalls  int
	cancelReason string
	created      *domain.Order
}

func newFakeCatalog(orders ...domain.Order) *fakeCatalog {
	f := &fakeCatalog{orders: make(map[int64]*domain.Order)}
	for i := range orders {
		order := orders[i]
		f.orders[order.ID] = &order
	}
	return f
}

func (f *fakeCatalog) ListCustomers(ctx context.Context) ([]domain.Customer, error) { return nil, nil }
func (f *fakeCatalog) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	return nil, domain.ErrCustomerNotFound
}
func (f *fakeCatalog) CreateCustomer(ctx context.Context, c *domain.Customer) (*domain.Customer, error) {
	c.ID = 7
	return c, nil
}
func (f *fakeCatalog) UpdateCustomer(ctx context.Context, c *domain.Customer) (*domain.Customer, error) {
	return c, nil
}
func (f *fakeCatalog) DeleteCustomer(ctx context.Context, id int64) error { return nil }

func (f *fakeCatalog) ListProducts(ctx context.Context) ([]domain.Product, error) { return nil, nil }
func (f *fakeCatalog) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return nil, domain.ErrProductNotFound
}
func (f *fakeCatalog) CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	return p, nil
}
func (f *fakeCatalog) UpdateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	return p, nil
}
func (f *fakeCatalog) DeleteProduct(ctx context.Context, id int64) error { return nil }

func (f *fakeCatalog) ListOrders(ctx context.Context) ([]domain.Order, error) { return nil, nil }
func (f *fakeCatalog) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}
func (f *fakeCatalog) CreateOrder(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	f.created = o
	return o, nil
}
func (f *fakeCatalog) UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	f.statusCalls++
	order := f.orders[id]
	order.Status = status
	copied := *order
	return &copied, nil
}
func (f *fakeCatalog) CancelOrder(ctx context.Context, id int64, reason string) error {
	f.cancelCalls++
	f.cancelReason = reason
	f.orders[id].Status = domain.OrderCancelled
	return nil
}

func TestUpdateOrderStatusFollowsTransitions(t *testing.T) {
	source := newFakeCatalog(domain.Order{ID: 1, OrderNumber: "ORD-1", Status: domain.OrderPending})
	uc := New(source, nil)

	order, err := uc.UpdateOrderStatus(context.Background(), 1, domain.OrderConfirmed)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if order.Status != domain.OrderConfirmed || source.statusCalls != 1 {
		t.Fatalf("unexpected result %+v calls=%d", order, source.statusCalls)
	}
}

func TestUpdateOrderStatusRejectsIllegalTransitionLocally(t *testing.T) {
	source := newFakeCatalog(domain.Order{ID: 1, Status: domain.OrderPending})
	uc := New(source, nil)

	_, err := uc.UpdateOrderStatus(context.Background(), 1, domain.OrderDelivered)
	if !domain.IsDomainError(err, domain.ErrCodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if source.statusCalls != 0 {
		t.Fatalf("upstream must not be called")
	}
}

func TestUpdateOrderStatusOnTerminalOrder(t *testing.T) {
	source := newFakeCatalog(domain.Order{ID: 5, OrderNumber: "ORD-5", Status: domain.OrderCancelled})
	uc := New(source, nil)

	_, err := uc.UpdateOrderStatus(context.Background(), 5, domain.OrderConfirmed)
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if !strings.Contains(err.Error(), "accepts no further changes") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestUpdateOrderStatusUnknownOrder(t *testing.T) {
	uc := New(newFakeCatalog(), nil)
	_, err := uc.UpdateOrderStatus(context.Background(), 42, domain.OrderConfirmed)
	if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCancelOrderDefaultsReason(t *testing.T) {
	source := newFakeCatalog(domain.Order{ID: 3, Status: domain.OrderProcessing})
	uc := New(source, nil)

	if err := uc.CancelOrder(context.Background(), 3, "  "); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if source.cancelReason != domain.DefaultCancelReason {
		t.Fatalf("reason = %q", source.cancelReason)
	}
}

func TestCancelOrderRejectsShipped(t *testing.T) {
	source := newFakeCatalog(domain.Order{ID: 4, OrderNumber: "ORD-4", Status: domain.OrderShipped})
	uc := New(source, nil)

	err := uc.CancelOrder(context.Background(), 4, "late")
	if !domain.IsDomainError(err, domain.ErrCodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if source.cancelCalls != 0 {
		t.Fatalf("upstream must not be called")
	}
}

func TestCreateOrderValidation(t *testing.T) {
	tests := []struct {
		name  string
		order *domain.Order
	}{
		{"nil", nil},
		{"no customer", &domain.Order{Items: []domain.OrderItem{{ProductID: 1, Quantity: 1}}}},
		{"no items", &domain.Order{CustomerID: 1}},
		{"missing product", &domain.Order{CustomerID: 1, Items: []domain.OrderItem{{Quantity: 1}}}},
		{"zero quantity", &domain.Order{CustomerID: 1, Items: []domain.OrderItem{{ProductID: 1}}}},
	}
	uc := New(newFakeCatalog(), nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := uc.CreateOrder(context.Background(), tt.order); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
				t.Fatalf("expected invalid, got %v", err)
			}
		})
	}
}

func TestCreateOrderForcesPending(t *testing.T) {
	source := newFakeCatalog()
	uc := New(source, nil)

	order := &domain.Order{
		CustomerID: 1,
		Status:     domain.OrderDelivered,
		Items:      []domain.OrderItem{{ProductID: 2, Quantity: 3, UnitPrice: decimal.NewFromInt(5)}},
	}
	if _, err := uc.CreateOrder(context.Background(), order); err != nil {
		t.Fatalf("create: %v", err)
	}
	if source.created.Status != domain.OrderPending {
		t.Fatalf("status = %s", source.created.Status)
	}
}

func TestCustomerAndProductValidation(t *testing.T) {
	uc := New(newFakeCatalog(), nil)
	ctx := context.Background()

	if _, err := uc.CreateCustomer(ctx, &domain.Customer{FirstName: "Ada"}); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Fatalf("customer without last name: %v", err)
	}
	created, err := uc.CreateCustomer(ctx, &domain.Customer{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"})
	if err != nil || created.ID != 7 {
		t.Fatalf("create customer: %+v %v", created, err)
	}
	if _, err := uc.UpdateCustomer(ctx, &domain.Customer{FirstName: "Ada", LastName: "L", Email: "a@b"}); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Fatalf("update without id: %v", err)
	}

	negative := &domain.Product{SKU: "SKU-1", Name: "Widget", Price: decimal.NewFromInt(-1)}
	if _, err := uc.CreateProduct(ctx, negative); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Fatalf("negative price: %v", err)
	}
	if err := uc.DeleteProduct(ctx, 0); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Fatalf("delete zero id: %v", err)
	}
	if _, err := uc.GetProduct(ctx, 9); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Fatalf("missing product: %v", err)
	}
}
