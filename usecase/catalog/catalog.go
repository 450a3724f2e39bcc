package catalog

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/orderflow-dashboard/domain"
	"github.com/fastygo/orderflow-dashboard/pkg/logger"
	"github.com/fastygo/orderflow-dashboard/repository"
)

// UseCase proxies list and mutation screens to the OrderFlow API.
type UseCase struct {
	source repository.CatalogSource
	logger *zap.Logger
}

func New(source repository.CatalogSource, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		source: source,
		logger: logger,
	}
}

func (uc *UseCase) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return uc.source.ListCustomers(ctx)
}

func (uc *UseCase) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidPayload
	}
	return uc.source.GetCustomer(ctx, id)
}

func (uc *UseCase) CreateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if err := validateCustomer(customer); err != nil {
		return nil, err
	}
	customer.ID = 0
	return uc.source.CreateCustomer(ctx, customer)
}

func (uc *UseCase) UpdateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if customer == nil || customer.ID <= 0 {
		return nil, domain.ErrInvalidPayload
	}
	if err := validateCustomer(customer); err != nil {
		return nil, err
	}
	return uc.source.UpdateCustomer(ctx, customer)
}

func (uc *UseCase) DeleteCustomer(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ErrInvalidPayload
	}
	return uc.source.DeleteCustomer(ctx, id)
}

func (uc *UseCase) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return uc.source.ListProducts(ctx)
}

func (uc *UseCase) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidPayload
	}
	return uc.source.GetProduct(ctx, id)
}

func (uc *UseCase) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	product.ID = 0
	return uc.source.CreateProduct(ctx, product)
}

func (uc *UseCase) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil || product.ID <= 0 {
		return nil, domain.ErrInvalidPayload
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	return uc.source.UpdateProduct(ctx, product)
}

func (uc *UseCase) DeleteProduct(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ErrInvalidPayload
	}
	return uc.source.DeleteProduct(ctx, id)
}

func (uc *UseCase) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return uc.source.ListOrders(ctx)
}

func (uc *UseCase) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidPayload
	}
	return uc.source.GetOrder(ctx, id)
}

func (uc *UseCase) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil || order.CustomerID <= 0 {
		return nil, domain.NewError(domain.ErrCodeInvalid, "customer is required")
	}
	if len(order.Items) == 0 {
		return nil, domain.NewError(domain.ErrCodeInvalid, "order needs at least one item")
	}
	for _, item := range order.Items {
		if item.ProductID <= 0 {
			return nil, domain.NewError(domain.ErrCodeInvalid, "every item needs a product")
		}
		if item.Quantity <= 0 {
			return nil, domain.NewError(domain.ErrCodeInvalid, "item quantity must be positive")
		}
	}
	order.Status = domain.OrderPending
	return uc.source.CreateOrder(ctx, order)
}

// CancelOrder cancels through the upstream cancel endpoint so stock
// reservations are released there. Orders that can no longer be cancelled
// are rejected locally.
func (uc *UseCase) CancelOrder(ctx context.Context, id int64, reason string) error {
	order, err := uc.GetOrder(ctx, id)
	if err != nil {
		return err
	}
	if !order.Status.CanTransitionTo(domain.OrderCancelled) {
		return transitionError(order, domain.OrderCancelled)
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = domain.DefaultCancelReason
	}
	if err := uc.source.CancelOrder(ctx, id, reason); err != nil {
		return err
	}
	logger.WithRequestID(ctx, uc.logger).Info("order cancelled",
		zap.Int64("order_id", id), zap.String("reason", reason))
	return nil
}

// UpdateOrderStatus validates the transition before calling upstream.
func (uc *UseCase) UpdateOrderStatus(ctx context.Context, id int64, next domain.OrderStatus) (*domain.Order, error) {
	if !next.Valid() {
		return nil, domain.NewError(domain.ErrCodeInvalid, "unknown order status")
	}
	order, err := uc.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, transitionError(order, next)
	}
	return uc.source.UpdateOrderStatus(ctx, id, next)
}

func transitionError(order *domain.Order, next domain.OrderStatus) error {
	if order.Status.Terminal() {
		return domain.WrapError(domain.ErrCodeConflict,
			fmt.Sprintf("order %s is %s and accepts no further changes", order.OrderNumber, order.Status),
			domain.ErrInvalidTransition)
	}
	return domain.WrapError(domain.ErrCodeConflict,
		fmt.Sprintf("order %s cannot move from %s to %s", order.OrderNumber, order.Status, next),
		domain.ErrInvalidTransition)
}

func validateCustomer(customer *domain.Customer) error {
	if customer == nil {
		return domain.ErrInvalidPayload
	}
	if strings.TrimSpace(customer.FirstName) == "" || strings.TrimSpace(customer.LastName) == "" {
		return domain.NewError(domain.ErrCodeInvalid, "first and last name are required")
	}
	if !strings.Contains(customer.Email, "@") {
		return domain.NewError(domain.ErrCodeInvalid, "a valid email is required")
	}
	return nil
}

func validateProduct(product *domain.Product) error {
	if product == nil {
		return domain.ErrInvalidPayload
	}
	if strings.TrimSpace(product.SKU) == "" || strings.TrimSpace(product.Name) == "" {
		return domain.NewError(domain.ErrCodeInvalid, "sku and name are required")
	}
	if product.Price.IsNegative() {
		return domain.NewError(domain.ErrCodeInvalid, "price must not be negative")
	}
	if product.QuantityInStock < 0 || product.ReservedQuantity < 0 {
		return domain.NewError(domain.ErrCodeInvalid, "stock quantities must not be negative")
	}
	return nil
}
