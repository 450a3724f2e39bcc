package orderflow

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/orderflow-dashboard/domain"
	"github.com/fastygo/orderflow-dashboard/pkg/logger"
	"github.com/fastygo/orderflow-dashboard/repository"
)

const (
	customersPath = "/customers"
	productsPath  = "/products"
	ordersPath    = "/orders"
)

// Options configures the upstream client.
type Options struct {
	BaseURL         string
	Timeout         time.Duration
	MaxConnsPerHost int
	UserAgent       string
	// Dial overrides the network dialer; tests use it with an in-memory listener.
	Dial fasthttp.DialFunc
}

// Client talks to the OrderFlow REST API over fasthttp.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *fasthttp.Client
	logger  *zap.Logger
}

// New builds an upstream client.
func New(opts Options, log *zap.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.MaxConnsPerHost <= 0 {
		opts.MaxConnsPerHost = 64
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "orderflow-dashboard"
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		timeout: opts.Timeout,
		http: &fasthttp.Client{
			Name:            opts.UserAgent,
			MaxConnsPerHost: opts.MaxConnsPerHost,
			ReadTimeout:     opts.Timeout,
			WriteTimeout:    opts.Timeout,
			Dial:            opts.Dial,
		},
		logger: log,
	}
}

// Ping reports whether the API answers at all; any status below 500 counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	status, _, err := c.do(ctx, fasthttp.MethodHead, customersPath, nil, nil)
	if err != nil {
		return err
	}
	if status >= http.StatusInternalServerError {
		return domain.WrapError(domain.ErrCodeUpstream, fmt.Sprintf("upstream returned %d", status), nil)
	}
	return nil
}

func (c *Client) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return fetchList[domain.Customer](ctx, c, customersPath)
}

func (c *Client) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	return fetchOne[domain.Customer](ctx, c, entityPath(customersPath, id), domain.ErrCustomerNotFound)
}

func (c *Client) CreateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	return send[domain.Customer](ctx, c, fasthttp.MethodPost, customersPath, customer, domain.ErrCustomerNotFound)
}

func (c *Client) UpdateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	return send[domain.Customer](ctx, c, fasthttp.MethodPut, entityPath(customersPath, customer.ID), customer, domain.ErrCustomerNotFound)
}

func (c *Client) DeleteCustomer(ctx context.Context, id int64) error {
	return c.expectOK(ctx, fasthttp.MethodDelete, entityPath(customersPath, id), nil, domain.ErrCustomerNotFound)
}

func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return fetchList[domain.Product](ctx, c, productsPath)
}

func (c *Client) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return fetchOne[domain.Product](ctx, c, entityPath(productsPath, id), domain.ErrProductNotFound)
}

func (c *Client) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	return send[domain.Product](ctx, c, fasthttp.MethodPost, productsPath, product, domain.ErrProductNotFound)
}

func (c *Client) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	return send[domain.Product](ctx, c, fasthttp.MethodPut, entityPath(productsPath, product.ID), product, domain.ErrProductNotFound)
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.expectOK(ctx, fasthttp.MethodDelete, entityPath(productsPath, id), nil, domain.ErrProductNotFound)
}

func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return fetchList[domain.Order](ctx, c, ordersPath)
}

func (c *Client) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return fetchOne[domain.Order](ctx, c, entityPath(ordersPath, id), domain.ErrOrderNotFound)
}

func (c *Client) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, domain.ErrInvalidPayload
	}
	return send[domain.Order](ctx, c, fasthttp.MethodPost, ordersPath, newOrderRequest(order), domain.ErrOrderNotFound)
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	return patchStatus[domain.Order](ctx, c, entityPath(ordersPath, id)+"/status", string(status), domain.ErrOrderNotFound)
}

func (c *Client) CancelOrder(ctx context.Context, id int64, reason string) error {
	if strings.TrimSpace(reason) == "" {
		reason = domain.DefaultCancelReason
	}
	path := entityPath(ordersPath, id) + "/cancel"
	status, body, err := c.do(ctx, fasthttp.MethodPost, path, map[string]string{"reason": reason}, nil)
	if err != nil {
		return err
	}
	return statusError(status, body, domain.ErrOrderNotFound)
}

func (c *Client) expectOK(ctx context.Context, method, path string, payload interface{}, notFound error) error {
	status, body, err := c.do(ctx, method, path, nil, payload)
	if err != nil {
		return err
	}
	return statusError(status, body, notFound)
}

func fetchList[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	status, body, err := c.do(ctx, fasthttp.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	if err := statusError(status, body, nil); err != nil {
		return nil, err
	}
	items, err := decodeList[T](body)
	if err != nil {
		logger.WithRequestID(ctx, c.logger).Warn("upstream payload rejected",
			zap.String("path", path), zap.Int("bytes", len(body)), zap.Error(err))
		return nil, err
	}
	for i := range items {
		c.reportDates(ctx, path, i, &items[i])
	}
	return items, nil
}

func fetchOne[T any](ctx context.Context, c *Client, path string, notFound error) (*T, error) {
	status, body, err := c.do(ctx, fasthttp.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	if err := statusError(status, body, notFound); err != nil {
		return nil, err
	}
	return decodeEntity[T](ctx, c, path, body)
}

func send[T any](ctx context.Context, c *Client, method, path string, payload interface{}, notFound error) (*T, error) {
	if payload == nil {
		return nil, domain.ErrInvalidPayload
	}
	status, body, err := c.do(ctx, method, path, nil, payload)
	if err != nil {
		return nil, err
	}
	if err := statusError(status, body, notFound); err != nil {
		return nil, err
	}
	return decodeEntity[T](ctx, c, path, body)
}

func decodeEntity[T any](ctx context.Context, c *Client, path string, body []byte) (*T, error) {
	item, err := decodeOne[T](body)
	if err != nil {
		return nil, err
	}
	c.reportDates(ctx, path, 0, item)
	return item, nil
}

type dateAuditor interface {
	UnreadableDates() map[string]string
}

// reportDates logs date fields that decoded as absent because their value was
// unreadable. The entity itself is kept.
func (c *Client) reportDates(ctx context.Context, path string, index int, item interface{}) {
	auditor, ok := item.(dateAuditor)
	if !ok {
		return
	}
	for field, raw := range auditor.UnreadableDates() {
		logger.WithRequestID(ctx, c.logger).Warn("unreadable upstream date",
			zap.String("path", path),
			zap.Int("index", index),
			zap.String("field", field),
			zap.String("value", raw))
	}
}

// do executes a single request. The deadline is the earlier of the context
// deadline and the client timeout.
func (c *Client) do(ctx context.Context, method, path string, query map[string]string, payload interface{}) (int, []byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return 0, nil, domain.WrapError(domain.ErrCodeUpstream, "request abandoned", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(method)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")
	if reqID := logger.RequestID(ctx); reqID != "" {
		req.Header.Set("X-Request-ID", reqID)
	}
	for key, value := range query {
		req.URI().QueryArgs().Add(key, value)
	}
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, domain.WrapError(domain.ErrCodeInvalid, "encode request body", err)
		}
		req.Header.SetContentType("application/json")
		req.SetBodyRaw(body)
	}
	if method == fasthttp.MethodHead {
		resp.SkipBody = true
	}

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	started := time.Now()
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		logger.WithRequestID(ctx, c.logger).Warn("upstream request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("elapsed", time.Since(started)),
			zap.Error(err))
		return 0, nil, domain.WrapError(domain.ErrCodeUpstream, fmt.Sprintf("%s %s", method, path), err)
	}

	body := append([]byte(nil), resp.Body()...)
	logger.WithRequestID(ctx, c.logger).Debug("upstream request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("elapsed", time.Since(started)))
	return resp.StatusCode(), body, nil
}

// statusError maps a non-2xx upstream status onto the domain error taxonomy.
func statusError(status int, body []byte, notFound error) error {
	if status >= 200 && status < 300 {
		return nil
	}

	message := upstreamMessage(body)
	switch status {
	case http.StatusNotFound:
		if notFound != nil {
			return notFound
		}
		return domain.NewError(domain.ErrCodeNotFound, orDefault(message, "resource not found"))
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domain.NewError(domain.ErrCodeInvalid, orDefault(message, "rejected by upstream"))
	case http.StatusConflict:
		return domain.NewError(domain.ErrCodeConflict, orDefault(message, "conflict"))
	case http.StatusUnauthorized:
		return domain.NewError(domain.ErrCodeUnauthorized, orDefault(message, "unauthorized"))
	case http.StatusForbidden:
		return domain.NewError(domain.ErrCodeForbidden, orDefault(message, "forbidden"))
	default:
		return domain.NewError(domain.ErrCodeUpstream,
			fmt.Sprintf("upstream returned %d: %s", status, orDefault(message, http.StatusText(status))))
	}
}

func upstreamMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func entityPath(base string, id int64) string {
	return base + "/" + strconv.FormatInt(id, 10)
}

var _ repository.CatalogSource = (*Client)(nil)
