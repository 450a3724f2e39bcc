package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/orderflow-dashboard/api/handler"
	"github.com/fastygo/orderflow-dashboard/internal/middleware"
)

type Handlers struct {
	Health    *apiHandler.HealthHandler
	Dashboard *apiHandler.DashboardHandler
	Customer  *apiHandler.CustomerHandler
	Product   *apiHandler.ProductHandler
	Order     *apiHandler.OrderHandler
	Invoice   *apiHandler.InvoiceHandler
	Payment   *apiHandler.PaymentHandler
}

// New builds the route table and wraps it with access logging.
func New(handlers Handlers, logger *zap.Logger) fasthttp.RequestHandler {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	api := r.Group("/api/v1")

	api.GET("/dashboard/stats", handlers.Dashboard.GetStats)
	api.POST("/dashboard/refresh", handlers.Dashboard.Refresh)
	api.GET("/dashboard/history", handlers.Dashboard.GetHistory)

	api.GET("/customers", handlers.Customer.List)
	api.POST("/customers", handlers.Customer.Create)
	api.GET("/customers/{id}", handlers.Customer.Get)
	api.PUT("/customers/{id}", handlers.Customer.Update)
	api.DELETE("/customers/{id}", handlers.Customer.Delete)

	api.GET("/products", handlers.Product.List)
	api.POST("/products", handlers.Product.Create)
	api.GET("/products/{id}", handlers.Product.Get)
	api.PUT("/products/{id}", handlers.Product.Update)
	api.DELETE("/products/{id}", handlers.Product.Delete)

	api.GET("/orders", handlers.Order.List)
	api.POST("/orders", handlers.Order.Create)
	api.GET("/orders/{id}", handlers.Order.Get)
	api.POST("/orders/{id}/cancel", handlers.Order.Cancel)
	api.PATCH("/orders/{id}/status", handlers.Order.UpdateStatus)

	api.POST("/invoices/generate/order/{id}", handlers.Invoice.Generate)
	api.GET("/invoices/overdue", handlers.Invoice.ListOverdue)
	api.GET("/invoices/number/{number}", handlers.Invoice.GetByNumber)
	api.GET("/invoices/order/{id}", handlers.Invoice.GetByOrder)
	api.GET("/invoices/customer/{id}", handlers.Invoice.ListByCustomer)
	api.GET("/invoices/{id}", handlers.Invoice.Get)
	api.PATCH("/invoices/{id}/status", handlers.Invoice.UpdateStatus)
	api.POST("/invoices/{id}/mark-paid", handlers.Invoice.MarkPaid)

	api.POST("/payments/process/invoice/{id}", handlers.Payment.Process)
	api.GET("/payments/reference/{reference}", handlers.Payment.GetByReference)
	api.GET("/payments/invoice/{id}", handlers.Payment.ListByInvoice)
	api.GET("/payments/status/{status}", handlers.Payment.ListByStatus)
	api.GET("/payments/{id}", handlers.Payment.Get)
	api.PATCH("/payments/{id}/status", handlers.Payment.UpdateStatus)

	return middleware.AccessLog(logger)(r.Handler)
}
