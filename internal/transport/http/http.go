package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"
	"github.com/warungnusantara/storefront/internal/service/models/adminuser"
	"github.com/warungnusantara/storefront/internal/service/models/order"
	"github.com/warungnusantara/storefront/internal/service/models/payment"
	"github.com/warungnusantara/storefront/internal/service/models/product"
	adminauth "github.com/warungnusantara/storefront/internal/transport/http/admin_auth"
	createorder "github.com/warungnusantara/storefront/internal/transport/http/create_order"
	createpayment "github.com/warungnusantara/storefront/internal/transport/http/create_payment"
	getorder "github.com/warungnusantara/storefront/internal/transport/http/get_order"
	listorders "github.com/warungnusantara/storefront/internal/transport/http/list_orders"
	paymentresult "github.com/warungnusantara/storefront/internal/transport/http/payment_result"
	paymentwebhook "github.com/warungnusantara/storefront/internal/transport/http/payment_webhook"
	"github.com/warungnusantara/storefront/internal/transport/http/products"
	updatestatus "github.com/warungnusantara/storefront/internal/transport/http/update_order_status"
	"github.com/warungnusantara/storefront/pkg/http/middleware/trace"
	"github.com/warungnusantara/storefront/pkg/logger"
	"github.com/warungnusantara/storefront/pkg/metrics"
)

// orderService is the lifecycle engine surface the transport needs.
type orderService interface {
	CreateOrder(ctx context.Context, o order.Order) (order.Order, error)
	GetOrder(ctx context.Context, orderID string) (*order.Order, error)
	ListOrders(ctx context.Context, filter order.QueryOrdersModel) ([]order.Order, error)
	ApplyManualTransition(ctx context.Context, orderID string, requested order.Status) (*order.Order, error)
	ReconcilePaymentEvent(ctx context.Context, event payment.Event) error
	ConfirmClientPayment(ctx context.Context, orderID, transactionID string) error
}

type paymentService interface {
	CreateSession(ctx context.Context, orderID string) (*payment.Session, error)
}

type productService interface {
	ListProducts(ctx context.Context) ([]product.Product, error)
	CreateProduct(ctx context.Context, p product.Product) (product.Product, error)
	UpdateProduct(ctx context.Context, p product.Product) (product.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ExtractProduct(ctx context.Context, mimeType string, image []byte) (*product.Extraction, error)
}

type adminService interface {
	Register(ctx context.Context, email, name, password string) (*adminuser.AdminUser, error)
	Login(ctx context.Context, email, password string) (*adminuser.AdminUser, error)
}

// HTTPTransport serves the storefront API.
type HTTPTransport struct {
	server     *http.Server
	router     *chi.Mux
	orderSvc   orderService
	paymentSvc paymentService
	productSvc productService
	adminSvc   adminService
}

// NewHTTPTransport creates the transport over the given services.
func NewHTTPTransport(
	orderSvc orderService,
	paymentSvc paymentService,
	productSvc productService,
	adminSvc adminService,
) *HTTPTransport {
	router := newRouter()
	server := newServer(router)

	return &HTTPTransport{
		server:     server,
		router:     router,
		orderSvc:   orderSvc,
		paymentSvc: paymentSvc,
		productSvc: productSvc,
		adminSvc:   adminSvc,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Route("/api", func(r chi.Router) {
		r.Post("/orders", h.createOrder)
		r.Get("/orders/{orderID}", h.getOrder)

		r.Get("/products", h.listProducts)

		r.Route("/payment", func(r chi.Router) {
			r.Post("/create", h.createPayment)
			r.Post("/callback", h.paymentWebhook)
			r.Post("/result", h.paymentResult)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/auth", h.adminAuth)
			r.Get("/orders", h.listOrders)
			r.Put("/orders/{orderID}", h.updateOrderStatus)

			r.Route("/products", func(r chi.Router) {
				r.Get("/", h.listProducts)
				r.Post("/", h.createProduct)
				r.Put("/{productID}", h.updateProduct)
				r.Delete("/{productID}", h.deleteProduct)
			})

			r.Post("/ai-extract", h.aiExtract)
		})
	})

	h.router.Handle("/metrics", metrics.Handler())
}

func (h *HTTPTransport) createOrder(w http.ResponseWriter, r *http.Request) {
	createorder.CreateOrder(w, r, h.orderSvc)
}

func (h *HTTPTransport) getOrder(w http.ResponseWriter, r *http.Request) {
	getorder.GetOrder(w, r, h.orderSvc)
}

func (h *HTTPTransport) listOrders(w http.ResponseWriter, r *http.Request) {
	listorders.ListOrders(w, r, h.orderSvc)
}

func (h *HTTPTransport) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	updatestatus.UpdateOrderStatus(w, r, h.orderSvc)
}

func (h *HTTPTransport) createPayment(w http.ResponseWriter, r *http.Request) {
	createpayment.CreatePayment(w, r, h.paymentSvc)
}

func (h *HTTPTransport) paymentWebhook(w http.ResponseWriter, r *http.Request) {
	paymentwebhook.Webhook(w, r, h.orderSvc)
}

func (h *HTTPTransport) paymentResult(w http.ResponseWriter, r *http.Request) {
	paymentresult.PaymentResult(w, r, h.orderSvc)
}

func (h *HTTPTransport) adminAuth(w http.ResponseWriter, r *http.Request) {
	adminauth.Auth(w, r, h.adminSvc)
}

func (h *HTTPTransport) listProducts(w http.ResponseWriter, r *http.Request) {
	products.ListProducts(w, r, h.productSvc)
}

func (h *HTTPTransport) createProduct(w http.ResponseWriter, r *http.Request) {
	products.CreateProduct(w, r, h.productSvc)
}

func (h *HTTPTransport) updateProduct(w http.ResponseWriter, r *http.Request) {
	products.UpdateProduct(w, r, h.productSvc)
}

func (h *HTTPTransport) deleteProduct(w http.ResponseWriter, r *http.Request) {
	products.DeleteProduct(w, r, h.productSvc)
}

func (h *HTTPTransport) aiExtract(w http.ResponseWriter, r *http.Request) {
	products.ExtractProduct(w, r, h.productSvc)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(trace.NewTraceMiddleware)

	serverMetrics := metrics.NewServerMetrics("api")
	router.Use(serverMetrics.Middleware)

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
