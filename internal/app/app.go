package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warungnusantara/storefront/internal/dal/cloudinary"
	"github.com/warungnusantara/storefront/internal/dal/gemini"
	"github.com/warungnusantara/storefront/internal/dal/midtrans"
	"github.com/warungnusantara/storefront/internal/dal/postgres"
	"github.com/warungnusantara/storefront/internal/dal/rabbitmq"
	adminuserrepo "github.com/warungnusantara/storefront/internal/dal/repositories/adminuser/postgres"
	outboxrepo "github.com/warungnusantara/storefront/internal/dal/repositories/outbox/postgres"
	productrepo "github.com/warungnusantara/storefront/internal/dal/repositories/product/postgres"
	"github.com/warungnusantara/storefront/internal/otel"
	"github.com/warungnusantara/storefront/internal/service/services/adminsvc"
	"github.com/warungnusantara/storefront/internal/service/services/ordersvc"
	"github.com/warungnusantara/storefront/internal/service/services/paymentsvc"
	"github.com/warungnusantara/storefront/internal/service/services/productsvc"
	httptransport "github.com/warungnusantara/storefront/internal/transport/http"
	outboxworker "github.com/warungnusantara/storefront/internal/worker/outbox"
)

// App represents the application.
type App struct {
	orderSvc       *ordersvc.OrderService
	transport      *httptransport.HTTPTransport
	outboxWorker   *outboxworker.Worker
	postgresClient *postgres.Client
	rabbitMqClient *rabbitmq.Client
	geminiClient   *gemini.Client
	otelController *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()
	postgresClient := postgres.MustNewClient()
	rabbitMqClient := rabbitmq.MustNewClient()
	midtransClient := midtrans.MustNewClient()
	cloudinaryClient := cloudinary.MustNewClient()
	geminiClient := gemini.MustNewClient()

	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithPostgresClient(postgresClient),
		ordersvc.WithGateway(midtransClient),
	)

	paymentSvc := paymentsvc.MustNewPaymentService(
		paymentsvc.WithOrders(orderSvc),
		paymentsvc.WithGateway(midtransClient),
	)

	productSvc := productsvc.MustNewProductService(
		productsvc.WithProductRepository(productrepo.NewPostgresProductRepository(postgresClient.Pool())),
		productsvc.WithImageStore(cloudinaryClient),
		productsvc.WithDescriber(geminiClient),
	)

	adminSvc := adminsvc.MustNewAdminService(
		adminsvc.WithAdminUserRepository(adminuserrepo.NewPostgresAdminUserRepository(postgresClient.Pool())),
	)

	outboxWorker := outboxworker.NewWorker(
		outboxrepo.NewOutboxRepository(postgresClient.Pool()),
		rabbitMqClient,
	)

	transport := httptransport.NewHTTPTransport(orderSvc, paymentSvc, productSvc, adminSvc)
	transport.RegisterRoutes()

	return &App{
		orderSvc:       orderSvc,
		transport:      transport,
		outboxWorker:   outboxWorker,
		postgresClient: postgresClient,
		rabbitMqClient: rabbitMqClient,
		geminiClient:   geminiClient,
		otelController: otelController,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	// Create a channel to receive OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	workerCtx, cancelWorker := context.WithCancel(context.Background())
	defer cancelWorker()

	go a.outboxWorker.Start(workerCtx)

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	<-stop
	slog.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	a.outboxWorker.Stop()
	cancelWorker()

	if err := a.rabbitMqClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	} else {
		slog.Info("RabbitMQ connection closed gracefully")
	}

	if err := a.geminiClient.Close(); err != nil {
		slog.Error("Gemini client close error", "error", err)
	}

	a.postgresClient.Close()
	slog.Info("Database connection closed gracefully")

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Trace provider shutdown error", "error", err)
	}

	slog.Info("Application shutdown complete")
}
