package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/plateful/ordering-gateway/internal/cache/cartcache"
	"github.com/plateful/ordering-gateway/internal/dal/blobstore"
	"github.com/plateful/ordering-gateway/internal/dal/localstore"
	clearqueuerepo "github.com/plateful/ordering-gateway/internal/dal/repositories/clearqueue"
	"github.com/plateful/ordering-gateway/internal/dal/restapi"
	"github.com/plateful/ordering-gateway/internal/otel"
	"github.com/plateful/ordering-gateway/internal/service/services/addresssvc"
	"github.com/plateful/ordering-gateway/internal/service/services/cartsvc"
	"github.com/plateful/ordering-gateway/internal/service/services/catalogsvc"
	"github.com/plateful/ordering-gateway/internal/service/services/imagesvc"
	"github.com/plateful/ordering-gateway/internal/service/services/ordersvc"
	"github.com/plateful/ordering-gateway/internal/session"
	httptransport "github.com/plateful/ordering-gateway/internal/transport/http"
	clearworker "github.com/plateful/ordering-gateway/internal/worker/clearqueue"
)

// App represents the application.
type App struct {
	transport       *httptransport.HTTPTransport
	clearWorker     *clearworker.Worker
	blobstoreClient *blobstore.Client
	otelController  *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()

	store := localstore.MustNewStore()
	bridge := session.MustNewBridge(store)

	apiClient := restapi.MustNewClient(bridge)
	blobstoreClient := blobstore.MustNewClient(context.Background())

	cache := cartcache.NewCache(store)
	cache.Load()

	clearQueue := clearqueuerepo.NewRepository(store)

	cartSvc := cartsvc.MustNewCartService(
		cartsvc.WithCartAPI(apiClient),
		cartsvc.WithCache(cache),
	)
	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithCartAPI(apiClient),
		ordersvc.WithOrderAPI(apiClient),
		ordersvc.WithCache(cache),
		ordersvc.WithClearQueue(clearQueue),
	)
	addressSvc := addresssvc.MustNewAddressService(
		addresssvc.WithAddressAPI(apiClient),
	)
	catalogSvc := catalogsvc.MustNewCatalogService(
		catalogsvc.WithCatalogAPI(apiClient),
	)
	imageSvc := imagesvc.MustNewImageService(
		imagesvc.WithBlobStore(blobstoreClient),
		imagesvc.WithCatalogAPI(apiClient),
	)

	clearWorker := clearworker.NewWorker(clearQueue, apiClient)

	transport := httptransport.NewHTTPTransport(
		cartSvc,
		orderSvc,
		addressSvc,
		catalogSvc,
		imageSvc,
		bridge,
	)
	transport.RegisterRoutes()

	return &App{
		transport:       transport,
		clearWorker:     clearWorker,
		blobstoreClient: blobstoreClient,
		otelController:  otelController,
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

	go func() {
		slog.Info("Starting clear-queue worker")
		a.clearWorker.Start(workerCtx)
	}()

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

	cancelWorker()

	if err := a.blobstoreClient.Close(); err != nil {
		slog.Error("Blob store close error", "error", err)
	} else {
		slog.Info("Blob store closed gracefully")
	}

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Trace provider shutdown error", "error", err)
	}

	slog.Info("Application shutdown complete")
}
