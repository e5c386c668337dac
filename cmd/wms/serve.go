package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fekuna/omnipos-warehouse-service/internal/inventory/monitor"
	"github.com/fekuna/omnipos-warehouse-service/internal/order/listener"
	"github.com/fekuna/omnipos-warehouse-service/internal/transport/httpx"
	"github.com/fekuna/omnipos-warehouse-service/migrations"
	"github.com/fekuna/omnipos-warehouse-service/pkg/broker"
	"github.com/fekuna/omnipos-warehouse-service/pkg/database/postgres"
	"github.com/fekuna/omnipos-warehouse-service/pkg/i18n"
	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	custH "github.com/fekuna/omnipos-warehouse-service/internal/customer/handler"
	dashH "github.com/fekuna/omnipos-warehouse-service/internal/dashboard/handler"
	invH "github.com/fekuna/omnipos-warehouse-service/internal/inventory/handler"
	locH "github.com/fekuna/omnipos-warehouse-service/internal/location/handler"
	orderH "github.com/fekuna/omnipos-warehouse-service/internal/order/handler"
	prodH "github.com/fekuna/omnipos-warehouse-service/internal/product/handler"
	supH "github.com/fekuna/omnipos-warehouse-service/internal/supplier/handler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, the order listener and the low stock monitor",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, appLogger := bootstrap()
	defer appLogger.Sync()

	in, err := connect(cfg, appLogger)
	if err != nil {
		return err
	}
	defer in.close()

	if cfg.Postgres.AutoMigrate {
		if err := postgres.MigrateUp(in.db, migrations.FS); err != nil {
			return err
		}
		appLogger.Info("Migrations applied")
	}

	translator, err := i18n.New()
	if err != nil {
		return err
	}

	svc := buildServices(in, appLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Kafka.Enabled {
		consumer := broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.OrdersTopic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer consumer.Close()
		appLogger.Info("Connected to Kafka Consumer", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.OrdersTopic))

		go listener.NewOrderListener(consumer, svc.orders, appLogger).Start(ctx)
	}

	lowStock := monitor.NewLowStockMonitor(svc.inventory, cfg.Monitor.LowStockSchedule, appLogger)
	if err := lowStock.Start(ctx); err != nil {
		return err
	}

	rs := httpx.NewResponder(translator, appLogger)
	router := mux.NewRouter()
	router.Use(httpx.Recover(rs), httpx.AccessLog(appLogger))
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		rs.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	prodH.NewProductHandler(svc.products, rs, appLogger).Register(api)
	locH.NewLocationHandler(svc.locations, rs, appLogger).Register(api)
	invH.NewInventoryHandler(svc.inventory, rs, appLogger).Register(api)
	custH.NewCustomerHandler(svc.customers, rs, appLogger).Register(api)
	supH.NewSupplierHandler(svc.suppliers, rs, appLogger).Register(api)
	orderH.NewOrderHandler(svc.orders, rs, appLogger).Register(api)
	dashH.NewDashboardHandler(svc.dashboard, rs, appLogger).Register(api)

	httpServer := &http.Server{
		Addr:         listenAddr(cfg.Server.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	lis, err := net.Listen("tcp", listenAddr(cfg.Server.GRPCPort))
	if err != nil {
		return err
	}
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	errCh := make(chan error, 2)
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		appLogger.Info("Starting gRPC health server", zap.String("addr", lis.Addr().String()))
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		appLogger.Error("server failed", zap.Error(err))
		stop()
	}

	appLogger.Info("Shutting down server...")
	healthServer.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("http shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
	return nil
}

func listenAddr(port string) string {
	if !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
