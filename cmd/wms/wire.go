package main

import (
	"github.com/fekuna/omnipos-warehouse-service/config"
	"github.com/fekuna/omnipos-warehouse-service/internal/event"
	"github.com/fekuna/omnipos-warehouse-service/internal/inventory"
	"github.com/fekuna/omnipos-warehouse-service/pkg/broker"
	"github.com/fekuna/omnipos-warehouse-service/pkg/cache"
	"github.com/fekuna/omnipos-warehouse-service/pkg/database/postgres"
	"github.com/fekuna/omnipos-warehouse-service/pkg/logger"
	"github.com/fekuna/omnipos-warehouse-service/pkg/search"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-warehouse-service/internal/customer"
	custRepoPkg "github.com/fekuna/omnipos-warehouse-service/internal/customer/repository"
	custUCPkg "github.com/fekuna/omnipos-warehouse-service/internal/customer/usecase"

	"github.com/fekuna/omnipos-warehouse-service/internal/dashboard"
	dashRepoPkg "github.com/fekuna/omnipos-warehouse-service/internal/dashboard/repository"
	dashUCPkg "github.com/fekuna/omnipos-warehouse-service/internal/dashboard/usecase"

	invRepoPkg "github.com/fekuna/omnipos-warehouse-service/internal/inventory/repository"
	invUCPkg "github.com/fekuna/omnipos-warehouse-service/internal/inventory/usecase"

	"github.com/fekuna/omnipos-warehouse-service/internal/location"
	locRepoPkg "github.com/fekuna/omnipos-warehouse-service/internal/location/repository"
	locUCPkg "github.com/fekuna/omnipos-warehouse-service/internal/location/usecase"

	"github.com/fekuna/omnipos-warehouse-service/internal/order"
	orderRepoPkg "github.com/fekuna/omnipos-warehouse-service/internal/order/repository"
	orderUCPkg "github.com/fekuna/omnipos-warehouse-service/internal/order/usecase"

	"github.com/fekuna/omnipos-warehouse-service/internal/product"
	prodRepoPkg "github.com/fekuna/omnipos-warehouse-service/internal/product/repository"
	prodUCPkg "github.com/fekuna/omnipos-warehouse-service/internal/product/usecase"

	"github.com/fekuna/omnipos-warehouse-service/internal/supplier"
	supRepoPkg "github.com/fekuna/omnipos-warehouse-service/internal/supplier/repository"
	supUCPkg "github.com/fekuna/omnipos-warehouse-service/internal/supplier/usecase"
)

// services holds every use case the process exposes.
type services struct {
	products  product.UseCase
	locations location.UseCase
	inventory inventory.UseCase
	customers customer.UseCase
	suppliers supplier.UseCase
	orders    order.UseCase
	dashboard dashboard.UseCase
}

// infra holds the external connections. close releases them in reverse order.
type infra struct {
	db        *sqlx.DB
	redis     *cache.RedisClient
	search    *search.Client
	producer  *broker.KafkaProducer
	publisher event.Publisher
	closers   []func() error
}

func (in *infra) close() {
	for i := len(in.closers) - 1; i >= 0; i-- {
		_ = in.closers[i]()
	}
}

func connect(cfg *config.Config, log logger.ZapLogger) (*infra, error) {
	in := &infra{}

	db, err := openDB(cfg, log)
	if err != nil {
		return nil, err
	}
	in.db = db
	in.closers = append(in.closers, db.Close)

	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		in.close()
		return nil, err
	}
	in.redis = redisClient
	in.closers = append(in.closers, redisClient.Close)
	log.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	in.publisher = event.NopPublisher()
	if cfg.Kafka.Enabled {
		in.producer = broker.NewProducer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.EventsTopic,
		})
		in.closers = append(in.closers, in.producer.Close)
		in.publisher = event.NewPublisher(in.producer)
		log.Info("Kafka producer ready", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.EventsTopic))
	}

	if cfg.Elastic.Enabled {
		esClient, err := search.NewClient(&search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			log.Warn("Could not connect to Elasticsearch (catalog search falls back to SQL)", zap.Error(err))
		} else {
			in.search = esClient
			log.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	return in, nil
}

func buildServices(in *infra, log logger.ZapLogger) *services {
	txManager := postgres.NewTxManager(in.db)

	prodRepo := prodRepoPkg.NewPGRepository(in.db)
	locRepo := locRepoPkg.NewPGRepository(in.db)
	invRepo := invRepoPkg.NewPGRepository(in.db)
	custRepo := custRepoPkg.NewPGRepository(in.db)
	supRepo := supRepoPkg.NewPGRepository(in.db)
	orderRepo := orderRepoPkg.NewPGRepository(in.db)
	dashRepo := dashRepoPkg.NewPGRepository(in.db)

	// A typed nil *search.Client would defeat the nil check inside the catalog.
	var searcher prodUCPkg.Searcher
	if in.search != nil {
		searcher = in.search
	}

	locUC := locUCPkg.NewLocationUseCase(locRepo, txManager, log)
	invUC := invUCPkg.NewInventoryUseCase(invRepo, prodRepo, locUC, txManager, in.redis, in.publisher, log)

	return &services{
		products:  prodUCPkg.NewProductUseCase(prodRepo, in.redis, searcher, log),
		locations: locUC,
		inventory: invUC,
		customers: custUCPkg.NewCustomerUseCase(custRepo, log),
		suppliers: supUCPkg.NewSupplierUseCase(supRepo, log),
		orders: orderUCPkg.NewOrderUseCase(
			orderRepo, prodRepo, locRepo, supRepo, custRepo,
			invUC, locUC, txManager, in.publisher, log,
		),
		dashboard: dashUCPkg.NewDashboardUseCase(dashRepo, locUC, in.redis, log),
	}
}
