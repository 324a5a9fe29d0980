package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/mserebryaakov/boodai-storefront-service/config"
	"github.com/mserebryaakov/boodai-storefront-service/internal/backend"
	"github.com/mserebryaakov/boodai-storefront-service/internal/branch"
	"github.com/mserebryaakov/boodai-storefront-service/internal/cart"
	"github.com/mserebryaakov/boodai-storefront-service/internal/kv"
	"github.com/mserebryaakov/boodai-storefront-service/internal/loyalty"
	"github.com/mserebryaakov/boodai-storefront-service/internal/storefront"
	"github.com/mserebryaakov/boodai-storefront-service/pkg/httpserver"
	"github.com/mserebryaakov/boodai-storefront-service/pkg/logger"
	"github.com/mserebryaakov/boodai-storefront-service/pkg/mongodb"
	"github.com/mserebryaakov/boodai-storefront-service/pkg/postgres"
	"github.com/mserebryaakov/boodai-storefront-service/pkg/retry"
	"github.com/shopspring/decimal"
)

func main() {
	decimal.MarshalJSONWithoutQuotes = true

	log := logger.NewLogger("debug", &logger.MainLogHook{})

	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("failed to load .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configs: %v", err)
	}

	env, err := config.GetEnvironment(cfg)
	if err != nil {
		log.Fatalf(err.Error())
	}

	if env.LogFile != "" {
		logger.SetFile(env.LogFile)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storefrontLog := logger.NewLogger(env.LogLvl, &storefront.StorefrontLogHook{})
	kvLog := logger.NewLogger(env.LogLvl, &kv.KVLogHook{})

	var store kv.Store
	switch cfg.Store.Driver {
	case config.StorePostgres:
		scp := postgres.NewSchemaConnectionPool(postgres.Config{
			Host:     env.PgHost,
			Port:     env.PgPort,
			Username: env.PgUser,
			Password: env.PgPassword,
			DBName:   env.PgDbName,
			SSLMode:  env.SSLMode,
			TimeZone: env.TimeZone,
		}, log)

		pgStore, err := kv.NewPostgresStore(scp, cfg.Store.Schema, kvLog)
		if err != nil {
			log.Fatalf("failed connection to db: %v", err)
		}
		store = pgStore
	default:
		log.Warn("using in-memory state store, sessions are lost on restart")
		store = kv.NewMemoryStore()
	}

	var wallet *loyalty.MongoStore
	if cfg.Loyalty.Enabled {
		db, err := mongodb.Connect(ctx, mongodb.Config{URI: env.MongoURI, Database: env.MongoDB})
		if err != nil {
			log.Fatalf("failed connection to mongo: %v", err)
		}
		defer func() {
			if err := db.Client().Disconnect(context.Background()); err != nil {
				log.Errorf("failed to disconnect mongo: %v", err)
			}
		}()
		wallet = loyalty.NewMongoStore(db, logger.NewLogger(env.LogLvl, &loyalty.LoyaltyLogHook{}))
	}

	client := backend.NewClient(logger.NewLogger(env.LogLvl, &backend.BackendLogHook{}), cfg.Backend.BaseURL, retry.Policy{
		Attempts:  cfg.Retry.Attempts,
		BaseDelay: cfg.Retry.BaseDelay,
		Timeout:   cfg.Backend.Timeout,
	})

	deps := storefront.Deps{
		Backend:   client,
		CacheTTL:  cfg.Cache.TTL,
		Log:       storefrontLog,
		CartLog:   logger.NewLogger(env.LogLvl, &cart.CartLogHook{}),
		BranchLog: logger.NewLogger(env.LogLvl, &branch.BranchLogHook{}),
	}
	if wallet != nil {
		deps.Wallet = wallet
	}

	var resolver storefront.UserResolver
	if cfg.Auth.Enabled {
		authAdapter := storefront.NewAuthAdapter(logger.NewLogger(env.LogLvl, &storefront.AuthAdapterLogHook{}), env.AuthHost, env.AuthPort)

		err = authAdapter.Login(ctx, env.SupervisorEmail, env.SupervisorHashPassword)
		if err != nil {
			log.Fatalf("failed login in auth service: %v", err)
		}
		resolver = authAdapter
	}

	registry := storefront.NewRegistry(store, deps)
	go registry.RunSweeper(ctx, cfg.Session.SweepInterval, cfg.Session.MaxIdle)

	router := gin.New()
	router.Use(gin.Recovery())

	storefrontHandler := storefront.NewHandler(registry, storefrontLog, resolver)
	storefrontHandler.Register(router)

	server := new(httpserver.Server)

	go func() {
		if err := server.Run(cfg.Server.Port, router); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed running server %v", err)
		}
	}()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	oscall := <-interrupt
	log.Infof("Shutdown server, %s", oscall)

	cancel()
	if err := server.Shutdown(context.Background()); err != nil {
		log.Errorf("Error occured on server shutting down: %v", err)
	}
}
