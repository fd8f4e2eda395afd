package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"consulta/internal/identity"
	"consulta/internal/identity/cache"
	identityhandler "consulta/internal/identity/handler"
	"consulta/internal/identity/providers"
	"consulta/internal/identity/providers/apicpf"
	"consulta/internal/identity/providers/consultabr"
	"consulta/internal/identity/providers/portal"
	"consulta/internal/identity/resolver"
	"consulta/internal/identity/synthetic"
	"consulta/internal/platform/config"
	"consulta/internal/platform/httpserver"
	"consulta/internal/platform/logger"
	"consulta/internal/platform/metrics"
	platformredis "consulta/internal/platform/redis"
	httptransport "consulta/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal packages.
func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err.Error())
		os.Exit(1)
	}

	var store cache.Store
	var health func(context.Context) error
	if redisClient != nil {
		store = cache.NewRedisStore(redisClient.Client, cfg.CacheTTL)
		health = redisClient.Health
		defer redisClient.Close()
	} else {
		store = cache.NewMemoryStore(cfg.CacheTTL)
	}

	chain := []providers.Provider{
		apicpf.New(cfg.APICPF.BaseURL, cfg.APICPF.APIKey, nil),
		consultabr.New(cfg.ConsultaBR.BaseURL, nil),
	}
	if cfg.Portal.URL != "" {
		chain = append(chain, portal.New(cfg.Portal.URL, cfg.Portal.Cookie, nil))
	} else {
		log.Warn("portal provider disabled: PORTAL_URL not configured")
	}

	synth := synthetic.New(rand.New(rand.NewSource(time.Now().UnixNano())))
	res := resolver.New(chain, synth, cfg.ProviderTimeout, log, m)
	svc := identity.NewService(res, store, log, m)

	h := identityhandler.New(svc, log, m, cfg.RequestTimeout)
	router := httptransport.NewRouter(h, health)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting consulta", "addr", cfg.Addr, "providers", len(chain))

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err.Error())
		os.Exit(1)
	}
}
