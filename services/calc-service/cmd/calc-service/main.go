package main

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/lfmartins/cltcalc/libs/config"
	"github.com/lfmartins/cltcalc/libs/db"
	"github.com/lfmartins/cltcalc/libs/httpx"
	otelx "github.com/lfmartins/cltcalc/libs/otel"
	"github.com/lfmartins/cltcalc/libs/runtime"
	"github.com/lfmartins/cltcalc/services/calc-service/internal/entitlement"
	"github.com/lfmartins/cltcalc/services/calc-service/internal/handlers"
	"github.com/lfmartins/cltcalc/services/calc-service/internal/storage"
)

func main() {
	service := config.String("SERVICE_NAME", "calc-service")
	port, err := config.Port("PORT", "8081")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	dbURL, err := config.RequiredString("DATABASE_URL")
	if err != nil {
		panic(err)
	}
	pool, err := db.Open(ctx, dbURL)
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	jwtSecret, err := config.RequiredString("JWT_SECRET")
	if err != nil {
		panic(err)
	}

	accounts := storage.NewAccountRepository(pool)
	profiles := storage.NewProfileRepository(pool)
	gate := entitlement.NewGate(profiles, logger)
	signer := handlers.NewHS256Signer(jwtSecret)

	tokenTTLHours, _ := strconv.Atoi(config.String("TOKEN_TTL_HOURS", "24"))
	authHandler := handlers.NewAuthHandler(signer, accounts, profiles, logger, time.Duration(tokenTTLHours)*time.Hour)
	calcHandler := handlers.NewCalcHandler(gate, logger)
	usageHandler := handlers.NewUsageHandler(profiles, logger)
	assistantHandler := handlers.NewAssistantHandler(gate, logger, config.String("ASSISTANT_URL", ""))

	readyChecks := []runtime.ReadyCheck{{Name: "db", Check: db.ReadyCheck(pool)}}

	var rdb *redis.Client
	if addr := config.String("REDIS_ADDR", ""); addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: addr})
		defer func() { _ = rdb.Close() }()
		readyChecks = append(readyChecks, runtime.ReadyCheck{Name: "redis", Check: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	}

	mux := runtime.NewBaseMuxWithReady(readyChecks...)
	mux.HandleFunc("/api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("/api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("/api/v1/calculators/tables", calcHandler.Tables)

	authed := handlers.RequireAuth(signer)
	mux.Handle("/api/v1/auth/me", authed(http.HandlerFunc(authHandler.Me)))
	mux.Handle("/api/v1/usage", authed(http.HandlerFunc(usageHandler.Get)))
	mux.Handle("/api/v1/assistant/ask", authed(http.HandlerFunc(assistantHandler.Ask)))
	mux.Handle("/api/v1/calculators/inss", authed(http.HandlerFunc(calcHandler.INSS)))
	mux.Handle("/api/v1/calculators/irrf", authed(http.HandlerFunc(calcHandler.IRRF)))
	mux.Handle("/api/v1/calculators/net-salary", authed(http.HandlerFunc(calcHandler.NetSalary)))
	mux.Handle("/api/v1/calculators/vacation", authed(http.HandlerFunc(calcHandler.Vacation)))
	mux.Handle("/api/v1/calculators/thirteenth", authed(http.HandlerFunc(calcHandler.Thirteenth)))
	mux.Handle("/api/v1/calculators/overtime", authed(http.HandlerFunc(calcHandler.Overtime)))
	mux.Handle("/api/v1/calculators/night-shift", authed(http.HandlerFunc(calcHandler.NightShift)))
	mux.Handle("/api/v1/calculators/severance", authed(http.HandlerFunc(calcHandler.Severance)))

	limitPerMinute := 120
	if v, err := strconv.Atoi(config.String("RATE_LIMIT_PER_MINUTE", "120")); err == nil && v > 0 {
		limitPerMinute = v
	}
	var rateLimitMW httpx.Middleware
	if rdb != nil {
		rl := httpx.NewRedisRateLimiter(rdb, limitPerMinute, time.Minute, config.String("RATE_LIMIT_PREFIX", "rl"))
		rateLimitMW = rl.Middleware(logger, true)
		logger.Info("rate limiting enabled (redis)", "per_minute", limitPerMinute)
	} else {
		rl := httpx.NewRateLimiter(limitPerMinute, time.Minute)
		rateLimitMW = rl.Middleware()
		logger.Info("rate limiting enabled (in-memory)", "per_minute", limitPerMinute)
	}

	handler := httpx.Chain(mux,
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins: parseList(config.String("CORS_ALLOWED_ORIGINS", "")),
			AllowedMethods: parseList(config.String("CORS_ALLOWED_METHODS", "GET,POST,OPTIONS")),
			AllowedHeaders: parseList(config.String("CORS_ALLOWED_HEADERS", "Authorization,Content-Type,X-Request-Id")),
			MaxAge:         10 * time.Minute,
		}),
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithBodyLimit(1<<20),
		httpx.WithTimeout(15*time.Second),
		rateLimitMW,
	)
	handler = otelhttp.NewHandler(handler, "calc")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}

func parseList(raw string) []string {
	items := strings.Split(raw, ",")
	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
