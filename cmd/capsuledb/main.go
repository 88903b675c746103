package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"capsuledb/internal/stats"
	"capsuledb/pkg/api"
	"capsuledb/pkg/auth"
	"capsuledb/pkg/banner"
	"capsuledb/pkg/capsule"
	"capsuledb/pkg/config"
	"capsuledb/pkg/logger"
	"capsuledb/pkg/shutdown"
	"capsuledb/pkg/state"
	"capsuledb/pkg/store"
	"capsuledb/pkg/validation"
)

func main() {
	// build metadata - set via ldflags during build/release
	var (
		version   = "dev"
		commit    = "none"
		buildDate = "unknown"
	)

	_ = godotenv.Load(".env")
	flags := config.ParseCommandFlags()

	cfgPath := config.ResolveConfigPath(flags.Config, flags.Set["config"])
	cfg, envUsed, err := config.LoadEffective(cfgPath)
	if err != nil {
		logger.Init()
		shutdown.Abort("failed to load config", err, "", 0)
	}

	logger.InitWithLevel(cfg.Logging.Level)

	// Flags win over env/config when explicitly set.
	addr := cfg.Addr()
	if flags.Set["addr"] {
		addr = flags.Addr
	}
	dbPath := flags.DB
	if !flags.Set["db"] && cfg.Storage.DBPath != "" {
		dbPath = cfg.Storage.DBPath
	}

	vr := validation.Rules{
		MaxContentDepth: cfg.Validation.MaxContentDepth,
		MaxContentParts: cfg.Validation.MaxContentParts,
		MaxContentBytes: cfg.Validation.MaxContentBytes.Int64(),
		Strict:          cfg.Validation.Strict,
	}
	validation.SetRules(vr)

	if err := state.EnsureStateDirs(dbPath); err != nil {
		shutdown.Abort("failed to prepare state dirs", err, dbPath, 0)
	}
	st, err := store.Open(state.StoreDir(dbPath))
	if err != nil {
		shutdown.Abort("failed to open pebble", err, dbPath, 0)
	}

	// Populate the global runtime config with backend and signing keys.
	runtimeCfg := &config.RuntimeConfig{BackendKeys: map[string]struct{}{}, SigningKeys: map[string]struct{}{}}
	for _, k := range cfg.Security.APIKeys.Backend {
		runtimeCfg.BackendKeys[k] = struct{}{}
		runtimeCfg.SigningKeys[k] = struct{}{}
	}
	for _, k := range cfg.Security.SigningKeys {
		runtimeCfg.SigningKeys[k] = struct{}{}
	}
	config.SetRuntime(runtimeCfg)

	ctx, cancel := shutdown.SetupSignalHandler(context.Background())
	defer cancel()

	stopStats, err := stats.Start(ctx, st, cfg.Stats.Enabled, cfg.Stats.Cron)
	if err != nil {
		shutdown.Abort("failed to start stats sweeper", err, dbPath, 0)
	}
	defer stopStats()

	srcs := []string{}
	if len(flags.Set) > 0 {
		srcs = append(srcs, "flags")
	}
	if envUsed {
		srcs = append(srcs, "env")
	}
	if _, err := config.Load(cfgPath); err == nil {
		srcs = append(srcs, "config")
	}
	verStr := version
	if commit != "none" {
		verStr = verStr + " (" + commit + ")"
	}
	if buildDate != "unknown" {
		verStr = verStr + " @ " + buildDate
	}
	banner.Print(cfg, addr, dbPath, strings.Join(srcs, ", "), verStr)

	svc := capsule.NewService(st)

	mux := http.NewServeMux()
	mux.Handle("/", api.NewHandler(svc))
	mux.Handle("/docs/", httpSwagger.Handler(httpSwagger.URL("/openapi.yaml")))
	mux.Handle("/openapi.yaml", http.FileServer(http.Dir("./docs")))
	mux.Handle("/metrics", promhttp.Handler())

	secCfg := auth.SecConfig{
		BackendKeys:  map[string]struct{}{},
		FrontendKeys: map[string]struct{}{},
		AdminKeys:    map[string]struct{}{},
		AllowUnauth:  cfg.Security.APIKeys.AllowUnauth,
	}
	secCfg.AllowedOrigins = append(secCfg.AllowedOrigins, cfg.Security.CORS.AllowedOrigins...)
	if cfg.Security.RateLimit.RPS > 0 {
		secCfg.RPS = cfg.Security.RateLimit.RPS
	}
	if cfg.Security.RateLimit.Burst > 0 {
		secCfg.Burst = cfg.Security.RateLimit.Burst
	}
	if len(cfg.Security.IPWhitelist) > 0 {
		secCfg.IPWhitelist = append(secCfg.IPWhitelist, cfg.Security.IPWhitelist...)
	}
	for _, k := range cfg.Security.APIKeys.Backend {
		secCfg.BackendKeys[k] = struct{}{}
	}
	for _, k := range cfg.Security.APIKeys.Frontend {
		secCfg.FrontendKeys[k] = struct{}{}
	}
	for _, k := range cfg.Security.APIKeys.Admin {
		secCfg.AdminKeys[k] = struct{}{}
	}

	var handler http.Handler = mux
	handler = auth.VerifySignedViewer(handler)
	handler = auth.AuthenticateRequestMiddleware(secCfg)(handler)
	handler = auth.RequestIDMiddleware(handler)

	srv := &http.Server{Addr: addr, Handler: handler}

	errc := make(chan error, 1)
	go func() {
		cert := cfg.Server.TLS.CertFile
		key := cfg.Server.TLS.KeyFile
		logger.Info("server_listening", "addr", addr, "tls", cert != "" && key != "")
		if cert != "" && key != "" {
			errc <- srv.ListenAndServeTLS(cert, key)
		} else {
			errc <- srv.ListenAndServe()
		}
	}()

	select {
	case err := <-errc:
		if err != nil && err != http.ErrServerClosed {
			st.Close()
			shutdown.Abort("server failed", err, dbPath, 0)
		}
	case <-ctx.Done():
		timeout := cfg.Server.ShutdownTimeout.Duration()
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shctx, shcancel := context.WithTimeout(context.Background(), timeout)
		defer shcancel()
		if err := srv.Shutdown(shctx); err != nil {
			logger.Error("server_shutdown_error", "error", err)
		}
	}

	if err := st.Close(); err != nil {
		logger.Error("store_close_error", "error", err)
	}
	logger.Info("shutdown_complete")
}
