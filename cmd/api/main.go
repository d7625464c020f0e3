package main

import (
    "context"
    "net/http"
    "os"
    "strings"
    "time"

    "go.uber.org/zap"

    "shippingbridge/internal/cache"
    "shippingbridge/internal/config"
    "shippingbridge/internal/db"
    "shippingbridge/internal/ecomplus"
    "shippingbridge/internal/logger"
    "shippingbridge/internal/mandabem"
    "shippingbridge/internal/server"
    "shippingbridge/internal/store"
)

func main() {
    cfg := config.Load()

    log, err := logger.New(cfg.LogLevel)
    if err != nil {
        os.Stderr.WriteString("failed to build logger: " + err.Error() + "\n")
        os.Exit(1)
    }
    defer log.Sync()

    // Postgres is optional: without it created tags are not recorded.
    var tags *store.Tags
    if strings.TrimSpace(cfg.DatabaseURL) != "" {
        ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
        pool, perr := db.NewPool(ctx, cfg.DatabaseURL)
        if perr != nil {
            cancel()
            log.Fatal("failed to connect db", zap.Error(perr))
        }
        if perr := pool.Ping(ctx); perr != nil {
            cancel()
            log.Fatal("database ping failed", zap.Error(perr))
        }
        cancel()
        defer pool.Close()
        tags = store.NewTags(pool)
    }

    // Redis is optional: without it webhook triggers are not deduplicated.
    var dedup cache.Cache
    if strings.TrimSpace(cfg.RedisAddr) != "" {
        dedup = cache.NewRedis(cfg.RedisAddr, "shippingbridge")
    }

    carrier := mandabem.NewClient(cfg.MandaBemBaseURL, log)
    platform := ecomplus.NewClient(cfg.EcomplusBaseURL, cfg.EcomplusAppID, log)

    h := server.New(server.Options{
        Quoter:      carrier,
        Carrier:     carrier,
        Platform:    platform,
        Cache:       dedup,
        Tags:        tags,
        TagDedupTTL: cfg.TagDedupTTL,
        Log:         log,
    })

    srv := &http.Server{
        Addr:              ":" + cfg.Port,
        Handler:           h,
        ReadTimeout:       10 * time.Second,
        ReadHeaderTimeout: 10 * time.Second,
        WriteTimeout:      20 * time.Second,
        IdleTimeout:       60 * time.Second,
    }

    log.Info("api listening", zap.String("port", cfg.Port))
    if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
        log.Error("server error", zap.Error(err))
        os.Exit(1)
    }
}
