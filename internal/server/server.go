package server

import (
    "context"
    "encoding/json"
    "net/http"
    "strings"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/go-chi/chi/v5/middleware"
    "github.com/google/uuid"
    "go.uber.org/zap"

    "shippingbridge/internal/cache"
    "shippingbridge/internal/calculate"
    "shippingbridge/internal/ecomplus"
    "shippingbridge/internal/mandabem"
    "shippingbridge/internal/store"
)

// PlatformAPI is the order-platform surface the webhook handler needs.
type PlatformAPI interface {
    AppData(ctx context.Context, storeID int) (*calculate.AppConfig, error)
    Order(ctx context.Context, storeID int, orderID string) (*ecomplus.Order, error)
}

// TagCreator issues carrier tag-creation calls.
type TagCreator interface {
    CreateTag(ctx context.Context, creds mandabem.Credentials, order *ecomplus.Order, refID string) []mandabem.Tag
}

type Options struct {
    Quoter      calculate.Quoter
    Carrier     TagCreator
    Platform    PlatformAPI
    Cache       cache.Cache
    Tags        *store.Tags
    TagDedupTTL time.Duration
    Log         *zap.Logger
}

type Server struct {
    engine      *calculate.Engine
    carrier     TagCreator
    platform    PlatformAPI
    cache       cache.Cache
    tags        *store.Tags
    tagDedupTTL time.Duration
    log         *zap.Logger
}

func New(opts Options) http.Handler {
    if opts.Log == nil {
        opts.Log = zap.NewNop()
    }
    if opts.TagDedupTTL <= 0 {
        opts.TagDedupTTL = 24 * time.Hour
    }
    s := &Server{
        engine:      calculate.NewEngine(opts.Quoter, opts.Log),
        carrier:     opts.Carrier,
        platform:    opts.Platform,
        cache:       opts.Cache,
        tags:        opts.Tags,
        tagDedupTTL: opts.TagDedupTTL,
        log:         opts.Log,
    }
    r := chi.NewRouter()
    // Observability: Request ID, panic recovery and request logging
    r.Use(requestIDMiddleware)
    r.Use(middleware.Recoverer)
    r.Use(s.logRequests)
    r.Get("/healthz", s.handleHealth)
    r.Post("/ecom/modules/calculate-shipping", s.handleCalculateShipping)
    r.Post("/ecom/webhook", s.handleWebhook)
    return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
    w.WriteHeader(http.StatusOK)
    w.Write([]byte("ok"))
}

func (s *Server) handleCalculateShipping(w http.ResponseWriter, r *http.Request) {
    var req calculate.Request
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        writeErrorJSON(w, http.StatusBadRequest, calculate.CodeErr, "invalid request body")
        return
    }
    resp, cerr := s.engine.Calculate(r.Context(), req)
    if cerr != nil {
        writeErrorJSON(w, cerr.Status, cerr.Code, cerr.Message)
        return
    }
    writeJSON(w, http.StatusOK, resp)
}

// writeErrorJSON writes the platform's flat error envelope:
// {"error": <CODE>, "message": <string>}
func writeErrorJSON(w http.ResponseWriter, status int, code string, message string) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    _ = json.NewEncoder(w).Encode(map[string]string{
        "error":   code,
        "message": message,
    })
}

func writeJSON(w http.ResponseWriter, status int, v any) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    _ = json.NewEncoder(w).Encode(v)
}

// requestIDMiddleware ensures X-Request-ID is set on the response.
// If provided in the request header, it is propagated; otherwise a UUID is generated.
func requestIDMiddleware(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        rid := strings.TrimSpace(r.Header.Get("X-Request-ID"))
        if rid == "" {
            rid = uuid.New().String()
        }
        w.Header().Set("X-Request-ID", rid)
        next.ServeHTTP(w, r)
    })
}

func (s *Server) logRequests(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        start := time.Now()
        ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
        next.ServeHTTP(ww, r)
        s.log.Info("request",
            zap.String("method", r.Method),
            zap.String("path", r.URL.Path),
            zap.Int("status", ww.Status()),
            zap.Duration("took", time.Since(start)),
        )
    })
}
