package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/heartmarshall/health-registry/internal/config"
	"github.com/heartmarshall/health-registry/internal/metrics"
	"github.com/heartmarshall/health-registry/internal/transport/middleware"
)

type routes interface {
	RegisterRoutes(mux *http.ServeMux)
}

type tokenValidator interface {
	ValidateToken(ctx context.Context, token string) (string, error)
}

type routerDeps struct {
	log      *slog.Logger
	cors     config.CORSConfig
	rate     int
	limiter  *middleware.RateLimiter
	tokens   tokenValidator
	metrics  *metrics.Metrics
	registry prometheus.Gatherer
	health   routes
	api      []routes
}

func newLimiter() *middleware.RateLimiter {
	return middleware.NewRateLimiter(5 * time.Minute)
}

// newRouter mounts health checks and /metrics next to the API. Only API routes
// require a token and are measured.
func newRouter(d routerDeps) http.Handler {
	api := http.NewServeMux()
	for _, r := range d.api {
		r.RegisterRoutes(api)
	}
	apiHandler := middleware.Chain(
		middleware.When(d.tokens != nil, middleware.Auth(d.tokens, true)),
		middleware.Metrics(d.metrics),
	)(api)

	root := http.NewServeMux()
	if d.health != nil {
		d.health.RegisterRoutes(root)
	}
	if d.registry != nil {
		root.Handle("GET /metrics", promhttp.HandlerFor(d.registry, promhttp.HandlerOpts{}))
	}
	root.Handle("/", apiHandler)

	return middleware.Chain(
		middleware.RequestID(),
		middleware.Logger(d.log),
		middleware.Recovery(d.log),
		middleware.CORS(d.cors),
		d.limit(),
	)(root)
}

func (d routerDeps) limit() middleware.Middleware {
	if d.limiter == nil {
		return nil
	}
	return d.limiter.Limit(d.rate)
}
