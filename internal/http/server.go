package http

import (
	"context"
	"net/http"
	"time"

	"contas/internal/core"
	"contas/internal/log"
	"contas/internal/middleware/ratelimit"
	"contas/internal/middleware/recovery"
	"contas/internal/middleware/security"
	"contas/internal/middleware/trace"
	"contas/internal/ports"
)

// EntryService is the per-domain CRUD surface the handlers need.
type EntryService interface {
	Domain() core.Domain
	Create(ctx context.Context, raw core.RawEntry) (core.Entry, error)
	Get(ctx context.Context, id int64) (core.Entry, error)
	Update(ctx context.Context, id int64, raw core.RawEntry) (core.Entry, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f core.Filter) ([]core.Entry, error)
}

// ReportService computes the aggregate reports.
type ReportService interface {
	Summary(ctx context.Context, r core.DateRange) (core.Summary, error)
	ByCategory(ctx context.Context, d core.Domain, r core.DateRange) ([]core.CategoryTotal, error)
}

// Services groups what the server delegates to.
type Services struct {
	Spending EntryService
	Bills    EntryService
	Reports  ReportService
	// Pinger backs /readyz. Nil means always ready.
	Pinger ports.Pinger
}

// Options tunes the transport.
type Options struct {
	// Debug adds the underlying error text to error responses.
	Debug      bool
	CORSOrigin string
	// RateLimit is the number of mutating requests per minute per client.
	RateLimit int
	Logger    *log.Logger
}

type Server struct {
	http.Server
	services    Services
	debug       bool
	started     time.Time
	rateLimiter *ratelimit.Limiter
	detector    *security.Detector
	logger      *log.Logger
}

// NewServer wires the routes and the middleware chain.
func NewServer(addr string, svc Services, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	corsCfg := security.DefaultCORSConfig()
	if opts.CORSOrigin != "" {
		corsCfg.AllowedOrigin = opts.CORSOrigin
	}

	s := &Server{
		services:    svc,
		debug:       opts.Debug,
		started:     time.Now(),
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimit}),
		detector:    security.NewDetector(),
		logger:      logger.WithComponent(log.ComponentHTTP),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /api/categorias", s.handleCategories)

	for _, entries := range []EntryService{svc.Spending, svc.Bills} {
		if entries == nil {
			continue
		}
		h := &entryHandlers{server: s, entries: entries}
		base := "/api/" + entries.Domain().String()
		mux.HandleFunc("GET "+base, h.list)
		mux.HandleFunc("POST "+base, h.create)
		mux.HandleFunc("GET "+base+"/{id}", h.get)
		mux.HandleFunc("PUT "+base+"/{id}", h.update)
		mux.HandleFunc("DELETE "+base+"/{id}", h.delete)
	}

	if svc.Reports != nil {
		mux.HandleFunc("GET /api/relatorios/resumo", s.handleSummary)
		mux.HandleFunc("GET /api/relatorios/gastos-por-categoria", s.handleByCategory(core.Spending))
		mux.HandleFunc("GET /api/relatorios/despesas-por-categoria", s.handleByCategory(core.Bill))
	}

	onLimit := func(w http.ResponseWriter, r *http.Request) {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
			log.FieldComponent, log.ComponentRateLimit,
			log.FieldClientIP, s.detector.ExtractClientIP(r))
		TooManyRequestsError().Write(w)
	}

	var handler http.Handler = mux
	handler = s.rateLimiter.Middleware(s.detector.ExtractClientIP, onLimit)(handler)
	handler = s.detector.Middleware(handler)
	handler = security.CORS(corsCfg)(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = recovery.Middleware(handler)
	handler = trace.NewMiddleware(logger, s.detector.ExtractClientIP).Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Shutdown stops accepting connections, drains in-flight requests and
// stops the rate limiter.
func (s *Server) Shutdown(ctx context.Context) error {
	defer s.rateLimiter.Stop()
	return s.Server.Shutdown(ctx)
}
