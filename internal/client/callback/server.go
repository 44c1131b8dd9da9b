// Package callback runs the loopback HTTP listener the hosted Stripe
// onboarding returns to. The same router serves /healthz and the client's
// Prometheus metrics.
package callback

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/vendordesk/internal/client/flows"
	"github.com/dmitrijs2005/vendordesk/internal/client/models"
	"github.com/dmitrijs2005/vendordesk/internal/logging"
	"github.com/dmitrijs2005/vendordesk/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ReturnPath is where the onboarding flow sends the browser back to.
const ReturnPath = "/stripe/return"

var ErrNotStarted = errors.New("callback server not started")

// Result is one return from the hosted onboarding flow.
type Result struct {
	SetupMode  models.SetupMode
	ReceivedAt time.Time
}

type Server struct {
	addr    string
	router  chi.Router
	results chan Result
	log     logging.Logger

	mu  sync.Mutex
	srv *http.Server
	ln  net.Listener
}

// New builds the router. Nothing listens until Start.
func New(addr string, m *metrics.Metrics, log logging.Logger) *Server {
	s := &Server{
		addr:    addr,
		results: make(chan Result, 1),
		log:     log,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())
	r.Get(ReturnPath, s.handleReturn)

	s.router = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleReturn(w http.ResponseWriter, r *http.Request) {
	mode, err := flows.ParseSetupMode(r.URL.Query().Get("setup_mode"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.deliver(Result{SetupMode: mode, ReceivedAt: time.Now()})
	s.log.Info(r.Context(), "onboarding return received", "setup_mode", mode)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if mode == models.SetupComplete {
		_, _ = w.Write([]byte("Stripe setup complete. You can close this window and return to vendordesk."))
		return
	}
	_, _ = w.Write([]byte("Stripe setup was canceled. You can close this window and try again from vendordesk."))
}

// deliver hands res to the reader. An unread older result is replaced.
func (s *Server) deliver(res Result) {
	for {
		select {
		case s.results <- res:
			return
		default:
		}
		select {
		case <-s.results:
		default:
		}
	}
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv != nil {
		return nil
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	s.ln = ln
	s.srv = &http.Server{Handler: s.router, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error(context.Background(), "callback server stopped", "error", err)
		}
	}()
	s.log.Debug(context.Background(), "callback server listening", "addr", ln.Addr().String())
	return nil
}

// Addr is the bound address once started, else the configured one.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.addr
}

// ReturnURL is the full URL the onboarding flow should return to.
func (s *Server) ReturnURL() string {
	return "http://" + s.Addr() + ReturnPath
}

func (s *Server) Results() <-chan Result {
	return s.results
}

// Wait blocks until a return arrives or ctx ends.
func (s *Server) Wait(ctx context.Context) (Result, error) {
	select {
	case res := <-s.results:
		return res, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.srv, s.ln = nil, nil
	s.mu.Unlock()

	if srv == nil {
		return ErrNotStarted
	}
	return srv.Shutdown(ctx)
}
