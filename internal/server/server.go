//go:generate mockgen -source ./server.go -destination=./mocks/server.go -package=mock_server
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"gitlab.com/courexa/edi-gateway/internal/cache"
	"gitlab.com/courexa/edi-gateway/internal/edi"
	"gitlab.com/courexa/edi-gateway/internal/lifecycle"
	"gitlab.com/courexa/edi-gateway/internal/repository"
)

type Registrar interface {
	Register(ctx context.Context, order *edi.NormalizedOrder) (*repository.Parcel, bool, error)
}

type Transitioner interface {
	ApplyTransition(ctx context.Context, ediReference string, newStatus lifecycle.Status, meta lifecycle.TransitionMeta) (*repository.TrackingEvent, error)
	Events(ctx context.Context, parcelID string) ([]*repository.TrackingEvent, error)
}

type Submitter interface {
	Submit(ctx context.Context, doc edi.OrderDocument) error
	Topic() string
}

type ParcelReader interface {
	GetByEDIReference(ctx context.Context, ediReference string) (*repository.Parcel, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	registrar    Registrar
	machine      Transitioner
	submitter    Submitter
	parcels      ParcelReader
	parcelCache  *cache.ParcelCache
	claims       ClaimsProvider
	health       Pinger
	logger       *zap.Logger
	server       *http.Server
	AuditManager *AuditManager
}

func New(registrar Registrar, machine Transitioner, submitter Submitter, parcels ParcelReader, claims ClaimsProvider, health Pinger, logger *zap.Logger) *Server {
	return &Server{
		registrar:    registrar,
		machine:      machine,
		submitter:    submitter,
		parcels:      parcels,
		parcelCache:  cache.NewParcelCache(),
		claims:       claims,
		health:       health,
		logger:       logger,
		AuditManager: NewAuditManager(2, 5, 500*time.Millisecond, logger),
	}
}

func (s *Server) Run(ctx context.Context, port string) error {
	router := s.setupRoutes()

	s.server = &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	s.AuditManager.Start(ctx)

	s.logger.Info("http server starting", zap.String("port", port))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")

	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}

	s.AuditManager.Shutdown(ctx)
	return nil
}

func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /edi/process", s.handleProcess)
	mux.HandleFunc("POST /edi/submit", s.handleSubmit)
	mux.HandleFunc("GET /edi/status/{ediReference}", s.handleStatus)
	mux.HandleFunc("GET /edi/parcels/{ediReference}/events", s.handleEvents)
	mux.HandleFunc("POST /edi/parcels/{ediReference}/transitions", s.handleTransition)

	ediHandler := s.bearerAuthMiddleware(s.intakeAuditMiddleware(mux))

	root := http.NewServeMux()
	root.Handle("/edi/", ediHandler)
	root.HandleFunc("GET /health", s.handleHealth)
	root.Handle("GET /metrics", promhttp.Handler())

	return root
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
}
