// Package server exposes the public dealership API and the admin back
// office over HTTP.
package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/autocentru/dealer/internal/cache"
	"github.com/autocentru/dealer/internal/catalog"
	"github.com/autocentru/dealer/internal/store"
	"github.com/autocentru/dealer/pkg/constants"
	"github.com/autocentru/dealer/pkg/finance"
	"go.uber.org/zap"
)

type handler struct {
	logger     *zap.Logger
	store      store.Store
	cache      cache.Cache
	cacheTTL   time.Duration
	catalog    catalog.Catalog
	zeroRate   finance.ZeroRatePolicy
	adminToken string
	maxBody    int64
	version    string
}

// Options wires the handler's collaborators.
type Options struct {
	Store          store.Store
	Cache          cache.Cache
	CacheTTL       time.Duration
	Catalog        catalog.Catalog
	ZeroRatePolicy finance.ZeroRatePolicy
	AdminToken     string
	MaxBodyBytes   int64
	Version        string
}

// NewHandler constructs the HTTP handler serving the public and admin API.
func NewHandler(logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Store == nil {
		opts.Store = store.NewMemory()
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewMemory()
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = constants.DefaultCacheTTLSeconds * time.Second
	}
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = constants.DefaultMaxBodyBytes
	}
	version := strings.TrimSpace(opts.Version)
	if version == "" {
		version = "dev"
	}

	h := &handler{
		logger:     logger,
		store:      opts.Store,
		cache:      opts.Cache,
		cacheTTL:   opts.CacheTTL,
		catalog:    opts.Catalog,
		zeroRate:   opts.ZeroRatePolicy,
		adminToken: opts.AdminToken,
		maxBody:    opts.MaxBodyBytes,
		version:    version,
	}

	mux := http.NewServeMux()

	// Public surface
	mux.HandleFunc("GET /api/health", h.handleHealth)
	mux.HandleFunc("GET /api/version", h.handleVersion)
	mux.HandleFunc("GET /api/catalog", h.handleCatalog)
	mux.HandleFunc("GET /api/options/{key}", h.handleOptionsGet)
	mux.HandleFunc("GET /api/stock", h.handleStockList)
	mux.HandleFunc("GET /api/stock/{id}", h.handleStockDetail)
	mux.HandleFunc("POST /api/finance/quote", h.handleFinanceQuote)
	mux.HandleFunc("POST /api/leads/{kind}", h.handleLeadCreate)
	mux.HandleFunc("POST /api/contact", h.handleContact)

	// Admin surface
	mux.HandleFunc("POST /api/admin/stock", h.requireAdmin(h.handleStockCreate))
	mux.HandleFunc("PUT /api/admin/stock/{id}", h.requireAdmin(h.handleStockUpdate))
	mux.HandleFunc("DELETE /api/admin/stock/{id}", h.requireAdmin(h.handleStockDelete))
	mux.HandleFunc("GET /api/admin/leads/{kind}", h.requireAdmin(h.handleLeadList))
	mux.HandleFunc("POST /api/admin/leads/{kind}/{id}/status", h.requireAdmin(h.handleLeadStatus))
	mux.HandleFunc("GET /api/admin/messages", h.requireAdmin(h.handleMessageList))
	mux.HandleFunc("POST /api/admin/messages/{id}/status", h.requireAdmin(h.handleMessageStatus))
	mux.HandleFunc("PUT /api/admin/options/{key}", h.requireAdmin(h.handleOptionsPut))

	return mux
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"version": h.version})
}

func (h *handler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.catalog)
}

func (h *handler) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response",
			zap.String("op", "server.respondJSON"),
			zap.Error(err),
		)
	}
}

func (h *handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// decodeJSON reads a size-limited JSON body into dst.
func (h *handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	return json.NewDecoder(r.Body).Decode(dst)
}
