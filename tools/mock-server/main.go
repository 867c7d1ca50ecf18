// Package main implements a mock inventory service and token broker for
// local development. It serves stock levels from a JSON fixture behind
// bearer-token auth so hwaccess can be exercised without real credentials.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"
)

// fixture maps product ids to their canned stock.
type fixture struct {
	Products map[string]*productStock `json:"products"`
}

type productStock struct {
	TotalInventory int       `json:"totalInventory"`
	Variants       []variant `json:"variants"`
}

type variant struct {
	SKU       string      `json:"sku"`
	Inventory []inventory `json:"inventory"`
}

type inventory struct {
	Status   string `json:"status"`
	Quantity int    `json:"quantity"`
}

// inventoryEntry is one element of the inventory response array.
// variantMeta carries the variant list as an encoded JSON string.
type inventoryEntry struct {
	TotalInventory int    `json:"totalInventory"`
	VariantMeta    string `json:"variantMeta"`
}

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	fixtureFile := flag.String("fixture", "tools/mock-server/testdata/inventory.json", "path to inventory fixture")
	tokenTTL := flag.Duration("token-ttl", 3*time.Minute, "lifetime of issued tokens")
	drain := flag.Int("drain", 0, "units removed from a product's total on every poll")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	fx, err := loadFixture(*fixtureFile)
	if err != nil {
		logger.Error("failed to load fixture", "path", *fixtureFile, "error", err)
		os.Exit(1)
	}
	logger.Info("loaded fixture", "products", len(fx.Products))

	tokens := newTokenIssuer(*tokenTTL, time.Now)
	stock := newStockBook(fx, *drain)

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock inventory server", "addr", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, newMux(logger, tokens, stock)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newMux(logger *slog.Logger, tokens *tokenIssuer, stock *stockBook) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/token", tokenHandler(logger, tokens))
	mux.HandleFunc("GET /get_token", legacyTokenHandler(logger, tokens))
	mux.HandleFunc("GET /inventory", inventoryHandler(logger, tokens, stock))
	return mux
}

func loadFixture(path string) (*fixture, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixture path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var fx fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	return &fx, nil
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery)
		next.ServeHTTP(w, r)
	})
}

// tokenIssuer hands out random tokens and remembers when each expires.
type tokenIssuer struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	expires map[string]time.Time
}

func newTokenIssuer(ttl time.Duration, now func() time.Time) *tokenIssuer {
	return &tokenIssuer{ttl: ttl, now: now, expires: make(map[string]time.Time)}
}

func (ti *tokenIssuer) issue() (string, time.Time, time.Time) {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	tok := "mock-" + hex.EncodeToString(buf)

	ti.mu.Lock()
	defer ti.mu.Unlock()
	issued := ti.now()
	exp := issued.Add(ti.ttl)
	ti.expires[tok] = exp
	return tok, issued, exp
}

func (ti *tokenIssuer) valid(tok string) bool {
	ti.mu.Lock()
	defer ti.mu.Unlock()
	exp, ok := ti.expires[tok]
	if !ok {
		return false
	}
	if !ti.now().Before(exp) {
		delete(ti.expires, tok)
		return false
	}
	return true
}

// stockBook serves fixture stock, optionally draining it on every read.
type stockBook struct {
	mu       sync.Mutex
	products map[string]*productStock
	drain    int
}

func newStockBook(fx *fixture, drain int) *stockBook {
	products := fx.Products
	if products == nil {
		products = map[string]*productStock{}
	}
	return &stockBook{products: products, drain: drain}
}

func (s *stockBook) read(id string) (inventoryEntry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return inventoryEntry{}, false, nil
	}

	meta, err := json.Marshal(p.Variants)
	if err != nil {
		return inventoryEntry{}, false, fmt.Errorf("encoding variants: %w", err)
	}
	entry := inventoryEntry{TotalInventory: p.TotalInventory, VariantMeta: string(meta)}

	if s.drain > 0 {
		p.TotalInventory = max(p.TotalInventory-s.drain, 0)
	}
	return entry, true, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
	json.NewEncoder(w).Encode(v)
}

func tokenHandler(logger *slog.Logger, tokens *tokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		tok, issued, exp := tokens.issue()
		writeJSON(w, http.StatusOK, map[string]any{
			"token":       tok,
			"acquired_at": issued.UTC().Format(time.RFC3339),
			"expires_at":  exp.UTC().Format(time.RFC3339),
		})
		logger.Info("issued mock token", "expires_at", exp)
	}
}

func legacyTokenHandler(logger *slog.Logger, tokens *tokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		tok, _, exp := tokens.issue()
		writeJSON(w, http.StatusOK, map[string]string{"token": tok})
		logger.Info("issued mock token", "endpoint", "legacy", "expires_at", exp)
	}
}

func inventoryHandler(logger *slog.Logger, tokens *tokenIssuer, stock *stockBook) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tok, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || !tokens.valid(tok) {
			logger.Warn("inventory request with missing or expired token")
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}

		id := r.URL.Query().Get("productId")
		entry, found, err := stock.read(id)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		if !found {
			// Unknown products come back as an empty array.
			writeJSON(w, http.StatusOK, []inventoryEntry{})
			logger.Info("inventory", "product_id", id, "found", false)
			return
		}

		writeJSON(w, http.StatusOK, []inventoryEntry{entry})
		logger.Info("inventory", "product_id", id, "total", entry.TotalInventory)
	}
}
