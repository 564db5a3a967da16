package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketinsights/internal/config"
	"marketinsights/internal/ingest"
	"marketinsights/internal/insights"
	"marketinsights/internal/logger"
	"marketinsights/internal/mailer"
	"marketinsights/internal/news"
	"marketinsights/internal/storage"
	"marketinsights/internal/telegram"
)

func newTestServer(t *testing.T) (*Server, *storage.Repository) {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.Port = 8000
	cfg.Server.FrontendOrigin = "http://localhost:3000"
	cfg.Server.StaticDir = t.TempDir()
	cfg.Auth.CodeTTLMinutes = 10
	cfg.Auth.SessionTTLDays = 7
	cfg.Logging.Level = "error"

	log := logger.New("error")
	db, err := storage.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	repo := storage.NewRepository(db)

	s := NewServer(repo, cfg, log,
		ingest.NewAlphaVantageClient(log),
		ingest.NewYahooClient(log),
		insights.NewClient(cfg, log),
		news.NewProvider(),
		mailer.New(cfg, log),
		telegram.NewNotifier(cfg, log),
	)
	return s, repo
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	w := doJSON(t, s.Handler(), http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody(t, w)["status"])
}

func TestListPricesEnvelope(t *testing.T) {
	s, repo := newTestServer(t)
	for i := 0; i < 5; i++ {
		_, err := repo.InsertPrice(&storage.Price{
			Symbol: "AAPL",
			Price:  190 + float64(i),
			AsOf:   fmt.Sprintf("2024-01-0%dT00:00:00Z", i+1),
			Source: "test",
		})
		require.NoError(t, err)
	}

	w := doJSON(t, s.Handler(), http.MethodGet, "/prices/AAPL?limit=3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.EqualValues(t, 3, body["count"])
	assert.EqualValues(t, 0, body["offset"])
	// A full page carries a next_offset hint.
	assert.EqualValues(t, 3, body["next_offset"])

	w = doJSON(t, s.Handler(), http.MethodGet, "/prices/AAPL?limit=3&offset=3", nil)
	body = decodeBody(t, w)
	assert.EqualValues(t, 2, body["count"])
	assert.Nil(t, body["next_offset"])

	// Newest first.
	items := body["items"].([]any)
	first := items[0].(map[string]any)
	assert.Equal(t, "2024-01-02T00:00:00Z", first["as_of"])
}

func TestIngestMissingAPIKey(t *testing.T) {
	s, _ := newTestServer(t)
	w := doJSON(t, s.Handler(), http.MethodPost, "/ingest/alpha_vantage", map[string]string{"symbol": "AAPL"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing Alpha Vantage API key", decodeBody(t, w)["detail"])
}

func TestIngestFXBadPair(t *testing.T) {
	s, _ := newTestServer(t)
	w := doJSON(t, s.Handler(), http.MethodPost, "/ingest/fx", map[string]string{"pair": "EUR/USD/X"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestJournalSaveUpdateDelete(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	w := doJSON(t, h, http.MethodPost, "/journal", map[string]any{
		"symbol": "EURUSD", "date": "2024-01-02", "direction": "Long",
		"qty": 1.0, "entry": 1.085,
	})
	require.Equal(t, http.StatusOK, w.Code)
	id := decodeBody(t, w)["id"].(float64)
	require.NotZero(t, id)

	// Update through the same endpoint.
	w = doJSON(t, h, http.MethodPost, "/journal", map[string]any{
		"id": id, "symbol": "EURUSD", "date": "2024-01-02", "direction": "Short",
		"qty": 2.0, "entry": 1.09,
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Short", body["direction"])
	assert.EqualValues(t, id, body["id"])

	// Update of an absent row is a 404, not a create.
	w = doJSON(t, h, http.MethodPost, "/journal", map[string]any{
		"id": 9999, "symbol": "EURUSD", "date": "2024-01-02", "direction": "Long",
	})
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, h, http.MethodDelete, "/journal/9999", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, h, http.MethodDelete, "/journal/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestJournalValidation(t *testing.T) {
	s, _ := newTestServer(t)
	w := doJSON(t, s.Handler(), http.MethodPost, "/journal", map[string]any{
		"symbol": "EURUSD", "date": "2024-01-02", "direction": "Sideways",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPortfolioTransactionsAndPositions(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	w := doJSON(t, h, http.MethodPost, "/portfolios", map[string]string{
		"name": "Main", "base_currency": "USD",
	})
	require.Equal(t, http.StatusOK, w.Code)
	pid := decodeBody(t, w)["id"].(float64)

	// Transactions against a missing portfolio are rejected up front.
	w = doJSON(t, h, http.MethodPost, "/portfolios/999/transactions", map[string]any{
		"date": "2024-01-02", "symbol": "AAPL", "type": "BUY", "qty": 10.0, "price": 190.0,
	})
	require.Equal(t, http.StatusNotFound, w.Code)

	for _, txn := range []map[string]any{
		{"date": "2024-01-02", "symbol": "AAPL", "type": "BUY", "qty": 10.0, "price": 190.0},
		{"date": "2024-01-03", "symbol": "AAPL", "type": "SELL", "qty": 5.0, "price": 200.0},
	} {
		w = doJSON(t, h, http.MethodPost, "/portfolios/1/transactions", txn)
		require.Equal(t, http.StatusOK, w.Code, "pid %v", pid)
	}

	w = doJSON(t, h, http.MethodGet, "/portfolios/1/positions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := decodeBody(t, w)["items"].([]any)
	require.Len(t, items, 1)
	pos := items[0].(map[string]any)
	assert.Equal(t, "AAPL", pos["symbol"])
	assert.EqualValues(t, 5, pos["qty"])
	assert.EqualValues(t, 190, pos["avg_cost"])
	assert.Nil(t, pos["last"])

	// Cascade: deleting the portfolio clears its transactions.
	w = doJSON(t, h, http.MethodDelete, "/portfolios/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, h, http.MethodGet, "/portfolios/1/transactions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody(t, w)["items"])
}

func TestEntryPlanDedup(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	plan := map[string]any{"symbol": "XAUUSD", "text": "buy the dip at the daily FVG"}
	w := doJSON(t, h, http.MethodPost, "/entry_plans", plan)
	require.Equal(t, http.StatusOK, w.Code)
	first := decodeBody(t, w)

	w = doJSON(t, h, http.MethodPost, "/entry_plans", plan)
	require.Equal(t, http.StatusOK, w.Code)
	second := decodeBody(t, w)
	assert.Equal(t, first["id"], second["id"])

	w = doJSON(t, h, http.MethodGet, "/entry_plans?symbol=XAUUSD", nil)
	items := decodeBody(t, w)["items"].([]any)
	assert.Len(t, items, 1)
}

func TestInsightsDemoMode(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	w := doJSON(t, h, http.MethodGet, "/insights/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["enabled"])

	w = doJSON(t, h, http.MethodPost, "/insights", map[string]string{
		"symbol": "EURUSD", "horizon": "weekly",
	})
	require.Equal(t, http.StatusOK, w.Code)
	summary := decodeBody(t, w)["summary"].(string)
	assert.Contains(t, summary, "[Demo]")
	assert.Contains(t, summary, "weekly view for EURUSD")
}

func TestInsightsBadHorizon(t *testing.T) {
	s, _ := newTestServer(t)
	w := doJSON(t, s.Handler(), http.MethodPost, "/insights", map[string]string{
		"symbol": "EURUSD", "horizon": "hourly",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthFlow(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	// No SMTP configured, so the code comes back in the response.
	w := doJSON(t, h, http.MethodPost, "/auth/request_code", map[string]string{
		"email": " Trader@Example.COM ",
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["sent"])
	code, ok := body["dev_code"].(string)
	require.True(t, ok)
	require.Len(t, code, 6)

	w = doJSON(t, h, http.MethodPost, "/auth/verify_code", map[string]string{
		"email": "trader@example.com", "code": code,
	})
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, sessionCookie, cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	// Codes are single use.
	w = doJSON(t, h, http.MethodPost, "/auth/verify_code", map[string]string{
		"email": "trader@example.com", "code": code,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid or expired code", decodeBody(t, w)["detail"])
}

func TestAuthInvalidEmail(t *testing.T) {
	s, _ := newTestServer(t)
	w := doJSON(t, s.Handler(), http.MethodPost, "/auth/request_code", map[string]string{
		"email": "not-an-email",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid email", decodeBody(t, w)["detail"])
}

func TestLogoutClearsCookie(t *testing.T) {
	s, repo := newTestServer(t)
	require.NoError(t, repo.EnsureUser("trader@example.com"))
	require.NoError(t, repo.CreateSession("trader@example.com", "tok-1", s.config.SessionTTL()))

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "tok-1"})
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, -1, cookies[0].MaxAge)

	_, err := repo.GetSession("tok-1", time.Now())
	assert.Error(t, err)
}
