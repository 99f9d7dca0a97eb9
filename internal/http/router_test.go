package httpapi

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/toast-report/internal/config"
	"github.com/tbourn/toast-report/internal/services"
	"github.com/tbourn/toast-report/internal/toast"
)

// --- stub report service ---

type stubReports struct {
	menuCalls  int
	orderCalls int
}

func (s *stubReports) Menus(context.Context, bool) (toast.Catalog, error) {
	s.menuCalls++
	return toast.Catalog{{ItemGUID: "i1", ItemGroupGUID: "g1", ItemName: "Brownie"}}, nil
}

func (s *stubReports) Orders(context.Context, services.OrdersQuery) (toast.OrderTable, error) {
	s.orderCalls++
	return toast.NewOrderTable(nil), nil
}

func testConfig() config.Config {
	return config.Config{
		APIBasePath: "/api/v1",
		RateRPS:     100,
		RateBurst:   10,
		Security:    config.SecurityConfig{EnableHSTS: false},
		OTEL:        config.OTELConfig{ServiceName: "test-svc"},
	}
}

func newRouter(t *testing.T, svc *stubReports, cfg config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, svc, cfg)
	return r
}

func serve(r http.Handler, method, target string, hdr map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterRoutes_Health_Metrics_Fallbacks(t *testing.T) {
	r := newRouter(t, &stubReports{}, testConfig())

	w := serve(r, http.MethodGet, "/health", map[string]string{"Origin": "http://any.example"})
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("AllowAllOrigins expected '*', got %q", got)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}
	if w.Header().Get("Cache-Control") != "no-store" {
		t.Fatalf("expected no-store on report API responses")
	}

	w = serve(r, http.MethodGet, "/metrics", nil)
	if w.Code != http.StatusOK || w.Body.Len() == 0 {
		t.Fatalf("GET /metrics bad: code=%d len=%d", w.Code, w.Body.Len())
	}

	if w = serve(r, http.MethodGet, "/nope", nil); w.Code != http.StatusNotFound {
		t.Fatalf("GET /nope expected 404, got %d", w.Code)
	}
	if w = serve(r, http.MethodPost, "/api/v1/orders", nil); w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /orders expected 405, got %d", w.Code)
	}

	if w = serve(r, http.MethodGet, "/swagger/index.html", nil); w.Code != http.StatusNotFound {
		t.Fatalf("swagger must be disabled by default, got %d", w.Code)
	}
}

func TestRegisterRoutes_ReportEndpoints(t *testing.T) {
	svc := &stubReports{}
	r := newRouter(t, svc, testConfig())

	w := serve(r, http.MethodGet, "/api/v1/menus", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /menus = %d", w.Code)
	}
	w = serve(r, http.MethodGet, "/api/v1/orders?days=2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /orders = %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if cols, _ := body["columns"].([]any); len(cols) != len(toast.Columns) {
		t.Fatalf("unexpected columns: %v", body["columns"])
	}
	if svc.menuCalls != 1 || svc.orderCalls != 1 {
		t.Fatalf("service calls menus=%d orders=%d", svc.menuCalls, svc.orderCalls)
	}
}

func TestRegisterRoutes_GzipWhenAccepted(t *testing.T) {
	r := newRouter(t, &stubReports{}, testConfig())

	w := serve(r, http.MethodGet, "/api/v1/menus", map[string]string{"Accept-Encoding": "gzip"})
	if w.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("expected gzip response, headers=%v", w.Header())
	}
	zr, err := gzip.NewReader(w.Body)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	raw, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("gunzip: %v", err)
	}
	if !bytes.Contains(raw, []byte(`"item_guid":"i1"`)) {
		t.Fatalf("unexpected body: %s", raw)
	}
}

func TestRegisterRoutes_RateLimitSkipsCachedCatalogReads(t *testing.T) {
	cfg := testConfig()
	cfg.RateRPS = 0.001
	cfg.RateBurst = 1
	r := newRouter(t, &stubReports{}, cfg)

	for i := 0; i < 3; i++ {
		if w := serve(r, http.MethodGet, "/api/v1/menus", nil); w.Code != http.StatusOK {
			t.Fatalf("cached menus read %d = %d", i, w.Code)
		}
	}
	if w := serve(r, http.MethodGet, "/api/v1/orders", nil); w.Code != http.StatusOK {
		t.Fatalf("first orders call = %d", w.Code)
	}
	w := serve(r, http.MethodGet, "/api/v1/menus?refresh=true", nil)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("refresh must consume tokens, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}
}

func TestRegisterRoutes_CORSWithOrigins(t *testing.T) {
	cfg := testConfig()
	cfg.APIBasePath = "/api/v2"
	cfg.CORS = config.CORSConfig{AllowedOrigins: []string{"http://example.com"}}
	r := newRouter(t, &stubReports{}, cfg)

	w := serve(r, http.MethodGet, "/api/v2/menus", map[string]string{"Origin": "http://example.com"})
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/v2/menus = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://example.com" {
		t.Fatalf("expected ACAO echo, got %q", got)
	}

	w = serve(r, http.MethodGet, "/api/v2/menus", map[string]string{"Origin": "http://evil.example"})
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected ACAO for disallowed origin: %q", got)
	}
}

func TestRegisterRoutes_SwaggerEnabled(t *testing.T) {
	cfg := testConfig()
	cfg.SwaggerEnabled = true
	r := newRouter(t, &stubReports{}, cfg)

	w := serve(r, http.MethodGet, "/swagger/doc.json", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /swagger/doc.json = %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("/orders")) {
		t.Fatalf("swagger doc missing /orders: %s", w.Body.String())
	}
}

func Test_limitBody_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(limitBody(10))
	r.POST("/echo", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.String(http.StatusRequestEntityTooLarge, "too big")
			return
		}
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString("0123456789AB"))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 from limitBody, got %d", w.Code)
	}
}

func Test_groupWithPrefix_and_joinPath(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	groupWithPrefix(r, "/").GET("/one", func(c *gin.Context) { c.String(http.StatusOK, "one") })
	groupWithPrefix(r, "/api").GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	for path, want := range map[string]string{"/one": "one", "/api/ping": "pong"} {
		rec := serve(r, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK || rec.Body.String() != want {
			t.Fatalf("GET %s got %d %q", path, rec.Code, rec.Body.String())
		}
	}

	cases := map[[2]string]string{
		{"/api/v1", "/menus"}: "/api/v1/menus",
		{"/", "/menus"}:       "/menus",
		{"/api/", "/orders"}:  "/api/orders",
	}
	for in, want := range cases {
		if got := joinPath(in[0], in[1]); got != want {
			t.Fatalf("joinPath(%q,%q) = %q; want %q", in[0], in[1], got, want)
		}
	}
}

func Test_isCachedCatalogRead(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		method, target string
		want           bool
	}{
		{http.MethodGet, "/api/v1/menus", true},
		{http.MethodGet, "/api/v1/menus?refresh=false", true},
		{http.MethodGet, "/api/v1/menus?refresh=true", false},
		{http.MethodGet, "/api/v1/orders", false},
		{http.MethodHead, "/api/v1/menus", false},
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(tc.method, tc.target, nil)
		if got := isCachedCatalogRead(c, "/api/v1/menus"); got != tc.want {
			t.Fatalf("%s %s = %v; want %v", tc.method, tc.target, got, tc.want)
		}
	}
}
