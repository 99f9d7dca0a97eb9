package toast

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

// fakeToast is an in-process stand-in for the vendor API.
type fakeToast struct {
	t   *testing.T
	srv *httptest.Server

	mu          sync.Mutex
	logins      int
	menuCalls   int
	pagesAsked  []int
	loginBodies []loginRequest
	headers     []http.Header
	queries     []map[string]string

	loginStatus int
	loginBody   string
	menusStatus int
	menusBody   string
	pageBodies  map[int]string
	pageStatus  map[int]int
}

func newFakeToast(t *testing.T) *fakeToast {
	t.Helper()
	f := &fakeToast{
		t:           t,
		loginStatus: http.StatusOK,
		loginBody:   `{"token":{"accessToken":"tok-1","expiresIn":3600}}`,
		menusStatus: http.StatusOK,
		menusBody:   `{"menus":[]}`,
		pageBodies:  map[int]string{},
		pageStatus:  map[int]int{},
	}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeToast) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.URL.Path {
	case pathLogin:
		f.logins++
		var body loginRequest
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		f.loginBodies = append(f.loginBodies, body)
		w.WriteHeader(f.loginStatus)
		_, _ = io.WriteString(w, f.loginBody)

	case pathMenus:
		f.menuCalls++
		f.headers = append(f.headers, r.Header.Clone())
		w.WriteHeader(f.menusStatus)
		_, _ = io.WriteString(w, f.menusBody)

	case pathOrders:
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		f.pagesAsked = append(f.pagesAsked, page)
		f.headers = append(f.headers, r.Header.Clone())
		q := map[string]string{}
		for k := range r.URL.Query() {
			q[k] = r.URL.Query().Get(k)
		}
		f.queries = append(f.queries, q)
		status := http.StatusOK
		if s, ok := f.pageStatus[page]; ok {
			status = s
		}
		w.WriteHeader(status)
		body, ok := f.pageBodies[page]
		if !ok {
			body = "[]"
		}
		_, _ = io.WriteString(w, body)

	default:
		f.t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeToast) client(opts ...Option) *Client {
	base := []Option{WithHTTPClient(f.srv.Client()), WithLogger(zerolog.Nop())}
	return NewClient(Credentials{
		BaseURL:      f.srv.URL,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RestaurantID: "rest-ext-1",
	}, append(base, opts...)...)
}

// ordersJSON renders n approved orders with one selection each.
func ordersJSON(t *testing.T, prefix string, n int) string {
	t.Helper()
	orders := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		orders = append(orders, map[string]any{
			"guid":           prefix + strconv.Itoa(i),
			"approvalStatus": "APPROVED",
			"paidDate":       "2024-09-01T12:00:00.000+0000",
			"checks": []any{map[string]any{
				"selections": []any{map[string]any{
					"displayName": "Brownie",
					"price":       3.99,
					"item":        map[string]any{"guid": "i1"},
					"itemGroup":   map[string]any{"guid": "g1"},
				}},
			}},
		})
	}
	b, err := json.Marshal(orders)
	if err != nil {
		t.Fatalf("marshal orders: %v", err)
	}
	return string(b)
}

func (f *fakeToast) loginCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logins
}

func (f *fakeToast) menuCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.menuCalls
}

func (f *fakeToast) pages() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.pagesAsked...)
}

func (f *fakeToast) header(i int) http.Header {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i >= len(f.headers) {
		return nil
	}
	return f.headers[i]
}

func (f *fakeToast) query(i int) map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i >= len(f.queries) {
		return nil
	}
	return f.queries[i]
}

func (f *fakeToast) firstLogin() loginRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.loginBodies) == 0 {
		return loginRequest{}
	}
	return f.loginBodies[0]
}
