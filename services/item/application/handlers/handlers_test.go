package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/redis/go-redis/v9"

	pkgcache "github.com/ghuser/itemstore/pkg/cache"
	"github.com/ghuser/itemstore/pkg/config"
	"github.com/ghuser/itemstore/pkg/httpx"
	"github.com/ghuser/itemstore/pkg/logger"
	"github.com/ghuser/itemstore/services/item/application/api"
	"github.com/ghuser/itemstore/services/item/application/handlers"
	appsvcs "github.com/ghuser/itemstore/services/item/application/services"
	"github.com/ghuser/itemstore/services/item/infrastructure/persistence/memory"
)

type mapCache map[int64]string

func (c mapCache) Get(_ context.Context, id int64) (*pkgcache.CachedItem, error) {
	name, ok := c[id]
	if !ok {
		return nil, redis.Nil
	}
	return &pkgcache.CachedItem{ID: id, Name: name}, nil
}

func (c mapCache) Fill(_ context.Context, item *pkgcache.CachedItem) error {
	c[item.ID] = item.Name
	return nil
}

func (c mapCache) Delete(_ context.Context, id int64) error {
	delete(c, id)
	return nil
}

type testServer struct {
	handler http.Handler
	repo    *memory.ItemRepository
	cache   mapCache
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	repo := memory.NewItemRepository()
	c := mapCache{}
	log := logger.New(&config.Config{LogLevel: "error"})
	svcs := &appsvcs.Services{Item: appsvcs.NewItemService(repo, c, log)}

	r := httpx.NewRouter(httpx.ServerConfig{CORSAllowedOrigins: "*"}, httpx.Middlewares{})
	api.RegisterItemHandlers(r, svcs)
	return &testServer{handler: r, repo: repo, cache: c}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return v
}

func (s *testServer) create(t *testing.T, name string) int64 {
	t.Helper()
	rr := s.do(t, http.MethodPost, "/items/", fmt.Sprintf(`{"name":%q}`, name))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create %q: status %d body %s", name, rr.Code, rr.Body)
	}
	return decode[handlers.CreateItemResponse](t, rr).ID
}

func TestCreateThenList(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodPost, "/items/", `{"name":"Widget"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body)
	}
	created := decode[handlers.CreateItemResponse](t, rr)
	if created.Message != "Item created successfully" || created.ID <= 0 {
		t.Fatalf("unexpected create response %+v", created)
	}

	rr = s.do(t, http.MethodGet, "/items/", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	want := []handlers.ItemResponse{{ID: created.ID, Item: "Widget"}}
	if diff := cmp.Diff(want, decode[[]handlers.ItemResponse](t, rr)); diff != "" {
		t.Errorf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestList_WithoutTrailingSlash(t *testing.T) {
	s := newTestServer(t)
	s.create(t, "Widget")

	rr := s.do(t, http.MethodGet, "/items", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestRoundTrip(t *testing.T) {
	s := newTestServer(t)
	id := s.create(t, "Round Trip")

	rr := s.do(t, http.MethodGet, fmt.Sprintf("/items/%d", id), "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	want := handlers.ItemResponse{ID: id, Item: "Round Trip"}
	if diff := cmp.Diff(want, decode[handlers.ItemResponse](t, rr)); diff != "" {
		t.Errorf("get mismatch (-want +got):\n%s", diff)
	}
}

func TestNotFound(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		method string
		body   string
	}{
		{http.MethodGet, ""},
		{http.MethodPut, `{"name":"Gadget"}`},
		{http.MethodDelete, ""},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			rr := s.do(t, tt.method, "/items/9999", tt.body)
			if rr.Code != http.StatusNotFound {
				t.Fatalf("expected 404, got %d", rr.Code)
			}
			if diff := cmp.Diff(httpx.ErrorBody{Error: "Item not found"}, decode[httpx.ErrorBody](t, rr)); diff != "" {
				t.Errorf("body mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if s.repo.Len() != 0 {
		t.Fatal("updating a missing id must not create a row")
	}
}

func TestUpdate(t *testing.T) {
	s := newTestServer(t)
	id := s.create(t, "Widget")
	path := fmt.Sprintf("/items/%d", id)

	// Warm the cache so the update has to evict it.
	if rr := s.do(t, http.MethodGet, path, ""); rr.Code != http.StatusOK {
		t.Fatalf("warm get: %d", rr.Code)
	}

	rr := s.do(t, http.MethodPut, path, `{"name":"Gadget"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body)
	}
	if diff := cmp.Diff(httpx.MessageBody{Message: "Item updated successfully"}, decode[httpx.MessageBody](t, rr)); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}

	got := decode[handlers.ItemResponse](t, s.do(t, http.MethodGet, path, ""))
	if got.Item != "Gadget" {
		t.Fatalf("expected updated name, got %q", got.Item)
	}
}

func TestDelete_ThenGetIsNotFound(t *testing.T) {
	s := newTestServer(t)
	id := s.create(t, "Widget")
	path := fmt.Sprintf("/items/%d", id)

	if rr := s.do(t, http.MethodGet, path, ""); rr.Code != http.StatusOK {
		t.Fatalf("warm get: %d", rr.Code)
	}
	if _, ok := s.cache[id]; !ok {
		t.Fatal("expected warm cache entry")
	}

	rr := s.do(t, http.MethodDelete, path, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if diff := cmp.Diff(httpx.MessageBody{Message: "Item deleted successfully"}, decode[httpx.MessageBody](t, rr)); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}

	if rr := s.do(t, http.MethodGet, path, ""); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rr.Code)
	}
}

func TestListAfterDeletingAll(t *testing.T) {
	s := newTestServer(t)
	ids := []int64{s.create(t, "a"), s.create(t, "b")}
	for _, id := range ids {
		if rr := s.do(t, http.MethodDelete, fmt.Sprintf("/items/%d", id), ""); rr.Code != http.StatusOK {
			t.Fatalf("delete %d: %d", id, rr.Code)
		}
	}

	rr := s.do(t, http.MethodGet, "/items/", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if body := strings.TrimSpace(rr.Body.String()); body != "[]" {
		t.Fatalf("expected [], got %s", body)
	}
}

func TestInvalidID(t *testing.T) {
	s := newTestServer(t)

	for _, raw := range []string{"abc", "0", "-3", "1.5"} {
		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
			t.Run(method+" "+raw, func(t *testing.T) {
				rr := s.do(t, method, "/items/"+raw, `{"name":"x"}`)
				if rr.Code != http.StatusUnprocessableEntity {
					t.Fatalf("expected 422, got %d", rr.Code)
				}
			})
		}
	}
}

func TestCreate_BadBodies(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"malformed json", `{"name":`, http.StatusBadRequest},
		{"empty body", "", http.StatusBadRequest},
		{"missing name", `{}`, http.StatusUnprocessableEntity},
		{"empty name", `{"name":""}`, http.StatusUnprocessableEntity},
		{"wrong type", `{"name":42}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := s.do(t, http.MethodPost, "/items/", tt.body)
			if rr.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rr.Code, rr.Body)
			}
		})
	}

	if s.repo.Len() != 0 {
		t.Fatal("rejected requests must not store items")
	}
}

func TestCreate_MissingNameReportsField(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodPost, "/items/", `{}`)
	want := httpx.ErrorBody{
		Error:  "Validation failed",
		Fields: map[string]string{"name": "This field is required"},
	}
	if diff := cmp.Diff(want, decode[httpx.ErrorBody](t, rr)); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}
}

func TestCreate_BodyTooLarge(t *testing.T) {
	s := newTestServer(t)

	big := `{"name":"` + strings.Repeat("x", httpx.MaxRequestBody) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/items/", bytes.NewBufferString(big))
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rr.Code)
	}
}

func TestStorageError(t *testing.T) {
	s := newTestServer(t)
	s.repo.Err = errors.New("connection refused")

	rr := s.do(t, http.MethodPost, "/items/", `{"name":"Widget"}`)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	want := httpx.ErrorBody{Error: "connection refused"}
	if diff := cmp.Diff(want, decode[httpx.ErrorBody](t, rr)); diff != "" {
		t.Errorf("create body mismatch (-want +got):\n%s", diff)
	}

	for _, path := range []string{"/items/", "/items/1"} {
		rr := s.do(t, http.MethodGet, path, "")
		if rr.Code != http.StatusInternalServerError {
			t.Fatalf("GET %s: expected 500, got %d", path, rr.Code)
		}
		if diff := cmp.Diff(want, decode[httpx.ErrorBody](t, rr)); diff != "" {
			t.Errorf("GET %s body mismatch (-want +got):\n%s", path, diff)
		}
	}
}
