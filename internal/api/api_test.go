package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/generative-ai-agents/anime-recommender/internal/api"
	"github.com/povarna/generative-ai-agents/anime-recommender/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/anime-recommender/internal/cache"
	"github.com/povarna/generative-ai-agents/anime-recommender/internal/catalog"
	"github.com/povarna/generative-ai-agents/anime-recommender/internal/corpus"
	"github.com/povarna/generative-ai-agents/anime-recommender/internal/embedding"
	"github.com/povarna/generative-ai-agents/anime-recommender/internal/recommend"
	"github.com/rs/zerolog"
)

const animeCSV = `MAL_ID,Name,Score,Genres,Episodes
1,Cowboy Bebop,8.78,"Action, Adventure, Comedy, Drama, Sci-Fi, Space",26
20,Naruto,7.91,"Action, Adventure, Comedy, Super Power, Martial Arts, Shounen",220
2167,Clannad,8.0,"Comedy, Drama, Romance, School, Slice of Life, Supernatural",23
30,Neon Genesis Evangelion,8.31,"Action, Sci-Fi, Dementia, Psychological, Drama, Mecha",
`

var synopses = []corpus.Document{
	{Position: 0, Content: `"1 A bounty hunter crew drifts through space chasing criminals"`},
	{Position: 1, Content: `"20 A young ninja seeks recognition and dreams of becoming Hokage"`},
	{Position: 2, Content: `"2167 A high school romance about family and loss"`},
	{Position: 3, Content: `"30 Teenagers pilot giant robots against mysterious angels"`},
	{Position: 4, Content: `Broken line without an identifier`},
}

func testLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

type testAPI struct {
	container *restful.Container
	lru       *cache.LRUCache
}

func setupTestAPI(t *testing.T) *testAPI {
	t.Helper()

	table, err := catalog.ReadCSV(strings.NewReader(animeCSV))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}

	lru, err := cache.NewLRUCache(100)
	if err != nil {
		t.Fatalf("NewLRUCache failed: %v", err)
	}

	embedder := embedding.NewCachedEmbedder(embedding.NewLocalEmbedder(4096), lru, testLogger())
	store := corpus.NewMemoryStore(embedder, 2, 2, testLogger())
	if err := store.Index(context.Background(), synopses); err != nil {
		t.Fatalf("Index failed: %v", err)
	}

	engine := recommend.NewEngine(store, table, recommend.DefaultOptions(), testLogger())
	handler := api.NewHandler(engine, table, store, embedder, testLogger())

	return &testAPI{container: api.NewContainer(handler), lru: lru}
}

func postJSON(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	return recorder
}

func decodeItems(t *testing.T, recorder *httptest.ResponseRecorder) []map[string]any {
	t.Helper()

	var items []map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &items); err != nil {
		t.Fatalf("Failed to parse response: %v (%s)", err, recorder.Body.String())
	}
	return items
}

func TestAPI_Health(t *testing.T) {
	testAPI := setupTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	recorder := httptest.NewRecorder()
	testAPI.container.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", recorder.Code)
	}

	var response api.HealthResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if response.Status != "ok" || response.Items != 4 || response.Documents != 5 {
		t.Errorf("Unexpected health response: %+v", response)
	}
	want := api.Limits{TopK: 10, OverFetch: 50, DisplayCap: 20}
	if response.Limits != want {
		t.Errorf("Expected limits %+v, got %+v", want, response.Limits)
	}
	if recorder.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("Expected request id header")
	}
}

func TestAPI_Recommend_EmptyRequest(t *testing.T) {
	testAPI := setupTestAPI(t)

	recorder := postJSON(t, testAPI.container, "/api/anime", `{}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	items := decodeItems(t, recorder)
	if len(items) != 4 {
		t.Fatalf("Expected all 4 items, got %d", len(items))
	}

	wantIDs := []float64{1, 20, 2167, 30}
	for i, item := range items {
		if item["MAL_ID"] != wantIDs[i] {
			t.Errorf("Expected MAL_ID %v at %d, got %v", wantIDs[i], i, item["MAL_ID"])
		}
	}

	if items[3]["Episodes"] != nil {
		t.Errorf("Expected null Episodes, got %v", items[3]["Episodes"])
	}
	if items[0]["Score"] != 8.78 {
		t.Errorf("Expected numeric Score, got %v", items[0]["Score"])
	}
}

func TestAPI_Recommend_Genres(t *testing.T) {
	testAPI := setupTestAPI(t)

	recorder := postJSON(t, testAPI.container, "/api/anime", `{"genres": ["Romance"]}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", recorder.Code)
	}

	items := decodeItems(t, recorder)
	if len(items) != 1 || items[0]["Name"] != "Clannad" {
		t.Errorf("Expected only Clannad, got %v", items)
	}
}

func TestAPI_Recommend_Query(t *testing.T) {
	testAPI := setupTestAPI(t)

	recorder := postJSON(t, testAPI.container, "/api/anime", `{"query": "ninja", "genres": ["Shounen"]}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", recorder.Code)
	}

	items := decodeItems(t, recorder)
	if len(items) != 1 || items[0]["Name"] != "Naruto" {
		t.Errorf("Expected only Naruto, got %v", items)
	}
}

func TestAPI_Recommend_NoMatchReturnsEmptyArray(t *testing.T) {
	testAPI := setupTestAPI(t)

	recorder := postJSON(t, testAPI.container, "/api/anime", `{"genres": ["Harem"]}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", recorder.Code)
	}
	if strings.TrimSpace(recorder.Body.String()) != "[]" {
		t.Errorf("Expected empty array, got %s", recorder.Body.String())
	}
}

func TestAPI_Recommend_InvalidBody(t *testing.T) {
	testAPI := setupTestAPI(t)

	recorder := postJSON(t, testAPI.container, "/api/anime", `{"genres": "Action"}`)
	if recorder.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected status 422, got %d", recorder.Code)
	}

	var response middleware.ErrorResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response.Detail == "" {
		t.Error("Expected detail message")
	}
}

func TestAPI_Recommend_WithoutContentType(t *testing.T) {
	testAPI := setupTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/anime", bytes.NewBufferString(`{"genres": ["Romance"]}`))
	recorder := httptest.NewRecorder()
	testAPI.container.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	items := decodeItems(t, recorder)
	if len(items) != 1 || items[0]["Name"] != "Clannad" {
		t.Errorf("Expected Clannad only, got %v", items)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/anime", bytes.NewBufferString(`{"genres": "Romance"}`))
	recorder = httptest.NewRecorder()
	testAPI.container.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected status 422 for an invalid body, got %d", recorder.Code)
	}
}

func TestAPI_RoutingErrorsUseDetailBody(t *testing.T) {
	testAPI := setupTestAPI(t)

	tests := []struct {
		name        string
		method      string
		path        string
		contentType string
		status      int
	}{
		{"unsupported content type", http.MethodPost, "/api/anime", "text/plain", http.StatusUnsupportedMediaType},
		{"unknown path", http.MethodGet, "/api/unknown", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(`{}`))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			recorder := httptest.NewRecorder()
			testAPI.container.ServeHTTP(recorder, req)

			if recorder.Code != tt.status {
				t.Fatalf("Expected status %d, got %d", tt.status, recorder.Code)
			}

			var response middleware.ErrorResponse
			if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
				t.Fatalf("Expected a detail body, got %q: %v", recorder.Body.String(), err)
			}
			if response.Detail == "" {
				t.Error("Expected detail message")
			}
		})
	}
}

type stubRecommender struct {
	err   error
	panic bool
}

func (s stubRecommender) Recommend(ctx context.Context, req recommend.Request) ([]catalog.Item, error) {
	if s.panic {
		panic("unexpected state")
	}
	return nil, s.err
}

func (s stubRecommender) Options() recommend.Options {
	return recommend.DefaultOptions()
}

type staticCatalog struct{}

func (staticCatalog) Len() int                        { return 0 }
func (staticCatalog) Get(id int) (catalog.Item, bool) { return catalog.Item{}, false }
func (staticCatalog) Genres() []string                { return nil }

func TestAPI_Recommend_EngineFailure(t *testing.T) {
	failure := &recommend.Error{Message: "similarity search failed: backend down"}
	handler := api.NewHandler(stubRecommender{err: failure}, staticCatalog{}, staticCatalog{}, nil, testLogger())
	container := api.NewContainer(handler)

	recorder := postJSON(t, container, "/api/anime", `{"query": "mecha"}`)
	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", recorder.Code)
	}

	var response middleware.ErrorResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response.Detail != "similarity search failed: backend down" {
		t.Errorf("Unexpected detail: %q", response.Detail)
	}
}

func TestAPI_Recommend_PanicRecovered(t *testing.T) {
	handler := api.NewHandler(stubRecommender{panic: true}, staticCatalog{}, staticCatalog{}, nil, testLogger())
	container := api.NewContainer(handler)

	recorder := postJSON(t, container, "/api/anime", `{"query": "mecha"}`)
	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "internal server error") {
		t.Errorf("Unexpected body: %s", recorder.Body.String())
	}
}

func TestAPI_AnimeByID(t *testing.T) {
	testAPI := setupTestAPI(t)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"found", "/api/anime/2167", http.StatusOK},
		{"unknown id", "/api/anime/999", http.StatusNotFound},
		{"not a number", "/api/anime/clannad", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			recorder := httptest.NewRecorder()
			testAPI.container.ServeHTTP(recorder, req)

			if recorder.Code != tt.status {
				t.Fatalf("Expected status %d, got %d: %s", tt.status, recorder.Code, recorder.Body.String())
			}

			var body map[string]any
			if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
				t.Fatalf("Failed to parse response: %v", err)
			}
			if tt.status == http.StatusOK {
				if body["Name"] != "Clannad" || body["MAL_ID"] != float64(2167) {
					t.Errorf("Unexpected row: %v", body)
				}
				return
			}
			if detail, _ := body["detail"].(string); detail == "" {
				t.Errorf("Expected detail message, got %v", body)
			}
		})
	}
}

func TestAPI_Genres(t *testing.T) {
	testAPI := setupTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/genres", nil)
	recorder := httptest.NewRecorder()
	testAPI.container.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", recorder.Code)
	}

	var genres []string
	if err := json.Unmarshal(recorder.Body.Bytes(), &genres); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(genres) == 0 || genres[0] != "Action" {
		t.Errorf("Expected sorted genres starting with Action, got %v", genres)
	}
}

func TestAPI_ClearCache(t *testing.T) {
	testAPI := setupTestAPI(t)
	if testAPI.lru.Len() == 0 {
		t.Fatal("Expected indexing to populate the cache")
	}

	recorder := postJSON(t, testAPI.container, "/api/admin/cache/clear", ``)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	if testAPI.lru.Len() != 0 {
		t.Errorf("Expected empty cache, got %d entries", testAPI.lru.Len())
	}

	handler := api.NewHandler(stubRecommender{}, staticCatalog{}, staticCatalog{}, nil, testLogger())
	recorder = postJSON(t, api.NewContainer(handler), "/api/admin/cache/clear", ``)
	if recorder.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 without cache, got %d", recorder.Code)
	}
}

func TestAPI_OpenAPIDocument(t *testing.T) {
	testAPI := setupTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, api.OpenAPIPath, nil)
	recorder := httptest.NewRecorder()
	testAPI.container.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "/api/anime") {
		t.Error("Expected /api/anime in the OpenAPI document")
	}
}

func TestAPI_CORSPreflight(t *testing.T) {
	testAPI := setupTestAPI(t)
	handler := api.WithCORS(testAPI.container, []string{"http://localhost:5173"})

	req := httptest.NewRequest(http.MethodOptions, "/api/anime", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	if got := recorder.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Expected allowed origin, got %q", got)
	}
	if got := recorder.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("Expected credentials allowed, got %q", got)
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/anime", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	if got := recorder.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Expected foreign origin to be rejected, got %q", got)
	}
}
