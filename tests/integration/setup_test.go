package integration

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"

	"tally/internal/handlers"
	"tally/internal/logger"
	"tally/internal/store"
	"tally/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	Store  *store.Store
	Router *gin.Engine
}

// userCounter keeps registered usernames unique across a test binary.
var userCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupApp creates a full application stack backed by a temp-dir ledger file.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "ledger.json"))
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	return &testApp{Store: st, Router: handlers.NewRouter(st)}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// requestRaw makes a request with an arbitrary body and content type.
func (app *testApp) requestRaw(method, path, body, contentType, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a fresh user and returns the token and user ID.
func (app *testApp) registerUser(t *testing.T) (token string, userID float64) {
	t.Helper()
	username := fmt.Sprintf("user%d", userCounter.Add(1))
	body := fmt.Sprintf(`{"username":%q,"password":"password123"}`, username)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != 201 {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["token"].(string), user["id"].(float64)
}

// accountIDByName resolves a seeded account id from the accounts listing.
func (app *testApp) accountIDByName(t *testing.T, token, name string) float64 {
	t.Helper()
	rec := app.request("GET", "/api/v1/accounts", "", token)
	if rec.Code != 200 {
		t.Fatalf("list accounts failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	for _, raw := range result["accounts"].([]interface{}) {
		account := raw.(map[string]interface{})
		if account["name"] == name {
			return account["id"].(float64)
		}
	}
	t.Fatalf("account %s not found in %s", name, rec.Body.String())
	return 0
}

// accountBalance reads an account's balance from the accounts listing.
func (app *testApp) accountBalance(t *testing.T, token string, id float64) float64 {
	t.Helper()
	rec := app.request("GET", "/api/v1/accounts", "", token)
	if rec.Code != 200 {
		t.Fatalf("list accounts failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	for _, raw := range result["accounts"].([]interface{}) {
		account := raw.(map[string]interface{})
		if account["id"] == id {
			return account["balance"].(float64)
		}
	}
	t.Fatalf("account %v not found in %s", id, rec.Body.String())
	return 0
}
