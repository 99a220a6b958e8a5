package main

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"strukscan/pkg/receipt"

	"github.com/gin-gonic/gin"
)

// helper to perform requests with auth token
func performRequest(r http.Handler, method, path string, body io.Reader, token string, contentType string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func setupTestServer(t *testing.T) *gin.Engine {
	// integration tests are opt-in. Set DB_DSN_TEST=1 and DB_DSN to run them.
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	gin.SetMode(gin.TestMode)
	jwtSecret = []byte("test-secret")
	scanner = receipt.NewPipeline(receipt.DefaultConfig())
	_ = os.Setenv("UPLOAD_BASE", t.TempDir())
	initDB()
	seedDB()
	r := gin.Default()
	setupRoutes(r)
	return r
}

func TestFullFlow(t *testing.T) {
	r := setupTestServer(t)

	// 1. Register user
	regBody, _ := json.Marshal(map[string]string{"username": "user1", "password": "pass01"})
	resp := performRequest(r, http.MethodPost, "/api/auth/register", bytes.NewBuffer(regBody), "", "application/json")
	if resp.Code != 200 && resp.Code != 409 {
		t.Fatalf("register failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 2. Login
	loginBody, _ := json.Marshal(map[string]string{"username": "user1", "password": "pass01"})
	resp = performRequest(r, http.MethodPost, "/api/auth/login", bytes.NewBuffer(loginBody), "", "application/json")
	if resp.Code != 200 {
		t.Fatalf("login failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var loginResp map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &loginResp)
	token, _ := loginResp["token"].(string)
	if token == "" {
		t.Fatalf("empty token in login response: %+v", loginResp)
	}

	// 3. Create profile
	profBody, _ := json.Marshal(map[string]string{"name": "User One", "email": "u1@example.com"})
	resp = performRequest(r, http.MethodPost, "/api/auth/profile", bytes.NewBuffer(profBody), token, "application/json")
	if resp.Code != 200 {
		t.Fatalf("create profile failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 4. Default categories were seeded at registration
	resp = performRequest(r, http.MethodGet, "/api/categories", nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("list categories failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var cats []map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &cats)
	if len(cats) == 0 {
		t.Fatal("expected seeded default categories")
	}

	// 5. Scan with a non-image payload reports a processing failure, not a crash
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	w, _ := mw.CreateFormFile("image", "bogus.jpg")
	_, _ = w.Write([]byte("NOT AN IMAGE"))
	_ = mw.Close()
	resp = performRequest(r, http.MethodPost, "/api/scan-receipt", buf, token, mw.FormDataContentType())
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for undecodable image got %d body=%s", resp.Code, resp.Body.String())
	}

	// 6. Scan without a file is a client error
	empty := &bytes.Buffer{}
	mw2 := multipart.NewWriter(empty)
	_ = mw2.Close()
	resp = performRequest(r, http.MethodPost, "/api/scan-receipt", empty, token, mw2.FormDataContentType())
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing image got %d", resp.Code)
	}

	// 7. Create transaction from a (pretend) parsed receipt
	txBody, _ := json.Marshal(map[string]any{
		"merchantName": "Toko Maju Jaya",
		"date":         "2024-02-01",
		"total":        30000,
		"confidence":   1.0,
		"items":        []map[string]any{{"name": "Kopi", "quantity": 2, "price": 15000}},
	})
	resp = performRequest(r, http.MethodPost, "/api/transactions", bytes.NewBuffer(txBody), token, "application/json")
	if resp.Code != 200 {
		t.Fatalf("create transaction failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 8. Invalid transaction is rejected with details
	badBody, _ := json.Marshal(map[string]any{"merchantName": "", "date": "01/02/2024", "total": 0})
	resp = performRequest(r, http.MethodPost, "/api/transactions", bytes.NewBuffer(badBody), token, "application/json")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid transaction got %d", resp.Code)
	}

	// 9. List transactions
	resp = performRequest(r, http.MethodGet, "/api/transactions", nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("list transactions failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 10. Unauthorized access to protected endpoint should be 401
	unauth := performRequest(r, http.MethodGet, "/api/transactions", nil, "", "")
	if unauth.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthorized list got %d", unauth.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	gin.SetMode(gin.TestMode)
	r := gin.Default()
	setupRoutes(r)
	resp := performRequest(r, http.MethodGet, "/api/health", nil, "", "")
	if resp.Code != 200 {
		t.Fatalf("health failed status=%d", resp.Code)
	}
}
