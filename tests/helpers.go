//go:build integration
// +build integration

package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"ventia-server/internal/observability"
	"ventia-server/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var (
	baseURL string
	logger  *observability.Logger
)

func init() {
	logger = observability.NewLogger()
	host := getEnv("TEST_API_HOST", "localhost")
	port := getEnv("TEST_API_PORT", "8080")
	baseURL = fmt.Sprintf("http://%s:%s", host, port)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// setupTestStore creates a connection to the test database
func setupTestStore(t *testing.T) store.Store {
	dbHost := getEnv("TEST_DB_HOST", "localhost")
	dbPort := getEnv("TEST_DB_PORT", "5432")
	dbUser := getEnv("TEST_DB_USER", "ventia_user")
	dbPass := getEnv("TEST_DB_PASS", "ventia_password")
	dbName := getEnv("TEST_DB_NAME", "ventia_db")

	connectionString := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPass, dbHost, dbPort, dbName)

	testStore, err := store.New(connectionString, logger)
	require.NoError(t, err, "Failed to connect to test database")

	return testStore
}

// makeRequest performs an HTTP request and returns the response and body
func makeRequest(t *testing.T, method, path string, body interface{}, headers map[string]string) (*http.Response, []byte) {
	client := &http.Client{Timeout: 30 * time.Second}

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err, "Failed to marshal request body")
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+path, reqBody)
	require.NoError(t, err, "Failed to create request")

	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	require.NoError(t, err, "Failed to make request")
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "Failed to read response body")

	return resp, respBody
}

// makeAuthenticatedRequest performs an HTTP request with a Bearer token
func makeAuthenticatedRequest(t *testing.T, method, path string, body interface{}, token string) (*http.Response, []byte) {
	headers := map[string]string{}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return makeRequest(t, method, path, body, headers)
}

// parseJSONResponse unmarshals a JSON response into the provided interface
func parseJSONResponse(t *testing.T, body []byte, v interface{}) {
	require.NoError(t, json.Unmarshal(body, v), "Failed to parse JSON response: %s", string(body))
}

func generateTestEmail() string {
	return fmt.Sprintf("test-%s@example.com", uuid.New().String()[:8])
}

const testPassword = "Secreta1"

// createAuthenticatedTestUser registers a fresh user and returns a JWT for it
func createAuthenticatedTestUser(t *testing.T) string {
	email := generateTestEmail()

	registerReq := map[string]interface{}{
		"email":    email,
		"password": testPassword,
		"name":     "Usuario de Prueba",
	}
	resp, body := makeRequest(t, http.MethodPost, "/api/auth/register", registerReq, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, "Failed to register test user: %s", string(body))

	loginReq := map[string]interface{}{
		"email":    email,
		"password": testPassword,
	}
	resp, body = makeRequest(t, http.MethodPost, "/api/auth/login", loginReq, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, "Failed to log in test user: %s", string(body))

	var loginResp struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}
	parseJSONResponse(t, body, &loginResp)
	require.NotEmpty(t, loginResp.Token, "Expected a JWT in the login response")

	return loginResp.Token
}
