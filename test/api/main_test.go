//go:build integration

package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"
)

var (
	baseURL    = envOr("API_URL", "http://localhost:8080")
	apiURL     = baseURL + "/api/v1"
	adminToken string
	client     = &http.Client{Timeout: 10 * time.Second}
)

// APIResponse mirrors the envelope every endpoint returns
type APIResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Kind    string          `json:"kind,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type TestResponse struct {
	Code    int
	Status  string
	Message string
	Kind    string
	Data    map[string]interface{}
	RawData string
	Header  http.Header
}

func (r TestResponse) IsSuccess() bool {
	return r.Status == "success"
}

func (r TestResponse) GetString(key string) string {
	if v, ok := r.Data[key].(string); ok {
		return v
	}
	return ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func checkAPIServer() error {
	resp, err := client.Get(baseURL + "/health/live")
	if err != nil {
		return fmt.Errorf("API server not reachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API server not healthy: HTTP %d", resp.StatusCode)
	}
	return nil
}

func TestMain(m *testing.M) {
	const maxRetries = 5
	for i := 0; i < maxRetries; i++ {
		err := checkAPIServer()
		if err == nil {
			break
		}
		if i == maxRetries-1 {
			fmt.Printf("Error: %v\nMake sure the API server is running at %s\n", err, baseURL)
			os.Exit(1)
		}
		fmt.Printf("Waiting for API server (attempt %d/%d)...\n", i+1, maxRetries)
		time.Sleep(2 * time.Second)
	}

	// Admin accounts are seeded out of band; admin flows are skipped without one.
	if email, password := os.Getenv("PORTAL_TEST_ADMIN_EMAIL"), os.Getenv("PORTAL_TEST_ADMIN_PASSWORD"); email != "" {
		resp := makeRequest(http.MethodPost, "/auth/login", map[string]string{
			"email":    email,
			"password": password,
		}, "")
		if !resp.IsSuccess() {
			fmt.Printf("Failed to log in as admin: %s\n", resp.Message)
			os.Exit(1)
		}
		adminToken = resp.GetString("access_token")
	}

	os.Exit(m.Run())
}

func makeRequest(method, path string, body interface{}, token string) TestResponse {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return TestResponse{Status: "error", Message: err.Error()}
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, apiURL+path, reader)
	if err != nil {
		return TestResponse{Status: "error", Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := client.Do(req)
	if err != nil {
		return TestResponse{Status: "error", Message: err.Error()}
	}
	defer response.Body.Close()

	respBody, err := io.ReadAll(response.Body)
	if err != nil {
		return TestResponse{Code: response.StatusCode, Status: "error", Message: err.Error()}
	}

	out := TestResponse{Code: response.StatusCode, Header: response.Header}
	if len(respBody) == 0 {
		return out
	}

	var apiResp APIResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		out.Status = "error"
		out.Message = fmt.Sprintf("failed to parse response: %v\nraw response: %s", err, respBody)
		return out
	}
	out.Status = apiResp.Status
	out.Message = apiResp.Message
	out.Kind = apiResp.Kind
	out.RawData = string(apiResp.Data)
	if len(apiResp.Data) > 0 {
		var data map[string]interface{}
		if err := json.Unmarshal(apiResp.Data, &data); err == nil {
			out.Data = data
		}
	}
	return out
}
