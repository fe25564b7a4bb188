// -----------------------------------------------------------------------------
// Testing Helpers
// -----------------------------------------------------------------------------
// Request builders and response assertions for handler tests, plus a logger
// whose entries can be inspected.
//
//	res := th.NewTestRequest("POST", "/api/purchases").
//	    WithBearer(token).
//	    WithJSON(body).
//	    Send(router)
//
//	res.AssertStatus(t, http.StatusOK).
//	    AssertJSONPath(t, "title", "Success")
// -----------------------------------------------------------------------------

package testing

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/biyonik/cinema-ticket-service/pkg/logger"
)

// TestRequest is an HTTP test request builder.
type TestRequest struct {
	method     string
	url        string
	body       io.Reader
	headers    map[string]string
	remoteAddr string
}

func NewTestRequest(method, url string) *TestRequest {
	return &TestRequest{
		method:  method,
		url:     url,
		headers: make(map[string]string),
	}
}

// WithJSON marshals data as the request body.
func (r *TestRequest) WithJSON(data interface{}) *TestRequest {
	jsonData, err := json.Marshal(data)
	if err != nil {
		panic(err)
	}
	return r.WithBody(string(jsonData))
}

// WithBody sets a raw JSON body.
func (r *TestRequest) WithBody(body string) *TestRequest {
	r.body = strings.NewReader(body)
	r.headers["Content-Type"] = "application/json"
	return r
}

func (r *TestRequest) WithHeader(key, value string) *TestRequest {
	r.headers[key] = value
	return r
}

func (r *TestRequest) WithBearer(token string) *TestRequest {
	return r.WithHeader("Authorization", "Bearer "+token)
}

func (r *TestRequest) FromAddr(remoteAddr string) *TestRequest {
	r.remoteAddr = remoteAddr
	return r
}

// Send serves the request on handler.
func (r *TestRequest) Send(handler http.Handler) *TestResponse {
	req := httptest.NewRequest(r.method, r.url, r.body)
	for key, value := range r.headers {
		req.Header.Set(key, value)
	}
	if r.remoteAddr != "" {
		req.RemoteAddr = r.remoteAddr
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	return &TestResponse{recorder: w}
}

// TestResponse wraps the recorded response.
type TestResponse struct {
	recorder *httptest.ResponseRecorder
}

func (r *TestResponse) Code() int {
	return r.recorder.Code
}

func (r *TestResponse) Header() http.Header {
	return r.recorder.Header()
}

func (r *TestResponse) AssertStatus(t *testing.T, expectedStatus int) *TestResponse {
	t.Helper()
	if r.recorder.Code != expectedStatus {
		t.Errorf("Expected status %d, got %d (body: %s)", expectedStatus, r.recorder.Code, r.GetBody())
	}
	return r
}

func (r *TestResponse) AssertJSON(t *testing.T) *TestResponse {
	t.Helper()
	if contentType := r.recorder.Header().Get("Content-Type"); !strings.Contains(contentType, "application/json") {
		t.Errorf("Expected JSON response, got %s", contentType)
	}
	return r
}

// AssertJSONPath compares the value at a dotted path ("data.token").
// JSON numbers decode as float64.
func (r *TestResponse) AssertJSONPath(t *testing.T, path string, expected interface{}) *TestResponse {
	t.Helper()

	actual, ok := lookup(r.GetJSON(t), path)
	if !ok {
		t.Errorf("JSON path '%s' not found in %s", path, r.GetBody())
		return r
	}
	if !reflect.DeepEqual(actual, expected) {
		t.Errorf("Expected '%v' at path '%s', got '%v'", expected, path, actual)
	}
	return r
}

// AssertJSONPathExists fails when path is missing or null.
func (r *TestResponse) AssertJSONPathExists(t *testing.T, path string) *TestResponse {
	t.Helper()
	if actual, ok := lookup(r.GetJSON(t), path); !ok || actual == nil {
		t.Errorf("JSON path '%s' missing in %s", path, r.GetBody())
	}
	return r
}

func lookup(data map[string]interface{}, path string) (interface{}, bool) {
	var current interface{} = data
	for _, key := range strings.Split(path, ".") {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		if current, ok = m[key]; !ok {
			return nil, false
		}
	}
	return current, true
}

func (r *TestResponse) GetJSON(t *testing.T) map[string]interface{} {
	t.Helper()
	var data map[string]interface{}
	if err := json.Unmarshal(r.recorder.Body.Bytes(), &data); err != nil {
		t.Fatalf("Failed to parse JSON: %v (body: %s)", err, r.GetBody())
	}
	return data
}

func (r *TestResponse) GetBody() string {
	return r.recorder.Body.String()
}

// -----------------------------------------------------------------------------
// Logging
// -----------------------------------------------------------------------------

// NewObservedLogger returns a logger recording entries at level and above.
func NewObservedLogger(level zapcore.Level) (*logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return logger.NewFromCore(core), logs
}

// -----------------------------------------------------------------------------
// Assertions
// -----------------------------------------------------------------------------

func AssertEquals(t *testing.T, expected, actual interface{}) {
	t.Helper()
	if !reflect.DeepEqual(expected, actual) {
		t.Errorf("Expected %v, got %v", expected, actual)
	}
}

func AssertContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Errorf("Expected %q to contain %q", haystack, needle)
	}
}

func AssertTrue(t *testing.T, condition bool, message string) {
	t.Helper()
	if !condition {
		t.Error(message)
	}
}
