package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erauner12/toolbridge-genai/internal/jsonrpc"
)

// gatewayStub is a fake tool gateway that records every tools/call it receives
type gatewayStub struct {
	server *httptest.Server
	calls  []jsonrpc.ToolCallParams
	body   string // raw JSON response returned to every call
}

func newGatewayStub(t *testing.T, body string) *gatewayStub {
	t.Helper()

	stub := &gatewayStub{body: body}
	stub.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req jsonrpc.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("gateway stub: invalid envelope: %v", err)
		}
		var params jsonrpc.ToolCallParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			t.Errorf("gateway stub: invalid params: %v", err)
		}
		stub.calls = append(stub.calls, params)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(stub.body))
	}))
	t.Cleanup(stub.server.Close)
	return stub
}

// postJSON sends a JSON body to the router and returns the recorder
func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(http.MethodPost, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decodeBody decodes the recorder body into a string map
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()

	var out map[string]string
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return out
}
