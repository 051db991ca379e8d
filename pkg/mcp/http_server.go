package mcp

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// HTTPServer exposes the same dispatcher over HTTP for clients that do
// not speak stdio. /rpc accepts full JSON-RPC bodies; /tools and
// /tools/call are convenience endpoints.
type HTTPServer struct {
	server *Server
	token  string
	log    *logrus.Logger
}

// NewHTTPServer creates a new HTTP server. An empty token disables
// authentication.
func NewHTTPServer(server *Server, token string, log *logrus.Logger) *HTTPServer {
	return &HTTPServer{
		server: server,
		token:  token,
		log:    log,
	}
}

// Handler builds the route table.
func (h *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/tools", h.authorized(h.handleListTools))
	mux.HandleFunc("/tools/call", h.authorized(h.handleToolCall))
	mux.HandleFunc("/rpc", h.authorized(h.handleRPC))
	return mux
}

// ListenAndServe starts the HTTP server on addr.
func (h *HTTPServer) ListenAndServe(addr string) error {
	h.log.Infof("MCP HTTP server listening on %s", addr)
	return http.ListenAndServe(addr, h.Handler())
}

// authorized enforces the static bearer token when one is configured.
func (h *HTTPServer) authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.token != "" && r.Header.Get("Authorization") != "Bearer "+h.token {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (h *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (h *HTTPServer) handleListTools(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"tools": h.server.Registry().Tools(),
	})
}

func (h *HTTPServer) handleToolCall(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	requestID := uuid.NewString()

	var call ToolCall
	if err := json.NewDecoder(r.Body).Decode(&call); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.log.WithFields(logrus.Fields{"request_id": requestID, "tool": call.Name}).Info("tool call")

	params, err := json.Marshal(call)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	resp := h.server.HandleRequest(Request{
		Method: "tools/call",
		ID:     requestID,
		Params: params,
	})

	w.Header().Set("Content-Type", "application/json")
	if resp.Error != nil {
		w.WriteHeader(httpStatusFor(resp.Error.Code))
	}
	json.NewEncoder(w).Encode(resp)
}

func (h *HTTPServer) handleRPC(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Response{
			JSONRPC: "2.0",
			ID:      nil,
			Error:   &RPCError{Code: CodeParseError, Message: "Parse error"},
		})
		return
	}

	h.log.WithFields(logrus.Fields{"request_id": uuid.NewString(), "method": req.Method}).Info("rpc request")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.server.HandleRequest(req))
}

func httpStatusFor(code int) int {
	switch code {
	case CodeMethodNotFound:
		return http.StatusNotFound
	case CodeInvalidParams, CodeParseError:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
