package mcp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// Server dispatches decoded JSON-RPC requests against a tool registry.
// It holds no per-request state: every request is handled as a pure
// function of (registry, request) and one response is written per line.
type Server struct {
	registry *Registry
	info     ServerInfo
	log      *logrus.Logger
}

// NewServer creates a dispatcher over the given registry.
func NewServer(info ServerInfo, registry *Registry, log *logrus.Logger) *Server {
	return &Server{
		registry: registry,
		info:     info,
		log:      log,
	}
}

// Registry returns the server's tool registry.
func (s *Server) Registry() *Registry {
	return s.registry
}

// Serve reads one request per line from r and writes one response per
// line to w. End of input (or a blank line) ends the session cleanly;
// no single request's failure ever terminates the loop.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			break
		}
		out, err := json.Marshal(s.HandleLine(line))
		if err != nil {
			// Response marshalling only fails on handler results that are
			// not JSON-encodable, which the storage layer never produces.
			s.log.WithError(err).Error("failed to encode response")
			continue
		}
		if _, err := w.Write(append(out, '\n')); err != nil {
			return fmt.Errorf("writing response: %w", err)
		}
	}
	return scanner.Err()
}

// HandleLine decodes a raw input line and dispatches it. Unparseable
// input yields a parse-error envelope with a null id.
func (s *Server) HandleLine(line []byte) Response {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		s.log.WithError(err).Warn("unparseable request line")
		return Response{
			JSONRPC: "2.0",
			ID:      nil,
			Error:   &RPCError{Code: CodeParseError, Message: "Parse error"},
		}
	}
	return s.HandleRequest(req)
}

// HandleRequest resolves the request method and produces its envelope.
func (s *Server) HandleRequest(req Request) Response {
	switch req.Method {
	case "initialize":
		return s.success(req.ID, map[string]any{
			"protocolVersion": ProtocolVersion,
			"capabilities": map[string]any{
				"tools":     map[string]any{},
				"resources": map[string]any{},
				"prompts":   map[string]any{},
			},
			"serverInfo": s.info,
		})
	case "tools/list":
		tools := s.registry.Tools()
		if tools == nil {
			tools = []Tool{}
		}
		return s.success(req.ID, map[string]any{"tools": tools})
	case "tools/call":
		return s.handleToolCall(req)
	case "resources/list":
		return s.success(req.ID, map[string]any{"resources": []any{}})
	case "prompts/list":
		return s.success(req.ID, map[string]any{"prompts": []any{}})
	default:
		return s.failure(req.ID, CodeMethodNotFound, fmt.Sprintf("Unknown method: %s", req.Method))
	}
}

func (s *Server) handleToolCall(req Request) Response {
	var params ToolCall
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return s.failure(req.ID, CodeInvalidParams, fmt.Sprintf("Invalid params: %v", err))
		}
	}
	if params.Arguments == nil {
		params.Arguments = map[string]any{}
	}

	handler, tool, ok := s.registry.Resolve(params.Name)
	if !ok {
		return s.failure(req.ID, CodeMethodNotFound, fmt.Sprintf("Unknown tool: %s", params.Name))
	}

	if err := ValidateArguments(tool, params.Arguments); err != nil {
		return s.failure(req.ID, CodeInvalidParams, fmt.Sprintf("Invalid params: %v", err))
	}

	result, err := s.invoke(handler, params.Arguments)
	if err != nil {
		s.log.WithFields(logrus.Fields{"tool": params.Name}).WithError(err).Error("tool call failed")
		return s.failure(req.ID, CodeInternalError, fmt.Sprintf("Internal error: %v", err))
	}

	text, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return s.failure(req.ID, CodeInternalError, fmt.Sprintf("Internal error: %v", err))
	}

	// Results always travel as a single text block of serialized data.
	return s.success(req.ID, ToolResult{
		Content: []ContentBlock{{Type: "text", Text: string(text)}},
	})
}

// invoke runs a handler, converting panics into ordinary errors so a
// faulty handler cannot take down the request loop.
func (s *Server) invoke(handler ToolHandler, args map[string]any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return handler(args)
}

func (s *Server) success(id, result any) Response {
	return Response{JSONRPC: "2.0", ID: id, Result: result}
}

func (s *Server) failure(id any, code int, message string) Response {
	return Response{JSONRPC: "2.0", ID: id, Error: &RPCError{Code: code, Message: message}}
}
