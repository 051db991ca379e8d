package mcp

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testServer(t *testing.T) *Server {
	t.Helper()
	reg := NewRegistry()

	echo := Tool{
		Name:        "echo_rows",
		Description: "Echo a fixed row set",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"label": {Type: "string"},
				"limit": {Type: "integer"},
				"mode":  {Type: "string", Enum: []string{"fast", "slow"}, Default: "fast"},
			},
			Required: []string{"label"},
		},
	}
	require.NoError(t, reg.RegisterTool(echo, func(args map[string]any) (any, error) {
		return map[string]any{"rows": []any{args["label"]}, "total": 1}, nil
	}))

	failing := Tool{
		Name:        "always_fails",
		Description: "Fails on every call",
		InputSchema: InputSchema{Type: "object", Properties: map[string]Property{}},
	}
	require.NoError(t, reg.RegisterTool(failing, func(args map[string]any) (any, error) {
		return nil, errors.New("store unavailable")
	}))

	return NewServer(ServerInfo{Name: "test-server", Version: "0.0.1"}, reg, testLogger())
}

func roundTrip(t *testing.T, s *Server, raw string) map[string]any {
	t.Helper()
	out, err := json.Marshal(s.HandleLine([]byte(raw)))
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	return decoded
}

func errorCode(t *testing.T, resp map[string]any) int {
	t.Helper()
	errObj, ok := resp["error"].(map[string]any)
	require.True(t, ok, "expected error envelope, got %v", resp)
	return int(errObj["code"].(float64))
}

func TestParseErrorEnvelope(t *testing.T) {
	s := testServer(t)
	resp := roundTrip(t, s, "this is not json")

	assert.Equal(t, -32700, errorCode(t, resp))
	id, present := resp["id"]
	assert.True(t, present, "id must be present")
	assert.Nil(t, id)
	_, hasResult := resp["result"]
	assert.False(t, hasResult)
}

func TestUnknownMethod(t *testing.T) {
	s := testServer(t)
	resp := roundTrip(t, s, `{"method":"bogus/thing","id":7}`)

	assert.Equal(t, -32601, errorCode(t, resp))
	assert.Equal(t, float64(7), resp["id"])
	msg := resp["error"].(map[string]any)["message"].(string)
	assert.Contains(t, msg, "bogus/thing")
}

func TestUnknownTool(t *testing.T) {
	s := testServer(t)
	resp := roundTrip(t, s, `{"method":"tools/call","id":"a1","params":{"name":"nope","arguments":{}}}`)

	assert.Equal(t, -32601, errorCode(t, resp))
	assert.Equal(t, "a1", resp["id"])
	msg := resp["error"].(map[string]any)["message"].(string)
	assert.Contains(t, msg, "nope")
}

func TestUnknownArgumentRejected(t *testing.T) {
	s := testServer(t)
	resp := roundTrip(t, s, `{"method":"tools/call","id":1,"params":{"name":"echo_rows","arguments":{"label":"x","bogus":"y"}}}`)

	assert.Equal(t, -32602, errorCode(t, resp))
	msg := resp["error"].(map[string]any)["message"].(string)
	assert.Contains(t, msg, "bogus")
}

func TestMissingRequiredArgumentRejected(t *testing.T) {
	s := testServer(t)
	resp := roundTrip(t, s, `{"method":"tools/call","id":1,"params":{"name":"echo_rows","arguments":{"limit":3}}}`)

	assert.Equal(t, -32602, errorCode(t, resp))
	msg := resp["error"].(map[string]any)["message"].(string)
	assert.Contains(t, msg, "label")
}

func TestEnumViolationRejected(t *testing.T) {
	s := testServer(t)
	resp := roundTrip(t, s, `{"method":"tools/call","id":1,"params":{"name":"echo_rows","arguments":{"label":"x","mode":"warp"}}}`)

	assert.Equal(t, -32602, errorCode(t, resp))
}

func TestNonIntegerRejected(t *testing.T) {
	s := testServer(t)
	resp := roundTrip(t, s, `{"method":"tools/call","id":1,"params":{"name":"echo_rows","arguments":{"label":"x","limit":2.5}}}`)

	assert.Equal(t, -32602, errorCode(t, resp))
}

func TestSuccessfulCallWrapsTextContent(t *testing.T) {
	s := testServer(t)
	resp := roundTrip(t, s, `{"method":"tools/call","id":42,"params":{"name":"echo_rows","arguments":{"label":"hello"}}}`)

	assert.Equal(t, float64(42), resp["id"])
	result, ok := resp["result"].(map[string]any)
	require.True(t, ok, "expected success envelope, got %v", resp)

	content := result["content"].([]any)
	require.Len(t, content, 1)
	block := content[0].(map[string]any)
	assert.Equal(t, "text", block["type"])

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(block["text"].(string)), &payload))
	assert.Equal(t, float64(1), payload["total"])
}

func TestHandlerFailureBecomesInternalError(t *testing.T) {
	s := testServer(t)
	resp := roundTrip(t, s, `{"method":"tools/call","id":9,"params":{"name":"always_fails","arguments":{}}}`)

	assert.Equal(t, -32603, errorCode(t, resp))
	msg := resp["error"].(map[string]any)["message"].(string)
	assert.Contains(t, msg, "store unavailable")
	assert.Equal(t, float64(9), resp["id"])
}

func TestHandlerPanicIsCaught(t *testing.T) {
	reg := NewRegistry()
	tool := Tool{Name: "panics", InputSchema: InputSchema{Type: "object", Properties: map[string]Property{}}}
	require.NoError(t, reg.RegisterTool(tool, func(args map[string]any) (any, error) {
		panic("boom")
	}))
	s := NewServer(ServerInfo{Name: "t"}, reg, testLogger())

	resp := roundTrip(t, s, `{"method":"tools/call","params":{"name":"panics"}}`)
	assert.Equal(t, -32603, errorCode(t, resp))
}

func TestMissingParamsTreatedAsEmpty(t *testing.T) {
	s := testServer(t)
	// No params at all: resolution still happens, so the error is the
	// unknown empty tool name, not a parse failure.
	resp := roundTrip(t, s, `{"method":"tools/call","id":3}`)
	assert.Equal(t, -32601, errorCode(t, resp))
}

func TestInitialize(t *testing.T) {
	s := testServer(t)
	resp := roundTrip(t, s, `{"method":"initialize","id":1}`)

	result := resp["result"].(map[string]any)
	assert.Equal(t, "2024-11-05", result["protocolVersion"])
	info := result["serverInfo"].(map[string]any)
	assert.Equal(t, "test-server", info["name"])
	caps := result["capabilities"].(map[string]any)
	for _, key := range []string{"tools", "resources", "prompts"} {
		_, ok := caps[key]
		assert.True(t, ok, "capabilities missing %s", key)
	}
}

func TestToolsListPreservesRegistrationOrder(t *testing.T) {
	s := testServer(t)
	resp := roundTrip(t, s, `{"method":"tools/list","id":1}`)

	tools := resp["result"].(map[string]any)["tools"].([]any)
	require.Len(t, tools, 2)
	assert.Equal(t, "echo_rows", tools[0].(map[string]any)["name"])
	assert.Equal(t, "always_fails", tools[1].(map[string]any)["name"])
}

func TestResourcesAndPromptsAreEmpty(t *testing.T) {
	s := testServer(t)

	resp := roundTrip(t, s, `{"method":"resources/list","id":1}`)
	assert.Empty(t, resp["result"].(map[string]any)["resources"])

	resp = roundTrip(t, s, `{"method":"prompts/list","id":1}`)
	assert.Empty(t, resp["result"].(map[string]any)["prompts"])
}

func TestIdenticalRequestsYieldIdenticalResults(t *testing.T) {
	s := testServer(t)
	line := `{"method":"tools/call","id":1,"params":{"name":"echo_rows","arguments":{"label":"same"}}}`

	first, err := json.Marshal(s.HandleLine([]byte(line)))
	require.NoError(t, err)
	second, err := json.Marshal(s.HandleLine([]byte(line)))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestServeOneResponsePerLine(t *testing.T) {
	s := testServer(t)
	in := strings.NewReader(`{"method":"tools/list","id":1}` + "\n" + `not json` + "\n" + `{"method":"initialize","id":2}` + "\n")
	var out bytes.Buffer

	require.NoError(t, s.Serve(in, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)

	var second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, -32700, errorCode(t, second))

	// The loop survived the parse error and answered the next request.
	var third map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &third))
	_, ok := third["result"]
	assert.True(t, ok)
}
