package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// JSONRPCRequest represents a JSON-RPC request.
type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	ID      json.RawMessage `json:"id"`
}

// RPCHandler answers one JSON-RPC method. Returning a non-nil error writes a JSON-RPC error.
type RPCHandler func(params json.RawMessage) (any, error)

// FakeNode is an httptest JSON-RPC server with per-method handlers.
// It records every request so tests can assert on the call sequence.
type FakeNode struct {
	*httptest.Server

	mu       sync.Mutex
	handlers map[string]RPCHandler
	requests []JSONRPCRequest
}

// StartFakeNode starts a node that answers eth_chainId with chainID.
// Further methods are registered with Handle. The server is closed on test cleanup.
func StartFakeNode(t *testing.T, chainID int64) *FakeNode {
	t.Helper()

	n := &FakeNode{handlers: make(map[string]RPCHandler)}
	n.Handle("eth_chainId", func(json.RawMessage) (any, error) {
		return fmt.Sprintf("0x%x", chainID), nil
	})
	n.Server = httptest.NewServer(http.HandlerFunc(n.serve))
	t.Cleanup(n.Close)
	return n
}

// Handle registers or replaces the handler for method.
func (n *FakeNode) Handle(method string, h RPCHandler) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handlers[method] = h
}

// Requests returns a copy of all requests received so far.
func (n *FakeNode) Requests() []JSONRPCRequest {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]JSONRPCRequest, len(n.requests))
	copy(out, n.requests)
	return out
}

// Count returns how many times method was called.
func (n *FakeNode) Count(method string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, r := range n.requests {
		if r.Method == method {
			c++
		}
	}
	return c
}

func (n *FakeNode) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	w.Header().Set("Content-Type", "application/json")

	var req JSONRPCRequest
	if err := json.Unmarshal(body, &req); err != nil {
		WriteRPCError(w, json.RawMessage(`1`), -32700, "parse error")
		return
	}

	n.mu.Lock()
	n.requests = append(n.requests, req)
	h, ok := n.handlers[req.Method]
	n.mu.Unlock()

	if !ok {
		WriteRPCError(w, req.ID, -32601, "method not found: "+req.Method)
		return
	}

	result, err := h(req.Params)
	if err != nil {
		WriteRPCError(w, req.ID, -32000, err.Error())
		return
	}
	resultJSON, _ := json.Marshal(result)
	WriteRPCResult(w, req.ID, json.RawMessage(resultJSON))
}

// WriteRPCResult writes a JSON-RPC success response.
func WriteRPCResult(w http.ResponseWriter, id, result json.RawMessage) {
	_ = json.NewEncoder(w).Encode(map[string]json.RawMessage{
		"jsonrpc": json.RawMessage(`"2.0"`),
		"id":      id,
		"result":  result,
	})
}

// WriteRPCError writes a JSON-RPC error response.
func WriteRPCError(w http.ResponseWriter, id json.RawMessage, code int, message string) {
	errJSON, _ := json.Marshal(map[string]interface{}{"code": code, "message": message})
	_ = json.NewEncoder(w).Encode(map[string]json.RawMessage{
		"jsonrpc": json.RawMessage(`"2.0"`),
		"id":      id,
		"error":   json.RawMessage(errJSON),
	})
}

// Receipt returns a minimal mined receipt in JSON-RPC form.
func Receipt(txHash string, blockNum int64) map[string]any {
	return map[string]any{
		"transactionHash":   txHash,
		"transactionIndex":  "0x0",
		"blockHash":         fmt.Sprintf("0x%064x", blockNum),
		"blockNumber":       fmt.Sprintf("0x%x", blockNum),
		"cumulativeGasUsed": "0x5208",
		"gasUsed":           "0x5208",
		"effectiveGasPrice": "0x3b9aca00",
		"contractAddress":   nil,
		"logs":              []any{},
		"logsBloom":         "0x" + strings.Repeat("0", 512),
		"status":            "0x1",
		"type":              "0x2",
	}
}

// BlockHeader returns a minimal block header in JSON-RPC form.
func BlockHeader(blockNum int64, baseFee string) map[string]string {
	timestamp := 1700000000 + blockNum*12
	return map[string]string{
		"parentHash":       fmt.Sprintf("0x%064x", blockNum-1),
		"sha3Uncles":       "0x1dcc4de8dec75d7aab85b567b6ccd41ad312451b948a7413f0a142fd40d49347",
		"miner":            "0x0000000000000000000000000000000000000000",
		"stateRoot":        "0x0000000000000000000000000000000000000000000000000000000000000000",
		"transactionsRoot": "0x56e81f171bcc55a6ff8345e692c0f86e5b48e01b996cadc001622fb5e363b421",
		"receiptsRoot":     "0x56e81f171bcc55a6ff8345e692c0f86e5b48e01b996cadc001622fb5e363b421",
		"logsBloom":        "0x" + strings.Repeat("0", 512),
		"difficulty":       "0x0",
		"number":           fmt.Sprintf("0x%x", blockNum),
		"gasLimit":         "0x1c9c380",
		"gasUsed":          "0x0",
		"timestamp":        fmt.Sprintf("0x%x", timestamp),
		"extraData":        "0x",
		"mixHash":          "0x0000000000000000000000000000000000000000000000000000000000000000",
		"nonce":            "0x0000000000000000",
		"baseFeePerGas":    baseFee,
	}
}
