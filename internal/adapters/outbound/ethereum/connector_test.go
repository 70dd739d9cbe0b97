package ethereum

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/archon-research/stl/stl-lend/internal/domain/entity"
	"github.com/archon-research/stl/stl-lend/internal/ports/outbound"
	"github.com/archon-research/stl/stl-lend/internal/testutil"
)

const testPool = "0x5FbDB2315678afecb367f032d93F642f64180aa3"

func newTestConnector(t *testing.T, node *testutil.FakeNode, chainID int64) *Connector {
	t.Helper()
	registry := &Registry{networks: map[string]entity.Network{}}
	registry.Add(entity.Network{Name: "localhost", ChainID: chainID, RPCURL: node.URL})

	cfg := ConfigDefaults()
	cfg.Networks = registry
	cfg.ReceiptPollInterval = 1
	cfg.RateLimit = 1000
	cfg.RateBurst = 100
	cfg.Logger = testutil.DiscardLogger()
	return NewConnector(cfg)
}

func TestConnector_Connect(t *testing.T) {
	node := testutil.StartFakeNode(t, 31337)
	c := newTestConnector(t, node, 31337)

	session, err := c.Connect(context.Background(), "localhost")
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer session.Close()

	if session.ChainID() != 31337 {
		t.Errorf("ChainID() = %d, want 31337", session.ChainID())
	}
	if node.Count("eth_chainId") != 1 {
		t.Errorf("expected 1 eth_chainId call, got %d", node.Count("eth_chainId"))
	}
}

func TestConnector_Connect_UnknownNetwork(t *testing.T) {
	node := testutil.StartFakeNode(t, 31337)
	c := newTestConnector(t, node, 31337)

	_, err := c.Connect(context.Background(), "goerli")
	if !errors.Is(err, outbound.ErrUnknownNetwork) {
		t.Fatalf("expected ErrUnknownNetwork, got %v", err)
	}
	if len(node.Requests()) != 0 {
		t.Errorf("expected no RPC traffic for unknown network, got %d requests", len(node.Requests()))
	}
}

func TestConnector_Connect_ChainIDMismatch(t *testing.T) {
	node := testutil.StartFakeNode(t, 1)
	c := newTestConnector(t, node, 31337)

	_, err := c.Connect(context.Background(), "localhost")
	if err == nil {
		t.Fatal("expected chain id mismatch error")
	}
	if !strings.Contains(err.Error(), "expected 31337") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestConnector_Connect_NodeError(t *testing.T) {
	node := testutil.StartFakeNode(t, 31337)
	node.Handle("eth_chainId", func(json.RawMessage) (any, error) {
		return nil, errors.New("node is syncing")
	})
	c := newTestConnector(t, node, 31337)

	_, err := c.Connect(context.Background(), "localhost")
	if err == nil || !strings.Contains(err.Error(), "node is syncing") {
		t.Fatalf("expected node error to propagate, got %v", err)
	}
}

func TestSession_GetContractAt(t *testing.T) {
	node := testutil.StartFakeNode(t, 31337)
	c := newTestConnector(t, node, 31337)
	session, err := c.Connect(context.Background(), "localhost")
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer session.Close()

	tests := []struct {
		name          string
		interfaceName string
		address       string
		wantErr       error
	}{
		{name: "lending pool", interfaceName: "LendingPool", address: testPool},
		{name: "unknown interface", interfaceName: "Vault", address: testPool, wantErr: outbound.ErrUnknownContract},
		{name: "short address", interfaceName: "LendingPool", address: "0xPOOL", wantErr: outbound.ErrInvalidAddress},
		{name: "empty address", interfaceName: "LendingPool", address: "", wantErr: outbound.ErrInvalidAddress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool, err := session.GetContractAt(context.Background(), tt.interfaceName, tt.address)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := pool.(*Pool).address.Hex()
			if !strings.EqualFold(got, tt.address) {
				t.Errorf("resolved address = %s, want %s", got, tt.address)
			}
		})
	}
}

func TestParsePrivateKey(t *testing.T) {
	const hexKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

	for _, in := range []string{hexKey, "0x" + hexKey} {
		key, err := ParsePrivateKey(in)
		if err != nil {
			t.Fatalf("ParsePrivateKey(%q): %v", in, err)
		}
		if key == nil {
			t.Fatal("nil key")
		}
	}
	if _, err := ParsePrivateKey("0xnothex"); err == nil {
		t.Error("expected error for malformed key")
	}
}
