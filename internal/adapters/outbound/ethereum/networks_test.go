package ethereum

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultRegistry(t *testing.T) {
	t.Setenv("LOCALHOST_RPC_URL", "")
	t.Setenv("SEPOLIA_RPC_URL", "")

	r := DefaultRegistry()
	n, ok := r.Lookup("localhost")
	if !ok {
		t.Fatal("localhost not registered")
	}
	if n.ChainID != 31337 {
		t.Errorf("localhost chain id = %d, want 31337", n.ChainID)
	}
	if n.RPCURL != "http://127.0.0.1:8545" {
		t.Errorf("localhost url = %s", n.RPCURL)
	}
	if _, ok := r.Lookup("sepolia"); ok {
		t.Error("sepolia should not be registered without SEPOLIA_RPC_URL")
	}
}

func TestDefaultRegistry_Sepolia(t *testing.T) {
	t.Setenv("SEPOLIA_RPC_URL", "https://sepolia.example")

	n, ok := DefaultRegistry().Lookup("sepolia")
	if !ok {
		t.Fatal("sepolia not registered")
	}
	if n.ChainID != 11155111 || n.RPCURL != "https://sepolia.example" {
		t.Errorf("sepolia = %+v", n)
	}
}

func TestLoadRegistry(t *testing.T) {
	t.Setenv("ANVIL_PORT", "9545")
	dir := t.TempDir()
	path := filepath.Join(dir, "networks.yaml")
	content := `networks:
  anvil:
    url: http://127.0.0.1:${ANVIL_PORT}
    chainId: 31337
  localhost:
    url: http://10.0.0.5:8545
    chainId: 31337
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	r, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}

	anvil, ok := r.Lookup("anvil")
	if !ok {
		t.Fatal("anvil not registered")
	}
	if anvil.RPCURL != "http://127.0.0.1:9545" {
		t.Errorf("anvil url = %s, want env-expanded url", anvil.RPCURL)
	}

	local, _ := r.Lookup("localhost")
	if local.RPCURL != "http://10.0.0.5:8545" {
		t.Errorf("file entry should override built-in localhost, got %s", local.RPCURL)
	}

	names := r.Names()
	if len(names) < 2 || names[0] != "anvil" {
		t.Errorf("Names() = %v, want sorted with anvil first", names)
	}
}

func TestLoadRegistry_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{name: "malformed yaml", content: "networks: [unterminated"},
		{name: "missing chain id", content: "networks:\n  dev:\n    url: http://127.0.0.1:8545\n"},
		{name: "missing url", content: "networks:\n  dev:\n    chainId: 5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadRegistry(path); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, err := LoadRegistry(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
