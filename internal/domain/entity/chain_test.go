package entity

import "testing"

func TestNewNetwork(t *testing.T) {
	tests := []struct {
		name        string
		netName     string
		chainID     int64
		rpcURL      string
		wantErr     bool
		errContains string
	}{
		{
			name:    "valid local network",
			netName: "localhost",
			chainID: 31337,
			rpcURL:  "http://127.0.0.1:8545",
		},
		{
			name:    "valid sepolia network",
			netName: "sepolia",
			chainID: 11155111,
			rpcURL:  "https://rpc.sepolia.org",
		},
		{
			name:        "empty name",
			netName:     "",
			chainID:     1,
			rpcURL:      "http://127.0.0.1:8545",
			wantErr:     true,
			errContains: "network name must not be empty",
		},
		{
			name:        "zero chainID",
			netName:     "localhost",
			chainID:     0,
			rpcURL:      "http://127.0.0.1:8545",
			wantErr:     true,
			errContains: "chainID must be positive",
		},
		{
			name:        "missing rpc url",
			netName:     "sepolia",
			chainID:     11155111,
			wantErr:     true,
			errContains: "has no rpc url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewNetwork(tt.netName, tt.chainID, tt.rpcURL)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NewNetwork() expected error, got nil")
					return
				}
				if tt.errContains != "" && !contains(err.Error(), tt.errContains) {
					t.Errorf("NewNetwork() error = %v, want error containing %v", err, tt.errContains)
				}
				return
			}
			if err != nil {
				t.Errorf("NewNetwork() unexpected error = %v", err)
				return
			}
			if n.Name != tt.netName || n.ChainID != tt.chainID || n.RPCURL != tt.rpcURL {
				t.Errorf("NewNetwork() = %+v, want name=%s chainID=%d rpc=%s", n, tt.netName, tt.chainID, tt.rpcURL)
			}
		})
	}
}

func TestChainNameToID_DefaultNetwork(t *testing.T) {
	if got := ChainNameToID[DefaultNetwork]; got != 31337 {
		t.Errorf("ChainNameToID[%q] = %d, want 31337", DefaultNetwork, got)
	}
}
