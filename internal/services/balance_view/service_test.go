package balance_view

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/archon-research/stl/stl-lend/internal/domain/entity"
	"github.com/archon-research/stl/stl-lend/internal/testutil"
)

func tokens(addrs ...string) []entity.Token {
	out := make([]entity.Token, len(addrs))
	for i, a := range addrs {
		out[i] = entity.Token{Address: a}
	}
	return out
}

func TestNewService_RequiresSource(t *testing.T) {
	if _, err := NewService(nil, nil, nil); err == nil {
		t.Fatal("expected error for nil source")
	}
}

func TestBalances(t *testing.T) {
	tests := []struct {
		name     string
		tokens   []entity.Token
		listErr  error
		wantJSON string
	}{
		{name: "two tokens", tokens: tokens("0xAAA", "0xBBB"), wantJSON: `{"0xAAA":0,"0xBBB":0}`},
		{name: "nil list", tokens: nil, wantJSON: `{}`},
		{name: "empty list", tokens: []entity.Token{}, wantJSON: `{}`},
		{name: "duplicates collapse", tokens: tokens("0xAAA", "0xAAA"), wantJSON: `{"0xAAA":0}`},
		{name: "source failure", listErr: errors.New("db down"), wantJSON: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := &testutil.MockTokenSource{
				ListFn: func(context.Context) ([]entity.Token, error) {
					return tt.tokens, tt.listErr
				},
			}
			metrics := &testutil.MockMetrics{}
			svc, err := NewService(source, metrics, testutil.DiscardLogger())
			if err != nil {
				t.Fatalf("NewService: %v", err)
			}

			table := svc.Balances(context.Background())
			if table == nil {
				t.Fatal("table is nil")
			}
			got, err := json.Marshal(table)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(got) != tt.wantJSON {
				t.Errorf("balances = %s, want %s", got, tt.wantJSON)
			}
			if source.CallCount != 1 {
				t.Errorf("source calls = %d, want 1", source.CallCount)
			}
			if len(metrics.BalanceViews) != 1 || metrics.BalanceViews[0] != len(table) {
				t.Errorf("metrics = %v, want [%d]", metrics.BalanceViews, len(table))
			}
		})
	}
}

func TestBalances_FreshTablePerCall(t *testing.T) {
	source := &testutil.MockTokenSource{
		ListFn: func(context.Context) ([]entity.Token, error) {
			return tokens("0xAAA"), nil
		},
	}
	svc, _ := NewService(source, nil, testutil.DiscardLogger())

	first := svc.Balances(context.Background())
	first["0xAAA"].SetInt64(42)
	first["0xEXTRA"] = nil

	second := svc.Balances(context.Background())
	if len(second) != 1 || second["0xAAA"].Sign() != 0 {
		t.Errorf("second table = %v, want fresh zero table", second)
	}
}

func TestHealth(t *testing.T) {
	var fail bool
	source := &testutil.MockTokenSource{
		ListFn: func(context.Context) ([]entity.Token, error) {
			if fail {
				return nil, errors.New("unavailable")
			}
			return tokens("0xAAA"), nil
		},
	}
	svc, _ := NewService(source, nil, testutil.DiscardLogger())

	if !svc.IsHealthy() {
		t.Error("expected healthy before first request")
	}
	if !svc.IsReady() {
		t.Error("expected ready while source works")
	}

	fail = true
	svc.Balances(context.Background())
	if svc.IsHealthy() {
		t.Error("expected unhealthy after source failure")
	}
	if svc.IsReady() {
		t.Error("expected not ready while source fails")
	}

	fail = false
	svc.Balances(context.Background())
	if !svc.IsHealthy() {
		t.Error("expected healthy after recovery")
	}
}
