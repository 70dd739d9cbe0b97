//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/archon-research/stl/stl-lend/internal/domain/entity"
	"github.com/archon-research/stl/stl-lend/internal/testutil"
)

func TestTokenRepository_UpsertAndList(t *testing.T) {
	db := testutil.SetupPostgres(t)
	ctx := context.Background()

	repo, err := NewTokenRepository(db, 31337, testutil.DiscardLogger(), 2)
	if err != nil {
		t.Fatalf("NewTokenRepository: %v", err)
	}
	other, _ := NewTokenRepository(db, 1, testutil.DiscardLogger(), 0)

	tokens := []*entity.Token{
		{ChainID: 31337, Address: "0xAAA", Symbol: "AAA", Decimals: 18},
		{ChainID: 31337, Address: "0xBBB", Symbol: "BBB", Decimals: 6},
		{ChainID: 31337, Address: "0xCCC", Symbol: "CCC", Decimals: 8},
	}
	if err := repo.UpsertTokens(ctx, tokens); err != nil {
		t.Fatalf("UpsertTokens: %v", err)
	}
	if err := other.UpsertTokens(ctx, []*entity.Token{{ChainID: 1, Address: "0xDDD", Symbol: "DDD"}}); err != nil {
		t.Fatalf("UpsertTokens other chain: %v", err)
	}

	got, err := repo.ListTokens(ctx)
	if err != nil {
		t.Fatalf("ListTokens: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("tokens = %d, want 3", len(got))
	}
	for i, want := range []string{"0xAAA", "0xBBB", "0xCCC"} {
		if got[i].Address != want || got[i].ChainID != 31337 {
			t.Errorf("token[%d] = %+v, want %s on 31337", i, got[i], want)
		}
	}

	// Upsert updates in place.
	if err := repo.UpsertTokens(ctx, []*entity.Token{{ChainID: 31337, Address: "0xBBB", Symbol: "BBB2", Name: "Bee", Decimals: 9}}); err != nil {
		t.Fatalf("second UpsertTokens: %v", err)
	}
	got, _ = repo.ListTokens(ctx)
	if len(got) != 3 {
		t.Fatalf("tokens after update = %d, want 3", len(got))
	}
	if got[1].Symbol != "BBB2" || got[1].Name != "Bee" || got[1].Decimals != 9 {
		t.Errorf("updated token = %+v", got[1])
	}
}

func TestTokenRepository_ListEmpty(t *testing.T) {
	db := testutil.SetupPostgres(t)
	repo, _ := NewTokenRepository(db, 31337, testutil.DiscardLogger(), 0)

	got, err := repo.ListTokens(context.Background())
	if err != nil {
		t.Fatalf("ListTokens: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("tokens = %v, want none", got)
	}
}

func TestInvocationRepository_Publish(t *testing.T) {
	db := testutil.SetupPostgres(t)
	ctx := context.Background()
	repo, err := NewInvocationRepository(db, testutil.DiscardLogger())
	if err != nil {
		t.Fatalf("NewInvocationRepository: %v", err)
	}

	event := entity.InvocationEvent{
		Operation:   entity.OperationBorrow,
		Network:     "localhost",
		ChainID:     31337,
		Pool:        "0xPOOL",
		TxHash:      "0x01",
		BlockNumber: 12,
		GasUsed:     21000,
		SubmittedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	if err := repo.Publish(ctx, event); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	// Same tx hash is ignored.
	if err := repo.Publish(ctx, event); err != nil {
		t.Fatalf("Publish duplicate: %v", err)
	}

	var (
		count       int
		operation   string
		blockNumber int64
		submittedAt time.Time
	)
	err = db.QueryRowContext(ctx,
		`SELECT count(*) OVER (), operation, block_number, submitted_at
		 FROM pool_invocation WHERE chain_id = $1 AND pool = $2`,
		31337, "0xPOOL").Scan(&count, &operation, &blockNumber, &submittedAt)
	if err != nil {
		t.Fatalf("query pool_invocation: %v", err)
	}
	if count != 1 {
		t.Fatalf("rows = %d, want 1", count)
	}
	if operation != string(entity.OperationBorrow) || blockNumber != 12 || !submittedAt.Equal(event.SubmittedAt) {
		t.Errorf("row = %s block %d at %v", operation, blockNumber, submittedAt)
	}
}
