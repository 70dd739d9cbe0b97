package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/archon-research/stl/stl-lend/internal/domain/entity"
)

func TestTokenSource_ListReturnsCopy(t *testing.T) {
	src := NewTokenSource(entity.Token{Address: "0xAAA"}, entity.Token{Address: "0xBBB"})

	got, err := src.ListTokens(context.Background())
	if err != nil {
		t.Fatalf("ListTokens: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("tokens = %d, want 2", len(got))
	}
	got[0].Address = "mutated"

	again, _ := src.ListTokens(context.Background())
	if again[0].Address != "0xAAA" {
		t.Error("ListTokens exposed internal slice")
	}
}

func TestTokenSource_Empty(t *testing.T) {
	got, err := NewTokenSource().ListTokens(context.Background())
	if err != nil || len(got) != 0 {
		t.Errorf("ListTokens = %v, %v; want empty", got, err)
	}
}

func TestTokenSource_Upsert(t *testing.T) {
	src := NewTokenSource(entity.Token{ChainID: 1, Address: "0xAAA", Symbol: "OLD"})

	err := src.UpsertTokens(context.Background(), []*entity.Token{
		{ChainID: 1, Address: "0xAAA", Symbol: "NEW"},
		{ChainID: 1, Address: "0xBBB", Symbol: "BBB"},
		{ChainID: 2, Address: "0xAAA", Symbol: "OTHER"},
		nil,
	})
	if err != nil {
		t.Fatalf("UpsertTokens: %v", err)
	}

	got, _ := src.ListTokens(context.Background())
	if len(got) != 3 {
		t.Fatalf("tokens = %d, want 3", len(got))
	}
	if got[0].Symbol != "NEW" {
		t.Errorf("token 0 symbol = %q, want NEW", got[0].Symbol)
	}
}

func TestEventSink(t *testing.T) {
	sink := NewEventSink()
	ctx := context.Background()

	var seen int
	sink.SetOnPublish(func(entity.InvocationEvent) { seen++ })

	events := []entity.InvocationEvent{
		{Operation: entity.OperationBorrow, TxHash: "0x01"},
		{Operation: entity.OperationRequestWithdraw, TxHash: "0x02"},
		{Operation: entity.OperationBorrow, TxHash: "0x03"},
	}
	for _, e := range events {
		if err := sink.Publish(ctx, e); err != nil {
			t.Fatalf("Publish: %v", err)
		}
	}

	if got := len(sink.Events()); got != 3 {
		t.Errorf("events = %d, want 3", got)
	}
	if got := len(sink.EventsFor(entity.OperationBorrow)); got != 2 {
		t.Errorf("borrow events = %d, want 2", got)
	}
	if seen != 3 {
		t.Errorf("callback ran %d times, want 3", seen)
	}

	sink.Clear()
	if got := len(sink.Events()); got != 0 {
		t.Errorf("events after Clear = %d, want 0", got)
	}

	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := sink.Publish(ctx, events[0]); !errors.Is(err, ErrSinkClosed) {
		t.Errorf("Publish after close = %v, want ErrSinkClosed", err)
	}
}
