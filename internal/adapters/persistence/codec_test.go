package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/example/shiftlog/internal/adapters/memory"
	"github.com/example/shiftlog/internal/models"
)

func TestCodec_Read(t *testing.T) {
	tests := []struct {
		name   string
		stored *string
		wantOK bool
	}{
		{name: "missing key", stored: nil, wantOK: false},
		{name: "malformed json", stored: ptr(`{"v":3,"requests":[`), wantOK: false},
		{name: "literal null", stored: ptr("null"), wantOK: false},
		{name: "empty value", stored: ptr("  "), wantOK: false},
		{name: "wrong shape", stored: ptr(`[1,2,3]`), wantOK: false},
		{name: "valid document", stored: ptr(`{"v":3,"requests":[]}`), wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewKVStore()
			if tt.stored != nil {
				store.SetRaw("k", []byte(*tt.stored))
			}
			codec := NewCodec[models.State](store, nil, nil)

			_, ok := codec.Read(context.Background(), "k")
			if ok != tt.wantOK {
				t.Errorf("Read ok = %v, want %v", ok, tt.wantOK)
			}
		})
	}
}

func TestCodec_ReadMergesIntoSeed(t *testing.T) {
	store := memory.NewKVStore()
	store.SetRaw("settings", []byte(`{"ui":{"compact":true,"requestFields":{"desc":false}}}`))
	codec := NewCodec(store, models.DefaultSettings, nil)

	got, ok := codec.Read(context.Background(), "settings")
	if !ok {
		t.Fatal("expected settings to decode")
	}

	want := models.DefaultSettings()
	want.UI.Compact = true
	want.UI.RequestFields.Desc = false
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("merged settings mismatch (-want +got):\n%s", diff)
	}
}

func TestCodec_WriteRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKVStore()
	codec := NewCodec[models.State](store, nil, nil)

	s := models.DefaultState()
	s.Requests = append(s.Requests, models.Request{ID: "r1", Num: "12", Addr: "Main 1", T1: models.StringPtr("08:00")})

	if err := codec.Write(ctx, "data", s); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	got, ok := codec.Read(ctx, "data")
	if !ok {
		t.Fatal("expected stored state to decode")
	}
	if diff := cmp.Diff(s, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCodec_WriteFailure(t *testing.T) {
	store := memory.NewKVStore()
	boom := errors.New("quota exceeded")
	store.FailPuts("data", boom)
	codec := NewCodec[models.State](store, nil, nil)

	err := codec.Write(context.Background(), "data", models.DefaultState())
	if !errors.Is(err, boom) {
		t.Errorf("Write error = %v, want wrapped %v", err, boom)
	}
}

func ptr(s string) *string { return &s }
