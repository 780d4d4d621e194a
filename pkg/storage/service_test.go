package storage

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/singnet/walletkit-go/pkg/metrics"
	"github.com/singnet/walletkit-go/pkg/model"
)

type fixedNetwork struct {
	id int64
	ok bool
}

func (f *fixedNetwork) CurrentNetworkID() (int64, bool) { return f.id, f.ok }

func TestCacheKey(t *testing.T) {
	net := &fixedNetwork{id: 137, ok: true}
	s := NewService(NewMemoryAdapter(), net, nil)

	got, err := s.CacheKey("profile")
	if err != nil {
		t.Fatalf("CacheKey: %v", err)
	}
	if got != "metadata_137_profile" {
		t.Fatalf("got %q", got)
	}

	net.ok = false
	if _, err := s.CacheKey("profile"); !errors.Is(err, model.ErrNoNetworkSelected) {
		t.Fatalf("expected ErrNoNetworkSelected, got %v", err)
	}
}

func TestStoreRetrieveRoundTrip(t *testing.T) {
	ctx := context.Background()
	adapter := NewMemoryAdapter()
	s := NewService(adapter, &fixedNetwork{id: 1, ok: true}, nil)

	type profile struct {
		Name string `json:"name"`
	}
	if err := s.StoreMetadata(ctx, "profile", profile{Name: "alice"}); err != nil {
		t.Fatalf("StoreMetadata: %v", err)
	}
	raw, ok, _ := adapter.GetItem(ctx, "metadata_1_profile")
	if !ok || raw != `{"name":"alice"}` {
		t.Fatalf("adapter holds %q (ok=%v)", raw, ok)
	}

	var got profile
	if err := s.RetrieveMetadata(ctx, "profile", &got); err != nil {
		t.Fatalf("RetrieveMetadata: %v", err)
	}
	if got.Name != "alice" {
		t.Fatalf("got %+v", got)
	}

	if err := s.RemoveMetadata(ctx, "profile"); err != nil {
		t.Fatalf("RemoveMetadata: %v", err)
	}
	if err := s.RetrieveMetadata(ctx, "profile", &got); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after remove, got %v", err)
	}
}

func TestMetadataIsNamespacedByNetwork(t *testing.T) {
	ctx := context.Background()
	net := &fixedNetwork{id: 1, ok: true}
	s := NewService(NewMemoryAdapter(), net, nil)

	if err := s.StoreMetadata(ctx, "k", "mainnet"); err != nil {
		t.Fatal(err)
	}
	net.id = 137
	var v string
	if err := s.RetrieveMetadata(ctx, "k", &v); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("value leaked across networks: %q, %v", v, err)
	}
	if err := s.StoreMetadata(ctx, "k", "polygon"); err != nil {
		t.Fatal(err)
	}
	net.id = 1
	if err := s.RetrieveMetadata(ctx, "k", &v); err != nil || v != "mainnet" {
		t.Fatalf("got %q, %v; want mainnet", v, err)
	}
}

func TestStoreWithoutNetwork(t *testing.T) {
	s := NewService(NewMemoryAdapter(), &fixedNetwork{}, nil)
	if err := s.StoreMetadata(context.Background(), "k", 1); !errors.Is(err, model.ErrNoNetworkSelected) {
		t.Fatalf("expected ErrNoNetworkSelected, got %v", err)
	}
}

func TestStoreUnencodableValue(t *testing.T) {
	s := NewService(NewMemoryAdapter(), &fixedNetwork{id: 1, ok: true}, nil)
	if err := s.StoreMetadata(context.Background(), "k", make(chan int)); err == nil {
		t.Fatal("expected encode error")
	}
}

func TestServiceRecordsMetrics(t *testing.T) {
	m := metrics.New()
	s := NewService(NewMemoryAdapter(), &fixedNetwork{id: 1, ok: true}, m)
	ctx := context.Background()

	_ = s.StoreMetadata(ctx, "k", 1)
	var out json.RawMessage
	_ = s.RetrieveMetadata(ctx, "missing", &out)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	for _, want := range []string{
		`walletkit_storage_operations_total{op="store",status="ok"} 1`,
		`walletkit_storage_operations_total{op="retrieve",status="error"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("missing %s in:\n%s", want, body)
		}
	}
}
