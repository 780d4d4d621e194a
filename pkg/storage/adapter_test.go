package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/singnet/walletkit-go/pkg/config"
)

func exerciseAdapter(t *testing.T, a Adapter) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := a.GetItem(ctx, "missing"); err != nil || ok {
		t.Fatalf("GetItem(missing) = ok %v, err %v", ok, err)
	}
	if err := a.SetItem(ctx, "k", "v1"); err != nil {
		t.Fatalf("SetItem: %v", err)
	}
	if err := a.SetItem(ctx, "k", "v2"); err != nil {
		t.Fatalf("SetItem overwrite: %v", err)
	}
	v, ok, err := a.GetItem(ctx, "k")
	if err != nil || !ok || v != "v2" {
		t.Fatalf("GetItem = %q, %v, %v; want v2", v, ok, err)
	}
	if err := a.RemoveItem(ctx, "k"); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if _, ok, _ := a.GetItem(ctx, "k"); ok {
		t.Fatal("item still present after RemoveItem")
	}
	if err := a.RemoveItem(ctx, "k"); err != nil {
		t.Fatalf("RemoveItem on absent key: %v", err)
	}
}

func TestMemoryAdapter(t *testing.T) {
	exerciseAdapter(t, NewMemoryAdapter())
}

func TestFileAdapter(t *testing.T) {
	exerciseAdapter(t, NewFileAdapter(filepath.Join(t.TempDir(), "nested", "store.json")))
}

func TestFileAdapterPersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	ctx := context.Background()

	if err := NewFileAdapter(path).SetItem(ctx, "metadata_1_a", `{"x":1}`); err != nil {
		t.Fatalf("SetItem: %v", err)
	}
	v, ok, err := NewFileAdapter(path).GetItem(ctx, "metadata_1_a")
	if err != nil || !ok {
		t.Fatalf("GetItem after reopen: ok %v err %v", ok, err)
	}
	if v != `{"x":1}` {
		t.Fatalf("got %q", v)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("tmp file left behind: %v", err)
	}
}

func TestFileAdapterCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, _, err := NewFileAdapter(path).GetItem(context.Background(), "k")
	if err == nil || !strings.Contains(err.Error(), "parse storage file") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestRedisAdapter(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	a := NewRedisAdapter(addr, os.Getenv("REDIS_PASSWORD"), 0, "walletkit-test:")
	defer a.Close()
	exerciseAdapter(t, a)
}

func TestNewAdapter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.json")
	tests := []struct {
		name    string
		cfg     config.Storage
		check   func(Adapter) bool
		wantErr bool
	}{
		{"file", config.Storage{Driver: config.StorageFile, Path: path}, func(a Adapter) bool {
			f, ok := a.(*FileAdapter)
			return ok && f.Path() == path
		}, false},
		{"empty driver is file", config.Storage{Path: path}, func(a Adapter) bool {
			_, ok := a.(*FileAdapter)
			return ok
		}, false},
		{"memory", config.Storage{Driver: config.StorageMemory}, func(a Adapter) bool {
			_, ok := a.(*MemoryAdapter)
			return ok
		}, false},
		{"redis", config.Storage{Driver: config.StorageRedis, RedisAddr: "127.0.0.1:6379"}, func(a Adapter) bool {
			r, ok := a.(*RedisAdapter)
			if ok {
				_ = r.Close()
			}
			return ok
		}, false},
		{"unknown", config.Storage{Driver: "s3"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewAdapter(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewAdapter: %v", err)
			}
			if !tt.check(a) {
				t.Fatalf("unexpected adapter %T", a)
			}
		})
	}
}
