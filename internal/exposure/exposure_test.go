package exposure

import (
	"context"
	"encoding/json"
	"testing"
)

// memBlobs is an in-memory store.BlobStore for tests.
type memBlobs struct {
	data map[string][]byte
	puts int
}

func newMemBlobs() *memBlobs {
	return &memBlobs{data: make(map[string][]byte)}
}

func (m *memBlobs) Get(_ context.Context, key string) ([]byte, error) {
	return m.data[key], nil
}

func (m *memBlobs) Put(_ context.Context, key string, value []byte) error {
	m.puts++
	m.data[key] = value
	return nil
}

func (m *memBlobs) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func TestGet_UnknownID(t *testing.T) {
	tr := New(newMemBlobs())
	if got := tr.Get(context.Background(), "q1"); got != 0 {
		t.Errorf("Get(q1) = %d, want 0", got)
	}
}

func TestRecordView_Monotonic(t *testing.T) {
	tr := New(newMemBlobs())
	ctx := context.Background()

	const k = 5
	for range k {
		if err := tr.RecordView(ctx, "q1"); err != nil {
			t.Fatalf("RecordView: %v", err)
		}
	}
	if got := tr.Get(ctx, "q1"); got != k {
		t.Errorf("Get(q1) = %d, want %d", got, k)
	}
	if got := tr.Get(ctx, "q2"); got != 0 {
		t.Errorf("Get(q2) = %d, want 0", got)
	}
}

func TestRecordView_FlushesEveryIncrement(t *testing.T) {
	blobs := newMemBlobs()
	tr := New(blobs)
	ctx := context.Background()

	for range 3 {
		if err := tr.RecordView(ctx, "q1"); err != nil {
			t.Fatalf("RecordView: %v", err)
		}
	}
	if blobs.puts != 3 {
		t.Errorf("puts = %d, want 3", blobs.puts)
	}

	var persisted map[string]int
	if err := json.Unmarshal(blobs.data["exposure"], &persisted); err != nil {
		t.Fatalf("unmarshal persisted blob: %v", err)
	}
	if persisted["q1"] != 3 {
		t.Errorf("persisted[q1] = %d, want 3", persisted["q1"])
	}
}

func TestLoad_SurvivesReopen(t *testing.T) {
	blobs := newMemBlobs()
	ctx := context.Background()

	tr := New(blobs)
	_ = tr.RecordView(ctx, "q1")
	_ = tr.RecordView(ctx, "q1")

	// A fresh tracker over the same store sees the counts.
	tr2 := New(blobs)
	if got := tr2.Get(ctx, "q1"); got != 2 {
		t.Errorf("Get(q1) after reload = %d, want 2", got)
	}
}

func TestLoad_CorruptBlob(t *testing.T) {
	blobs := newMemBlobs()
	blobs.data["exposure"] = []byte("not json")

	tr := New(blobs)
	if got := tr.Get(context.Background(), "q1"); got != 0 {
		t.Errorf("Get(q1) with corrupt blob = %d, want 0", got)
	}
}

func TestReset(t *testing.T) {
	blobs := newMemBlobs()
	ctx := context.Background()

	tr := New(blobs)
	_ = tr.RecordView(ctx, "q1")
	if err := tr.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if got := tr.Get(ctx, "q1"); got != 0 {
		t.Errorf("Get(q1) after reset = %d, want 0", got)
	}
	if _, ok := blobs.data["exposure"]; ok {
		t.Error("exposure blob still present after reset")
	}
}
