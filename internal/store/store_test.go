package store

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

type payload struct {
	Name  string   `json:"name"`
	Score int      `json:"score"`
	Tags  []string `json:"tags"`
}

func TestSQLiteRoundTrip(t *testing.T) {
	st, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer st.Close()
	ctx := context.Background()

	in := []payload{{Name: "a", Score: 1, Tags: []string{"x"}}, {Name: "b", Score: 2}}
	if err := st.SaveBlob(ctx, KeyLeaderboard, in); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	var out []payload
	if err := st.LoadBlob(ctx, KeyLeaderboard, &out); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch: in=%+v out=%+v", in, out)
	}
}

func TestSQLiteFullReplace(t *testing.T) {
	st, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer st.Close()
	ctx := context.Background()

	if err := st.SaveBlob(ctx, KeyImagePool, payload{Name: "old"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := st.SaveBlob(ctx, KeyImagePool, payload{Name: "new"}); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	var out payload
	if err := st.LoadBlob(ctx, KeyImagePool, &out); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if out.Name != "new" {
		t.Fatalf("save did not replace the blob: %+v", out)
	}
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	st, err := Open(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if err := st.SaveBlob(ctx, KeyLeaderboard, payload{Name: "durable"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	st, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer st.Close()
	var out payload
	if err := st.LoadBlob(ctx, KeyLeaderboard, &out); err != nil {
		t.Fatalf("load after reopen failed: %v", err)
	}
	if out.Name != "durable" {
		t.Fatalf("blob lost across reopen: %+v", out)
	}
}

func TestSQLiteNotFound(t *testing.T) {
	st, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer st.Close()

	var out payload
	if err := st.LoadBlob(context.Background(), "never-saved", &out); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	in := payload{Name: "mem", Score: 9}
	if err := m.SaveBlob(ctx, KeyImagePool, in); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	var out payload
	if err := m.LoadBlob(ctx, KeyImagePool, &out); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch: %+v vs %+v", in, out)
	}

	if err := m.LoadBlob(ctx, "missing", &out); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryFailSaves(t *testing.T) {
	m := NewMemory()
	m.FailSaves = true

	err := m.SaveBlob(context.Background(), KeyImagePool, payload{})
	var se *StorageError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StorageError, got %v", err)
	}
	if se.Key != KeyImagePool || se.Op != "save" {
		t.Fatalf("wrong error context: %+v", se)
	}
}
