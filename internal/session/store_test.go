package session

import (
	"path/filepath"
	"testing"
)

func openTestStorage(t *testing.T, dir string) *SQLiteStorage {
	t.Helper()
	storage, err := NewSQLiteStorage(filepath.Join(dir, "session.db"))
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	t.Cleanup(func() { storage.Close() })
	return storage
}

func TestStorePersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	first := NewStore(openTestStorage(t, dir), nil)
	first.SetAuth("tok-abc", "owner@diner.test")

	second := NewStore(openTestStorage(t, dir), nil)
	snap := second.Snapshot()
	if snap.Token != "tok-abc" || snap.Email != "owner@diner.test" {
		t.Fatalf("restored snapshot = %+v", snap)
	}
	if !snap.LoggedIn() {
		t.Fatal("expected restored session to be logged in")
	}
}

func TestClearRemovesBothValuesAtOnce(t *testing.T) {
	dir := t.TempDir()
	storage := openTestStorage(t, dir)

	store := NewStore(storage, nil)
	store.SetAuth("tok", "user@diner.test")
	store.Clear()

	if snap := store.Snapshot(); snap.Token != "" || snap.Email != "" {
		t.Fatalf("snapshot after clear = %+v", snap)
	}
	if _, ok, _ := storage.Get("token"); ok {
		t.Fatal("token key should be deleted from storage")
	}
	if _, ok, _ := storage.Get("email"); ok {
		t.Fatal("email key should be deleted from storage")
	}

	// absence of the credential key means "logged out" on next start
	if NewStore(openTestStorage(t, dir), nil).Snapshot().LoggedIn() {
		t.Fatal("fresh store should be logged out after clear")
	}
}

func TestSubscribersSeeEveryMutation(t *testing.T) {
	store := NewStore(nil, nil)

	var seen []Snapshot
	store.Subscribe(func(snap Snapshot) { seen = append(seen, snap) })

	store.SetCredential("tok-1")
	store.SetIdentity("a@b.test")
	store.Clear()

	if len(seen) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(seen))
	}
	if seen[0].Token != "tok-1" || seen[0].Email != "" {
		t.Fatalf("first notification = %+v", seen[0])
	}
	if seen[1].Token != "tok-1" || seen[1].Email != "a@b.test" {
		t.Fatalf("second notification = %+v", seen[1])
	}
	if seen[2] != (Snapshot{}) {
		t.Fatalf("clear notification = %+v", seen[2])
	}
}

func TestSetAuthNotifiesOnce(t *testing.T) {
	store := NewStore(nil, nil)

	count := 0
	store.Subscribe(func(Snapshot) { count++ })
	store.SetAuth("tok", "user@diner.test")

	if count != 1 {
		t.Fatalf("SetAuth should notify exactly once, got %d", count)
	}
}
