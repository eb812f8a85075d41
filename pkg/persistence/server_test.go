package persistence

import (
	"path/filepath"
	"testing"

	"github.com/zephyr-protocol/zephyr-go/pkg/subscription"
)

func TestServerStateStore(t *testing.T) {
	t.Run("SaveAndLoad", func(t *testing.T) {
		dir := t.TempDir()
		store := NewServerStateStoreInDir(dir)

		state := &ServerState{
			Realm:    "ATHENA.MIT.EDU",
			NextPort: 3,
			Ports: []PortRecord{
				{
					Port:      2,
					SessionID: "6f1c2a8e-2f4b-4d7a-9a55-3c0e5d8b7f10",
					Subscriptions: []SubscriptionRecord{
						RecordFromKey(subscription.KeyOf("message", "personal", "\xff@ATHENA.MIT.EDU")),
					},
				},
				{Port: 3, SessionID: "0b0d6b55-0c56-4a3f-8d3e-2a8f0fe3f0c1"},
			},
		}
		if err := store.Save(state); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		got, err := store.Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if got.Version != StateVersion || got.NextPort != 3 || got.Realm != "ATHENA.MIT.EDU" {
			t.Errorf("got %+v", got)
		}
		if len(got.Ports) != 2 {
			t.Fatalf("Ports = %d, want 2", len(got.Ports))
		}
		if got.Ports[0].SessionID != state.Ports[0].SessionID {
			t.Errorf("SessionID = %q", got.Ports[0].SessionID)
		}
		if len(got.Ports[0].Subscriptions) != 1 || len(got.Ports[1].Subscriptions) != 0 {
			t.Fatalf("Subscriptions = %+v / %+v", got.Ports[0].Subscriptions, got.Ports[1].Subscriptions)
		}
		if k := got.Ports[0].Subscriptions[0].Key(); k != state.Ports[0].Subscriptions[0].Key() {
			t.Errorf("Subscriptions[0] = %q", k)
		}
	})

	t.Run("LoadNonExistent", func(t *testing.T) {
		store := NewServerStateStore(filepath.Join(t.TempDir(), "none.json"))
		got, err := store.Load()
		if err != nil || got != nil {
			t.Errorf("Load() = %v, %v; want nil, nil", got, err)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		store := NewServerStateStoreInDir(t.TempDir())
		if err := store.Save(&ServerState{}); err != nil {
			t.Fatal(err)
		}
		if err := store.Clear(); err != nil {
			t.Fatalf("Clear() error = %v", err)
		}
		if err := store.Clear(); err != nil {
			t.Errorf("second Clear() error = %v", err)
		}
	})
}
