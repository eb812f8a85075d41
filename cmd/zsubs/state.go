package main

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/zephyr-protocol/zephyr-go/pkg/engine"
	"github.com/zephyr-protocol/zephyr-go/pkg/loopback"
	"github.com/zephyr-protocol/zephyr-go/pkg/persistence"
	"github.com/zephyr-protocol/zephyr-go/pkg/subscription"
)

// stateFromSnapshot converts a server snapshot for saving. Ports without
// subscriptions are dropped unless they are kept, so abandoned ports do not
// pile up across runs.
func stateFromSnapshot(realm string, snap loopback.Snapshot, kept uint16) *persistence.ServerState {
	st := &persistence.ServerState{Realm: realm, NextPort: snap.NextPort}
	for _, p := range snap.Ports {
		if len(p.Subscriptions) == 0 && p.Port != kept {
			continue
		}
		keys := make([]subscription.Key, len(p.Subscriptions))
		for i, t := range p.Subscriptions {
			keys[i] = subscription.FromTriple(t)
		}
		st.Ports = append(st.Ports, persistence.PortRecord{
			Port:          p.Port,
			SessionID:     p.SessionID.String(),
			Subscriptions: persistence.RecordsFromKeys(keys),
		})
	}
	return st
}

// snapshotFromState converts saved server state back to a snapshot.
func snapshotFromState(st *persistence.ServerState) (loopback.Snapshot, error) {
	snap := loopback.Snapshot{NextPort: st.NextPort}
	for _, r := range st.Ports {
		id, err := uuid.Parse(r.SessionID)
		if err != nil {
			return loopback.Snapshot{}, fmt.Errorf("port %d: %w", r.Port, err)
		}
		subs := make([]engine.Triple, len(r.Subscriptions))
		for i, rec := range r.Subscriptions {
			subs[i] = rec.Key().Triple()
		}
		snap.Ports = append(snap.Ports, loopback.PortSnapshot{Port: r.Port, SessionID: id, Subscriptions: subs})
	}
	return snap, nil
}
