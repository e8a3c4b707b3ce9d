// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package desk

import (
	"strconv"
)

// TargetKind is the kind of entity a destructive action removes.
type TargetKind int

const (
	TargetClient TargetKind = iota + 1
	TargetContract
)

// Target is a destructive action awaiting confirmation, with the texts
// that describe its cascade.
type Target struct {
	Kind    TargetKind
	ID      int
	Title   string
	Message string
}

// DeleteClientTarget describes deleting client id. The client's first
// name comes from the cache when present.
func DeleteClientTarget(cache *Cache, id int) Target {
	name := "this client"
	if client, ok := cache.ClientByID(id); ok && client.Fname != "" {
		name = client.Fname
	}
	return Target{
		Kind:    TargetClient,
		ID:      id,
		Title:   "Delete Client?",
		Message: "This will permanently delete " + name + " and all of their contracts and payments. This cannot be undone.",
	}
}

// DeleteContractTarget describes deleting contract id.
func DeleteContractTarget(id int) Target {
	return Target{
		Kind:    TargetContract,
		ID:      id,
		Title:   "Delete Contract?",
		Message: "This will permanently delete Contract #" + strconv.Itoa(id) + " and all of its payments. This cannot be undone.",
	}
}

// Gate holds at most one pending destructive action. A pending action
// leaves the gate through exactly one of Confirm or Cancel, or is
// displaced unexecuted by a later Request.
type Gate struct {
	pending *Target
}

// Request makes target the pending action, discarding any earlier
// one.
func (gate *Gate) Request(target Target) {
	gate.pending = &target
}

// Pending returns the pending action, if any.
func (gate *Gate) Pending() (Target, bool) {
	if gate.pending == nil {
		return Target{}, false
	}
	return *gate.pending, true
}

// Confirm returns the pending action and clears it. The second return
// is false when nothing was pending, and the caller must do nothing.
func (gate *Gate) Confirm() (Target, bool) {
	target, ok := gate.Pending()
	gate.pending = nil
	return target, ok
}

// Cancel discards the pending action. Reports whether one was pending.
func (gate *Gate) Cancel() bool {
	pending := gate.pending != nil
	gate.pending = nil
	return pending
}
