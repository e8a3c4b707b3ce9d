// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package desk

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/bureau-foundation/realty/lib/realtyapi"
)

// Source supplies the three reference collections. *realtyapi.Client
// implements it.
type Source interface {
	Clients(ctx context.Context) ([]realtyapi.ClientRecord, error)
	Agents(ctx context.Context) ([]realtyapi.AgentRecord, error)
	Contracts(ctx context.Context) ([]realtyapi.ContractRecord, error)
}

// Snapshot is one complete read of the reference collections.
type Snapshot struct {
	Clients   []realtyapi.ClientRecord
	Agents    []realtyapi.AgentRecord
	Contracts []realtyapi.ContractRecord
}

// Fetch reads all three collections concurrently. Either every read
// succeeds and the snapshot is complete, or Fetch returns the first
// error and a zero Snapshot; the other reads are cancelled.
func Fetch(ctx context.Context, source Source) (Snapshot, error) {
	group, groupContext := errgroup.WithContext(ctx)

	var clients []realtyapi.ClientRecord
	var agents []realtyapi.AgentRecord
	var contracts []realtyapi.ContractRecord

	group.Go(func() error {
		var err error
		clients, err = source.Clients(groupContext)
		if err != nil {
			return fmt.Errorf("fetching clients: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		var err error
		agents, err = source.Agents(groupContext)
		if err != nil {
			return fmt.Errorf("fetching agents: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		var err error
		contracts, err = source.Contracts(groupContext)
		if err != nil {
			return fmt.Errorf("fetching contracts: %w", err)
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Clients: clients, Agents: agents, Contracts: contracts}, nil
}

// Cache is the in-memory reference data. The zero value is an empty,
// unloaded cache. Accessors return the stored slices; callers must not
// modify them.
type Cache struct {
	snapshot Snapshot
	loaded   bool
}

// Replace swaps in a complete snapshot.
func (cache *Cache) Replace(snapshot Snapshot) {
	cache.snapshot = snapshot
	cache.loaded = true
}

// Reset empties the cache and marks it unloaded. Called on logout.
func (cache *Cache) Reset() {
	cache.snapshot = Snapshot{}
	cache.loaded = false
}

// Loaded reports whether a snapshot has been stored since the last
// Reset.
func (cache *Cache) Loaded() bool { return cache.loaded }

// Clients returns the cached clients.
func (cache *Cache) Clients() []realtyapi.ClientRecord { return cache.snapshot.Clients }

// Agents returns the cached agents.
func (cache *Cache) Agents() []realtyapi.AgentRecord { return cache.snapshot.Agents }

// Contracts returns the cached contracts.
func (cache *Cache) Contracts() []realtyapi.ContractRecord { return cache.snapshot.Contracts }

// ClientByID returns the cached client with the given ID.
func (cache *Cache) ClientByID(id int) (realtyapi.ClientRecord, bool) {
	for _, client := range cache.snapshot.Clients {
		if client.ClientID == id {
			return client, true
		}
	}
	return realtyapi.ClientRecord{}, false
}

// ContractByID returns the cached contract with the given ID.
func (cache *Cache) ContractByID(id int) (realtyapi.ContractRecord, bool) {
	for _, contract := range cache.snapshot.Contracts {
		if contract.ContractID == id {
			return contract, true
		}
	}
	return realtyapi.ContractRecord{}, false
}
