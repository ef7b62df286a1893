// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

package build

import (
	"sync"

	"github.com/catalogforge/catalogforge/pkg/apprecord"
	"github.com/catalogforge/catalogforge/pkg/catalog"
)

// resultStore is one of the three shared, lock-guarded result stores
// (§5 "Shared state": "each is guarded by a single exclusive lock").
type resultStore struct {
	mu      sync.Mutex
	records []*apprecord.Record
}

// appendTask adds every record produced by one task in a single critical
// section, so contention is O(packages) rather than O(apps) (§5).
func (s *resultStore) appendTask(records []*apprecord.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
}

func (s *resultStore) snapshot() []*apprecord.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*apprecord.Record(nil), s.records...)
}

func (s *resultStore) replace(records []*apprecord.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
}

// stores groups the three result stores the Context coordinates (§2.6,
// §5).
type stores struct {
	primary resultStore
	failed  resultStore
	ignore  resultStore
}

func (s *stores) forStore(which catalog.Store) *resultStore {
	switch which {
	case catalog.StoreFailed:
		return &s.failed
	case catalog.StoreIgnore:
		return &s.ignore
	default:
		return &s.primary
	}
}
