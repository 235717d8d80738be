// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package state

// Filter drops calls whose results are already cached and fresh.
//
// Calls are walked in order. A call that invalidates state is always kept
// and its invalidated keys are treated as stale for the rest of the batch.
// A read-only call is kept if any key it produces is stale now or will be
// stale once the earlier calls of the batch have run. Read-only calls
// producing nothing are dropped. Duplicates are evaluated independently.
func (s *Store) Filter(calls []Call) ([]Call, error) {
	descriptors := make([]Descriptor, len(calls))
	for i, c := range calls {
		d, err := s.table.Descriptor(c.Method)
		if err != nil {
			return nil, err
		}
		descriptors[i] = d
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	willBeStale := make(map[Key]bool)
	kept := make([]Call, 0, len(calls))
	for i, c := range calls {
		d := descriptors[i]
		if len(d.Invalidates) > 0 {
			for _, k := range d.Invalidates {
				willBeStale[k] = true
			}
			kept = append(kept, c)
			continue
		}
		for _, k := range d.Produces {
			if !s.fresh[k] || willBeStale[k] {
				kept = append(kept, c)
				break
			}
		}
	}
	return kept, nil
}
