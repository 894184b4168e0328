package catalog

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Store holds all component records and provides indexed lookup. It is built
// once from a validated snapshot and is read-only for the process lifetime,
// so reads need no locking; only the per-filter list cache is guarded.
type Store struct {
	snapshot *Snapshot

	// Insertion-ordered records, backing List and the search index.
	records []*ComponentRecord

	byName  map[string]*ComponentRecord
	byLower map[string]*ComponentRecord
	byLayer map[int][]*ComponentRecord

	// virtualsByHost indexes virtual records under their host name.
	virtualsByHost map[string][]*ComponentRecord

	// List results cached per distinct layer filter - the catalog never
	// changes, so entries are computed at most once.
	listMu    sync.Mutex
	listCache map[int][]*ComponentRecord
}

// NewStore builds the index maps over a snapshot. Construction fails fast on
// duplicate names; all other structural invariants are checked at load time
// by Snapshot.Validate.
func NewStore(snap *Snapshot) (*Store, error) {
	s := &Store{
		snapshot:       snap,
		records:        make([]*ComponentRecord, 0, len(snap.Components)),
		byName:         make(map[string]*ComponentRecord, len(snap.Components)),
		byLower:        make(map[string]*ComponentRecord, len(snap.Components)),
		byLayer:        make(map[int][]*ComponentRecord),
		virtualsByHost: make(map[string][]*ComponentRecord),
		listCache:      make(map[int][]*ComponentRecord),
	}

	for i := range snap.Components {
		rec := &snap.Components[i]
		if _, exists := s.byName[rec.Name]; exists {
			return nil, fmt.Errorf("duplicate component name: %s", rec.Name)
		}
		s.records = append(s.records, rec)
		s.byName[rec.Name] = rec
		s.byLower[strings.ToLower(rec.Name)] = rec
		s.byLayer[rec.Layer] = append(s.byLayer[rec.Layer], rec)
		if rec.IsVirtual() {
			s.virtualsByHost[rec.HostComponent] = append(s.virtualsByHost[rec.HostComponent], rec)
		}
	}

	return s, nil
}

// Get looks up a record by exact name, falling back to a case-insensitive
// match when the exact lookup misses.
func (s *Store) Get(name string) (*ComponentRecord, bool) {
	if rec, ok := s.byName[name]; ok {
		return rec, true
	}
	rec, ok := s.byLower[strings.ToLower(name)]
	return rec, ok
}

// List returns records in insertion order. A layer filter of 0 returns every
// record; any other value returns only that layer. Results are cached per
// distinct filter value.
func (s *Store) List(layer int) []*ComponentRecord {
	s.listMu.Lock()
	defer s.listMu.Unlock()

	cached, ok := s.listCache[layer]
	if !ok {
		if layer == 0 {
			cached = make([]*ComponentRecord, len(s.records))
			copy(cached, s.records)
		} else {
			bucket := s.byLayer[layer]
			cached = make([]*ComponentRecord, len(bucket))
			copy(cached, bucket)
		}
		s.listCache[layer] = cached
	}

	// Callers may reorder their result; hand out a copy so the cache keeps
	// insertion order.
	out := make([]*ComponentRecord, len(cached))
	copy(out, cached)
	return out
}

// AllNames returns every component name in sorted order.
func (s *Store) AllNames() []string {
	names := make([]string, 0, len(s.records))
	for _, rec := range s.records {
		names = append(names, rec.Name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of catalog records.
func (s *Store) Len() int {
	return len(s.records)
}

// Host resolves the record whose source files back the named component: the
// record itself when non-virtual, the host record for virtual entries.
func (s *Store) Host(name string) (*ComponentRecord, bool) {
	rec, ok := s.Get(name)
	if !ok {
		return nil, false
	}
	if !rec.IsVirtual() {
		return rec, true
	}
	return s.Get(rec.HostComponent)
}

// Source returns the raw source body for a component, following virtual
// records to their host.
func (s *Store) Source(name string) (string, bool) {
	host, ok := s.Host(name)
	if !ok {
		return "", false
	}
	body, ok := s.snapshot.Sources[host.SourceKey()]
	return body, ok
}

// VirtualsHostedBy returns the virtual records whose host is the named
// component, in catalog order.
func (s *Store) VirtualsHostedBy(hostName string) []*ComponentRecord {
	return s.virtualsByHost[hostName]
}

// Snapshot exposes the underlying immutable snapshot for consumers that need
// the stylesheet, utility file, or asset table.
func (s *Store) Snapshot() *Snapshot {
	return s.snapshot
}
