// Package cache implements the engine's transposition cache: a fixed-size,
// direct-addressed table of state values keyed by 64-bit fingerprint, with
// quality-ranked replacement and generation-based aging.
package cache

import "log"

// Unused is the fingerprint sentinel marking a vacant slot. A real state must
// never produce this value from its fingerprint function.
const Unused uint64 = ^uint64(0)

// entry is one slot in the table. It is 16 bytes, same as the table this
// cache is modeled on, though Go's struct padding doesn't guarantee it.
type entry struct {
	fingerprint uint64
	value       float32
	quality     int16
	age         int16
}

func (e *entry) clear() {
	e.fingerprint = Unused
}

func (e *entry) live() bool {
	return e.fingerprint != Unused
}

// Cache is a fixed-capacity transposition table. It is not safe for
// concurrent use; a caller sharing one Cache across goroutines must guard
// every Check/Update/Set/Age call with its own mutex (see §5 of the design:
// the direct-modulo probe plus quality-ranked replacement has no finer
// locking granularity to offer).
type Cache struct {
	table  []entry
	maxAge int16
}

// New builds a Cache with the given number of slots and maximum entry age.
// Both arguments are contract requirements on the caller: size must be
// positive and maxAge must be positive.
func New(size int, maxAge int) *Cache {
	if size <= 0 {
		panic("cache: size must be positive")
	}
	if maxAge <= 0 {
		panic("cache: max age must be positive")
	}

	table := make([]entry, size)
	for i := range table {
		table[i].clear()
	}

	log.Printf("[cache] created with %d slots, max age %d", size, maxAge)

	return &Cache{
		table:  table,
		maxAge: int16(maxAge),
	}
}

// Size returns the number of slots in the table.
func (c *Cache) Size() int {
	return len(c.table)
}

func (c *Cache) slot(fingerprint uint64) *entry {
	return &c.table[fingerprint%uint64(len(c.table))]
}

// Check looks up fingerprint. minQuality, if >= 0, filters out entries whose
// stored quality is below it. A match (even one filtered out by minQuality)
// resets the slot's age, since reading with an insufficient-quality filter
// still counts as a reference per the aging contract.
//
// Check reports ok=false on a miss: no entry for this fingerprint, or an
// entry present but below minQuality.
func (c *Cache) Check(fingerprint uint64, minQuality int16) (value float32, quality int16, ok bool) {
	if fingerprint == Unused {
		panic("cache: fingerprint must not equal the unused sentinel")
	}

	e := c.slot(fingerprint)
	if e.fingerprint != fingerprint {
		return 0, 0, false
	}

	e.age = 0

	if minQuality >= 0 && e.quality < minQuality {
		return 0, 0, false
	}

	return e.value, e.quality, true
}

// Update stores (fingerprint, value, quality) if the slot is vacant or the
// incoming quality is greater than or equal to the incumbent's — regardless
// of whether the incumbent holds a different fingerprint. Quality is a
// global priority, not a per-fingerprint one: under collision, a
// higher-or-equal-quality newcomer evicts whatever was there.
func (c *Cache) Update(fingerprint uint64, value float32, quality int16) {
	if fingerprint == Unused {
		panic("cache: fingerprint must not equal the unused sentinel")
	}
	if quality < 0 {
		panic("cache: quality must not be negative")
	}

	e := c.slot(fingerprint)
	if !e.live() || quality >= e.quality {
		*e = entry{fingerprint: fingerprint, value: value, quality: quality, age: 0}
	}
}

// Set unconditionally writes (fingerprint, value, quality) into the slot,
// ignoring whatever quality ranking would otherwise apply. Used when the
// caller already knows the replacement is correct.
func (c *Cache) Set(fingerprint uint64, value float32, quality int16) {
	if fingerprint == Unused {
		panic("cache: fingerprint must not equal the unused sentinel")
	}
	if quality < 0 {
		panic("cache: quality must not be negative")
	}

	*c.slot(fingerprint) = entry{fingerprint: fingerprint, value: value, quality: quality, age: 0}
}

// Age runs one aging sweep: every live slot's age is incremented, and any
// slot whose age now exceeds maxAge is vacated. Intended to be called once
// per completed turn of real play by the host, between searches.
func (c *Cache) Age() {
	evicted := 0
	for i := range c.table {
		e := &c.table[i]
		if !e.live() {
			continue
		}
		e.age++
		if e.age > c.maxAge {
			e.clear()
			evicted++
		}
	}
	if evicted > 0 {
		log.Printf("[cache] aging sweep evicted %d entries", evicted)
	}
}

// RawEntry is the exported shape of a live slot, used by the persistence
// adapter (internal/ttstore) to serialize and rebuild the table verbatim
// without going through Update's quality gate.
type RawEntry struct {
	Fingerprint uint64
	Value       float32
	Quality     int16
	Age         int16
}

// Snapshot returns every live entry in the table, in slot order, for the
// persistence adapter to serialize. The returned slice is a copy; mutating
// it has no effect on the cache.
func (c *Cache) Snapshot() []RawEntry {
	out := make([]RawEntry, 0, len(c.table))
	for i := range c.table {
		e := &c.table[i]
		if !e.live() {
			continue
		}
		out = append(out, RawEntry{
			Fingerprint: e.fingerprint,
			Value:       e.value,
			Quality:     e.quality,
			Age:         e.age,
		})
	}
	return out
}

// Restore re-populates the table directly from a previously captured
// snapshot, bypassing Update's quality gate: this is a verbatim replay of
// state that was already accepted once, not a contended write. Restore
// clears the table first, so entries not present in the snapshot are left
// vacant.
func (c *Cache) Restore(entries []RawEntry) {
	for i := range c.table {
		c.table[i].clear()
	}
	for _, re := range entries {
		if re.Fingerprint == Unused {
			continue
		}
		idx := re.Fingerprint % uint64(len(c.table))
		c.table[idx] = entry{
			fingerprint: re.Fingerprint,
			value:       re.Value,
			quality:     re.Quality,
			age:         re.Age,
		}
	}
}
