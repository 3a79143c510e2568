package pipeline

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/go-scrub/scrub"
)

// Frequencies counts occurrences of distinct value combinations. Keys are
// bucketed by their xxhash digest; colliding keys within a bucket are told
// apart by full value comparison, so counts are always exact.
type Frequencies struct {
	buckets map[uint64][]*freqEntry
	size    int
}

type freqEntry struct {
	key   scrub.Tuple
	count int
}

func newFrequencies() *Frequencies {
	return &Frequencies{buckets: make(map[uint64][]*freqEntry)}
}

func (f *Frequencies) add(key scrub.Tuple) {
	h := hashKey(key)
	for _, entry := range f.buckets[h] {
		if scrub.ValuesEqual(entry.key, key) {
			entry.count++
			return
		}
	}
	f.buckets[h] = append(f.buckets[h], &freqEntry{key: key, count: 1})
	f.size++
}

// Len returns the number of distinct keys.
func (f *Frequencies) Len() int {
	return f.size
}

// Get returns the count for a value combination, or zero if it was never
// seen.
func (f *Frequencies) Get(values ...scrub.Value) int {
	key := scrub.Tuple(values)
	for _, entry := range f.buckets[hashKey(key)] {
		if scrub.ValuesEqual(entry.key, key) {
			return entry.count
		}
	}
	return 0
}

// Each calls fn for every distinct key and its count. Iteration order is
// unspecified.
func (f *Frequencies) Each(fn func(key scrub.Tuple, count int)) {
	for _, bucket := range f.buckets {
		for _, entry := range bucket {
			fn(entry.key, entry.count)
		}
	}
}

// hashKey digests a value tuple into a bucket key. Numeric values hash by
// magnitude so that int64(1) and float64(1) land in the same bucket,
// matching ValuesEqual.
func hashKey(key scrub.Tuple) uint64 {
	digest := xxhash.New()
	for _, v := range key {
		if f, ok := scrub.AsFloat(v); ok {
			if _, isString := v.(string); !isString {
				fmt.Fprintf(digest, "n:%g\x1e", f)
				continue
			}
		}
		fmt.Fprintf(digest, "%T:%v\x1e", v, v)
	}
	return digest.Sum64()
}
