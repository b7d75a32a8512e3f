package domain

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Signature is a summary value over a node's current inputs: its parameter
// values plus the identities of its current dependency edges. Equal
// signatures imply observably identical inputs, so a cached result stored
// under the same signature is reusable.
type Signature uint64

// String renders the signature as a fixed-width hex token.
func (s Signature) String() string {
	return fmt.Sprintf("%016x", uint64(s))
}

// HashValue computes a structural hash of a parameter value. Scalars hash
// directly; slices and maps hash recursively with map keys visited in sorted
// order so that logically equal composites always collide.
func HashValue(v Value) uint64 {
	h := xxhash.New()
	hashValueInto(h, v)
	return h.Sum64()
}

//nolint:cyclop // exhaustive type switch over the supported value shapes
func hashValueInto(h *xxhash.Digest, v Value) {
	switch val := v.(type) {
	case nil:
		_, _ = h.WriteString("nil")
	case bool:
		if val {
			_, _ = h.Write([]byte{'b', 1})
		} else {
			_, _ = h.Write([]byte{'b', 0})
		}
	case int:
		hashInt(h, int64(val))
	case int64:
		hashInt(h, val)
	case float64:
		_, _ = h.Write([]byte{'f'})
		_ = binary.Write(h, binary.LittleEndian, math.Float64bits(val))
	case string:
		_, _ = h.Write([]byte{'s'})
		_, _ = h.WriteString(val)
	case []Value:
		hashSlice(h, val)
	case []any:
		hashSlice(h, val)
	case map[Name]Value:
		keys := make([]string, 0, len(val))
		byKey := make(map[string]Value, len(val))
		for k, item := range val {
			keys = append(keys, k.String())
			byKey[k.String()] = item
		}
		hashMap(h, keys, byKey)
	case map[string]any:
		keys := make([]string, 0, len(val))
		byKey := make(map[string]Value, len(val))
		for k, item := range val {
			keys = append(keys, k)
			byKey[k] = item
		}
		hashMap(h, keys, byKey)
	default:
		// Fallback for kind-specific value types. Formatting is slower but
		// keeps the detector correct for values we do not model.
		_, _ = h.Write([]byte{'?'})
		_, _ = h.WriteString(fmt.Sprintf("%T:%v", v, v))
	}
	_, _ = h.Write([]byte{0})
}

func hashInt(h *xxhash.Digest, v int64) {
	_, _ = h.Write([]byte{'i'})
	_ = binary.Write(h, binary.LittleEndian, v)
}

func hashSlice[T any](h *xxhash.Digest, vals []T) {
	_, _ = h.Write([]byte{'['})
	for _, item := range vals {
		hashValueInto(h, item)
	}
	_, _ = h.Write([]byte{']'})
}

func hashMap(h *xxhash.Digest, keys []string, byKey map[string]Value) {
	sort.Strings(keys)
	_, _ = h.Write([]byte{'{'})
	for _, k := range keys {
		_, _ = h.WriteString(k)
		_, _ = h.Write([]byte{'='})
		hashValueInto(h, byKey[k])
	}
	_, _ = h.Write([]byte{'}'})
}
