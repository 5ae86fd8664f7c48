package taxon

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"sort"
	"strconv"
)

// HashLength is the length of the hex-encoded content hash.
const HashLength = 16

// ContentHash computes the deterministic digest of a class definition's
// classification-relevant content: both parameter namespaces (name, target,
// min, max, tolerance, weight) and the optional-feature gates. Units,
// thresholds, identity, timestamps, provenance, and validated samples are
// all excluded.
//
// Parameters are encoded in sorted name order with fixed float formatting,
// so two definitions with identical content hash identically regardless of
// map insertion history. Each section carries a domain separator to prevent
// collisions between namespaces.
func ContentHash(c *ClassDefinition) string {
	h := sha256.New()

	h.Write([]byte("m:"))
	writeParams(h, c.Morphometric)
	h.Write([]byte("\nt:"))
	writeParams(h, c.Technological)
	h.Write([]byte("\ng:"))
	writeGates(h, c.OptionalFeatures)

	return hex.EncodeToString(h.Sum(nil))[:HashLength]
}

func writeParams(h hash.Hash, params map[string]Parameter) {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		p := params[name]
		h.Write([]byte(name))
		h.Write([]byte{0x1f})
		writeFloat(h, p.TargetValue)
		writeFloat(h, p.MinThreshold)
		writeFloat(h, p.MaxThreshold)
		writeFloat(h, p.Tolerance)
		writeFloat(h, p.Weight)
		h.Write([]byte{0x00})
	}
}

func writeGates(h hash.Hash, gates map[string]bool) {
	names := make([]string, 0, len(gates))
	for name := range gates {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		h.Write([]byte(name))
		h.Write([]byte{0x1f})
		if gates[name] {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{2})
		}
		h.Write([]byte{0x00})
	}
}

func writeFloat(h hash.Hash, v float64) {
	// 'g' with precision -1 is the shortest representation that parses
	// back to the same float64, stable across platforms.
	h.Write([]byte(strconv.FormatFloat(v, 'g', -1, 64)))
	h.Write([]byte{0x1f})
}
