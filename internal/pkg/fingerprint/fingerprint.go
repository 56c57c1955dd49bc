package fingerprint

import (
	"encoding/hex"
	"encoding/json"

	"golang.org/x/crypto/blake2b"
)

// Of returns a hex BLAKE2b-256 digest over the JSON encoding of parts, in
// order. Equal inputs always produce equal fingerprints, which is what makes
// cache keys and request dedup stable across processes.
func Of(parts ...interface{}) (string, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	enc := json.NewEncoder(h)
	for _, p := range parts {
		if err := enc.Encode(p); err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
