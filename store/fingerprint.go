package store

import (
	"encoding/hex"
	"encoding/json"

	"github.com/zeebo/blake3"

	"github.com/teranos/contentpack/errors"
)

// Fingerprint computes a stable content fingerprint for a document:
// the hex BLAKE3 digest of its canonical JSON encoding. encoding/json
// marshals map keys in sorted order, so two documents with equal
// content always produce equal fingerprints regardless of construction
// order.
//
// The generation core treats fingerprints as opaque; this helper
// exists for content sources that realize documents themselves.
func Fingerprint(doc Document) (string, error) {
	canonical, err := json.Marshal(doc)
	if err != nil {
		return "", errors.Wrap(err, "failed to canonicalize document")
	}
	sum := blake3.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
