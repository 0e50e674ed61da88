// Package proof implements the content fingerprint and the self-verifying
// proof certificate document derived from stored ideas.
package proof

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// HashPrefix is the algorithm tag carried by every fingerprint and
// certificate integrity value.
const HashPrefix = "sha256:"

// Fingerprint computes the proof hash binding an idea's content and
// metadata at submission time. createdAt is epoch milliseconds. Each
// field is length-prefixed before hashing so adjacent fields can never
// be confused ("ab","c" vs "a","bc").
func Fingerprint(title, description, attachmentRef string, createdAt int64, owner string) string {
	h := sha256.New()
	writeField(h, []byte(title))
	writeField(h, []byte(description))
	writeField(h, []byte(attachmentRef))

	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(createdAt))
	writeField(h, ts[:])

	writeField(h, []byte(owner))
	return HashPrefix + hex.EncodeToString(h.Sum(nil))
}

func writeField(h interface{ Write([]byte) (int, error) }, b []byte) {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(b)))
	_, _ = h.Write(n[:])
	_, _ = h.Write(b)
}
