package store

import (
	"crypto/rand"
	"fmt"
)

const (
	base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

	// IdeaIDPrefix tags every idea identifier.
	IdeaIDPrefix = "iv"

	// Idea ids are permanent and never reused, so the random part is
	// longer than a session-scoped id would need.
	ideaIDHashLength = 8
	idMaxAttempts    = 20
)

// GenerateIdeaID returns a new idea id, retrying on collisions using the
// provided exists function. The result is URL-safe and opaque.
func GenerateIdeaID(exists func(string) (bool, error)) (string, error) {
	for i := 0; i < idMaxAttempts; i++ {
		hash, err := randomBase36(ideaIDHashLength)
		if err != nil {
			return "", err
		}
		id := fmt.Sprintf("%s-%s", IdeaIDPrefix, hash)
		if exists == nil {
			return id, nil
		}
		ok, err := exists(id)
		if err != nil {
			return "", err
		}
		if !ok {
			return id, nil
		}
	}

	return "", fmt.Errorf("unable to generate unique id")
}

func randomBase36(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	out := make([]byte, length)
	for i := 0; i < length; i++ {
		out[i] = base36Alphabet[int(b[i])%len(base36Alphabet)]
	}
	return string(out), nil
}
