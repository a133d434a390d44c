package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintStability(t *testing.T) {
	a := Document{"_id": "a", "type": "Post", "title": "hello"}
	b := Document{"title": "hello", "type": "Post", "_id": "a"}

	fpA, err := Fingerprint(a)
	require.NoError(t, err)
	fpB, err := Fingerprint(b)
	require.NoError(t, err)

	assert.Equal(t, fpA, fpB, "construction order must not affect the fingerprint")
	assert.Len(t, fpA, 64)
}

func TestFingerprintChangesWithContent(t *testing.T) {
	a := Document{"_id": "a", "type": "Post", "title": "hello"}
	b := Document{"_id": "a", "type": "Post", "title": "goodbye"}

	fpA, err := Fingerprint(a)
	require.NoError(t, err)
	fpB, err := Fingerprint(b)
	require.NoError(t, err)

	assert.NotEqual(t, fpA, fpB)
}

func TestSnapshotSortedIDs(t *testing.T) {
	snap := Snapshot{
		"z":      {},
		"a":      {},
		"2024/b": {},
	}
	assert.Equal(t, []string{"2024/b", "a", "z"}, snap.SortedIDs())
}

func TestDocumentAccessors(t *testing.T) {
	doc := Document{"_id": "settings", "type": "Settings"}
	assert.Equal(t, "settings", doc.ID())
	assert.Equal(t, "Settings", doc.TypeName("type"))
	assert.Equal(t, "", doc.TypeName("kind"))
}
