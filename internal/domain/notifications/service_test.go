package notifications

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOwnedBy(t *testing.T) {
	doc := map[string]interface{}{"userId": "u1", "title": "Booking confirmed"}

	assert.True(t, ownedBy(doc, "u1"))

	// Another user's document is never writable through the ids path.
	assert.False(t, ownedBy(doc, "u2"))

	// Documents without an owner are skipped rather than claimed.
	assert.False(t, ownedBy(map[string]interface{}{}, "u1"))
	assert.False(t, ownedBy(map[string]interface{}{"userId": ""}, ""))
}
