package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupKey(t *testing.T) {
	assert.Equal(t, "event_abc123", GroupKey("abc123"))
}

func TestDirectKey_SortsParticipants(t *testing.T) {
	// Both participants derive the same key regardless of order.
	assert.Equal(t, DirectKey("alice", "bob"), DirectKey("bob", "alice"))
	assert.Equal(t, "chat_alice_bob", DirectKey("bob", "alice"))
}

func TestIsGroupKey(t *testing.T) {
	assert.True(t, IsGroupKey(GroupKey("e1")))
	assert.False(t, IsGroupKey(DirectKey("a", "b")))
}

func TestEventIDFromKey(t *testing.T) {
	assert.Equal(t, "e1", EventIDFromKey("event_e1"))
	assert.Equal(t, "", EventIDFromKey("chat_a_b"))
}
