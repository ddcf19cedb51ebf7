package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowedObjectPath(t *testing.T) {
	assert.True(t, allowedObjectPath("avatars/u1_1724900000.jpg", "u1"))
	assert.True(t, allowedObjectPath("avatars/u1/photo.png", "u1"))
	assert.True(t, allowedObjectPath("events/u1/cover.jpg", "u1"))

	assert.False(t, allowedObjectPath("avatars/u2/photo.png", "u1"))
	assert.False(t, allowedObjectPath("events/u2/cover.jpg", "u1"))
	assert.False(t, allowedObjectPath("avatars/u1/../u2/photo.png", "u1"))
	assert.False(t, allowedObjectPath("backups/dump.sql", "u1"))

	// A uid that prefixes another must not open the longer uid's area.
	assert.False(t, allowedObjectPath("avatars/u12/photo.png", "u1"))
	assert.False(t, allowedObjectPath("avatars/u1evil_123.jpg", "u1"))
	assert.False(t, allowedObjectPath("events/u12/cover.jpg", "u1"))
	assert.False(t, allowedObjectPath("avatars/u1", "u1"))
}
