package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "http://localhost:9000/note-images/a.png", PublicURL("http://localhost:9000/", "note-images", "a.png"))
	assert.Equal(t, "https://cdn.example.com/b/c.jpg", PublicURL("https://cdn.example.com", "b", "c.jpg"))
}
