package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectKeyFromURL(t *testing.T) {
	Init(Settings{PublicBase: "https://cdn.example.com"})
	t.Cleanup(func() { Init(Settings{}) })

	key := objectKeyFromURL("https://cdn.example.com/properties/lakeview-plot/images/123-abc.webp")
	assert.Equal(t, "properties/lakeview-plot/images/123-abc.webp", key)
}

func TestFileNameFromURL(t *testing.T) {
	name := FileNameFromURL("https://cdn.example.com/properties/lakeview-plot/images/123-abc.webp")
	assert.Equal(t, "123-abc.webp", name)
}
