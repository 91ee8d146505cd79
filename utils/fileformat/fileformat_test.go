package fileformat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniqueFormatKeepsExtension(t *testing.T) {
	name := UniqueFormat("Holiday Photo.JPG")
	assert.True(t, strings.HasSuffix(name, ".jpg"))
	assert.NotContains(t, name, " ")
}

func TestUniqueFormatIsUnique(t *testing.T) {
	first := UniqueFormat("a.png")
	second := UniqueFormat("a.png")
	assert.NotEqual(t, first, second)
}
