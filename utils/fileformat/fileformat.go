package fileformat

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

// UniqueFormat builds a collision-free object key from an uploaded filename,
// keeping the original extension.
func UniqueFormat(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return uuid.New().String() + ext
}
