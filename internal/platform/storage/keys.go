package storage

import (
	"path"
	"strings"

	"github.com/oklog/ulid/v2"
)

// ObjectKey builds a collision-free storage key for an uploaded file,
// preserving the original extension under the given prefix.
func ObjectKey(prefix, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	key := ulid.Make().String() + ext
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return key
	}
	return prefix + "/" + key
}
