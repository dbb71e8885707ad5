package badger

import (
	"fmt"

	"github.com/tablemap/tablemap/core"
	"github.com/tablemap/tablemap/storage"
)

// Key prefixes for different data types
const (
	itemPrefix         = "catitem"
	itemModelVerPrefix = "catitemmv"
)

// makeItemKey generates a key for a catalog item by id.
func makeItemKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", itemPrefix, id))
}

// makeModelVersionKey generates a composite key for the model-version index.
// Format: prefix:version\x00:id
// The NUL terminator keeps "v1" from matching as a prefix of "v10".
func makeModelVersionKey(modelVersion string, id core.ID) []byte {
	prefix := makePartialModelVersionKey(modelVersion)
	buf := make([]byte, 0, len(prefix)+8)
	buf = append(buf, prefix...)
	buf = append(buf, storage.MarshalID(id)...)
	return buf
}

// makePartialModelVersionKey generates a prefix for model-version scans.
func makePartialModelVersionKey(modelVersion string) []byte {
	return []byte(itemModelVerPrefix + ":" + modelVersion + "\x00:")
}
