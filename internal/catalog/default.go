package catalog

import (
	"bytes"
	_ "embed"
)

// defaultCatalog is the starter catalog shipped with the binary, written
// out on first run so a new install can plan immediately.
//
//go:embed default_catalog.yaml
var defaultCatalog []byte

// Default returns the embedded starter catalog.
func Default() (*Catalog, error) {
	return Parse(bytes.NewReader(defaultCatalog))
}
