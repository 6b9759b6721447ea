// SPDX-License-Identifier: MIT

package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/google/renameio/v2"
	"github.com/patlas/patlas/internal/catalog"
)

// WriteSnapshot exports the catalog as pretty-printed JSON. The write
// is atomic: readers see either the old snapshot or the new one.
func WriteSnapshot(path string, c *catalog.Catalog) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("jobs: marshal snapshot: %w", err)
	}
	data = append(data, '\n')
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("jobs: write snapshot: %w", err)
	}
	return nil
}
