// SPDX-License-Identifier: MIT

package store

import "fmt"

// NewJobStore constructs a JobStore for the configured backend.
// path is only used by the badger backend.
func NewJobStore(backend, path string) (JobStore, error) {
	switch backend {
	case "memory", "":
		return NewMemoryStore(), nil
	case "badger":
		return OpenBadgerStore(path)
	default:
		return nil, fmt.Errorf("store: unknown backend %q (supported: memory, badger)", backend)
	}
}
