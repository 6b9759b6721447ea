// SPDX-License-Identifier: MIT
package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/patlas/patlas/internal/notes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunValidateUsage(t *testing.T) {
	assert.Equal(t, 2, runValidate(nil))
	assert.Equal(t, 2, runValidate([]string{"a", "b", "c"}))
}

func TestRunValidateValidDocument(t *testing.T) {
	path := writeTempDoc(t, notes.DefaultDocument)
	assert.Equal(t, 0, runValidate([]string{path}))
}

func TestRunValidateMissingFile(t *testing.T) {
	assert.Equal(t, 1, runValidate([]string{filepath.Join(t.TempDir(), "absent.txt")}))
}

func TestRunValidateInvalidDocument(t *testing.T) {
	path := writeTempDoc(t, "# notes\n## Creational\n- Builder: builds\n")
	assert.Equal(t, 1, runValidate([]string{path}))
}

func TestRunValidateIdenticalCopies(t *testing.T) {
	a := writeTempDoc(t, notes.DefaultDocument)
	b := writeTempDoc(t, notes.DefaultDocument)
	assert.Equal(t, 0, runValidate([]string{a, b}))
}

func TestRunValidateNearDuplicateCopies(t *testing.T) {
	a := writeTempDoc(t, notes.DefaultDocument)
	// Same entries with one summary reworded still passes.
	drifted := strings.Replace(notes.DefaultDocument, ": ", ": reworded ", 1)
	b := writeTempDoc(t, drifted)
	assert.Equal(t, 0, runValidate([]string{a, b}))
}

func TestRunValidateDivergedCopies(t *testing.T) {
	a := writeTempDoc(t, notes.DefaultDocument)
	// Drop one entry from the second copy.
	lines := strings.Split(notes.DefaultDocument, "\n")
	var kept []string
	dropped := false
	for _, line := range lines {
		if !dropped && strings.HasPrefix(line, "- ") {
			dropped = true
			continue
		}
		kept = append(kept, line)
	}
	b := writeTempDoc(t, strings.Join(kept, "\n"))
	assert.Equal(t, 1, runValidate([]string{a, b}))
}
