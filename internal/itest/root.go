//go:build integration

package itest

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
)

const moduleLine = "module github.com/forPelevin/vidscope"

// findRepoRoot walks up from the working directory to the vidscope go.mod.
// A go.mod of another module (for example a vendored fixture) is skipped.
func findRepoRoot() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for i := 0; i < 10; i++ {
		if b, err := os.ReadFile(filepath.Join(wd, "go.mod")); err == nil && bytes.Contains(b, []byte(moduleLine)) {
			return wd, nil
		}
		parent := filepath.Dir(wd)
		if parent == wd {
			break
		}
		wd = parent
	}
	return "", errors.New("could not locate the vidscope go.mod")
}
