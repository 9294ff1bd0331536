package vcs

import (
	"os"
	"path/filepath"
)

func readWorkingTree(repoRoot, path string) (string, error) {
	data, err := os.ReadFile(filepath.Join(repoRoot, path))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
