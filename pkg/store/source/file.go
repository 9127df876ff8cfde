package source

import (
	"context"
	"fmt"
	"os"
)

type FileLoader struct{}

func (FileLoader) Load(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return readLimited(f, path)
}
