// Package source loads raw bureau report text from local files or S3 objects.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// MaxDocumentBytes caps a single report excerpt.
const MaxDocumentBytes = 5 << 20

var ErrDocumentTooLarge = errors.New("document exceeds size limit")

type Loader interface {
	Load(ctx context.Context, location string) (string, error)
}

// Router picks the loader for a location: s3://bucket/key goes to S3, everything else is
// a local path. S3 is optional; without it s3 locations fail.
type Router struct {
	Files Loader
	S3    Loader
}

func NewRouter(s3 Loader) *Router {
	return &Router{Files: FileLoader{}, S3: s3}
}

func (r *Router) Load(ctx context.Context, location string) (string, error) {
	if strings.HasPrefix(location, s3Scheme) {
		if r.S3 == nil {
			return "", fmt.Errorf("failed to load %s: s3 source is not configured", location)
		}
		return r.S3.Load(ctx, location)
	}
	return r.Files.Load(ctx, location)
}

func readLimited(r io.Reader, location string) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxDocumentBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", location, err)
	}
	if len(data) > MaxDocumentBytes {
		return "", fmt.Errorf("failed to read %s: %w", location, ErrDocumentTooLarge)
	}
	return string(data), nil
}

// Input is one CLI document argument of the form bureau=location.
type Input struct {
	Bureau   string
	Location string
}

func ParseInput(arg string) (Input, error) {
	bureau, location, ok := strings.Cut(arg, "=")
	if !ok || strings.TrimSpace(bureau) == "" || strings.TrimSpace(location) == "" {
		return Input{}, fmt.Errorf("invalid document %q: expected bureau=path", arg)
	}
	return Input{Bureau: strings.TrimSpace(bureau), Location: strings.TrimSpace(location)}, nil
}
