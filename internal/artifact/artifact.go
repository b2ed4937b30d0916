// Package artifact stores rendered documents and finds them again by record id.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

// ErrNotFound means no artifact has been stored for the record yet
var ErrNotFound = errors.New("artifact not found")

const (
	namePrefix = "request_"
	nameExt    = ".pdf"

	// fixed width, so lexical order equals chronological order
	timestampLayout = "20060102_150405.000000"

	// ContentType of every stored artifact
	ContentType = "application/pdf"
)

// Artifact describes one stored document
type Artifact struct {
	Name     string
	Location string
	Size     int64
	ModTime  time.Time
}

// Store persists artifacts and lists them by record id
type Store interface {
	Put(ctx context.Context, name string, data []byte) (string, error)
	List(ctx context.Context, recordID int64) ([]Artifact, error)
	Open(ctx context.Context, a Artifact) (io.ReadCloser, error)
}

// FileName returns the deterministic artifact name for a record rendered at t
func FileName(recordID int64, t time.Time) string {
	return fmt.Sprintf("%s%d_%s%s", namePrefix, recordID, t.UTC().Format(timestampLayout), nameExt)
}

// Prefix returns the name prefix shared by all artifacts of a record. The
// trailing separator keeps id 4 from matching id 42.
func Prefix(recordID int64) string {
	return fmt.Sprintf("%s%d_", namePrefix, recordID)
}

func matches(name string, recordID int64) bool {
	return strings.HasPrefix(name, Prefix(recordID)) && strings.HasSuffix(name, nameExt)
}

func sortByName(artifacts []Artifact) {
	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].Name < artifacts[j].Name
	})
}

// Latest picks the most recently generated artifact of a record. Redelivered
// jobs leave several artifacts behind; the newest name wins.
func Latest(ctx context.Context, s Store, recordID int64) (Artifact, error) {
	artifacts, err := s.List(ctx, recordID)
	if err != nil {
		return Artifact{}, err
	}
	if len(artifacts) == 0 {
		return Artifact{}, ErrNotFound
	}
	return artifacts[len(artifacts)-1], nil
}
