package infra

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/Tsinling0525/flowpatch/format/n8n"
	"github.com/Tsinling0525/flowpatch/plugin"
)

// Backups writes timestamped copies of a workflow next to its source (or
// into Dir). A backup never replaces an existing file.
type Backups struct {
	Files plugin.FileStore
	Dir   string
	Now   func() time.Time
}

func NewBackups(files plugin.FileStore, dir string) *Backups {
	return &Backups{Files: files, Dir: dir, Now: time.Now}
}

// Save deep-copies wf and writes the copy to a new backup path derived from
// source. Two backups in the same second get a ULID tag on the second one.
func (b *Backups) Save(ctx context.Context, wf *n8n.Workflow, source string) (string, error) {
	clone, err := wf.Clone()
	if err != nil {
		return "", err
	}
	data, err := n8n.Encode(clone)
	if err != nil {
		return "", err
	}
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	path := BackupPath(source, b.Dir, now())
	err = b.Files.Create(ctx, path, data)
	if errors.Is(err, fs.ErrExist) {
		path = withSuffix(path, "-"+ulid.Make().String())
		err = b.Files.Create(ctx, path, data)
	}
	if err != nil {
		return "", fmt.Errorf("write backup %s: %w", path, err)
	}
	return path, nil
}
