package infra

import (
	"context"
	"fmt"

	"github.com/Tsinling0525/flowpatch/format/n8n"
	"github.com/Tsinling0525/flowpatch/log"
	"github.com/Tsinling0525/flowpatch/model"
	"github.com/Tsinling0525/flowpatch/plugin"
)

// LoadWorkflow reads and decodes the workflow at path.
func LoadWorkflow(ctx context.Context, files plugin.FileStore, path string) (*n8n.Workflow, error) {
	data, err := files.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	wf, err := n8n.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Ctx(ctx).Debug("workflow decoded", "path", path, "nodes", len(wf.Nodes), "bytes", len(data))
	return wf, nil
}

// SaveOutput writes wf to out. It refuses when out is the input file: the
// original stays untouched until a human replaces it. An earlier output at
// out is replaced with a warning.
func SaveOutput(ctx context.Context, files plugin.FileStore, wf *n8n.Workflow, input, out string) error {
	if SamePath(input, out) {
		return fmt.Errorf("%w: %s", model.ErrOverwriteInput, out)
	}
	data, err := n8n.Encode(wf)
	if err != nil {
		return err
	}
	exists, err := files.Exists(ctx, out)
	if err != nil {
		return fmt.Errorf("stat %s: %w", out, err)
	}
	if exists {
		log.Ctx(ctx).Warn("replacing existing output", "path", out)
	}
	if err := files.Write(ctx, out, data); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	return nil
}
