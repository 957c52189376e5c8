package hcl

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/taskmill/internal/config"
	"github.com/vk/taskmill/internal/ctxlog"
	"github.com/vk/taskmill/internal/fsutil"
	"github.com/vk/taskmill/internal/schema"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL descriptor loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses the descriptor at path, which may be a single .hcl file or a
// directory of them, and translates everything into the unified model.
// Blocks from multiple files merge: env attributes and tasks accumulate, a
// later workspace block replaces an earlier one.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("accessing descriptor path %s: %w", path, err)
	}

	files := []string{path}
	if info.IsDir() {
		files, err = fsutil.FindFilesByExtensions(path, ".hcl")
		if err != nil {
			return nil, err
		}
	}
	logger.Debug("Discovered descriptor files.", "count", len(files))

	model := &config.Model{Env: make(map[string]string)}
	parser := hclparse.NewParser()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("parsing %s: %w", file, diags)
		}

		var root schema.Root
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("decoding %s: %w", file, diags)
		}

		if err := l.mergeRoot(model, &root); err != nil {
			return nil, fmt.Errorf("translating %s: %w", file, err)
		}
	}

	logger.Debug("HCL loading complete.", "tasks", len(model.Tasks), "env_vars", len(model.Env))
	return model, nil
}

func (l *Loader) mergeRoot(model *config.Model, root *schema.Root) error {
	env, err := envFromBlock(root.Env)
	if err != nil {
		return err
	}
	for k, v := range env {
		model.Env[k] = v
	}

	if root.Workspace != nil {
		ws := &config.Workspace{Skip: root.Workspace.Skip}
		for _, m := range root.Workspace.Members {
			ws.Members = append(ws.Members, &config.Member{Name: m.Name, Root: m.Root})
		}
		model.Workspace = ws
	}

	for _, t := range root.Tasks {
		task, err := l.translateTask(t)
		if err != nil {
			return err
		}
		model.Tasks = append(model.Tasks, task)
	}
	return nil
}
