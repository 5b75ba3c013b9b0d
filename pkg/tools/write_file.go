package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/helios-engine/helios/pkg/tool"
)

// WriteFileConfig bounds a WriteFile tool to a working directory and a
// maximum content size.
type WriteFileConfig struct {
	WorkingDirectory string
	MaxFileSize      int
}

func (c *WriteFileConfig) setDefaults() {
	if c.WorkingDirectory == "" {
		c.WorkingDirectory = "./"
	}
	if c.MaxFileSize == 0 {
		c.MaxFileSize = 1024 * 1024
	}
}

// WriteFile creates or overwrites a file, confined to WorkingDirectory,
// backing up any file it overwrites to a .bak sibling by default.
type WriteFile struct {
	config WriteFileConfig
}

// NewWriteFile constructs the write_file tool. A zero-value cfg gets
// sandboxing defaults (1MB max, current directory).
func NewWriteFile(cfg WriteFileConfig) *WriteFile {
	cfg.setDefaults()
	return &WriteFile{config: cfg}
}

func (t *WriteFile) Definition() tool.Definition {
	return tool.Definition{
		Name:        "write_file",
		Description: "Create a new file or overwrite an existing one with content. Backs up any overwritten file to a .bak sibling unless backup=false.",
		Parameters: map[string]tool.Parameter{
			"path":    {TypeName: "string", Description: "File path relative to the working directory.", Required: true},
			"content": {TypeName: "string", Description: "Content to write.", Required: true},
			"backup":  {TypeName: "boolean", Description: "Back up an existing file before overwriting (default true).", Required: false},
		},
	}
}

func (t *WriteFile) Execute(ctx context.Context, arguments map[string]any) (tool.Result, error) {
	path, ok := arguments["path"].(string)
	if !ok || path == "" {
		return tool.ErrorResult("path parameter is required"), nil
	}
	content, ok := arguments["content"].(string)
	if !ok {
		return tool.ErrorResult("content parameter is required"), nil
	}
	if len(content) > t.config.MaxFileSize {
		return tool.ErrorResult(fmt.Sprintf("content too large: %d bytes (max %d)", len(content), t.config.MaxFileSize)), nil
	}

	backup := true
	if v, ok := arguments["backup"].(bool); ok {
		backup = v
	}

	fullPath, err := resolveSandboxed(t.config.WorkingDirectory, path)
	if err != nil {
		return tool.ErrorResult(err.Error()), nil
	}

	existed := false
	if _, err := os.Stat(fullPath); err == nil {
		existed = true
		if backup {
			data, err := os.ReadFile(fullPath)
			if err != nil {
				return tool.ErrorResult(fmt.Sprintf("failed to read file for backup: %v", err)), nil
			}
			if err := os.WriteFile(fullPath+".bak", data, 0644); err != nil {
				return tool.ErrorResult(fmt.Sprintf("failed to write backup: %v", err)), nil
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return tool.ErrorResult(fmt.Sprintf("failed to create directory: %v", err)), nil
	}
	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		return tool.ErrorResult(fmt.Sprintf("failed to write file: %v", err)), nil
	}

	action := "created"
	if existed {
		action = "overwritten"
	}
	message := fmt.Sprintf("file %s successfully: %s (%d bytes)", action, path, len(content))
	if existed && backup {
		message += fmt.Sprintf("; backup saved to %s.bak", path)
	}
	return tool.Result{Content: message}, nil
}

var _ tool.Tool = (*WriteFile)(nil)
