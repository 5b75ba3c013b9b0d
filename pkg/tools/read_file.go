package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/helios-engine/helios/pkg/tool"
)

// ReadFileConfig bounds a ReadFile tool to a working directory and a
// maximum file size, the same sandboxing shape the teacher applies to its
// own file tools.
type ReadFileConfig struct {
	WorkingDirectory string
	MaxFileSize      int64
}

func (c *ReadFileConfig) setDefaults() {
	if c.WorkingDirectory == "" {
		c.WorkingDirectory = "./"
	}
	if c.MaxFileSize == 0 {
		c.MaxFileSize = 10 * 1024 * 1024
	}
}

// ReadFile reads a file's contents, optionally restricted to a line range,
// confined to WorkingDirectory.
type ReadFile struct {
	config ReadFileConfig
}

// NewReadFile constructs the read_file tool. A zero-value cfg gets
// sandboxing defaults (10MB max, current directory).
func NewReadFile(cfg ReadFileConfig) *ReadFile {
	cfg.setDefaults()
	return &ReadFile{config: cfg}
}

func (t *ReadFile) Definition() tool.Definition {
	return tool.Definition{
		Name:        "read_file",
		Description: "Read the contents of a file, optionally restricted to a line range, with line numbers.",
		Parameters: map[string]tool.Parameter{
			"path":       {TypeName: "string", Description: "File path relative to the working directory.", Required: true},
			"start_line": {TypeName: "number", Description: "First line to show, 1-indexed (optional).", Required: false},
			"end_line":   {TypeName: "number", Description: "Last line to show, inclusive (optional).", Required: false},
		},
	}
}

func (t *ReadFile) Execute(ctx context.Context, arguments map[string]any) (tool.Result, error) {
	path, ok := arguments["path"].(string)
	if !ok || path == "" {
		return tool.ErrorResult("path parameter is required"), nil
	}

	fullPath, err := t.resolve(path)
	if err != nil {
		return tool.ErrorResult(err.Error()), nil
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		return tool.ErrorResult(fmt.Sprintf("failed to stat file: %v", err)), nil
	}
	if info.Size() > t.config.MaxFileSize {
		return tool.ErrorResult(fmt.Sprintf("file too large: %d bytes (max %d)", info.Size(), t.config.MaxFileSize)), nil
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		return tool.ErrorResult(fmt.Sprintf("failed to read file: %v", err)), nil
	}

	lines := strings.Split(string(content), "\n")
	total := len(lines)

	startLine := 1
	if v, ok := arguments["start_line"].(float64); ok && v >= 1 {
		startLine = int(v)
	}
	endLine := total
	if v, ok := arguments["end_line"].(float64); ok && int(v) < total {
		endLine = int(v)
	}
	if startLine > endLine {
		return tool.ErrorResult(fmt.Sprintf("invalid range: start_line (%d) > end_line (%d)", startLine, endLine)), nil
	}
	if startLine > total {
		return tool.ErrorResult(fmt.Sprintf("start_line (%d) exceeds file length (%d)", startLine, total)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "FILE: %s (%d lines)\n", path, total)
	for i := startLine - 1; i < endLine && i < len(lines); i++ {
		fmt.Fprintf(&b, "%6d| %s\n", i+1, lines[i])
	}
	return tool.Result{Content: b.String()}, nil
}

var _ tool.Tool = (*ReadFile)(nil)

// resolve confines path to the working directory, rejecting absolute paths
// and directory traversal.
func (t *ReadFile) resolve(path string) (string, error) {
	return resolveSandboxed(t.config.WorkingDirectory, path)
}

// resolveSandboxed joins path onto workDir and rejects any result that
// escapes it, shared by ReadFile and WriteFile.
func resolveSandboxed(workDir, path string) (string, error) {
	if filepath.IsAbs(path) {
		return "", fmt.Errorf("absolute paths not allowed, use relative paths")
	}
	cleaned := filepath.Clean(path)
	if strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("directory traversal not allowed (..)")
	}

	absWorkDir, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("invalid working directory: %w", err)
	}
	absPath, err := filepath.Abs(filepath.Join(absWorkDir, cleaned))
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}
	if !strings.HasPrefix(absPath, absWorkDir) {
		return "", fmt.Errorf("path escapes working directory")
	}
	return absPath, nil
}
