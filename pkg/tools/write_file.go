// SPDX-License-Identifier: Apache-2.0

package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/praxis-sdk/praxis/pkg/errors"
	"github.com/praxis-sdk/praxis/pkg/schema"
)

// WriteFile writes UTF-8 text files into a workspace directory. Mode "w"
// truncates, "a" appends.
type WriteFile struct {
	rootDir string
	schema  *schema.Object
}

// NewWriteFile creates the tool rooted at rootDir, creating the directory if
// needed. An empty rootDir defaults to "./workspace".
func NewWriteFile(rootDir string) (*WriteFile, error) {
	if rootDir == "" {
		rootDir = "./workspace"
	}
	abs, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, errors.New(errors.CodeIO, "failed to resolve workspace directory", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, errors.New(errors.CodeIO, "failed to create workspace directory", err).
			WithContext("dir", abs)
	}

	return &WriteFile{
		rootDir: abs,
		schema: schema.NewObject().
			Require("file_path", schema.Property{
				Type:        schema.TypeString,
				Description: "The name of the file to write in the workspace",
			}).
			Require("content", schema.Property{
				Type:        schema.TypeString,
				Description: "The content to write to the file",
			}).
			Add("mode", schema.Property{
				Type:        schema.TypeString,
				Description: "The file write mode: 'w' to overwrite, 'a' to append",
				Enum:        []string{"w", "a"},
			}),
	}, nil
}

func (t *WriteFile) Name() string { return "write_file" }

func (t *WriteFile) Description() string {
	return "Writes content to a file in the workspace. Only accepts filenames, not paths."
}

func (t *WriteFile) Schema() *schema.Object { return t.schema }

// Call implements Tool.
func (t *WriteFile) Call(_ context.Context, args map[string]any) (string, error) {
	name, _ := args["file_path"].(string)
	if err := validateFilename(name); err != nil {
		return "", err
	}
	content, _ := args["content"].(string)

	mode, _ := args["mode"].(string)
	if mode == "" {
		mode = "w"
	}

	flags := os.O_CREATE | os.O_WRONLY
	switch mode {
	case "w":
		flags |= os.O_TRUNC
	case "a":
		flags |= os.O_APPEND
	default:
		return "", errors.New(errors.CodeInvalidInput,
			fmt.Sprintf("invalid mode %q, expected 'w' or 'a'", mode), nil)
	}

	target := filepath.Join(t.rootDir, name)
	f, err := os.OpenFile(target, flags, 0o644)
	if err != nil {
		return "", errors.New(errors.CodeIO, fmt.Sprintf("cannot write to %q", name), err)
	}
	defer f.Close()

	if _, err := f.WriteString(content); err != nil {
		return "", errors.New(errors.CodeIO, fmt.Sprintf("failed to write %q", name), err)
	}

	return fmt.Sprintf("File written to %q.", name), nil
}

var _ Tool = (*WriteFile)(nil)
