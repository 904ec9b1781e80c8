// SPDX-License-Identifier: Apache-2.0

package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/praxis-sdk/praxis/pkg/errors"
	"github.com/praxis-sdk/praxis/pkg/schema"
)

// validateFilename rejects anything that is not a bare filename. File tools
// are confined to their workspace directory; directory separators, parent
// references and absolute paths never reach the filesystem.
func validateFilename(name string) error {
	if name == "" {
		return errors.New(errors.CodeInvalidInput, "filename is required", nil)
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") || filepath.IsAbs(name) {
		return errors.New(errors.CodeInvalidInput,
			"only filenames are allowed, directory paths are not permitted", nil).
			WithContext("file_path", name)
	}
	return nil
}

// ReadFile reads UTF-8 text files from a workspace directory.
type ReadFile struct {
	rootDir string
	schema  *schema.Object
}

// NewReadFile creates the tool rooted at rootDir, creating the directory if
// needed. An empty rootDir defaults to "./workspace".
func NewReadFile(rootDir string) (*ReadFile, error) {
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

	return &ReadFile{
		rootDir: abs,
		schema: schema.NewObject().
			Require("file_path", schema.Property{
				Type:        schema.TypeString,
				Description: "The name of the file to read from the workspace",
			}),
	}, nil
}

func (t *ReadFile) Name() string { return "read_file" }

func (t *ReadFile) Description() string {
	return "Reads the content of a file from the workspace. Only accepts filenames, not paths."
}

func (t *ReadFile) Schema() *schema.Object { return t.schema }

// Call implements Tool.
func (t *ReadFile) Call(_ context.Context, args map[string]any) (string, error) {
	name, _ := args["file_path"].(string)
	if err := validateFilename(name); err != nil {
		return "", err
	}

	target := filepath.Join(t.rootDir, name)
	info, err := os.Stat(target)
	if os.IsNotExist(err) {
		return "", errors.New(errors.CodeNotFound, fmt.Sprintf("file %q not found", name), nil)
	}
	if err != nil {
		return "", errors.New(errors.CodeIO, fmt.Sprintf("failed to stat %q", name), err)
	}
	if info.IsDir() {
		return "", errors.New(errors.CodeInvalidInput, fmt.Sprintf("%q is not a file", name), nil)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		return "", errors.New(errors.CodeIO, fmt.Sprintf("failed to read %q", name), err)
	}
	if !utf8.Valid(data) {
		return "", errors.New(errors.CodeInvalidInput,
			fmt.Sprintf("file %q is not valid UTF-8 text", name), nil)
	}

	return string(data), nil
}

var _ Tool = (*ReadFile)(nil)
