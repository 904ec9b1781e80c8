// SPDX-License-Identifier: Apache-2.0

package tools

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/praxis-sdk/praxis/pkg/errors"
	"github.com/praxis-sdk/praxis/pkg/schema"
)

// AskUser lets the model ask the human a question mid-run. The input
// function is injectable so UIs and tests can supply answers without a
// terminal.
type AskUser struct {
	input  func(prompt string) (string, error)
	schema *schema.Object
}

// AskUserOption configures the tool.
type AskUserOption func(*AskUser)

// WithInput replaces the default stdin reader.
func WithInput(fn func(prompt string) (string, error)) AskUserOption {
	return func(t *AskUser) { t.input = fn }
}

// NewAskUser creates the tool. By default it prompts on stdout and reads a
// line from stdin.
func NewAskUser(opts ...AskUserOption) *AskUser {
	t := &AskUser{
		input: stdinInput,
		schema: schema.NewObject().
			Require("question", schema.Property{
				Type:        schema.TypeString,
				Description: "The question to ask the user",
			}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *AskUser) Name() string { return "ask_user" }

func (t *AskUser) Description() string {
	return "Ask the user a question and get their response. Use this when you need clarification, additional information, or user decisions."
}

func (t *AskUser) Schema() *schema.Object { return t.schema }

// Call implements Tool.
func (t *AskUser) Call(_ context.Context, args map[string]any) (string, error) {
	question, _ := args["question"].(string)
	if question == "" {
		return "", errors.New(errors.CodeInvalidInput, "question is required", nil)
	}

	answer, err := t.input(fmt.Sprintf("\n%s\nYour answer: ", question))
	if err != nil {
		return "", errors.New(errors.CodeIO, "failed to read user input", err)
	}
	return answer, nil
}

func stdinInput(prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

var _ Tool = (*AskUser)(nil)
