// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/praxis-sdk/praxis/pkg/llm"
	"github.com/praxis-sdk/praxis/pkg/tools"
)

// dispatchParallel runs the calls of one assistant turn concurrently while
// keeping results in call order. A failing sibling never cancels the others;
// failures are ordinary failed results.
func (a *Agent) dispatchParallel(ctx context.Context, runID string, calls []llm.ToolCall) []tools.Result {
	results := make([]tools.Result, len(calls))

	g, gctx := errgroup.WithContext(ctx)
	for i, call := range calls {
		g.Go(func() error {
			results[i] = a.dispatchOne(gctx, runID, call)
			return nil
		})
	}
	// Workers only ever return nil; Wait is just the join point.
	_ = g.Wait()

	return results
}
