package generator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// ExecuteOptions configures execution behavior
type ExecuteOptions struct {
	DryRun   bool
	Reviewer Reviewer     // Asked before each patch is written; nil applies everything
	Writer   io.Writer    // Where to write progress (defaults to os.Stdout)
	Logger   *slog.Logger // Diagnostic logger (defaults to slog.Default())
	Diff     *DiffGenerator
}

// Report summarizes a run.
type Report struct {
	Applied []string // Descriptions of executed operations
	Skipped []string // Patch targets the reviewer skipped
	Missed  []string // Patch targets whose anchors were not found
}

// Execute validates every operation, then executes them in order.
// The first failure stops the run; earlier steps are not rolled back.
func Execute(ctx context.Context, ops []Operation, opts ExecuteOptions) (*Report, error) {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Diff == nil {
		opts.Diff = NewDiffGenerator()
	}
	if opts.Reviewer == nil {
		opts.Reviewer = ApproveAll{}
	}

	report := &Report{}

	// Phase 1: validate everything before touching the disk
	plan := NewPlan()
	for _, op := range ops {
		if err := op.Validate(ctx, plan); err != nil {
			return report, fmt.Errorf("validation failed: %w", &StepError{Step: op.Step(), Err: err})
		}
	}

	// Phase 2: execute or report
	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if opts.DryRun {
			if err := dryRun(ctx, op, opts, report); err != nil {
				return report, &StepError{Step: op.Step(), Err: err}
			}
			continue
		}

		if p, ok := op.(Previewer); ok {
			apply, err := review(ctx, p, opts)
			if err != nil {
				return report, &StepError{Step: op.Step(), Err: err}
			}
			if !apply {
				fmt.Fprintf(opts.Writer, "- Skip %s\n", p.Target())
				report.Skipped = append(report.Skipped, p.Target())
				continue
			}
		}

		if err := op.Execute(ctx); err != nil {
			return report, &StepError{Step: op.Step(), Err: err}
		}
		fmt.Fprintf(opts.Writer, "✓ %s\n", op.Description())
		report.Applied = append(report.Applied, op.Description())

		notePatch(op, opts.Logger, report)
	}

	return report, nil
}

// dryRun reports what op would do. Patches run the same anchor checks as a
// real run, so a strict miss fails here too.
func dryRun(ctx context.Context, op Operation, opts ExecuteOptions, report *Report) error {
	p, ok := op.(Previewer)
	if !ok {
		fmt.Fprintf(opts.Writer, "✓ [DRY RUN] %s\n", op.Description())
		return nil
	}

	before, after, err := p.Preview(ctx)
	if err != nil {
		return err
	}
	if po, ok := op.(*PatchFileOp); ok {
		if err := po.checkMatches(); err != nil {
			return err
		}
	}

	fmt.Fprintf(opts.Writer, "✓ [DRY RUN] %s\n", op.Description())
	if diff := opts.Diff.Unified(p.Target(), before, after); diff != "" {
		fmt.Fprint(opts.Writer, diff)
	}

	notePatch(op, opts.Logger, report)
	return nil
}

// review asks the reviewer about a pending patch. Patches that change
// nothing are applied without asking.
func review(ctx context.Context, p Previewer, opts ExecuteOptions) (bool, error) {
	if _, ok := opts.Reviewer.(ApproveAll); ok {
		return true, nil
	}

	before, after, err := p.Preview(ctx)
	if err != nil {
		return false, err
	}
	if before == after {
		return true, nil
	}

	decision, err := opts.Reviewer.Review(p.Target(), before, after)
	if err != nil {
		return false, err
	}

	switch decision {
	case Apply:
		return true, nil
	case Skip:
		return false, nil
	default:
		return false, ErrCancelled
	}
}

// notePatch logs the outcome of a patch and records anchor misses.
func notePatch(op Operation, log *slog.Logger, report *Report) {
	p, ok := op.(*PatchFileOp)
	if !ok {
		return
	}

	res := p.Result()
	log.Debug("patched file", "path", p.Path, "matches", res.Matches, "inserted", res.Inserted)

	switch {
	case res.Matches == 0:
		log.Warn("anchor not found, file left unchanged", "path", p.Path)
		report.Missed = append(report.Missed, p.Path)
	case !res.Changed():
		log.Info("entry already present, file left unchanged", "path", p.Path)
	}
}
