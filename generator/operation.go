package generator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/simonhull/firebird-suite/hatch/patch"
)

// ErrAlreadyExists is returned when a directory or file to be created is already present.
var ErrAlreadyExists = errors.New("already exists")

// Operation is a single filesystem step.
//
// Validate checks the step against the disk and the paths earlier steps in
// the same run will create, without side effects.
//
// Execute performs the step. It is only called after every operation in the
// run validated.
//
// Description is shown in progress output ("Create src/foo_bar/mod.rs (17 bytes)").
// Step names the intent for error context ("Creating mod.rs").
type Operation interface {
	Validate(ctx context.Context, plan *Plan) error
	Execute(ctx context.Context) error
	Description() string
	Step() string
}

// Previewer is implemented by operations that can show their change before
// it is written.
type Previewer interface {
	Target() string
	Preview(ctx context.Context) (before, after string, err error)
}

// Plan tracks the paths earlier operations in a run will create.
type Plan struct {
	pending map[string]bool
}

// NewPlan returns an empty plan.
func NewPlan() *Plan {
	return &Plan{pending: make(map[string]bool)}
}

// Exists reports whether path is on disk or will be created earlier in the run.
func (p *Plan) Exists(path string) bool {
	if p.pending[filepath.Clean(path)] {
		return true
	}
	_, err := os.Stat(path)
	return err == nil
}

// Add records that path will be created.
func (p *Plan) Add(path string) {
	p.pending[filepath.Clean(path)] = true
}

// CreateDirOp creates a single directory. The parent must already exist and
// the directory itself must not.
type CreateDirOp struct {
	Path  string
	Label string
}

func (op *CreateDirOp) Validate(ctx context.Context, plan *Plan) error {
	if plan.Exists(op.Path) {
		return fmt.Errorf("directory %s: %w", op.Path, ErrAlreadyExists)
	}

	parent := filepath.Dir(op.Path)
	if !plan.Exists(parent) {
		return fmt.Errorf("parent directory %s does not exist", parent)
	}

	plan.Add(op.Path)
	return nil
}

func (op *CreateDirOp) Execute(ctx context.Context) error {
	if err := os.Mkdir(op.Path, 0755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("directory %s: %w", op.Path, ErrAlreadyExists)
		}
		return err
	}
	return nil
}

func (op *CreateDirOp) Description() string {
	return fmt.Sprintf("Create %s/", op.Path)
}

func (op *CreateDirOp) Step() string {
	if op.Label != "" {
		return op.Label
	}
	return "Creating " + op.Path
}

// CreateFileOp creates a new file. Empty content is allowed, nil content is not.
type CreateFileOp struct {
	Path    string
	Content []byte
	Mode    fs.FileMode
	Label   string
}

func (op *CreateFileOp) Validate(ctx context.Context, plan *Plan) error {
	if op.Content == nil {
		return fmt.Errorf("content is nil for file: %s", op.Path)
	}

	if plan.Exists(op.Path) {
		return fmt.Errorf("file %s: %w", op.Path, ErrAlreadyExists)
	}

	parent := filepath.Dir(op.Path)
	if !plan.Exists(parent) {
		return fmt.Errorf("parent directory %s does not exist", parent)
	}

	plan.Add(op.Path)
	return nil
}

func (op *CreateFileOp) Execute(ctx context.Context) error {
	mode := op.Mode
	if mode == 0 {
		mode = 0644
	}

	f, err := os.OpenFile(op.Path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("file %s: %w", op.Path, ErrAlreadyExists)
		}
		return err
	}

	if _, err := f.Write(op.Content); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", op.Path, err)
	}
	return f.Close()
}

func (op *CreateFileOp) Description() string {
	return fmt.Sprintf("Create %s (%d bytes)", op.Path, len(op.Content))
}

func (op *CreateFileOp) Step() string {
	if op.Label != "" {
		return op.Label
	}
	return "Creating " + filepath.Base(op.Path)
}

// PatchFileOp rewrites an existing file with a patch rule.
//
// MinMatches > 0 turns an anchor miss into an error; the file is left
// untouched in that case. With MinMatches == 0 an anchor miss is a no-op and
// is only visible through Result.
type PatchFileOp struct {
	Path       string
	Rule       patch.Rule
	MinMatches int
	Label      string

	result patch.Result
}

func (op *PatchFileOp) Validate(ctx context.Context, plan *Plan) error {
	if op.Rule == nil {
		return fmt.Errorf("no patch rule for %s", op.Path)
	}

	info, err := os.Stat(op.Path)
	if err != nil {
		return fmt.Errorf("cannot patch %s: %w", op.Path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("cannot patch %s: not a regular file", op.Path)
	}

	return nil
}

func (op *PatchFileOp) Execute(ctx context.Context) error {
	if op.MinMatches > 0 {
		_, res, err := patch.Preview(op.Path, op.Rule)
		if err != nil {
			return err
		}
		op.result = res
		if err := op.checkMatches(); err != nil {
			return err
		}
	}

	res, err := patch.Apply(op.Path, op.Rule)
	if err != nil {
		return err
	}
	op.result = res
	return nil
}

func (op *PatchFileOp) Description() string {
	return fmt.Sprintf("Update %s", op.Path)
}

func (op *PatchFileOp) Step() string {
	if op.Label != "" {
		return op.Label
	}
	return "Updating " + op.Path
}

// Target returns the patched path.
func (op *PatchFileOp) Target() string {
	return op.Path
}

// Preview computes the patched content without writing it.
func (op *PatchFileOp) Preview(ctx context.Context) (string, string, error) {
	before, res, err := patch.Preview(op.Path, op.Rule)
	if err != nil {
		return "", "", err
	}
	op.result = res
	return before, res.Content, nil
}

// checkMatches fails when the last result found fewer anchors than MinMatches.
func (op *PatchFileOp) checkMatches() error {
	if op.MinMatches <= 0 {
		return nil
	}
	if err := op.result.Require(op.MinMatches); err != nil {
		return fmt.Errorf("%s: %w", op.Path, err)
	}
	return nil
}

// Result returns the outcome of the last Execute or Preview.
func (op *PatchFileOp) Result() patch.Result {
	return op.result
}
