// Package shellbuild runs the site's build command through the system shell.
package shellbuild

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/moaiedu/staticsite/internal/domain"
	"github.com/moaiedu/staticsite/internal/ports"
)

const tailBytes = 4 * 1024

type Builder struct {
	root   string
	shell  string
	env    []string
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time
}

type Option func(*Builder)

// WithOutput streams the command's stdout/stderr (default: discarded, tail kept for errors).
func WithOutput(stdout, stderr io.Writer) Option {
	return func(b *Builder) {
		if stdout != nil {
			b.stdout = stdout
		}
		if stderr != nil {
			b.stderr = stderr
		}
	}
}

// WithEnv appends KEY=VALUE pairs to the inherited process environment.
func WithEnv(kv ...string) Option {
	return func(b *Builder) { b.env = append(b.env, kv...) }
}

func WithShell(shell string) Option {
	return func(b *Builder) { b.shell = shell }
}

func New(root string, opts ...Option) *Builder {
	b := &Builder{
		root:   root,
		shell:  "sh",
		stdout: io.Discard,
		stderr: io.Discard,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

var _ ports.Builder = (*Builder)(nil)

// Build runs spec.Command in the workspace root and checks that spec.Output
// exists and holds at least one file.
func (b *Builder) Build(ctx context.Context, spec domain.BuildSpec) (domain.BuildResult, error) {
	outDir := filepath.Join(b.root, filepath.FromSlash(spec.Output))

	if strings.TrimSpace(spec.Command) != "" {
		start := b.now()

		var tail tailBuffer
		cmd := exec.CommandContext(ctx, b.shell, "-c", spec.Command)
		cmd.Dir = b.root
		cmd.Env = append(os.Environ(), b.env...)
		cmd.Stdout = b.stdout
		cmd.Stderr = io.MultiWriter(b.stderr, &tail)

		if err := cmd.Run(); err != nil {
			return domain.BuildResult{}, buildError(spec, err, tail.String())
		}

		res, err := inspectOutput(outDir)
		if err != nil {
			return domain.BuildResult{}, err
		}
		res.Duration = b.now().Sub(start)
		return res, nil
	}

	return inspectOutput(outDir)
}

func inspectOutput(dir string) (domain.BuildResult, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return domain.BuildResult{}, &domain.OpError{
			Op:   "shellbuild.output",
			Kind: domain.KindBuild,
			Path: dir,
			Err:  fmt.Errorf("artifact directory missing: %w", errors.Join(domain.ErrBuild, err)),
		}
	}
	if !info.IsDir() {
		return domain.BuildResult{}, &domain.OpError{
			Op:   "shellbuild.output",
			Kind: domain.KindBuild,
			Path: dir,
			Err:  fmt.Errorf("artifact path is not a directory: %w", domain.ErrBuild),
		}
	}

	files := 0
	err = filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			files++
		}
		return nil
	})
	if err != nil {
		return domain.BuildResult{}, &domain.OpError{
			Op:   "shellbuild.output",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}
	if files == 0 {
		return domain.BuildResult{}, &domain.OpError{
			Op:   "shellbuild.output",
			Kind: domain.KindBuild,
			Path: dir,
			Err:  fmt.Errorf("artifact directory is empty: %w", domain.ErrBuild),
		}
	}

	return domain.BuildResult{OutputDir: dir, Files: files}, nil
}

func buildError(spec domain.BuildSpec, err error, stderrTail string) error {
	msg := fmt.Sprintf("command %q", spec.Command)

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		msg += fmt.Sprintf(" exited with code %d", exitErr.ExitCode())
	} else {
		msg += fmt.Sprintf(" could not run: %v", err)
	}
	if s := strings.TrimSpace(stderrTail); s != "" {
		msg += "\n" + s
	}

	return &domain.OpError{
		Op:   "shellbuild.run",
		Kind: domain.KindBuild,
		Err:  fmt.Errorf("%s: %w", msg, domain.ErrBuild),
	}
}

// tailBuffer keeps the last tailBytes written to it.
type tailBuffer struct {
	buf bytes.Buffer
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if len(p) >= tailBytes {
		t.buf.Reset()
		t.buf.Write(p[len(p)-tailBytes:])
		return n, nil
	}
	if over := t.buf.Len() + len(p) - tailBytes; over > 0 {
		t.buf.Next(over)
	}
	t.buf.Write(p)
	return n, nil
}

func (t *tailBuffer) String() string { return t.buf.String() }
