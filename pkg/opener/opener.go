// Package opener asks the operating system to open a document with its
// default application.
package opener

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// Opener opens a document for viewing
type Opener interface {
	Open(ctx context.Context, path string) error
}

// System launches the platform document handler
type System struct {
	goos    string
	command func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewSystem creates an opener for the running platform
func NewSystem() *System {
	return &System{
		goos:    runtime.GOOS,
		command: exec.CommandContext,
	}
}

// Command returns the program and arguments used to open path on this platform
func (s *System) Command(path string) (string, []string) {
	switch s.goos {
	case "darwin":
		return "open", []string{path}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}
	default:
		return "xdg-open", []string{path}
	}
}

// Open starts the handler and waits for the launcher to exit. The launched
// viewer itself keeps running independently.
func (s *System) Open(ctx context.Context, path string) error {
	name, args := s.Command(path)

	if _, err := exec.LookPath(name); err != nil {
		return fmt.Errorf("no document handler available (%s): %w", name, err)
	}

	cmd := s.command(ctx, name, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to open %s with %s: %w (output: %s)", path, name, err, out)
	}
	return nil
}
