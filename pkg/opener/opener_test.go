package opener

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemCommand(t *testing.T) {
	tests := []struct {
		goos     string
		wantName string
		wantArgs []string
	}{
		{"darwin", "open", []string{"/tmp/result.xlsx"}},
		{"windows", "rundll32", []string{"url.dll,FileProtocolHandler", "/tmp/result.xlsx"}},
		{"linux", "xdg-open", []string{"/tmp/result.xlsx"}},
		{"freebsd", "xdg-open", []string{"/tmp/result.xlsx"}},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			s := &System{goos: tt.goos}
			name, args := s.Command("/tmp/result.xlsx")
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestSystemOpen(t *testing.T) {
	t.Run("missing handler", func(t *testing.T) {
		s := &System{goos: "linux", command: exec.CommandContext}
		t.Setenv("PATH", t.TempDir())

		err := s.Open(context.Background(), "/tmp/result.xlsx")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "xdg-open")
	})

	t.Run("handler runs", func(t *testing.T) {
		if _, err := exec.LookPath("true"); err != nil {
			t.Skip("true(1) not available")
		}
		if _, err := exec.LookPath("xdg-open"); err != nil {
			t.Skip("xdg-open not available")
		}

		var gotName string
		var gotArgs []string
		s := &System{
			goos: "linux",
			command: func(ctx context.Context, name string, args ...string) *exec.Cmd {
				gotName, gotArgs = name, args
				return exec.CommandContext(ctx, "true")
			},
		}

		require.NoError(t, s.Open(context.Background(), "/tmp/result.xlsx"))
		assert.Equal(t, "xdg-open", gotName)
		assert.Equal(t, []string{"/tmp/result.xlsx"}, gotArgs)
	})
}
