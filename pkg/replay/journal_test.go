package replay

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/harun/tclog/pkg/capture"
	"github.com/harun/tclog/pkg/record"
	"github.com/harun/tclog/pkg/spreadsheet"
	"github.com/harun/tclog/pkg/testlog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJournal = `
directory: results/run-1
open: false
entries:
  - case: "Case #1"
    severity: info
    message: hello
  - case: "Case #1"
    severity: success
  - case: "Case #2"
    severity: WARNING
    message: slow response
  - case: "Case #3"
    severity: error
    message: mismatch
    screenshot: true
`

func newSession(t *testing.T) *testlog.Session {
	t.Helper()
	s, err := testlog.Create(t.TempDir(),
		testlog.WithCapturer(capture.NewDisabled()),
		testlog.WithLogger(zerolog.Nop()),
	)
	require.NoError(t, err)
	return s
}

func TestParse(t *testing.T) {
	loader := NewLoader(zerolog.Nop())

	t.Run("valid journal", func(t *testing.T) {
		j, err := loader.Parse([]byte(sampleJournal))
		require.NoError(t, err)

		assert.Equal(t, "results/run-1", j.Directory)
		assert.False(t, j.Open)
		require.Len(t, j.Entries, 4)
		assert.Equal(t, JournalEntry{Case: "Case #1", Severity: "info", Message: "hello"}, j.Entries[0])
		assert.Equal(t, "WARNING", j.Entries[2].Severity)
		assert.True(t, j.Entries[3].Screenshot)
	})

	t.Run("empty entry list", func(t *testing.T) {
		j, err := loader.Parse([]byte("entries: []\n"))
		require.NoError(t, err)
		assert.Empty(t, j.Entries)
	})

	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			name:    "empty document",
			data:    "",
			wantErr: "journal is empty",
		},
		{
			name:    "malformed yaml",
			data:    "entries: [\n",
			wantErr: "failed to parse journal YAML",
		},
		{
			name:    "missing entries",
			data:    "directory: out\n",
			wantErr: "entries",
		},
		{
			name:    "unknown severity",
			data:    "entries:\n  - case: c\n    severity: fatal\n    message: m\n",
			wantErr: "schema validation errors",
		},
		{
			name:    "missing case",
			data:    "entries:\n  - severity: info\n    message: m\n",
			wantErr: "case",
		},
		{
			name:    "empty case",
			data:    "entries:\n  - case: \"\"\n    severity: info\n    message: m\n",
			wantErr: "schema validation errors",
		},
		{
			name:    "unknown field",
			data:    "entries:\n  - case: c\n    severity: info\n    message: m\n    attachment: x.png\n",
			wantErr: "attachment",
		},
		{
			name:    "screenshot not a bool",
			data:    "entries:\n  - case: c\n    severity: error\n    message: m\n    screenshot: sometimes\n",
			wantErr: "screenshot",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loader.Parse([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFile(t *testing.T) {
	loader := NewLoader(zerolog.Nop())

	t.Run("reads journal from disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "journal.yaml")
		require.NoError(t, os.WriteFile(path, []byte(sampleJournal), 0644))

		j, err := loader.LoadFile(path)
		require.NoError(t, err)
		assert.Len(t, j.Entries, 4)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loader.LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read journal file")
	})

	t.Run("invalid file names the path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("entries: 3\n"), 0644))

		_, err := loader.LoadFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), path)
	})
}

func TestReplay(t *testing.T) {
	loader := NewLoader(zerolog.Nop())

	t.Run("records entries in order", func(t *testing.T) {
		j, err := loader.Parse([]byte(sampleJournal))
		require.NoError(t, err)
		s := newSession(t)

		res, err := Replay(context.Background(), j, s)
		require.NoError(t, err)
		assert.Equal(t, 4, res.Recorded)

		entries := s.Entries()
		require.Len(t, entries, 4)
		assert.Equal(t, record.SeverityInfo, entries[0].Severity)
		assert.Equal(t, record.SeveritySuccess, entries[1].Severity)
		assert.Equal(t, record.SeverityWarning, entries[2].Severity)
		assert.Equal(t, record.SeverityError, entries[3].Severity)
		assert.Equal(t, "mismatch", entries[3].Message)
	})

	t.Run("capture failure becomes a warning", func(t *testing.T) {
		j, err := loader.Parse([]byte(sampleJournal))
		require.NoError(t, err)
		s := newSession(t)

		res, err := Replay(context.Background(), j, s)
		require.NoError(t, err)
		require.Len(t, res.Warnings, 1)
		assert.True(t, record.IsCaptureError(res.Warnings[0]))
		assert.Contains(t, res.Warnings[0].Error(), "entry 4 (Case #3)")
		assert.False(t, s.Entries()[3].HasScreenshot())
	})

	t.Run("contract violation stops the replay", func(t *testing.T) {
		j := &Journal{Entries: []JournalEntry{
			{Case: "a", Severity: "info", Message: "first"},
			{Case: "b", Severity: "success", Message: "not allowed"},
			{Case: "c", Severity: "info", Message: "never recorded"},
		}}
		s := newSession(t)

		res, err := Replay(context.Background(), j, s)
		require.Error(t, err)
		assert.True(t, record.IsValidationError(err))
		assert.Contains(t, err.Error(), "entry 2 (b)")
		assert.Equal(t, 1, res.Recorded)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("unknown severity", func(t *testing.T) {
		j := &Journal{Entries: []JournalEntry{{Case: "a", Severity: "fatal", Message: "m"}}}
		s := newSession(t)

		_, err := Replay(context.Background(), j, s)
		require.Error(t, err)
		assert.Equal(t, 0, s.Len())
	})

	t.Run("cancelled context", func(t *testing.T) {
		j, err := loader.Parse([]byte(sampleJournal))
		require.NoError(t, err)
		s := newSession(t)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		res, err := Replay(ctx, j, s)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, res.Recorded)
	})

	t.Run("saved document matches the journal", func(t *testing.T) {
		j, err := loader.Parse([]byte(sampleJournal))
		require.NoError(t, err)
		s := newSession(t)

		_, err = Replay(context.Background(), j, s)
		require.NoError(t, err)
		require.NoError(t, s.Save(context.Background(), false))

		rows, err := spreadsheet.Read(s.Path())
		require.NoError(t, err)
		require.Len(t, rows, 4)
		for i, e := range j.Entries {
			assert.Equal(t, e.Case, rows[i].CaseName)
			assert.Equal(t, e.Message, rows[i].Message)
		}
		assert.Equal(t, "WARNING", rows[2].Type)
		assert.Empty(t, rows[3].Link)
	})
}
