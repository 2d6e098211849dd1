package testlog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harun/tclog/pkg/capture"
	"github.com/harun/tclog/pkg/record"
	"github.com/harun/tclog/pkg/spreadsheet"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakeCapturer writes a placeholder PNG, or fails when err is set
type fakeCapturer struct {
	err   error
	names []string
}

func (f *fakeCapturer) Backend() string { return "fake" }

func (f *fakeCapturer) Capture(ctx context.Context, dir, name string) (string, error) {
	f.names = append(f.names, name)
	if f.err != nil {
		return "", f.err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name+".png")
	if err := os.WriteFile(path, []byte("\x89PNG\r\n\x1a\n"), 0644); err != nil {
		return "", err
	}
	return path, nil
}

type mockOpener struct {
	mock.Mock
}

func (m *mockOpener) Open(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

func fixedClock() func() time.Time {
	t := time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	base := []Option{
		WithLogger(zerolog.Nop()),
		WithClock(fixedClock()),
		WithCapturer(&fakeCapturer{}),
		WithOpener(&mockOpener{}),
	}
	s, err := Create(filepath.Join(t.TempDir(), "run"), append(base, opts...)...)
	require.NoError(t, err)
	return s
}

func TestCreate(t *testing.T) {
	t.Run("creates missing directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "a", "b")

		s, err := Create(dir, WithLogger(zerolog.Nop()))
		require.NoError(t, err)

		assert.DirExists(t, dir)
		assert.Equal(t, dir, s.Directory())
		assert.Equal(t, filepath.Join(dir, DocumentName), s.Path())
		assert.NotEmpty(t, s.ID())
		assert.Zero(t, s.Len())
	})

	t.Run("existing directory is reused", func(t *testing.T) {
		dir := t.TempDir()

		_, err := Create(dir, WithLogger(zerolog.Nop()))
		assert.NoError(t, err)
	})

	t.Run("regular file fails with IOError", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "journal.txt")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

		s, err := Create(file, WithLogger(zerolog.Nop()))

		assert.Nil(t, s)
		var ioErr *record.IOError
		require.ErrorAs(t, err, &ioErr)
		assert.Equal(t, "create", ioErr.Op)
		assert.ErrorIs(t, err, ErrNotDirectory)
	})

	t.Run("parent is a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "journal.txt")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

		_, err := Create(filepath.Join(file, "run"), WithLogger(zerolog.Nop()))
		assert.True(t, record.IsIOError(err))
	})

	t.Run("empty directory", func(t *testing.T) {
		_, err := Create("")
		assert.True(t, record.IsValidationError(err))
	})
}

func TestAppend(t *testing.T) {
	t.Run("classified appends keep order", func(t *testing.T) {
		s := newSession(t)

		require.NoError(t, s.Info("Case #1", "hello"))
		require.NoError(t, s.Success("Case #1"))
		require.NoError(t, s.Warning("Case #2", "careful"))
		require.NoError(t, s.Error("Case #3", "mismatch", false))

		entries := s.Entries()
		require.Len(t, entries, 4)
		for i, want := range []record.Severity{
			record.SeverityInfo, record.SeveritySuccess, record.SeverityWarning, record.SeverityError,
		} {
			assert.Equal(t, want, entries[i].Severity)
			assert.Equal(t, i+1, entries[i].Sequence)
		}
		assert.True(t, entries[0].Timestamp.Before(entries[1].Timestamp))
	})

	t.Run("success has no message", func(t *testing.T) {
		s := newSession(t)

		require.NoError(t, s.Success("Case #1"))
		assert.Empty(t, s.Entries()[0].Message)

		_, err := s.Log(record.SeveritySuccess, EntryOptions{CaseName: "Case #1", Message: "done"})
		assert.True(t, record.IsValidationError(err))
		assert.Equal(t, 1, s.Len())
	})

	t.Run("empty message is rejected and not appended", func(t *testing.T) {
		s := newSession(t)

		for name, call := range map[string]func() error{
			"info":    func() error { return s.Info("Case #1", "") },
			"warning": func() error { return s.Warning("Case #1", "  ") },
			"error":   func() error { return s.Error("Case #1", "", true) },
		} {
			err := call()
			var vErr *record.ValidationError
			require.ErrorAs(t, err, &vErr, name)
			assert.Equal(t, "message", vErr.Field, name)
		}
		assert.Zero(t, s.Len())
	})

	t.Run("rejected entry does not capture", func(t *testing.T) {
		fc := &fakeCapturer{}
		s := newSession(t, WithCapturer(fc))

		require.Error(t, s.Error("", "boom", true))
		assert.Empty(t, fc.names)
	})

	t.Run("entries are copies", func(t *testing.T) {
		s := newSession(t)
		require.NoError(t, s.Info("Case #1", "hello"))

		entries := s.Entries()
		entries[0].Message = "changed"

		assert.Equal(t, "hello", s.Entries()[0].Message)
	})
}

func TestScreenshots(t *testing.T) {
	t.Run("successful capture is attached", func(t *testing.T) {
		fc := &fakeCapturer{}
		s := newSession(t, WithCapturer(fc))

		require.NoError(t, s.Info("Case #1", "hello"))
		require.NoError(t, s.Error("Case #3", "mismatch", true))

		entry := s.Entries()[1]
		assert.FileExists(t, entry.ScreenshotPath)
		assert.True(t, strings.HasPrefix(entry.ScreenshotPath, s.Directory()))
		assert.Equal(t, []string{"0002_case-3"}, fc.names)
	})

	t.Run("capture failure keeps the entry", func(t *testing.T) {
		s := newSession(t, WithCapturer(capture.NewDisabled()))

		err := s.Error("Case #3", "mismatch", true)

		assert.True(t, record.IsCaptureError(err))
		require.Equal(t, 1, s.Len())
		assert.Empty(t, s.Entries()[0].ScreenshotPath)
	})

	t.Run("plain errors from a capturer become CaptureError", func(t *testing.T) {
		s := newSession(t, WithCapturer(&fakeCapturer{err: errors.New("device busy")}))

		entry, err := s.Log(record.SeverityWarning, EntryOptions{CaseName: "Case #2", Message: "careful", MakeScreenshot: true})

		var cErr *record.CaptureError
		require.ErrorAs(t, err, &cErr)
		assert.Equal(t, "fake", cErr.Backend)
		assert.Equal(t, 1, entry.Sequence)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("unique names per entry", func(t *testing.T) {
		fc := &fakeCapturer{}
		s := newSession(t, WithCapturer(fc))

		require.NoError(t, s.Error("Case #3", "first", true))
		require.NoError(t, s.Error("Case #3", "second", true))

		entries := s.Entries()
		assert.NotEqual(t, entries[0].ScreenshotPath, entries[1].ScreenshotPath)
	})
}

func TestSave(t *testing.T) {
	t.Run("end to end", func(t *testing.T) {
		s := newSession(t)

		require.NoError(t, s.Info("Case #1", "hello"))
		require.NoError(t, s.Success("Case #1"))
		require.NoError(t, s.Warning("Case #2", "careful"))
		require.NoError(t, s.Error("Case #3", "mismatch", true))
		require.NoError(t, s.Save(context.Background(), false))

		rows, err := spreadsheet.Read(s.Path())
		require.NoError(t, err)
		require.Len(t, rows, 4)

		assert.Equal(t, []string{"INFO", "SUCCESS", "WARNING", "ERROR"},
			[]string{rows[0].Type, rows[1].Type, rows[2].Type, rows[3].Type})
		assert.Equal(t, []string{"Case #1", "Case #1", "Case #2", "Case #3"},
			[]string{rows[0].CaseName, rows[1].CaseName, rows[2].CaseName, rows[3].CaseName})
		assert.Equal(t, "hello", rows[0].Message)
		assert.Empty(t, rows[1].Message)

		for _, row := range rows[:3] {
			assert.Empty(t, row.Link)
		}
		screenshot := spreadsheet.ResolveLink(s.Path(), rows[3].Link)
		assert.FileExists(t, screenshot)
		assert.Equal(t, filepath.Join(s.Directory(), ScreenshotsDir), filepath.Dir(screenshot))
	})

	t.Run("failed capture leaves row without link", func(t *testing.T) {
		s := newSession(t, WithCapturer(capture.NewDisabled()))

		assert.True(t, record.IsCaptureError(s.Error("Case #3", "mismatch", true)))
		require.NoError(t, s.Save(context.Background(), false))

		rows, err := spreadsheet.Read(s.Path())
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "ERROR", rows[0].Type)
		assert.Empty(t, rows[0].Link)
		assert.Empty(t, rows[0].Screenshot)
	})

	t.Run("deleted screenshot is saved without link", func(t *testing.T) {
		s := newSession(t)
		require.NoError(t, s.Error("Case #3", "mismatch", true))
		require.NoError(t, s.Error("Case #4", "timeout", true))

		gone := s.Entries()[0].ScreenshotPath
		require.NoError(t, os.Remove(gone))
		require.NoError(t, s.Save(context.Background(), false))

		rows, err := spreadsheet.Read(s.Path())
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Empty(t, rows[0].Link)
		assert.Empty(t, rows[0].Screenshot)
		assert.FileExists(t, spreadsheet.ResolveLink(s.Path(), rows[1].Link))

		// the session still remembers where the capture went
		assert.Equal(t, gone, s.Entries()[0].ScreenshotPath)
	})

	t.Run("saving twice is idempotent", func(t *testing.T) {
		s := newSession(t)
		require.NoError(t, s.Info("Case #1", "hello"))
		require.NoError(t, s.Error("Case #2", "boom", true))

		require.NoError(t, s.Save(context.Background(), false))
		first, err := spreadsheet.Read(s.Path())
		require.NoError(t, err)

		require.NoError(t, s.Save(context.Background(), false))
		second, err := spreadsheet.Read(s.Path())
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("appends after save show up on next save", func(t *testing.T) {
		s := newSession(t)
		require.NoError(t, s.Info("Case #1", "hello"))
		require.NoError(t, s.Save(context.Background(), false))

		require.NoError(t, s.Success("Case #1"))
		require.NoError(t, s.Save(context.Background(), false))

		rows, err := spreadsheet.Read(s.Path())
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("opens document when asked", func(t *testing.T) {
		o := &mockOpener{}
		s := newSession(t, WithOpener(o))
		o.On("Open", mock.Anything, s.Path()).Return(nil).Once()

		require.NoError(t, s.Info("Case #1", "hello"))
		require.NoError(t, s.Save(context.Background(), true))

		o.AssertExpectations(t)
	})

	t.Run("does not open by default", func(t *testing.T) {
		o := &mockOpener{}
		s := newSession(t, WithOpener(o))

		require.NoError(t, s.Save(context.Background(), false))

		o.AssertNotCalled(t, "Open", mock.Anything, mock.Anything)
	})

	t.Run("opener failure is returned after the document is written", func(t *testing.T) {
		o := &mockOpener{}
		s := newSession(t, WithOpener(o))
		cause := errors.New("no viewer")
		o.On("Open", mock.Anything, s.Path()).Return(cause)

		err := s.Save(context.Background(), true)

		assert.ErrorIs(t, err, cause)
		assert.FileExists(t, s.Path())
	})

	t.Run("unwritable directory fails with IOError", func(t *testing.T) {
		s := newSession(t)
		require.NoError(t, s.Info("Case #1", "hello"))

		require.NoError(t, os.RemoveAll(s.Directory()))
		require.NoError(t, os.WriteFile(s.Directory(), []byte("x"), 0644))

		err := s.Save(context.Background(), false)
		assert.True(t, record.IsIOError(err))
	})
}

func TestDelete(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.Info("Case #1", "hello"))

	t.Run("before save", func(t *testing.T) {
		assert.NoError(t, s.Delete())
	})

	t.Run("after save", func(t *testing.T) {
		require.NoError(t, s.Save(context.Background(), false))
		require.FileExists(t, s.Path())

		require.NoError(t, s.Delete())
		assert.NoFileExists(t, s.Path())
	})
}
