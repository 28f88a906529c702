package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/conceptrag/core"
)

func TestParseSearchType(t *testing.T) {
	tests := []struct {
		input   string
		want    core.SearchType
		wantErr bool
	}{
		{input: "document", want: core.SearchTypeDocument},
		{input: "passage", want: core.SearchTypePassage},
		{input: "concept", want: core.SearchTypeConcept},
		{input: "Document", want: core.SearchTypeDocument},
		{input: "chunk", wantErr: true},
		{input: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseSearchType(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid search type")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLinesFromFile(t *testing.T) {
	t.Run("reads lines", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "passages.txt")
		require.NoError(t, os.WriteFile(path, []byte("first\nsecond\nthird\n"), 0644))

		lines, err := linesFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"first", "second", "third"}, lines)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := linesFromFile(filepath.Join(t.TempDir(), "absent.txt"))
		assert.Error(t, err)
	})
}

func TestSetupLogger(t *testing.T) {
	newApp := func() *cli.App {
		return &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "log-level",
					Value: "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error {
				return nil
			},
		}
	}

	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error"} {
			t.Run(level, func(t *testing.T) {
				err := newApp().Run([]string{"test", "--log-level", level})
				require.NoError(t, err)
			})
		}
	})

	t.Run("case insensitive log levels", func(t *testing.T) {
		for _, level := range []string{"DEBUG", "Info", "WaRn", "ERROR"} {
			t.Run(level, func(t *testing.T) {
				err := newApp().Run([]string{"test", "--log-level", level})
				require.NoError(t, err)
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		err := newApp().Run([]string{"test", "--log-level", "invalid"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}
