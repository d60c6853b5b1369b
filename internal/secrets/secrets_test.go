// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pdiddy/writing-desk/pkg/types"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  map[string]string
	}{
		{
			name: "trims values",
			files: map[string]string{
				ClassifierAPIKey: "  ck_abc123  \n",
				SubmissionToken:  "tok_xyz789\n",
			},
			want: map[string]string{ClassifierAPIKey: "ck_abc123", SubmissionToken: "tok_xyz789"},
		},
		{
			name: "ignores blank files and dotfiles",
			files: map[string]string{
				SubmissionToken: "tok_real",
				"empty":         "",
				"blank":         " \n\t ",
				".gitkeep":      "",
				".hidden":       "secret",
			},
			want: map[string]string{SubmissionToken: "tok_real"},
		},
		{
			name:  "empty directory",
			files: map[string]string{},
			want:  map[string]string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, content := range tt.files {
				writeFile(t, dir, name, content)
			}
			require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

			got, err := Load(dir, zaptest.NewLogger(t))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad_MissingDirectory(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), ".secrets"), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoad_SkipsUnreadable(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("root can read mode 000 files")
	}
	dir := t.TempDir()
	writeFile(t, dir, ClassifierAPIKey, "ck_ok")
	locked := filepath.Join(dir, SubmissionToken)
	require.NoError(t, os.WriteFile(locked, []byte("tok"), 0o000))
	t.Cleanup(func() { os.Chmod(locked, 0o644) })

	got, err := Load(dir, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{ClassifierAPIKey: "ck_ok"}, got)
}

func TestApply(t *testing.T) {
	cfg := types.DefaultConfig()
	cfg.Submission.Token = "from-config"
	Apply(&cfg, map[string]string{
		ClassifierAPIKey: "ck_file",
		SubmissionToken:  "tok_file",
	})
	assert.Equal(t, "ck_file", cfg.Classifier.APIKey)
	assert.Equal(t, "from-config", cfg.Submission.Token, "explicit config wins over the secrets dir")

	empty := types.DefaultConfig()
	Apply(&empty, nil)
	assert.Empty(t, empty.Classifier.APIKey)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
