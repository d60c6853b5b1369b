// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads service credentials from a directory of plain-text
// files. Each file is one secret: the file name is the key and the trimmed
// contents are the value.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/writing-desk/internal/logging"
	"github.com/pdiddy/writing-desk/pkg/types"
)

// Key files understood by Apply.
const (
	ClassifierAPIKey = "classifier-api-key"
	SubmissionToken  = "submission-token"
)

// Load reads all files in dir. A missing directory is not an error and
// yields an empty map. Unreadable files are logged and skipped.
func Load(dir string, logger *zap.Logger) (map[string]string, error) {
	logger = logging.OrNop(logger)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	out := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("could not read secret", zap.String("name", name), zap.Error(err))
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			out[name] = value
		}
	}
	return out, nil
}

// Apply copies known secrets into cfg. Values already set in cfg win.
func Apply(cfg *types.WriterConfig, s map[string]string) {
	if cfg.Classifier.APIKey == "" {
		cfg.Classifier.APIKey = s[ClassifierAPIKey]
	}
	if cfg.Submission.Token == "" {
		cfg.Submission.Token = s[SubmissionToken]
	}
}
