// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/writing-desk/internal/bibliography"
	"github.com/pdiddy/writing-desk/internal/content"
	"github.com/pdiddy/writing-desk/internal/draft"
	"github.com/pdiddy/writing-desk/internal/store"
	"github.com/pdiddy/writing-desk/pkg/types"
)

// session is a loaded draft project wired to a citation engine.
type session struct {
	path    string
	project *types.DraftProject
	buffer  *draft.Buffer
	engine  *bibliography.Engine
}

// openSession loads the --project file and restores its bibliography.
func openSession(cmd *cobra.Command) (*session, error) {
	path, _ := cmd.Flags().GetString("project")
	p, err := draft.LoadProject(path)
	if err != nil {
		return nil, err
	}

	reg := bibliography.NewRegistry()
	if err := reg.Restore(p.Bibliography); err != nil {
		return nil, fmt.Errorf("loading bibliography from %s: %w", path, err)
	}
	buf := draft.NewBuffer(p.Content)
	eng := bibliography.NewEngine(reg, buf, cfg.Citation, bibliography.WithLogger(logger))
	return &session{path: path, project: p, buffer: buf, engine: eng}, nil
}

// save writes the buffer and registry back to the project file and
// snapshots the bibliography in the store.
func (s *session) save(ctx context.Context) error {
	s.engine.Close()
	s.project.Content = s.buffer.Snapshot()
	s.project.Bibliography = s.engine.Registry().Entries()
	if err := draft.SaveProject(s.path, s.project); err != nil {
		return err
	}

	st, err := store.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.SaveBibliography(ctx, s.project.SessionID, s.project.Bibliography); err != nil {
		return err
	}
	logger.Debug("saved project",
		zap.String("path", s.path),
		zap.Int("entries", len(s.project.Bibliography)),
	)
	return nil
}

// text returns the project's current plain text.
func (s *session) text() string {
	return content.PlainText(s.buffer.Snapshot())
}
