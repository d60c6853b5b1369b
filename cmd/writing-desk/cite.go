// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/writing-desk/internal/content"
	"github.com/pdiddy/writing-desk/internal/draft"
	"github.com/pdiddy/writing-desk/internal/library"
	"github.com/pdiddy/writing-desk/pkg/types"
)

var citeCmd = &cobra.Command{
	Use:   "cite",
	Short: "Manage numbered citations and the bibliography",
	Long: `Cite inserts [n] markers for sources, removes them, and keeps the
project's bibliography in step with the markers that remain in the text.`,
}

// --- add subcommand ---

var citeAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Insert a citation marker at the end of the draft",
	Long: `Add cites a source from the project's library (--id) or one described
by flags. With --resolve the --doi is looked up in OpenAlex and the result
is added to the project library. Citing the same source again reuses its
number.`,
	RunE: runCiteAdd,
}

func runCiteAdd(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	var src types.Source
	if resolve, _ := cmd.Flags().GetBool("resolve"); resolve {
		doi, _ := cmd.Flags().GetString("doi")
		src, err = newLibrary().Resolve(cmd.Context(), doi)
		if err != nil {
			return err
		}
		s.project.Sources = addToLibrary(s.project.Sources, src)
	} else {
		src, err = sourceFromFlags(cmd, s.project.Sources)
		if err != nil {
			return err
		}
	}

	entry := s.engine.Cite(src)
	if err := s.save(context.Background()); err != nil {
		return err
	}
	fmt.Printf("%s %s\n", content.Marker(entry.Number), entry.Title)
	return nil
}

func sourceFromFlags(cmd *cobra.Command, library []types.Source) (types.Source, error) {
	id, _ := cmd.Flags().GetString("id")
	if id != "" {
		for _, src := range library {
			if src.ID == id {
				return src, nil
			}
		}
		return types.Source{}, fmt.Errorf("no source with id %q in the project library", id)
	}

	get := func(name string) string {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	src := types.Source{
		Author:     get("author"),
		Title:      get("title"),
		Year:       get("year"),
		Journal:    get("journal"),
		Publisher:  get("publisher"),
		Volume:     get("volume"),
		Issue:      get("issue"),
		Pages:      get("pages"),
		URL:        get("url"),
		DOI:        get("doi"),
		City:       get("city"),
		Edition:    get("edition"),
		Conference: get("conference"),
	}
	if src.Title == "" {
		return types.Source{}, fmt.Errorf("--title or --id is required")
	}
	return src, nil
}

// addToLibrary appends src unless a source with the same ID is present.
func addToLibrary(sources []types.Source, src types.Source) []types.Source {
	for _, have := range sources {
		if src.ID != "" && have.ID == src.ID {
			return sources
		}
	}
	return append(sources, src)
}

// --- lookup subcommand ---

var citeLookupCmd = &cobra.Command{
	Use:   "lookup [doi or query]",
	Short: "Find sources in OpenAlex",
	Long: `Lookup resolves a DOI or searches OpenAlex by text and prints the
matching works. With --save the results are added to the project library
so they can be cited with "cite add --id".`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCiteLookup,
}

func runCiteLookup(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	lib := newLibrary()

	var found []types.Source
	if library.NormalizeDOI(query) != "" {
		src, err := lib.Resolve(cmd.Context(), query)
		if err != nil {
			return err
		}
		found = []types.Source{src}
	} else {
		limit, _ := cmd.Flags().GetInt("limit")
		var err error
		if found, err = lib.Search(cmd.Context(), query, limit); err != nil {
			return err
		}
	}

	for _, src := range found {
		fmt.Printf("%-12s %s (%s). %s\n", src.ID, src.Author, src.Year, src.Title)
	}
	if len(found) == 0 {
		fmt.Println("no matching works")
	}

	if keep, _ := cmd.Flags().GetBool("save"); !keep || len(found) == 0 {
		return nil
	}
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	for _, src := range found {
		s.project.Sources = addToLibrary(s.project.Sources, src)
	}
	return s.save(cmd.Context())
}

// --- remove subcommand ---

var citeRemoveCmd = &cobra.Command{
	Use:   "remove [number]",
	Short: "Remove a citation and every [n] marker for it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("citation number %q: %w", args[0], err)
		}
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		entry, err := s.engine.Remove(n)
		if err != nil {
			return err
		}
		if err := s.save(context.Background()); err != nil {
			return err
		}
		fmt.Printf("removed [%d] %s\n", n, entry.Title)
		return nil
	},
}

// --- sync subcommand ---

var citeSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Prune bibliography entries whose markers left the text",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		res := s.engine.SyncNow()
		if err := s.save(context.Background()); err != nil {
			return err
		}
		if len(res.Pruned) == 0 {
			fmt.Println("bibliography up to date")
		} else {
			fmt.Printf("pruned %v\n", res.Pruned)
		}
		fmt.Printf("next number: %d\n", res.NextNumber)

		if dangling := draft.DanglingMarkers(s.buffer.Snapshot(), s.project.Bibliography); len(dangling) > 0 {
			fmt.Fprintf(os.Stderr, "warning: markers without entries: %v\n", dangling)
		}
		return nil
	},
}

// --- render subcommand ---

var citeRenderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print the formatted bibliography",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		if out := s.engine.Bibliography(); out != "" {
			fmt.Println(out)
		}
		return nil
	},
}

// --- bibtex subcommand ---

var citeBibtexCmd = &cobra.Command{
	Use:   "bibtex",
	Short: "Export the bibliography as BibTeX",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		out := draft.GenerateBibTeX(s.engine.Registry().Entries())
		file, _ := cmd.Flags().GetString("output")
		if file == "" {
			fmt.Print(out)
			return nil
		}
		return os.WriteFile(file, []byte(out), 0o644)
	},
}

// --- csl subcommand ---

var citeCSLCmd = &cobra.Command{
	Use:   "csl",
	Short: "Export the bibliography as CSL-YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		file, _ := cmd.Flags().GetString("output")
		if file == "" {
			return library.FormatCSL(s.engine.Registry().Entries(), os.Stdout)
		}
		f, err := os.Create(file)
		if err != nil {
			return err
		}
		if err := library.FormatCSL(s.engine.Registry().Entries(), f); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	},
}

func init() {
	f := citeAddCmd.Flags()
	f.String("id", "", "cite a source from the project library by ID")
	f.Bool("resolve", false, "look up --doi in OpenAlex instead of using the metadata flags")
	for _, name := range []string{
		"author", "title", "year", "journal", "publisher", "volume", "issue",
		"pages", "url", "doi", "city", "edition", "conference",
	} {
		f.String(name, "", name+" of an ad-hoc source")
	}

	citeBibtexCmd.Flags().StringP("output", "o", "", "write BibTeX to this file instead of stdout")
	citeCSLCmd.Flags().StringP("output", "o", "", "write CSL-YAML to this file instead of stdout")
	citeLookupCmd.Flags().Int("limit", 5, "maximum search results")
	citeLookupCmd.Flags().Bool("save", false, "add the results to the project library")

	citeCmd.AddCommand(citeAddCmd)
	citeCmd.AddCommand(citeLookupCmd)
	citeCmd.AddCommand(citeRemoveCmd)
	citeCmd.AddCommand(citeSyncCmd)
	citeCmd.AddCommand(citeRenderCmd)
	citeCmd.AddCommand(citeBibtexCmd)
	citeCmd.AddCommand(citeCSLCmd)
	rootCmd.AddCommand(citeCmd)
}
