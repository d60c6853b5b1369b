// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library looks up citable sources in OpenAlex and exports a
// bibliography as CSL-YAML.
package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/writing-desk/internal/httputil"
	"github.com/pdiddy/writing-desk/internal/logging"
	"github.com/pdiddy/writing-desk/pkg/types"
)

// ErrNotFound is returned when OpenAlex has no work for a DOI.
var ErrNotFound = errors.New("work not found")

// doiPattern matches bare DOIs: "10.1145/1234567.1234568".
var doiPattern = regexp.MustCompile(`^10\.\d{4,9}/\S+$`)

// NormalizeDOI strips resolver and "doi:" prefixes. It returns "" when s is
// not a DOI.
func NormalizeDOI(s string) string {
	s = strings.TrimSpace(s)
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "https://dx.doi.org/", "doi:"} {
		if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
			s = s[len(prefix):]
			break
		}
	}
	if !doiPattern.MatchString(s) {
		return ""
	}
	return s
}

// Client queries the OpenAlex works API.
type Client struct {
	http   httputil.Doer
	cfg    types.LibraryConfig
	logger *zap.Logger
}

// NewClient returns a Client. A nil client uses one with cfg.Timeout.
func NewClient(cfg types.LibraryConfig, client *http.Client, logger *zap.Logger) *Client {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{http: client, cfg: cfg, logger: logging.OrNop(logger)}
}

// Resolve fetches the work with the given DOI.
func (c *Client) Resolve(ctx context.Context, doi string) (types.Source, error) {
	bare := NormalizeDOI(doi)
	if bare == "" {
		return types.Source{}, fmt.Errorf("%q is not a DOI", doi)
	}
	var work openAlexWork
	if err := c.get(ctx, "/https://doi.org/"+bare, nil, &work); err != nil {
		return types.Source{}, fmt.Errorf("resolving %s: %w", bare, err)
	}
	return work.source(), nil
}

// Search returns up to limit works matching text, most relevant first.
func (c *Client) Search(ctx context.Context, text string, limit int) ([]types.Source, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("empty search query")
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 200 {
		limit = 200
	}
	params := url.Values{
		"search":   {text},
		"per_page": {strconv.Itoa(limit)},
	}
	var resp openAlexResponse
	if err := c.get(ctx, "", params, &resp); err != nil {
		return nil, fmt.Errorf("searching sources: %w", err)
	}
	out := make([]types.Source, 0, len(resp.Results))
	for _, w := range resp.Results {
		out = append(out, w.source())
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	if c.cfg.Email != "" {
		params.Set("mailto", c.cfg.Email)
	}
	reqURL := strings.TrimRight(c.cfg.Endpoint, "/") + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.http, req, c.cfg.MaxRetries, c.logger)
	if err != nil {
		return fmt.Errorf("OpenAlex API request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("OpenAlex API returned HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing OpenAlex response: %w", err)
	}
	return nil
}

// OpenAlex API JSON structures.
type openAlexResponse struct {
	Results []openAlexWork `json:"results"`
}

type openAlexWork struct {
	ID              string               `json:"id"`
	Title           string               `json:"title"`
	DOI             string               `json:"doi"`
	PublicationYear int                  `json:"publication_year"`
	Type            string               `json:"type"`
	Authorships     []openAlexAuthorship `json:"authorships"`
	PrimaryLocation *openAlexLocation    `json:"primary_location"`
	Biblio          openAlexBiblio       `json:"biblio"`
}

type openAlexAuthorship struct {
	Author struct {
		DisplayName string `json:"display_name"`
	} `json:"author"`
}

type openAlexLocation struct {
	LandingPageURL string `json:"landing_page_url"`
	Source         *struct {
		DisplayName          string `json:"display_name"`
		Type                 string `json:"type"`
		HostOrganizationName string `json:"host_organization_name"`
	} `json:"source"`
}

type openAlexBiblio struct {
	Volume    string `json:"volume"`
	Issue     string `json:"issue"`
	FirstPage string `json:"first_page"`
	LastPage  string `json:"last_page"`
}

// source maps a work onto the citable fields. The source library ID is the
// short OpenAlex work ID.
func (w openAlexWork) source() types.Source {
	src := types.Source{
		ID:     strings.TrimPrefix(w.ID, "https://openalex.org/"),
		Title:  w.Title,
		DOI:    strings.TrimPrefix(w.DOI, "https://doi.org/"),
		Volume: w.Biblio.Volume,
		Issue:  w.Biblio.Issue,
	}
	if w.PublicationYear > 0 {
		src.Year = strconv.Itoa(w.PublicationYear)
	}

	var authors []string
	for _, a := range w.Authorships {
		if a.Author.DisplayName != "" {
			authors = append(authors, a.Author.DisplayName)
		}
	}
	src.Author = joinAuthors(authors)

	switch {
	case w.Biblio.FirstPage != "" && w.Biblio.LastPage != "" && w.Biblio.LastPage != w.Biblio.FirstPage:
		src.Pages = w.Biblio.FirstPage + "-" + w.Biblio.LastPage
	case w.Biblio.FirstPage != "":
		src.Pages = w.Biblio.FirstPage
	}

	if loc := w.PrimaryLocation; loc != nil {
		if src.DOI == "" {
			src.URL = loc.LandingPageURL
		}
		if s := loc.Source; s != nil {
			switch s.Type {
			case "journal":
				src.Journal = s.DisplayName
			case "conference":
				src.Conference = s.DisplayName
			case "book series", "ebook platform":
				src.Publisher = s.HostOrganizationName
			}
		}
	}
	return src
}

// joinAuthors renders names as "A", "A & B" or "A, B & C".
func joinAuthors(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " & " + names[len(names)-1]
	}
}
