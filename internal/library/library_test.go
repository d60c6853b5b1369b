// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/writing-desk/pkg/types"
)

const workJSON = `{
  "id": "https://openalex.org/W2741809807",
  "title": "Rising Seas",
  "doi": "https://doi.org/10.1038/nature123",
  "publication_year": 2020,
  "authorships": [
    {"author": {"display_name": "Jane Smith"}},
    {"author": {"display_name": "Bob Lee"}},
    {"author": {"display_name": "Kim Park"}}
  ],
  "primary_location": {
    "landing_page_url": "https://nature.com/x",
    "source": {"display_name": "Nature", "type": "journal"}
  },
  "biblio": {"volume": "5", "issue": "2", "first_page": "10", "last_page": "19"}
}`

func testClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	cfg := types.DefaultConfig().Library
	cfg.Endpoint = ts.URL + "/works"
	cfg.Email = "desk@example.org"
	return NewClient(cfg, ts.Client(), zaptest.NewLogger(t))
}

func TestNormalizeDOI(t *testing.T) {
	tests := map[string]string{
		"10.1038/nature123":                 "10.1038/nature123",
		"https://doi.org/10.1038/nature123": "10.1038/nature123",
		"DOI:10.1038/nature123":             "10.1038/nature123",
		"  10.1145/1234567.1234568 ":        "10.1145/1234567.1234568",
		"nature123":                         "",
		"":                                  "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeDOI(in), "input %q", in)
	}
}

func TestResolve(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/works/https://doi.org/10.1038/nature123", r.URL.Path)
		assert.Equal(t, "desk@example.org", r.URL.Query().Get("mailto"))
		w.Write([]byte(workJSON))
	})

	src, err := c.Resolve(context.Background(), "doi:10.1038/nature123")
	require.NoError(t, err)
	assert.Equal(t, types.Source{
		ID:      "W2741809807",
		Author:  "Jane Smith, Bob Lee & Kim Park",
		Title:   "Rising Seas",
		Year:    "2020",
		Journal: "Nature",
		Volume:  "5",
		Issue:   "2",
		Pages:   "10-19",
		DOI:     "10.1038/nature123",
	}, src)
}

func TestResolve_Errors(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	_, err := c.Resolve(context.Background(), "10.1/missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = c.Resolve(context.Background(), "not a doi")
	assert.ErrorContains(t, err, "is not a DOI")
}

func TestSearch(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/works", r.URL.Path)
		assert.Equal(t, "coastal adaptation", r.URL.Query().Get("search"))
		assert.Equal(t, "3", r.URL.Query().Get("per_page"))
		w.Write([]byte(`{"results":[` + workJSON + `,{"id":"https://openalex.org/W1","title":"Talk",
			"primary_location":{"landing_page_url":"https://conf.org/t","source":{"display_name":"ACL","type":"conference"}},
			"biblio":{"first_page":"7"}}]}`))
	})

	got, err := c.Search(context.Background(), "coastal adaptation", 3)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Rising Seas", got[0].Title)
	assert.Equal(t, "ACL", got[1].Conference)
	assert.Equal(t, "7", got[1].Pages)
	assert.Equal(t, "https://conf.org/t", got[1].URL, "landing page kept when there is no DOI")

	_, err = c.Search(context.Background(), "  ", 3)
	assert.Error(t, err)
}

func TestSearch_ServerError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := c.Search(context.Background(), "x", 1)
	assert.ErrorContains(t, err, "HTTP 502")
}

func TestParseAuthorName(t *testing.T) {
	assert.Equal(t, CSLName{Given: "Jane", Family: "Smith"}, parseAuthorName("Jane Smith"))
	assert.Equal(t, CSLName{Family: "Smith", Given: "J."}, parseAuthorName("Smith, J."))
	assert.Equal(t, CSLName{Literal: "UNESCO"}, parseAuthorName("UNESCO"))
	assert.Equal(t, CSLName{}, parseAuthorName("  "))
}

func TestSplitAuthors(t *testing.T) {
	assert.Equal(t, []string{"Jane Smith", "Bob Lee", "Kim Park"}, splitAuthors("Jane Smith, Bob Lee & Kim Park"))
	assert.Equal(t, []string{"Smith, J.", "Doe, A."}, splitAuthors("Smith, J. & Doe, A."))
	assert.Equal(t, []string{"A B", "C D"}, splitAuthors("A B and C D"))
	assert.Nil(t, splitAuthors(""))
}

func TestFormatCSL(t *testing.T) {
	entries := []types.BibliographyEntry{
		{Number: 2, Author: "Doe, A.", Title: "A Book.", Year: "2019", Publisher: "Acme", City: "Paris"},
		{Number: 1, Author: "Jane Smith & Bob Lee", Title: "An Article", Year: "2020", Journal: "Nature", DOI: "10.1/x"},
		{Number: 3, Title: "Talk", Conference: "ACL", Year: "n.d."},
	}
	var buf bytes.Buffer
	require.NoError(t, FormatCSL(entries, &buf))

	var items []CSLItem
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &items))
	require.Len(t, items, 3)

	assert.Equal(t, "1", items[0].ID)
	assert.Equal(t, "article-journal", items[0].Type)
	assert.Equal(t, "Nature", items[0].ContainerTitle)
	assert.Equal(t, []CSLName{{Given: "Jane", Family: "Smith"}, {Given: "Bob", Family: "Lee"}}, items[0].Author)
	assert.Equal(t, &CSLDate{DateParts: [][]int{{2020}}}, items[0].Issued)

	assert.Equal(t, "book", items[1].Type)
	assert.Equal(t, "A Book", items[1].Title)
	assert.Equal(t, "Paris", items[1].PublisherPlace)

	assert.Equal(t, "paper-conference", items[2].Type)
	assert.Nil(t, items[2].Issued)
	assert.True(t, strings.Contains(buf.String(), "DOI: 10.1/x"))
}
