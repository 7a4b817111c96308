package openlibrary

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
	maxSearchSubjects  = 10
	maxDetailSubjects  = 15
)

// searchFields keeps search responses small. Open Library returns every
// field on the doc otherwise.
const searchFields = "key,title,subtitle,author_name,author_key,first_publish_year,isbn,cover_i,number_of_pages_median,subject,language"

// SearchBooks searches Open Library for books matching the query.
func (c *Client) SearchBooks(ctx context.Context, query string, page, limit int) (*SearchPage, error) {
	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	if limit < 1 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	params := url.Values{}
	params.Set("q", query)
	params.Set("offset", strconv.Itoa(offset))
	params.Set("limit", strconv.Itoa(limit))
	params.Set("fields", searchFields)

	searchURL := c.baseURL + "/search.json?" + params.Encode()

	c.logger.Debug("searching Open Library",
		"query", query,
		"page", page,
		"limit", limit,
	)

	var searchResp searchResponse
	if err := c.getJSON(ctx, searchURL, &searchResp); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	results := make([]SearchResult, 0, len(searchResp.Docs))
	for i := range searchResp.Docs {
		results = append(results, c.formatSearchResult(&searchResp.Docs[i]))
	}

	return &SearchPage{
		Results: results,
		Total:   searchResp.NumFound,
		Page:    page,
		Limit:   limit,
		HasMore: offset+limit < searchResp.NumFound,
	}, nil
}

// GetWorkDetails fetches a work plus its first edition for page count and ISBN.
// The workID may carry the /works/ prefix.
func (c *Client) GetWorkDetails(ctx context.Context, workID string) (*BookDetails, error) {
	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	cleanID := strings.TrimPrefix(workID, "/works/")

	var work workResponse
	if err := c.getJSON(ctx, c.baseURL+"/works/"+url.PathEscape(cleanID)+".json", &work); err != nil {
		return nil, fmt.Errorf("work details: %w", err)
	}

	// The first edition usually carries the physical details the work lacks.
	var editions editionResponse
	if err := c.getJSON(ctx, c.baseURL+"/works/"+url.PathEscape(cleanID)+"/editions.json?limit=1", &editions); err != nil {
		c.logger.Warn("failed to fetch editions, returning work only",
			"workId", cleanID,
			"error", err,
		)
	}

	var ed edition
	if len(editions.Entries) > 0 {
		ed = editions.Entries[0]
	}

	details := c.formatBookDetails(&work, &ed)
	return &details, nil
}

// GetBookByISBN resolves an ISBN-10 or ISBN-13 to book details,
// following the edition's work reference when present.
func (c *Client) GetBookByISBN(ctx context.Context, isbn string) (*BookDetails, error) {
	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	var ed edition
	if err := c.getJSON(ctx, c.baseURL+"/isbn/"+url.PathEscape(isbn)+".json", &ed); err != nil {
		return nil, fmt.Errorf("isbn lookup: %w", err)
	}

	var work workResponse
	if len(ed.Works) > 0 && ed.Works[0].Key != "" {
		if err := c.getJSON(ctx, c.baseURL+ed.Works[0].Key+".json", &work); err != nil {
			c.logger.Warn("failed to fetch work for edition, returning edition only",
				"isbn", isbn,
				"work", ed.Works[0].Key,
				"error", err,
			)
		}
	}

	details := c.formatBookDetails(&work, &ed)
	return &details, nil
}

// getJSON performs a GET request and decodes the JSON body.
func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	if err := json.UnmarshalRead(resp.Body, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// formatSearchResult trims a raw search doc to the client-facing shape.
func (c *Client) formatSearchResult(doc *searchDoc) SearchResult {
	r := SearchResult{
		OpenLibraryID: doc.Key,
		Title:         doc.Title,
		Subtitle:      doc.Subtitle,
		Authors:       doc.AuthorName,
		AuthorKeys:    doc.AuthorKey,
		Subjects:      doc.Subject,
		Languages:     doc.Language,
	}
	if r.Authors == nil {
		r.Authors = []string{}
	}
	if r.AuthorKeys == nil {
		r.AuthorKeys = []string{}
	}
	if r.Languages == nil {
		r.Languages = []string{}
	}
	if len(r.Subjects) > maxSearchSubjects {
		r.Subjects = r.Subjects[:maxSearchSubjects]
	}
	if r.Subjects == nil {
		r.Subjects = []string{}
	}
	if doc.FirstPublishYear > 0 {
		r.PublishedDate = strconv.Itoa(doc.FirstPublishYear)
	}
	if len(doc.ISBN) > 0 {
		r.ISBN = doc.ISBN[0]
	}
	if doc.CoverI > 0 {
		r.CoverImageURL = c.CoverURL(doc.CoverI, CoverSizeLarge)
	}
	if doc.NumberOfPagesMedian > 0 {
		pages := doc.NumberOfPagesMedian
		r.PageCount = &pages
	}
	return r
}

// formatBookDetails merges work and edition records, preferring the work.
func (c *Client) formatBookDetails(work *workResponse, ed *edition) BookDetails {
	d := BookDetails{
		OpenLibraryID: work.Key,
		Title:         work.Title,
		Subtitle:      work.Subtitle,
		Authors:       []string{},
		AuthorKeys:    []string{},
		Subjects:      work.Subjects,
	}
	if d.Title == "" {
		d.Title = ed.Title
	}
	if d.Subtitle == "" {
		d.Subtitle = ed.Subtitle
	}

	for _, a := range work.Authors {
		if a.Author.Name != "" {
			d.Authors = append(d.Authors, a.Author.Name)
		}
		if a.Author.Key != "" {
			d.AuthorKeys = append(d.AuthorKeys, a.Author.Key)
		}
	}

	// Descriptions come back as a string or as {type, value}.
	switch v := work.Description.(type) {
	case string:
		d.Description = v
	case map[string]any:
		if s, ok := v["value"].(string); ok {
			d.Description = s
		}
	}

	d.PublishedDate = ed.PublishDate

	if len(ed.ISBN13) > 0 {
		d.ISBN = ed.ISBN13[0]
	} else if len(ed.ISBN10) > 0 {
		d.ISBN = ed.ISBN10[0]
	}

	if ed.NumberOfPages > 0 {
		pages := ed.NumberOfPages
		d.PageCount = &pages
	}

	var coverID int64
	if len(work.Covers) > 0 {
		coverID = work.Covers[0]
	} else if len(ed.Covers) > 0 {
		coverID = ed.Covers[0]
	}
	if coverID > 0 {
		d.CoverImageURL = c.CoverURL(coverID, CoverSizeLarge)
	}

	if len(d.Subjects) > maxDetailSubjects {
		d.Subjects = d.Subjects[:maxDetailSubjects]
	}
	if d.Subjects == nil {
		d.Subjects = []string{}
	}

	return d
}
