package openlibrary

// SearchResult is a single book from Open Library search, trimmed to the
// fields clients need to add the book to their library.
type SearchResult struct {
	OpenLibraryID string   `json:"openLibraryId"`
	Title         string   `json:"title"`
	Subtitle      string   `json:"subtitle,omitempty"`
	Authors       []string `json:"authors"`
	AuthorKeys    []string `json:"authorKeys"`
	PublishedDate string   `json:"publishedDate,omitempty"`
	ISBN          string   `json:"isbn,omitempty"`
	CoverImageURL string   `json:"coverImageUrl,omitempty"`
	PageCount     *int     `json:"pageCount"`
	Subjects      []string `json:"subjects"`
	Languages     []string `json:"languages"`
}

// SearchPage is a page of search results.
type SearchPage struct {
	Results []SearchResult `json:"results"`
	Total   int            `json:"total"`
	Page    int            `json:"page"`
	Limit   int            `json:"limit"`
	HasMore bool           `json:"hasMore"`
}

// BookDetails is detailed work plus edition information.
type BookDetails struct {
	OpenLibraryID string   `json:"openLibraryId"`
	Title         string   `json:"title"`
	Subtitle      string   `json:"subtitle,omitempty"`
	Authors       []string `json:"authors"`
	AuthorKeys    []string `json:"authorKeys"`
	Description   string   `json:"description,omitempty"`
	PublishedDate string   `json:"publishedDate,omitempty"`
	ISBN          string   `json:"isbn,omitempty"`
	CoverImageURL string   `json:"coverImageUrl,omitempty"`
	PageCount     *int     `json:"pageCount"`
	Subjects      []string `json:"subjects"`
}

// searchResponse is the raw Open Library search API response.
type searchResponse struct {
	NumFound int         `json:"numFound"`
	Docs     []searchDoc `json:"docs"`
}

// searchDoc is a single raw search result.
type searchDoc struct {
	Key                 string   `json:"key"`
	Title               string   `json:"title"`
	Subtitle            string   `json:"subtitle"`
	AuthorName          []string `json:"author_name"`
	AuthorKey           []string `json:"author_key"`
	FirstPublishYear    int      `json:"first_publish_year"`
	ISBN                []string `json:"isbn"`
	CoverI              int64    `json:"cover_i"`
	NumberOfPagesMedian int      `json:"number_of_pages_median"`
	Subject             []string `json:"subject"`
	Language            []string `json:"language"`
}

// workResponse is the raw works API response. Description is either a
// plain string or a {type, value} object depending on the record.
type workResponse struct {
	Key         string       `json:"key"`
	Title       string       `json:"title"`
	Subtitle    string       `json:"subtitle"`
	Description any          `json:"description"`
	Covers      []int64      `json:"covers"`
	Subjects    []string     `json:"subjects"`
	Authors     []workAuthor `json:"authors"`
}

// workAuthor is an author reference on a work record.
type workAuthor struct {
	Author struct {
		Key  string `json:"key"`
		Name string `json:"name"`
	} `json:"author"`
}

// editionResponse is the raw editions API response.
type editionResponse struct {
	Entries []edition `json:"entries"`
}

// edition is a single raw edition record.
type edition struct {
	Title         string   `json:"title"`
	Subtitle      string   `json:"subtitle"`
	PublishDate   string   `json:"publish_date"`
	ISBN13        []string `json:"isbn_13"`
	ISBN10        []string `json:"isbn_10"`
	NumberOfPages int      `json:"number_of_pages"`
	Covers        []int64  `json:"covers"`
	Works         []struct {
		Key string `json:"key"`
	} `json:"works"`
}
