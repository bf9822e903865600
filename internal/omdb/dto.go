package omdb

// envelope holds the fields every OMDb response carries
type envelope struct {
	Response string `json:"Response"`
	Error    string `json:"Error,omitempty"`
}

// ok returns true for the success envelope
func (e envelope) ok() bool {
	return e.Response == "True"
}

// SearchResponse is the response of a search (s=) request
type SearchResponse struct {
	envelope
	Search       []SearchResult `json:"Search,omitempty"`
	TotalResults string         `json:"totalResults,omitempty"` // Base-10 integer encoded as a string
}

// SearchResult is a single entry of a search response
type SearchResult struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	ImdbID string `json:"imdbID"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

// Rating is a per-source rating of a title
type Rating struct {
	Source string `json:"Source"`
	Value  string `json:"Value"`
}

// TitleResponse is the response of a title (i=) request
type TitleResponse struct {
	envelope
	Title      string   `json:"Title"`
	Year       string   `json:"Year"`
	Rated      string   `json:"Rated"`
	Released   string   `json:"Released"`
	Runtime    string   `json:"Runtime"`
	Genre      string   `json:"Genre"`
	Director   string   `json:"Director"`
	Writer     string   `json:"Writer"`
	Actors     string   `json:"Actors"`
	Plot       string   `json:"Plot"`
	Language   string   `json:"Language"`
	Country    string   `json:"Country"`
	Awards     string   `json:"Awards"`
	Poster     string   `json:"Poster"`
	Ratings    []Rating `json:"Ratings,omitempty"`
	Metascore  string   `json:"Metascore"`
	ImdbRating string   `json:"imdbRating"`
	ImdbVotes  string   `json:"imdbVotes"`
	ImdbID     string   `json:"imdbID"`
	Type       string   `json:"Type"`
	BoxOffice  string   `json:"BoxOffice,omitempty"`
	Production string   `json:"Production,omitempty"`
}
