package viewmodel

// Pagination describes a page-numbered list for the pager partial.
type Pagination struct {
	Page       int
	Limit      int
	Total      int
	TotalPages int
	HasPrev    bool
	HasNext    bool
	StartIndex int
	EndIndex   int
	PrevURL    string
	NextURL    string
}
