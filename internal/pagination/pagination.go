package pagination

// Default pagination values
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Params represents pagination arguments
type Params struct {
	Page     int `json:"page"`      // Current page number (1-based)
	PageSize int `json:"page_size"` // Number of items per page
}

// Meta contains pagination metadata for responses
type Meta struct {
	CurrentPage  int  `json:"current_page"`
	PageSize     int  `json:"page_size"`
	TotalPages   int  `json:"total_pages"`
	TotalRecords int  `json:"total_records"`
	HasNext      bool `json:"has_next"`
	HasPrevious  bool `json:"has_previous"`
}

// FromArgs builds Params from optional client arguments. Missing or
// out-of-range values fall back to defaults; page size is capped at MaxPageSize.
func FromArgs(page, pageSize *int32) Params {
	p := Params{Page: DefaultPage, PageSize: DefaultPageSize}
	if page != nil {
		p.Page = int(*page)
	}
	if pageSize != nil {
		p.PageSize = int(*pageSize)
	}
	p.Validate()
	return p
}

// Validate ensures pagination parameters are valid and sets defaults if needed
func (p *Params) Validate() {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
}

// CalculateOffset returns the SQL OFFSET value based on page and page size
func (p *Params) CalculateOffset() int {
	return (p.Page - 1) * p.PageSize
}

// CalculateMeta creates pagination metadata based on total records
func (p *Params) CalculateMeta(totalRecords int) Meta {
	totalPages := (totalRecords + p.PageSize - 1) / p.PageSize // Ceiling division
	if totalPages < 1 {
		totalPages = 1
	}

	return Meta{
		CurrentPage:  p.Page,
		PageSize:     p.PageSize,
		TotalPages:   totalPages,
		TotalRecords: totalRecords,
		HasNext:      p.Page < totalPages,
		HasPrevious:  p.Page > 1,
	}
}
