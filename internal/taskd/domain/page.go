package domain

import "math"

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// PageRequest selects a page of results. Zero values mean "use the default".
type PageRequest struct {
	Page  int
	Limit int
}

// Validate rejects explicitly negative values and pages whose offset would
// not fit in an int. Zero is treated as unset.
func (p PageRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if p.Page < 0 {
		errs["page"] = "must be at least 1"
	}
	if p.Limit < 0 {
		errs["limit"] = "must be at least 1"
	}
	if _, ok := errs["page"]; !ok && p.Page > p.Normalize().maxPage() {
		errs["page"] = "out of range"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Normalize fills defaults and caps the limit.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// maxPage is the largest page whose offset fits in an int.
func (p PageRequest) maxPage() int {
	return math.MaxInt/p.Limit + 1
}

// Offset is the number of rows to skip. Call on a normalized request.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is one page of results plus the metadata needed to walk the rest.
type Page[T any] struct {
	Data        []T  `json:"data"`
	Total       int  `json:"total"`
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// NewPage assembles a page from one slice of results and the total count.
func NewPage[T any](data []T, total int, req PageRequest) Page[T] {
	req = req.Normalize()
	if data == nil {
		data = []T{}
	}

	totalPages := (total + req.Limit - 1) / req.Limit

	return Page[T]{
		Data:        data,
		Total:       total,
		Page:        req.Page,
		Limit:       req.Limit,
		TotalPages:  totalPages,
		HasNextPage: req.Page < totalPages,
		HasPrevPage: req.Page > 1,
	}
}
