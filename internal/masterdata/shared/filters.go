// Package shared holds listing helpers common to the masterdata entities.
package shared

// ListFilters narrows and pages a masterdata listing.
type ListFilters struct {
	Page   int
	Limit  int
	Search string
}

// Normalize fills defaults and returns the SQL limit/offset pair.
func (f *ListFilters) Normalize() (limit, offset int) {
	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	return f.Limit, (f.Page - 1) * f.Limit
}
