// Package admin serves the registration dashboard: listing with filters and
// pagination, aggregate statistics, bulk actions and exports.
package admin

import (
	"strings"

	"registration-backend/internal/registrations"
)

// Filters narrows the registration list. All filters compose conjunctively;
// empty values are pass-through.
type Filters struct {
	Search    string
	Committee string
	Position  string
	Year      string
	Status    string
}

// Pagination describes the slice returned by Paginate.
type Pagination struct {
	CurrentPage  int  `json:"currentPage"`
	TotalPages   int  `json:"totalPages"`
	TotalRecords int  `json:"totalRecords"`
	HasNext      bool `json:"hasNext"`
	HasPrev      bool `json:"hasPrev"`
}

// ApplyFilters returns the registrations matching every set filter. Search is
// a case-insensitive substring match over name, email, phone and college;
// committee and position match set membership case-insensitively; year and
// status match exactly.
func ApplyFilters(regs []registrations.Registration, f Filters) []registrations.Registration {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	committee := strings.TrimSpace(f.Committee)
	position := strings.TrimSpace(f.Position)

	out := make([]registrations.Registration, 0, len(regs))
	for _, reg := range regs {
		if search != "" && !matchesSearch(reg, search) {
			continue
		}
		if committee != "" && !containsFold(reg.Committees, committee) {
			continue
		}
		if position != "" && !containsFold(reg.Positions, position) {
			continue
		}
		if f.Year != "" && reg.Year != f.Year {
			continue
		}
		if f.Status != "" && reg.Status != f.Status {
			continue
		}
		out = append(out, reg)
	}
	return out
}

// Paginate slices the filtered list. page is clamped to >= 1 and limit to
// > 0; a page past the end yields an empty slice.
func Paginate(regs []registrations.Registration, page, limit int) ([]registrations.Registration, Pagination) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	total := len(regs)
	totalPages := (total + limit - 1) / limit

	start := (page - 1) * limit
	end := start + limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return regs[start:end], Pagination{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalRecords: total,
		HasNext:      page < totalPages,
		HasPrev:      page > 1 && total > 0,
	}
}

func matchesSearch(reg registrations.Registration, search string) bool {
	for _, field := range []string{reg.Name, reg.Email, reg.Phone, reg.College} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

func containsFold(values []string, v string) bool {
	for _, candidate := range values {
		if strings.EqualFold(candidate, v) {
			return true
		}
	}
	return false
}
