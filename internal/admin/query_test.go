package admin

import (
	"fmt"
	"testing"

	"registration-backend/internal/registrations"
)

func sampleRegs() []registrations.Registration {
	return []registrations.Registration{
		{ID: "1", Name: "Asha Rao", Email: "asha@example.com", Phone: "111", College: "NIT Trichy",
			Year: "2nd Year", Status: "submitted", Committees: []string{"UNSC"}, Positions: []string{"Delegate"}},
		{ID: "2", Name: "Ravi Kumar", Email: "ravi@example.com", Phone: "222", College: "IIT Madras",
			Year: "3rd Year", Status: "approved", Committees: []string{"UNHRC", "DISEC"}, Positions: []string{"Chairperson"}},
		{ID: "3", Name: "Meera Nair", Email: "meera@example.com", Phone: "333", College: "Anna University",
			Year: "2nd Year", Status: "submitted", Committees: []string{"unsc"}, Positions: []string{"Delegate"}},
	}
}

func ids(regs []registrations.Registration) []string {
	out := make([]string, len(regs))
	for i, reg := range regs {
		out[i] = reg.ID
	}
	return out
}

func TestApplyFiltersSearch(t *testing.T) {
	got := ApplyFilters(sampleRegs(), Filters{Search: "TRICHY"})
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("got %v", ids(got))
	}
}

func TestApplyFiltersCommitteeCaseInsensitive(t *testing.T) {
	got := ApplyFilters(sampleRegs(), Filters{Committee: "UNSC"})
	if len(got) != 2 {
		t.Fatalf("got %v", ids(got))
	}
}

func TestApplyFiltersConjunctive(t *testing.T) {
	got := ApplyFilters(sampleRegs(), Filters{Committee: "UNSC", Year: "2nd Year", Status: "submitted"})
	if len(got) != 2 {
		t.Fatalf("got %v", ids(got))
	}
	got = ApplyFilters(sampleRegs(), Filters{Committee: "UNSC", Status: "approved"})
	if len(got) != 0 {
		t.Fatalf("got %v", ids(got))
	}
}

func TestApplyFiltersIdempotent(t *testing.T) {
	f := Filters{Year: "2nd Year"}
	once := ApplyFilters(sampleRegs(), f)
	twice := ApplyFilters(once, f)
	if len(once) != len(twice) {
		t.Fatalf("filtering is not idempotent: %d vs %d", len(once), len(twice))
	}
}

func TestApplyFiltersEmptyPassThrough(t *testing.T) {
	got := ApplyFilters(sampleRegs(), Filters{})
	if len(got) != 3 {
		t.Fatalf("got %v", ids(got))
	}
}

func TestPaginateBoundary(t *testing.T) {
	var regs []registrations.Registration
	for i := 0; i < 101; i++ {
		regs = append(regs, registrations.Registration{ID: fmt.Sprintf("r%03d", i)})
	}

	slice, p := Paginate(regs, 3, 50)
	if len(slice) != 1 {
		t.Fatalf("page 3 size = %d", len(slice))
	}
	if slice[0].ID != "r100" {
		t.Fatalf("page 3 first = %s", slice[0].ID)
	}
	if p.TotalPages != 3 || p.TotalRecords != 101 {
		t.Fatalf("pagination = %+v", p)
	}
	if p.HasNext || !p.HasPrev {
		t.Fatalf("pagination = %+v", p)
	}
}

func TestPaginatePastEnd(t *testing.T) {
	slice, p := Paginate(sampleRegs(), 99, 10)
	if len(slice) != 0 {
		t.Fatalf("expected empty page, got %d", len(slice))
	}
	if p.CurrentPage != 99 || p.HasNext {
		t.Fatalf("pagination = %+v", p)
	}
}

func TestPaginateClampsInvalidInput(t *testing.T) {
	slice, p := Paginate(sampleRegs(), 0, -5)
	if p.CurrentPage != 1 {
		t.Fatalf("pagination = %+v", p)
	}
	// Limit falls back to the default of 10.
	if len(slice) != 3 {
		t.Fatalf("page size = %d", len(slice))
	}
}
