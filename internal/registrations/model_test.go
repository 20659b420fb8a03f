package registrations

import (
	"testing"
)

func TestNormalizeStringListNativeSlice(t *testing.T) {
	got := NormalizeStringList([]string{"UNSC", "DISEC"})
	if len(got) != 2 || got[0] != "UNSC" || got[1] != "DISEC" {
		t.Fatalf("got %v", got)
	}
}

func TestNormalizeStringListJSONArray(t *testing.T) {
	got := NormalizeStringList([]byte(`["UNHRC","ECOSOC"]`))
	if len(got) != 2 || got[0] != "UNHRC" || got[1] != "ECOSOC" {
		t.Fatalf("got %v", got)
	}
}

func TestNormalizeStringListDoublyEncoded(t *testing.T) {
	// A JSON string whose contents are themselves a JSON array.
	got := NormalizeStringList(`"[\"AIPPM\"]"`)
	if len(got) != 1 || got[0] != "AIPPM" {
		t.Fatalf("got %v", got)
	}
}

func TestNormalizeStringListGarbage(t *testing.T) {
	if got := NormalizeStringList("not json"); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
	if got := NormalizeStringList(42); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
	if got := NormalizeStringList(nil); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestComputeStats(t *testing.T) {
	regs := []Registration{
		{Year: "1st Year", Committees: []string{"UNSC", "DISEC"}, Positions: []string{"Delegate"}, SubmittedAt: "2026-01-01T10:00:00Z"},
		{Year: "1st Year", Committees: []string{"UNSC"}, Positions: []string{"Chairperson"}, SubmittedAt: "2026-01-02T10:00:00Z"},
		{Year: "3rd Year", Committees: []string{"bogus"}, Positions: []string{"Delegate"}, SubmittedAt: "2026-01-03T10:00:00Z"},
	}

	stats := ComputeStats(regs)
	if stats.Total != 3 {
		t.Fatalf("total = %d", stats.Total)
	}
	if stats.CommitteeStats["UNSC"] != 2 || stats.CommitteeStats["DISEC"] != 1 {
		t.Fatalf("committee stats = %v", stats.CommitteeStats)
	}
	if _, ok := stats.CommitteeStats["bogus"]; ok {
		t.Fatal("unknown committee value should be skipped")
	}
	if stats.PositionStats["Delegate"] != 2 || stats.PositionStats["Chairperson"] != 1 {
		t.Fatalf("position stats = %v", stats.PositionStats)
	}
	if stats.YearStats["1st Year"] != 2 || stats.YearStats["3rd Year"] != 1 {
		t.Fatalf("year stats = %v", stats.YearStats)
	}
}

func TestComputeStatsRecentSubmissions(t *testing.T) {
	var regs []Registration
	for i := 0; i < 8; i++ {
		regs = append(regs, Registration{
			ID:          string(rune('a' + i)),
			SubmittedAt: "2026-01-0" + string(rune('1'+i)) + "T10:00:00Z",
		})
	}

	stats := ComputeStats(regs)
	if len(stats.RecentSubmissions) != 5 {
		t.Fatalf("recent count = %d", len(stats.RecentSubmissions))
	}
	// Most recent first.
	if stats.RecentSubmissions[0].ID != "h" || stats.RecentSubmissions[4].ID != "d" {
		t.Fatalf("recent order = %v", stats.RecentSubmissions)
	}
}

func TestAttachmentKeys(t *testing.T) {
	reg := Registration{}
	if keys := reg.AttachmentKeys(); len(keys) != 0 {
		t.Fatalf("expected no keys, got %v", keys)
	}
}
