package registrations

import (
	"encoding/json"
	"sort"

	"registration-backend/internal/shared/storage/object"
)

// Controlled vocabularies for applicant preferences.
var (
	Committees = []string{"UNSC", "UNHRC", "DISEC", "ECOSOC", "AIPPM", "IP"}
	Positions  = []string{"Delegate", "Chairperson", "Vice-Chairperson"}
	Years      = []string{"1st Year", "2nd Year", "3rd Year", "4th Year", "Other"}
)

// DefaultStatus is assigned to every new registration.
const DefaultStatus = "submitted"

// Registration is one applicant's submitted record. Timestamps are RFC3339
// UTC strings everywhere outside the repository layer.
type Registration struct {
	ID                   string                         `json:"id"`
	Name                 string                         `json:"name"`
	Email                string                         `json:"email"`
	Phone                string                         `json:"phone"`
	College              string                         `json:"college"`
	Department           string                         `json:"department"`
	Year                 string                         `json:"year"`
	MUNsParticipated     int                            `json:"munsParticipated"`
	MUNsWithAwards       int                            `json:"munsWithAwards"`
	MUNsChaired          int                            `json:"munsChaired"`
	OrganizingExperience string                         `json:"organizingExperience"`
	Committees           []string                       `json:"committees"`
	Positions            []string                       `json:"positions"`
	Files                map[string]object.UploadedFile `json:"files,omitempty"`
	Status               string                         `json:"status"`
	SubmitterIP          string                         `json:"submitterIp,omitempty"`
	UserAgent            string                         `json:"userAgent,omitempty"`
	SubmittedAt          string                         `json:"submittedAt"`
	UpdatedAt            string                         `json:"updatedAt"`
}

// AttachmentKeys returns the object-store keys of every stored attachment.
func (r Registration) AttachmentKeys() []string {
	var keys []string
	for _, f := range r.Files {
		if f.Key != "" {
			keys = append(keys, f.Key)
		}
	}
	return keys
}

// Stats is the aggregate view served to the admin dashboard.
type Stats struct {
	Total             int            `json:"total"`
	CommitteeStats    map[string]int `json:"committeeStats"`
	PositionStats     map[string]int `json:"positionStats"`
	YearStats         map[string]int `json:"yearStats"`
	RecentSubmissions []Registration `json:"recentSubmissions"`
}

const recentSubmissionsCount = 5

// ComputeStats derives aggregate statistics in a single pass over the full
// registration list. Unrecognized committee/position values are skipped, not
// rejected.
func ComputeStats(regs []Registration) Stats {
	stats := Stats{
		Total:          len(regs),
		CommitteeStats: make(map[string]int, len(Committees)),
		PositionStats:  make(map[string]int, len(Positions)),
		YearStats:      make(map[string]int, len(Years)),
	}
	knownCommittees := toSet(Committees)
	knownPositions := toSet(Positions)
	knownYears := toSet(Years)

	for _, reg := range regs {
		for _, committee := range reg.Committees {
			if _, ok := knownCommittees[committee]; ok {
				stats.CommitteeStats[committee]++
			}
		}
		for _, position := range reg.Positions {
			if _, ok := knownPositions[position]; ok {
				stats.PositionStats[position]++
			}
		}
		if _, ok := knownYears[reg.Year]; ok {
			stats.YearStats[reg.Year]++
		}
	}

	recent := make([]Registration, len(regs))
	copy(recent, regs)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].SubmittedAt > recent[j].SubmittedAt
	})
	if len(recent) > recentSubmissionsCount {
		recent = recent[:recentSubmissionsCount]
	}
	stats.RecentSubmissions = recent
	return stats
}

// NormalizeStringList coerces the mixed historical representations of
// list-valued fields to a plain []string: a native array, a JSON-encoded
// array, or a doubly JSON-encoded array all normalize the same way. Anything
// unrecognizable yields nil.
func NormalizeStringList(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return nil
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []any:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []byte:
		return normalizeJSON(v)
	case string:
		return normalizeJSON([]byte(v))
	default:
		return nil
	}
}

func normalizeJSON(data []byte) []string {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		return arr
	}
	// Some write paths stored the list as a JSON-encoded string containing
	// another JSON array; unwrap one level and retry.
	var inner string
	if err := json.Unmarshal(data, &inner); err == nil {
		var out []string
		if err := json.Unmarshal([]byte(inner), &out); err == nil {
			return out
		}
	}
	return nil
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
