package registrations

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// UploadInput is one file attached to a submission.
type UploadInput struct {
	OriginalName string
	MimeType     string
	Size         int64
	Content      io.Reader
}

// SubmitInput carries the raw multipart form fields of one submission.
// Committees and Positions arrive as JSON-encoded string arrays; the numeric
// experience fields arrive as raw strings.
type SubmitInput struct {
	Name                 string
	Email                string
	Phone                string
	College              string
	Department           string
	Year                 string
	MUNsParticipated     string
	MUNsWithAwards       string
	MUNsChaired          string
	OrganizingExperience string
	Committees           string
	Positions            string
	SubmitterIP          string
	UserAgent            string
	Files                map[string]*UploadInput
}

// validate checks every scalar and preference field, collecting all
// violations rather than stopping at the first. On success it returns the
// registration ready for the repository (no ID, no timestamps, no files).
func (in SubmitInput) validate() (Registration, []string) {
	var violations []string

	required := []struct {
		name  string
		value string
	}{
		{"name", in.Name},
		{"email", in.Email},
		{"phone", in.Phone},
		{"college", in.College},
		{"department", in.Department},
		{"year", in.Year},
		{"organizingExperience", in.OrganizingExperience},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			violations = append(violations, field.name+" is required")
		}
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email != "" && !emailPattern.MatchString(email) {
		violations = append(violations, "email is not a valid address")
	}

	year := strings.TrimSpace(in.Year)
	if year != "" && !contains(Years, year) {
		violations = append(violations, fmt.Sprintf("year must be one of: %s", strings.Join(Years, ", ")))
	}

	experience := strings.ToLower(strings.TrimSpace(in.OrganizingExperience))
	if experience != "" && experience != "yes" && experience != "no" {
		violations = append(violations, "organizingExperience must be yes or no")
	}

	participated, errs := parseCounter("munsParticipated", in.MUNsParticipated)
	violations = append(violations, errs...)
	awarded, errs := parseCounter("munsWithAwards", in.MUNsWithAwards)
	violations = append(violations, errs...)
	chaired, errs := parseCounter("munsChaired", in.MUNsChaired)
	violations = append(violations, errs...)

	committees, errs := parsePreferences("committees", in.Committees, Committees, "at least one committee must be selected")
	violations = append(violations, errs...)
	positions, errs := parsePreferences("positions", in.Positions, Positions, "at least one position must be selected")
	violations = append(violations, errs...)

	if len(violations) > 0 {
		return Registration{}, violations
	}

	return Registration{
		Name:                 strings.TrimSpace(in.Name),
		Email:                email,
		Phone:                strings.TrimSpace(in.Phone),
		College:              strings.TrimSpace(in.College),
		Department:           strings.TrimSpace(in.Department),
		Year:                 year,
		MUNsParticipated:     participated,
		MUNsWithAwards:       awarded,
		MUNsChaired:          chaired,
		OrganizingExperience: experience,
		Committees:           committees,
		Positions:            positions,
		SubmitterIP:          in.SubmitterIP,
		UserAgent:            in.UserAgent,
		Status:               DefaultStatus,
	}, nil
}

// parseCounter parses a non-negative integer counter; an empty value counts
// as zero.
func parseCounter(name, raw string) (int, []string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, []string{name + " must be a number"}
	}
	if n < 0 {
		return 0, []string{name + " must not be negative"}
	}
	return n, nil
}

func parsePreferences(name, raw string, allowed []string, emptyMsg string) ([]string, []string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, []string{emptyMsg}
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, []string{name + " must be a JSON array of strings"}
	}
	if len(values) == 0 {
		return nil, []string{emptyMsg}
	}
	var violations []string
	for _, v := range values {
		if !contains(allowed, v) {
			violations = append(violations, fmt.Sprintf("invalid %s value: %s", name, v))
		}
	}
	if len(violations) > 0 {
		return nil, violations
	}
	return values, nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
