package registrations

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"registration-backend/internal/shared/storage/object"
)

// applyPatch merges patch fields into reg. Both repository implementations
// share it so merge semantics cannot drift. Identity and creation-time fields
// are never patchable; unknown keys are ignored.
func applyPatch(reg *Registration, patch map[string]any) error {
	for key, value := range patch {
		switch key {
		case "id", "submittedAt", "updatedAt":
			// server-owned
		case "name":
			reg.Name = asString(value)
		case "email":
			reg.Email = strings.ToLower(strings.TrimSpace(asString(value)))
		case "phone":
			reg.Phone = asString(value)
		case "college":
			reg.College = asString(value)
		case "department":
			reg.Department = asString(value)
		case "year":
			reg.Year = asString(value)
		case "status":
			reg.Status = asString(value)
		case "organizingExperience":
			reg.OrganizingExperience = asString(value)
		case "munsParticipated":
			n, err := asInt(value)
			if err != nil {
				return fmt.Errorf("munsParticipated: %w", err)
			}
			reg.MUNsParticipated = n
		case "munsWithAwards":
			n, err := asInt(value)
			if err != nil {
				return fmt.Errorf("munsWithAwards: %w", err)
			}
			reg.MUNsWithAwards = n
		case "munsChaired":
			n, err := asInt(value)
			if err != nil {
				return fmt.Errorf("munsChaired: %w", err)
			}
			reg.MUNsChaired = n
		case "committees":
			reg.Committees = NormalizeStringList(value)
		case "positions":
			reg.Positions = NormalizeStringList(value)
		case "files":
			files, err := asUploadedFiles(value)
			if err != nil {
				return fmt.Errorf("files: %w", err)
			}
			reg.Files = files
		}
	}
	return nil
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func asInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		return int(i), err
	case string:
		return strconv.Atoi(strings.TrimSpace(n))
	default:
		return 0, fmt.Errorf("not a number: %v", v)
	}
}

func asUploadedFiles(v any) (map[string]object.UploadedFile, error) {
	if files, ok := v.(map[string]object.UploadedFile); ok {
		return files, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var files map[string]object.UploadedFile
	if err := json.Unmarshal(data, &files); err != nil {
		return nil, err
	}
	return files, nil
}
