// Package attachments validates uploaded PDF attachments against per-field
// rules before anything touches the object store.
package attachments

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Attachment field names accepted by the submission form.
const (
	FieldIDCard          = "idCard"
	FieldMUNCertificates = "munCertificates"
	FieldChairingResume  = "chairingResume"
)

const allowedMimeType = "application/pdf"

// File is the declared shape of an uploaded file. Content is validated
// elsewhere; the rules here only consult declared metadata.
type File struct {
	OriginalName string
	MimeType     string
	Size         int64
}

// Rule bounds one attachment field.
type Rule struct {
	Required bool
	MaxBytes int64
	MaxLabel string
}

var rules = map[string]Rule{
	FieldIDCard:          {Required: true, MaxBytes: 2 << 20, MaxLabel: "2 MB"},
	FieldMUNCertificates: {Required: false, MaxBytes: 2 << 20, MaxLabel: "2 MB"},
	FieldChairingResume:  {Required: false, MaxBytes: 3 << 20, MaxLabel: "3 MB"},
}

// Fields lists the known attachment fields in form order.
func Fields() []string {
	return []string{FieldIDCard, FieldMUNCertificates, FieldChairingResume}
}

// RuleFor returns the rule for a field name.
func RuleFor(field string) (Rule, bool) {
	r, ok := rules[field]
	return r, ok
}

// Validate checks a file against its field's rules and returns every
// violation. The checks are independent: a wrong MIME type and an oversized
// payload are both reported. A nil file is a violation only for required
// fields. No side effects.
func Validate(field string, f *File) []string {
	rule, ok := rules[field]
	if !ok {
		return []string{fmt.Sprintf("%s is not an accepted attachment field", field)}
	}

	if f == nil {
		if rule.Required {
			return []string{fmt.Sprintf("%s is required", field)}
		}
		return nil
	}

	var violations []string
	if f.MimeType != allowedMimeType {
		violations = append(violations, fmt.Sprintf("%s must be a PDF (got %s)", field, f.MimeType))
	}
	if !strings.EqualFold(filepath.Ext(f.OriginalName), ".pdf") {
		violations = append(violations, fmt.Sprintf("%s must have a .pdf extension", field))
	}
	if f.Size > rule.MaxBytes {
		violations = append(violations, fmt.Sprintf("%s must not exceed %s", field, rule.MaxLabel))
	}
	return violations
}

// Rules describes the attachment constraints for the public
// validation-rules endpoint.
func Rules() map[string]any {
	out := make(map[string]any, len(rules))
	for field, rule := range rules {
		out[field] = map[string]any{
			"required": rule.Required,
			"maxSize":  rule.MaxLabel,
			"type":     allowedMimeType,
		}
	}
	return out
}
