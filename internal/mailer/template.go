package mailer

import (
	"regexp"
	"strings"
)

// Var is one named template variable. Variables are applied in declaration
// order so rendering is deterministic.
type Var struct {
	Name  string
	Value string
}

var placeholderPattern = regexp.MustCompile(`\{\{\s*\w+\s*\}\}`)

// Render substitutes every `{{name}}` occurrence in pattern with the matching
// variable's value, one global pass per variable. Placeholders that match no
// declared variable render as the empty string.
func Render(pattern string, vars []Var) string {
	out := pattern
	for _, v := range vars {
		out = strings.ReplaceAll(out, "{{"+v.Name+"}}", v.Value)
	}
	return placeholderPattern.ReplaceAllString(out, "")
}

// Template pairs a subject pattern with a body pattern.
type Template struct {
	Subject string
	Body    string
}

// Built-in templates selectable by name from the send-mail endpoint.
var builtinTemplates = map[string]Template{
	"confirmation": {
		Subject: "Registration received, {{name}}",
		Body: "Dear {{name}},\n\nYour registration has been received. " +
			"You applied for: {{committees}} as {{positions}}.\n\n" +
			"We will get back to you at {{email}}.\n\nBest regards,\nThe Secretariat",
	},
	"reminder": {
		Subject: "Action required for your registration",
		Body: "Dear {{name}},\n\nThis is a reminder regarding your registration " +
			"({{college}}, {{year}}). Please check your inbox at {{email}} for details.\n\n" +
			"Best regards,\nThe Secretariat",
	},
}

// TemplateByName returns a built-in template.
func TemplateByName(name string) (Template, bool) {
	tpl, ok := builtinTemplates[name]
	return tpl, ok
}
