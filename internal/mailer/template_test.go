package mailer

import "testing"

func TestRenderSubstitutesVariables(t *testing.T) {
	out := Render("Hello {{name}}, see you at {{college}}", []Var{
		{Name: "name", Value: "Asha"},
		{Name: "college", Value: "NIT Trichy"},
	})
	if out != "Hello Asha, see you at NIT Trichy" {
		t.Fatalf("unexpected render: %q", out)
	}
}

func TestRenderClearsUnknownPlaceholders(t *testing.T) {
	out := Render("Hi {{name}}, ref {{ticket}}", []Var{{Name: "name", Value: "Ravi"}})
	if out != "Hi Ravi, ref " {
		t.Fatalf("unexpected render: %q", out)
	}
}

func TestRenderRepeatedPlaceholder(t *testing.T) {
	out := Render("{{name}} and {{name}}", []Var{{Name: "name", Value: "X"}})
	if out != "X and X" {
		t.Fatalf("unexpected render: %q", out)
	}
}

func TestTemplateByName(t *testing.T) {
	if _, ok := TemplateByName("confirmation"); !ok {
		t.Fatal("expected confirmation template")
	}
	if _, ok := TemplateByName("nope"); ok {
		t.Fatal("expected unknown template miss")
	}
}
