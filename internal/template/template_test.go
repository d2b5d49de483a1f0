package template

import (
	"errors"
	"strings"
	"testing"
)

func mustParse(t *testing.T, source string, required ...string) *Template {
	t.Helper()
	tmpl, err := Parse("test", "Test", source, required)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return tmpl
}

func TestSubstitution(t *testing.T) {
	tmpl := mustParse(t, "Hello {{name}}, it is {{time}}.")
	res := tmpl.Render(map[string]string{"name": "Alex", "time": "09:00"})
	if res.Text != "Hello Alex, it is 09:00." {
		t.Fatalf("unexpected render: %q", res.Text)
	}
	if len(res.Used) != 2 {
		t.Fatalf("unexpected used list: %#v", res.Used)
	}
}

func TestMissingVariableRendersEmpty(t *testing.T) {
	tmpl := mustParse(t, "Hello {{name}}!", "name")
	res := tmpl.Render(nil)
	if res.Text != "Hello !" {
		t.Fatalf("unexpected render: %q", res.Text)
	}
	if len(res.Missing) != 1 || res.Missing[0] != "name" {
		t.Fatalf("unexpected missing list: %#v", res.Missing)
	}
}

func TestConditionalBranches(t *testing.T) {
	tmpl := mustParse(t, "{{#if busy}}Busy day{{else}}Quiet day{{/if}}")

	res := tmpl.Render(map[string]string{"busy": "5"})
	if res.Text != "Busy day" {
		t.Fatalf("unexpected then branch: %q", res.Text)
	}

	res = tmpl.Render(nil)
	if res.Text != "Quiet day" {
		t.Fatalf("unexpected else branch: %q", res.Text)
	}

	// An empty value is not truthy.
	res = tmpl.Render(map[string]string{"busy": ""})
	if res.Text != "Quiet day" {
		t.Fatalf("empty value should take else branch: %q", res.Text)
	}
}

func TestUnlessBlock(t *testing.T) {
	tmpl := mustParse(t, "{{#unless task_count}}Nothing tracked yet.{{/unless}}")

	res := tmpl.Render(map[string]string{})
	if res.Text != "Nothing tracked yet." {
		t.Fatalf("unexpected render without value: %q", res.Text)
	}

	res = tmpl.Render(map[string]string{"task_count": "3"})
	if res.Text != "" {
		t.Fatalf("unless branch should be empty when value present: %q", res.Text)
	}
}

func TestNestedConditionals(t *testing.T) {
	tmpl := mustParse(t, "{{#if outer}}A{{#if inner}}B{{/if}}C{{/if}}")

	res := tmpl.Render(map[string]string{"outer": "1", "inner": "1"})
	if res.Text != "ABC" {
		t.Fatalf("unexpected nested render: %q", res.Text)
	}

	res = tmpl.Render(map[string]string{"outer": "1"})
	if res.Text != "AC" {
		t.Fatalf("unexpected nested render without inner: %q", res.Text)
	}
}

func TestSkippedBranchCollapsesBlankLines(t *testing.T) {
	tmpl := mustParse(t, "line one\n{{#if extra}}\nextra line\n{{/if}}\nline two")
	res := tmpl.Render(nil)
	if strings.Contains(res.Text, "\n\n\n") {
		t.Fatalf("blank line run survived: %q", res.Text)
	}
	if !strings.Contains(res.Text, "line one") || !strings.Contains(res.Text, "line two") {
		t.Fatalf("literal lines lost: %q", res.Text)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   error
	}{
		{"unclosed if", "{{#if x}}never closed", ErrUnclosedBlock},
		{"stray close", "text {{/if}}", ErrUnexpectedClose},
		{"stray else", "text {{else}} more", ErrUnexpectedElse},
		{"mismatched close", "{{#unless x}}body{{/if}}", ErrUnclosedBlock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse("bad", "Bad", tc.source, nil)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestBareBracesRenderVerbatim(t *testing.T) {
	tmpl := mustParse(t, "a {{ b")
	res := tmpl.Render(nil)
	if res.Text != "a {{ b" {
		t.Fatalf("unexpected render: %q", res.Text)
	}
}

func TestRegistryGenerate(t *testing.T) {
	reg := NewRegistry()

	res, err := reg.Generate("day_summary", map[string]string{
		"current_date": "2026-08-30",
		"current_time": "09:15",
		"day_of_week":  "Sunday",
		"task_count":   "4",
		"done_tasks":   "1",
		"todo_tasks":   "2",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(res.Text, "Tracking 4 tasks") {
		t.Fatalf("task block missing: %q", res.Text)
	}
	if strings.Contains(res.Text, "Overdue") {
		t.Fatalf("overdue block should be skipped: %q", res.Text)
	}
	if strings.Contains(res.Text, "{{") {
		t.Fatalf("unresolved tags in output: %q", res.Text)
	}
	if len(res.Missing) != 0 {
		t.Fatalf("unexpected missing required context: %#v", res.Missing)
	}

	_, err = reg.Generate("nope", nil)
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestRegistrySweepReportEmptyFire(t *testing.T) {
	reg := NewRegistry()
	res, err := reg.Generate("sweep_report", map[string]string{
		"checked_count": "6",
		"sweep_time":    "12:00",
		"next_due":      "tomorrow 09:00",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(res.Text, "Nothing due right now.") {
		t.Fatalf("else branch missing: %q", res.Text)
	}
	if !strings.Contains(res.Text, "Next window opens tomorrow 09:00.") {
		t.Fatalf("unless block missing: %q", res.Text)
	}
}
