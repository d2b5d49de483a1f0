package template

// Built-in templates backing the TUI summary panel and the check-now
// diagnostic output.
var builtin = []*Template{
	MustParse("day_summary", "Day summary", `Today: {{current_date}} ({{day_of_week}}), {{current_time}}

{{#if task_count}}
Tracking {{task_count}} tasks: {{done_tasks}} done, {{in_progress_tasks}} in progress, {{todo_tasks}} waiting.
{{#if overdue_tasks}}
Overdue: {{overdue_tasks}}. These fire first.
{{/if}}
{{else}}
No tasks yet. Add one with 'a'.
{{/if}}
{{#if next_sweep}}
Next notification sweep at {{next_sweep}}.
{{/if}}`,
		[]string{"current_date", "current_time", "day_of_week"}),

	MustParse("sweep_report", "Sweep report", `Checked {{checked_count}} tasks at {{sweep_time}}.
{{#if fired_count}}
{{fired_count}} notification(s) fired:
{{fired_list}}
{{else}}
Nothing due right now.
{{/if}}
{{#unless fired_count}}
{{#if next_due}}
Next window opens {{next_due}}.
{{/if}}
{{/unless}}`,
		[]string{"checked_count", "sweep_time"}),
}

// Registry holds named templates for lookup by the TUI.
type Registry struct {
	templates map[string]*Template
}

// NewRegistry returns a registry seeded with the built-in templates.
func NewRegistry() *Registry {
	r := &Registry{templates: make(map[string]*Template, len(builtin))}
	for _, t := range builtin {
		r.templates[t.ID] = t
	}
	return r
}

func (r *Registry) Add(t *Template) {
	r.templates[t.ID] = t
}

func (r *Registry) Get(id string) (*Template, error) {
	t, ok := r.templates[id]
	if !ok {
		return nil, ErrTemplateNotFound
	}
	return t, nil
}

// Generate renders the named template against ctx.
func (r *Registry) Generate(id string, ctx map[string]string) (Result, error) {
	t, err := r.Get(id)
	if err != nil {
		return Result{}, err
	}
	return t.Render(ctx), nil
}
