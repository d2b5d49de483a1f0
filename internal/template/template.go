// Package template implements a small text-template engine used by the
// TUI summary surfaces. Templates are parsed once into an AST of tagged
// nodes and rendered per call against a string context map; a variable
// is truthy when the map holds a non-empty value for it.
package template

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrTemplateNotFound = errors.New("template: not found")
	ErrUnclosedBlock    = errors.New("template: unclosed conditional block")
	ErrUnexpectedClose  = errors.New("template: close tag without open")
	ErrUnexpectedElse   = errors.New("template: else outside conditional")
)

// node is one parsed template element.
type node interface {
	render(b *strings.Builder, ctx map[string]string, used, missing map[string]bool)
}

// literal is verbatim text between tags.
type literal string

func (l literal) render(b *strings.Builder, _ map[string]string, _, _ map[string]bool) {
	b.WriteString(string(l))
}

// substitution is a {{var}} placeholder. A missing or empty variable
// renders as nothing and is recorded as missing.
type substitution string

func (s substitution) render(b *strings.Builder, ctx map[string]string, used, missing map[string]bool) {
	key := string(s)
	if v, ok := ctx[key]; ok && v != "" {
		b.WriteString(v)
		used[key] = true
		return
	}
	missing[key] = true
}

// conditional is an {{#if var}}...{{else}}...{{/if}} block. The negate
// form comes from {{#unless var}}.
type conditional struct {
	key    string
	negate bool
	then   []node
	other  []node
}

func (c conditional) render(b *strings.Builder, ctx map[string]string, used, missing map[string]bool) {
	v, ok := ctx[c.key]
	truthy := ok && v != ""
	if truthy {
		used[c.key] = true
	}
	branch := c.then
	if truthy == c.negate {
		branch = c.other
	}
	for _, n := range branch {
		n.render(b, ctx, used, missing)
	}
}

// Template is a parsed template ready for repeated rendering.
type Template struct {
	ID       string
	Name     string
	Required []string

	nodes []node
}

// Result is one rendered template plus the context bookkeeping: which
// variables the render consumed and which required ones were absent.
type Result struct {
	TemplateID string
	Text       string
	Used       []string
	Missing    []string
}

// Parse compiles template source into a Template. Conditional blocks
// must be properly nested and closed.
func Parse(id, name string, source string, required []string) (*Template, error) {
	nodes, rest, err := parseNodes(source, false)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", id, err)
	}
	if rest != "" {
		return nil, fmt.Errorf("template %s: %w", id, ErrUnexpectedClose)
	}
	return &Template{ID: id, Name: name, Required: required, nodes: nodes}, nil
}

// MustParse is Parse for package-level template literals.
func MustParse(id, name string, source string, required []string) *Template {
	t, err := Parse(id, name, source, required)
	if err != nil {
		panic(err)
	}
	return t
}

// Render interprets the template against ctx. Missing required
// variables do not fail the render; they come back in Result.Missing.
func (t *Template) Render(ctx map[string]string) Result {
	var b strings.Builder
	used := map[string]bool{}
	missing := map[string]bool{}
	for _, n := range t.nodes {
		n.render(&b, ctx, used, missing)
	}

	requiredMissing := make([]string, 0)
	for _, key := range t.Required {
		if v, ok := ctx[key]; !ok || v == "" {
			requiredMissing = append(requiredMissing, key)
		}
	}

	return Result{
		TemplateID: t.ID,
		Text:       tidy(b.String()),
		Used:       sortedKeys(used),
		Missing:    requiredMissing,
	}
}

// parseNodes consumes nodes until end of input or, when inBlock is set,
// until a close or else tag. It returns the unconsumed remainder
// starting at that tag.
func parseNodes(src string, inBlock bool) ([]node, string, error) {
	var nodes []node
	for src != "" {
		open := strings.Index(src, "{{")
		if open < 0 {
			nodes = append(nodes, literal(src))
			return nodes, "", nil
		}
		if open > 0 {
			nodes = append(nodes, literal(src[:open]))
			src = src[open:]
		}
		end := strings.Index(src, "}}")
		if end < 0 {
			// Bare braces with no closing tag render verbatim.
			nodes = append(nodes, literal(src))
			return nodes, "", nil
		}
		tag := strings.TrimSpace(src[2:end])
		rest := src[end+2:]

		switch {
		case tag == "/if" || tag == "/unless" || tag == "else":
			if !inBlock {
				if tag == "else" {
					return nil, "", ErrUnexpectedElse
				}
				return nil, "", ErrUnexpectedClose
			}
			return nodes, src, nil
		case strings.HasPrefix(tag, "#if ") || strings.HasPrefix(tag, "#unless "):
			cond, remainder, err := parseConditional(tag, rest)
			if err != nil {
				return nil, "", err
			}
			nodes = append(nodes, cond)
			src = remainder
		case tag == "":
			nodes = append(nodes, literal(src[:end+2]))
			src = rest
		default:
			nodes = append(nodes, substitution(tag))
			src = rest
		}
	}
	return nodes, "", nil
}

func parseConditional(openTag, rest string) (node, string, error) {
	negate := strings.HasPrefix(openTag, "#unless ")
	key := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(openTag, "#if"), "#unless"))

	then, remainder, err := parseNodes(rest, true)
	if err != nil {
		return nil, "", err
	}
	if remainder == "" {
		return nil, "", ErrUnclosedBlock
	}

	var other []node
	end := strings.Index(remainder, "}}")
	tag := strings.TrimSpace(remainder[2:end])
	remainder = remainder[end+2:]
	if tag == "else" {
		other, remainder, err = parseNodes(remainder, true)
		if err != nil {
			return nil, "", err
		}
		if remainder == "" {
			return nil, "", ErrUnclosedBlock
		}
		end = strings.Index(remainder, "}}")
		tag = strings.TrimSpace(remainder[2:end])
		remainder = remainder[end+2:]
	}
	want := "/if"
	if negate {
		want = "/unless"
	}
	if tag != want {
		return nil, "", ErrUnclosedBlock
	}
	return conditional{key: key, negate: negate, then: then, other: other}, remainder, nil
}

// tidy trims trailing space per line and collapses runs of blank lines,
// so skipped conditional branches leave no gaps.
func tidy(s string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " \t")
	}
	s = strings.Join(lines, "\n")
	for strings.Contains(s, "\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(s)
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
