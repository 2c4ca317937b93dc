package enrichment

import (
	"bytes"
	"errors"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// ErrEmptyTemplate is returned when no prompt template is configured
var ErrEmptyTemplate = errors.New("prompt template is empty")

// PromptData is everything the prompt template can see. It carries no view or subscriber counts.
type PromptData struct {
	Title string
}

// Prompt renders the generation prompt from a text/template with Sprig functions
type Prompt struct {
	tmpl *template.Template
}

// NewPrompt parses content as the prompt template
func NewPrompt(content string) (*Prompt, error) {
	if content == "" {
		return nil, ErrEmptyTemplate
	}

	tmpl, err := template.New("prompt").Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt template: %w", err)
	}

	return &Prompt{tmpl: tmpl}, nil
}

// Render executes the template for one title
func (p *Prompt) Render(title string) (string, error) {
	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, PromptData{Title: title}); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}

	return buf.String(), nil
}
