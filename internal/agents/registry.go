package agents

import (
	"bytes"
	"fmt"
	"text/template"
)

// PromptContext is the deck state a prompt template is rendered with.
type PromptContext struct {
	DeckName  string
	CardCount int64
	DueCount  int64
}

// Agent is a prompt-defined persona: rendered instructions plus the tools it
// may call through the gateway.
type Agent struct {
	Name  string
	Tools []ToolDef

	tmpl *template.Template
}

// Render produces the instructions for one realtime session.
func (a *Agent) Render(ctx PromptContext) (string, error) {
	var buf bytes.Buffer
	if err := a.tmpl.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("render agent %s: %w", a.Name, err)
	}
	return buf.String(), nil
}

// Registry holds the available agents keyed by name.
type Registry struct {
	agents map[string]*Agent
}

const DefaultAgent = "starter"

// NewRegistry builds the built-in agent set.
func NewRegistry() *Registry {
	r := &Registry{agents: make(map[string]*Agent)}
	r.register("starter", starterPrompt, starterTools)
	r.register("learn", learnPrompt, tutorTools)
	r.register("study", studyPrompt, tutorTools)
	return r
}

func (r *Registry) register(name, prompt string, tools []ToolDef) {
	r.agents[name] = &Agent{
		Name:  name,
		Tools: tools,
		tmpl:  template.Must(template.New(name).Parse(prompt)),
	}
}

// Get returns the named agent, or an error listing what exists.
func (r *Registry) Get(name string) (*Agent, error) {
	if name == "" {
		name = DefaultAgent
	}
	a, ok := r.agents[name]
	if !ok {
		return nil, fmt.Errorf("unknown agent %q", name)
	}
	return a, nil
}

// Names lists the registered agents.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.agents))
	for name := range r.agents {
		names = append(names, name)
	}
	return names
}
