package prompt

import "strings"

// TaskLabel prefixes the user's question at the end of every prompt.
const TaskLabel = "Task: "

// DefaultPreamble is sent ahead of every question unless the deployment overrides it.
const DefaultPreamble = "You are a helpful Data Science assistant. " +
	"For each request, provide only the *simplest*, *executable*, " +
	"and *properly functioning* Python code snippet that directly solves the task. " +
	"Use the most appropriate library and include only necessary imports. " +
	"Do NOT include comments or extra examples. " +
	"Wrap the code in markdown triple backticks:\n\n" +
	"```python\n" +
	"# code here\n" +
	"```\n\n"

type Config struct {
	Preamble string `yaml:"preamble"`
}

// Builder renders the fixed server-side instructions around a question.
type Builder struct {
	preamble string
}

func NewBuilder(cfg Config) *Builder {
	preamble := cfg.Preamble
	if strings.TrimSpace(preamble) == "" {
		preamble = DefaultPreamble
	}

	return &Builder{preamble: preamble}
}

// Build expects a question that is already trimmed and non-empty.
func (b *Builder) Build(question string) string {
	var sb strings.Builder
	sb.Grow(len(b.preamble) + len(TaskLabel) + len(question))
	sb.WriteString(b.preamble)
	sb.WriteString(TaskLabel)
	sb.WriteString(question)
	return sb.String()
}

func (b *Builder) Preamble() string {
	return b.preamble
}

// TaskOf returns the question embedded in a built prompt, or the whole prompt when
// it carries no task label. The first label wins so a question may itself contain one.
func TaskOf(prompt string) string {
	idx := strings.Index(prompt, TaskLabel)
	if idx == -1 {
		return prompt
	}
	return prompt[idx+len(TaskLabel):]
}
