package commitmsg

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var promptTemplates = template.Must(template.ParseFS(templatesFS, "templates/*.tmpl"))

// ConventionalType requests "type: subject" formatting from the model.
const ConventionalType = "conventional"

// PromptArgs contains the parameters that shape a generation prompt.
type PromptArgs struct {
	// Locale is the language the message should be written in
	Locale string

	// MaxSubjectChars limits the subject line length (0 = no limit)
	MaxSubjectChars int

	// Type selects the commit-type taxonomy ("" or "conventional")
	Type string

	// Branch is the current git branch name
	Branch string

	// Diff is the unified diff the message should describe
	Diff string

	// RecentSubjects are prior subject lines used as style examples
	RecentSubjects []string

	// Instructions carries user feedback for a revision round
	Instructions string
}

func render(name string, data any) (prompt string, err error) {
	var buf bytes.Buffer

	err = promptTemplates.ExecuteTemplate(&buf, name, data)
	if err != nil {
		err = fmt.Errorf("%w: rendering %s: %v", ErrCommitMsg, name, err)
		goto end
	}
	prompt = buf.String()

end:
	return prompt, err
}

// BuildSystemPrompt renders the shared system prompt for single-shot
// generation.
func BuildSystemPrompt(args PromptArgs) (string, error) {
	return render("system.tmpl", args)
}

// BuildSubjectPrompt renders the user prompt asking for subject candidates.
func BuildSubjectPrompt(args PromptArgs) (string, error) {
	return render("subject.tmpl", args)
}

// BuildBodyPrompt renders the user prompt asking for a commit body.
func BuildBodyPrompt(args PromptArgs) (string, error) {
	return render("body.tmpl", args)
}

// BuildAgenticSystemPrompt renders the system prompt for the tool-driven
// generator. The tool list is described in prose; schemas travel separately.
func BuildAgenticSystemPrompt(args PromptArgs) (string, error) {
	return render("agentic.tmpl", args)
}
