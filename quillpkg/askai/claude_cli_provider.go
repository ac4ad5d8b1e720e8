package askai

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// ClaudeCLIProvider implements Provider by shelling out to the Claude Code
// CLI. It needs no API key of its own; the CLI carries its own credentials.
type ClaudeCLIProvider struct {
	BaseProvider

	// ClaudeExe is the path/name of the claude executable
	ClaudeExe string
}

// ClaudeCLIProviderArgs contains configuration for the Claude CLI provider.
type ClaudeCLIProviderArgs struct {
	BaseProvider BaseProvider
	ClaudeExe    string
}

// NewClaudeCLIProvider creates a provider backed by the claude executable.
func NewClaudeCLIProvider(args ClaudeCLIProviderArgs) *ClaudeCLIProvider {
	exe := args.ClaudeExe
	if exe == "" {
		exe = "claude"
	}
	return &ClaudeCLIProvider{
		BaseProvider: args.BaseProvider,
		ClaudeExe:    exe,
	}
}

// Name implements Provider.
func (p *ClaudeCLIProvider) Name() string {
	return "claude-cli"
}

// GenerateCompletion implements Provider. The CLI produces one completion per
// invocation, so a request for n choices runs the command n times.
func (p *ClaudeCLIProvider) GenerateCompletion(ctx context.Context, req CompletionRequest) (choices []string, err error) {
	var response string

	prompt := p.truncate(FlattenMessages(req.Messages))

	for i := 0; i < max(req.N, 1); i++ {
		response, err = p.ask(ctx, prompt)
		if err != nil {
			goto end
		}
		choices = append(choices, response)
	}

end:
	return choices, err
}

func (p *ClaudeCLIProvider) ask(ctx context.Context, prompt string) (response string, err error) {
	var out []byte
	var cmd *exec.Cmd

	cmd = exec.CommandContext(ctx, p.ClaudeExe, "-p", prompt)

	out, err = cmd.Output()
	if err != nil {
		if _, lookErr := exec.LookPath(p.ClaudeExe); lookErr != nil {
			err = fmt.Errorf("%w: %s not found: install the Claude Code CLI first: %v",
				ErrProviderNotFound, p.ClaudeExe, err)
			goto end
		}
		err = fmt.Errorf("%w: running %s: %v", ErrAskAI, p.ClaudeExe, err)
		goto end
	}

	response = string(bytes.TrimSpace(out))
	if response == "" {
		err = fmt.Errorf("%w: %s returned empty response", ErrEmptyResponse, p.ClaudeExe)
		goto end
	}

end:
	return response, err
}
