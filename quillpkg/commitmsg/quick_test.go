package commitmsg_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gitquill/gitquill/quillpkg/askai"
	"github.com/gitquill/gitquill/quillpkg/commitmsg"
)

// fakeQuickProvider answers subject and body prompts with canned text. The
// two request shapes are told apart by which prompt asked for candidates.
type fakeQuickProvider struct {
	subjects []string
	body     string
	bodyErr  error
}

func (p *fakeQuickProvider) Name() string {
	return "fake"
}

func (p *fakeQuickProvider) GenerateCompletion(_ context.Context, req askai.CompletionRequest) ([]string, error) {
	if req.N > 1 {
		return p.subjects, nil
	}
	if p.bodyErr != nil {
		return nil, p.bodyErr
	}
	return []string{p.body}, nil
}

func TestQuickGenerate(t *testing.T) {
	tests := []struct {
		name        string
		provider    *fakeQuickProvider
		wantSubject string
		wantBody    string
		wantRaw     string
		wantErr     error
	}{
		{
			name: "subject and body join into one draft",
			provider: &fakeQuickProvider{
				subjects: []string{"Add caching layer.", "Add caching layer", "Introduce cache"},
				body:     "Caches template lookups.\n",
			},
			wantSubject: "Add caching layer",
			wantBody:    "Caches template lookups.",
			wantRaw:     "Add caching layer\nIntroduce cache",
		},
		{
			name: "empty body is not a failure",
			provider: &fakeQuickProvider{
				subjects: []string{"Fix off-by-one"},
				bodyErr:  askai.ErrEmptyResponse,
			},
			wantSubject: "Fix off-by-one",
			wantBody:    "",
			wantRaw:     "Fix off-by-one",
		},
		{
			name: "all-empty subject candidates fail",
			provider: &fakeQuickProvider{
				subjects: []string{"", "  ", "\n"},
				body:     "some body",
			},
			wantErr: commitmsg.ErrEmptySubject,
		},
		{
			name: "provider failure propagates",
			provider: &fakeQuickProvider{
				subjects: []string{"Fix off-by-one"},
				bodyErr:  askai.ErrAuth,
			},
			wantErr: askai.ErrAuth,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agent := askai.NewAgent(askai.AgentArgs{Provider: tt.provider})
			draft, err := commitmsg.QuickGenerate(context.Background(), commitmsg.QuickArgs{
				Agent: agent,
				Model: "test-model",
				Prompt: commitmsg.PromptArgs{
					Locale:          "en",
					MaxSubjectChars: 72,
					Diff:            "diff --git a/a.go b/a.go\n",
				},
			})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("QuickGenerate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("QuickGenerate() failed: %v", err)
			}
			if draft.Subject != tt.wantSubject {
				t.Errorf("Subject = %q, want %q", draft.Subject, tt.wantSubject)
			}
			if draft.Body != tt.wantBody {
				t.Errorf("Body = %q, want %q", draft.Body, tt.wantBody)
			}
			if draft.Raw != tt.wantRaw {
				t.Errorf("Raw = %q, want %q", draft.Raw, tt.wantRaw)
			}
		})
	}
}

func TestQuickGenerate_StreamingDeltas(t *testing.T) {
	provider := &streamingQuickProvider{
		fakeQuickProvider: fakeQuickProvider{subjects: []string{"Add streaming"}},
		chunks:            []string{"First half, ", "second half."},
	}
	var got strings.Builder
	agent := askai.NewAgent(askai.AgentArgs{Provider: provider})

	draft, err := commitmsg.QuickGenerate(context.Background(), commitmsg.QuickArgs{
		Agent: agent,
		Model: "test-model",
		OnDelta: func(chunk string) {
			got.WriteString(chunk)
		},
	})
	if err != nil {
		t.Fatalf("QuickGenerate() failed: %v", err)
	}
	if draft.Body != "First half, second half." {
		t.Errorf("Body = %q, want the joined stream", draft.Body)
	}
	if got.String() != "First half, second half." {
		t.Errorf("deltas = %q, want every chunk forwarded", got.String())
	}
}

type streamingQuickProvider struct {
	fakeQuickProvider
	chunks []string
}

func (p *streamingQuickProvider) StreamCompletion(_ context.Context, req askai.StreamRequest) (string, error) {
	var full strings.Builder
	for _, chunk := range p.chunks {
		full.WriteString(chunk)
		if req.OnDelta != nil {
			req.OnDelta(chunk)
		}
	}
	return full.String(), nil
}
