package splitter_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/gitquill/gitquill/quillpkg/gitutils"
	"github.com/gitquill/gitquill/quillpkg/splitter"
)

func hunkSnapshot() []gitutils.ChangeHunk {
	return []gitutils.ChangeHunk{
		{ID: "server.go@working#0", File: "server.go"},
		{ID: "server.go@working#1", File: "server.go"},
		{ID: "README.md@working#0", File: "README.md"},
	}
}

func ref(file, id string) splitter.HunkRef {
	return splitter.HunkRef{File: file, HunkID: id}
}

func validProposal() splitter.Proposal {
	return splitter.Proposal{
		Groups: []splitter.CommitGroup{
			{
				ID:    "health",
				Title: "Add health endpoint",
				Hunks: []splitter.HunkRef{
					ref("server.go", "server.go@working#0"),
					ref("server.go", "server.go@working#1"),
				},
			},
			{
				ID:    "docs",
				Title: "Document the health endpoint",
				Hunks: []splitter.HunkRef{
					ref("README.md", "README.md@working#0"),
				},
			},
		},
		Explanation: "Server change and its documentation land separately.",
	}
}

func TestValidateProposal(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *splitter.Proposal)
		wantMsg string
	}{
		{
			name:   "valid partition",
			mutate: func(*splitter.Proposal) {},
		},
		{
			name: "no groups",
			mutate: func(p *splitter.Proposal) {
				p.Groups = nil
			},
			wantMsg: "no groups",
		},
		{
			name: "missing explanation",
			mutate: func(p *splitter.Proposal) {
				p.Explanation = "  "
			},
			wantMsg: "missing explanation",
		},
		{
			name: "group without title",
			mutate: func(p *splitter.Proposal) {
				p.Groups[0].Title = ""
			},
			wantMsg: `group "health" has no title`,
		},
		{
			name: "group without hunks",
			mutate: func(p *splitter.Proposal) {
				p.Groups[1].Hunks = nil
			},
			wantMsg: `group "docs" has no hunks`,
		},
		{
			name: "unassigned hunk",
			mutate: func(p *splitter.Proposal) {
				p.Groups[0].Hunks = p.Groups[0].Hunks[:1]
			},
			wantMsg: "unassigned hunks: server.go@working#1",
		},
		{
			name: "hunk in two groups",
			mutate: func(p *splitter.Proposal) {
				p.Groups[1].Hunks = append(p.Groups[1].Hunks, ref("server.go", "server.go@working#0"))
			},
			wantMsg: "multiple groups: server.go@working#0",
		},
		{
			name: "unknown hunk id",
			mutate: func(p *splitter.Proposal) {
				p.Groups[1].Hunks = append(p.Groups[1].Hunks, ref("ghost.go", "ghost.go@working#0"))
			},
			wantMsg: "unknown hunk ids: ghost.go@working#0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proposal := validProposal()
			tt.mutate(&proposal)
			err := splitter.ValidateProposal(proposal, hunkSnapshot())
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("ValidateProposal() failed: %v", err)
				}
				return
			}
			if !errors.Is(err, splitter.ErrInvalidProposal) {
				t.Fatalf("ValidateProposal() error = %v, want ErrInvalidProposal", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("ValidateProposal() error = %q, want substring %q", err, tt.wantMsg)
			}
		})
	}
}

func TestCommitGroupFiles(t *testing.T) {
	group := splitter.CommitGroup{
		Hunks: []splitter.HunkRef{
			ref("b.go", "b.go@working#0"),
			ref("a.go", "a.go@working#0"),
			ref("b.go", "b.go@working#1"),
		},
	}
	got := group.Files()
	want := []string{"b.go", "a.go"}
	if len(got) != len(want) {
		t.Fatalf("Files() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Files()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCommitGroupMessage(t *testing.T) {
	tests := []struct {
		name  string
		group splitter.CommitGroup
		want  string
	}{
		{
			name:  "title only",
			group: splitter.CommitGroup{Title: "Fix build"},
			want:  "Fix build",
		},
		{
			name:  "title and description",
			group: splitter.CommitGroup{Title: "Fix build", Description: "CI was red."},
			want:  "Fix build\n\nCI was red.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.group.Message(); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}
