package commitmsg_test

import (
	"reflect"
	"testing"

	"github.com/gitquill/gitquill/quillpkg/commitmsg"
)

func TestNormalizeSubject(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		want    string
	}{
		{
			name:    "already normalized is a no-op",
			subject: "Add login flow",
			want:    "Add login flow",
		},
		{
			name:    "trims whitespace",
			subject: "  Fix race in watcher  ",
			want:    "Fix race in watcher",
		},
		{
			name:    "folds embedded newlines",
			subject: "Fix race\nin watcher",
			want:    "Fix race in watcher",
		},
		{
			name:    "folds CRLF",
			subject: "Fix race\r\nin watcher",
			want:    "Fix race in watcher",
		},
		{
			name:    "drops trailing period after a word",
			subject: "Fix bug.",
			want:    "Fix bug",
		},
		{
			name:    "drops only one trailing period",
			subject: "Wait...",
			want:    "Wait...",
		},
		{
			name:    "drops period after a digit",
			subject: "Bump to v2.",
			want:    "Bump to v2",
		},
		{
			name:    "keeps ellipsis-free interior periods",
			subject: "Update pkg.module path",
			want:    "Update pkg.module path",
		},
		{
			name:    "empty stays empty",
			subject: "",
			want:    "",
		},
		{
			name:    "lone period survives",
			subject: ".",
			want:    ".",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := commitmsg.NormalizeSubject(tt.subject)
			if got != tt.want {
				t.Errorf("NormalizeSubject(%q) = %q, want %q", tt.subject, got, tt.want)
			}
		})
	}
}

func TestNormalizeSubject_Idempotent(t *testing.T) {
	subjects := []string{
		"Add login flow",
		"Fix bug.",
		"Fix race\nin watcher",
	}
	for _, s := range subjects {
		once := commitmsg.NormalizeSubject(s)
		twice := commitmsg.NormalizeSubject(once)
		if once != twice {
			t.Errorf("NormalizeSubject not idempotent: %q -> %q -> %q", s, once, twice)
		}
	}
}

func TestDedupSubjects(t *testing.T) {
	tests := []struct {
		name       string
		candidates []string
		want       []string
	}{
		{
			name:       "normalized duplicates collapse",
			candidates: []string{"Fix bug.", "Fix bug", "Add x"},
			want:       []string{"Fix bug", "Add x"},
		},
		{
			name:       "first occurrence order preserved",
			candidates: []string{"B", "A", "B", "C", "A"},
			want:       []string{"B", "A", "C"},
		},
		{
			name:       "empty candidates dropped",
			candidates: []string{"", "  ", "Fix bug"},
			want:       []string{"Fix bug"},
		},
		{
			name:       "nil input",
			candidates: nil,
			want:       []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := commitmsg.DedupSubjects(tt.candidates)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DedupSubjects(%v) = %v, want %v", tt.candidates, got, tt.want)
			}
		})
	}
}

func TestDraftMessage(t *testing.T) {
	tests := []struct {
		name  string
		draft commitmsg.Draft
		want  string
	}{
		{
			name:  "subject only",
			draft: commitmsg.Draft{Subject: "Fix bug"},
			want:  "Fix bug",
		},
		{
			name:  "subject and body",
			draft: commitmsg.Draft{Subject: "Fix bug", Body: "It was bad."},
			want:  "Fix bug\n\nIt was bad.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.draft.Message(); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}
