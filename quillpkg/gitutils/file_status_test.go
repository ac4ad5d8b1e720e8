package gitutils_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/gitquill/gitquill/quillpkg/gitutils"
)

func TestParseStatusLine(t *testing.T) {
	tests := []struct {
		name         string
		line         string
		wantPath     string
		wantStaged   gitutils.ChangeType
		wantUnstaged gitutils.ChangeType
		wantErr      bool
	}{
		{
			name:         "staged and unstaged modification",
			line:         "MM main.go",
			wantPath:     "main.go",
			wantStaged:   gitutils.ModifiedChangeType,
			wantUnstaged: gitutils.ModifiedChangeType,
		},
		{
			name:         "unstaged modification only",
			line:         " M main.go",
			wantPath:     "main.go",
			wantStaged:   gitutils.UnknownChangeType,
			wantUnstaged: gitutils.ModifiedChangeType,
		},
		{
			name:         "staged new file",
			line:         "A  newfile.txt",
			wantPath:     "newfile.txt",
			wantStaged:   gitutils.AddedChangeType,
			wantUnstaged: gitutils.UnknownChangeType,
		},
		{
			name:         "untracked file",
			line:         "?? scratch.txt",
			wantPath:     "scratch.txt",
			wantStaged:   gitutils.UntrackedChangeType,
			wantUnstaged: gitutils.UntrackedChangeType,
		},
		{
			name:         "rename keeps the new path",
			line:         "R  old_name.go -> new_name.go",
			wantPath:     "new_name.go",
			wantStaged:   gitutils.RenamedChangeType,
			wantUnstaged: gitutils.UnknownChangeType,
		},
		{
			name:         "type change reads as modified",
			line:         "T  link.go",
			wantPath:     "link.go",
			wantStaged:   gitutils.ModifiedChangeType,
			wantUnstaged: gitutils.UnknownChangeType,
		},
		{
			name:    "too short",
			line:    "M",
			wantErr: true,
		},
		{
			name:    "unrecognized code",
			line:    "Z  weird.txt",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, status, err := gitutils.ParseStatusLine(tt.line)
			if tt.wantErr {
				if err == nil {
					t.Fatal("ParseStatusLine() succeeded, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStatusLine() failed: %v", err)
			}
			if path != tt.wantPath {
				t.Errorf("path = %q, want %q", path, tt.wantPath)
			}
			if status.StagedChange != tt.wantStaged {
				t.Errorf("StagedChange = %v, want %v", status.StagedChange, tt.wantStaged)
			}
			if status.UnstagedChange != tt.wantUnstaged {
				t.Errorf("UnstagedChange = %v, want %v", status.UnstagedChange, tt.wantUnstaged)
			}
		})
	}
}

func TestParseStatusLine_InvalidCode(t *testing.T) {
	_, _, err := gitutils.ParseStatusLine("Z  weird.txt")
	if !errors.Is(err, gitutils.ErrInvalidGitStatusCode) {
		t.Errorf("error = %v, want ErrInvalidGitStatusCode", err)
	}
}

func TestGroupStatus(t *testing.T) {
	output := "M  staged.go\n" +
		" M modified.go\n" +
		"MM both.go\n" +
		"?? untracked.txt\n" +
		"A  added.go\n"

	statuses, err := gitutils.ParseStatus(output)
	if err != nil {
		t.Fatalf("ParseStatus() failed: %v", err)
	}

	rs := gitutils.GroupStatus(statuses)

	wantStaged := []string{"added.go", "both.go", "staged.go"}
	wantModified := []string{"both.go", "modified.go"}
	wantUntracked := []string{"untracked.txt"}

	if !reflect.DeepEqual(rs.Staged, wantStaged) {
		t.Errorf("Staged = %v, want %v", rs.Staged, wantStaged)
	}
	if !reflect.DeepEqual(rs.Modified, wantModified) {
		t.Errorf("Modified = %v, want %v", rs.Modified, wantModified)
	}
	if !reflect.DeepEqual(rs.Untracked, wantUntracked) {
		t.Errorf("Untracked = %v, want %v", rs.Untracked, wantUntracked)
	}
}

func TestParseStatus_SkipsShortLines(t *testing.T) {
	statuses, err := gitutils.ParseStatus("M  a.go\n\n")
	if err != nil {
		t.Fatalf("ParseStatus() failed: %v", err)
	}
	if len(statuses) != 1 {
		t.Errorf("got %d entries, want 1", len(statuses))
	}
}
