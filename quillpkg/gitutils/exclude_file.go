package gitutils

import (
	"os"
	"path/filepath"
	"strings"
)

// ExcludeFilepath is the repo-local ignore file git consults without
// committing it, relative to the repo root.
const ExcludeFilepath = ".git/info/exclude"

// ExcludeFile manages the repo-local .git/info/exclude list.
type ExcludeFile struct {
	filePath string
}

// NewExcludeFile returns the exclude file for a repo root.
func NewExcludeFile(repoRoot string) *ExcludeFile {
	return &ExcludeFile{
		filePath: filepath.Join(repoRoot, ExcludeFilepath),
	}
}

// AppendPattern appends one ignore pattern, creating the file when missing.
func (ef *ExcludeFile) AppendPattern(pattern string) (err error) {
	var f *os.File

	err = os.MkdirAll(filepath.Dir(ef.filePath), 0o755)
	if err != nil {
		goto end
	}

	f, err = os.OpenFile(ef.filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		goto end
	}
	defer func() {
		closeErr := f.Close()
		if err == nil {
			err = closeErr
		}
	}()

	_, err = f.WriteString(pattern + "\n")

end:
	return err
}

// ContainsPattern reports whether the pattern is already listed.
func (ef *ExcludeFile) ContainsPattern(pattern string) (contains bool, err error) {
	var contents []byte

	contents, err = os.ReadFile(ef.filePath)
	if os.IsNotExist(err) {
		err = nil
		goto end
	}
	if err != nil {
		goto end
	}

	for _, line := range strings.Split(string(contents), "\n") {
		if strings.TrimSpace(line) == pattern {
			contains = true
			goto end
		}
	}

end:
	return contains, err
}

// Patterns returns the non-comment patterns currently listed.
func (ef *ExcludeFile) Patterns() (patterns []string, err error) {
	var contents []byte

	contents, err = os.ReadFile(ef.filePath)
	if os.IsNotExist(err) {
		err = nil
		goto end
	}
	if err != nil {
		goto end
	}

	for _, line := range strings.Split(string(contents), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}

end:
	return patterns, err
}
