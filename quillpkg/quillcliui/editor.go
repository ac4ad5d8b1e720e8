package quillcliui

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// ErrEditor indicates the external editor could not be used
var ErrEditor = errors.New("editor failed")

// EditorFromEnv resolves the user's editor: $VISUAL, then $EDITOR, then a
// platform default.
func EditorFromEnv() string {
	if editor := os.Getenv("VISUAL"); editor != "" {
		return editor
	}
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	if runtime.GOOS == "windows" {
		return "notepad"
	}
	return "vi"
}

// EditText opens the text in the user's editor via a temp file and blocks
// until the editor exits. The temp file is removed on every exit path.
func EditText(text string) (edited string, err error) {
	var tmp *os.File
	var cmd *exec.Cmd
	var raw []byte
	var path string

	tmp, err = os.CreateTemp("", "gitquill-*.txt")
	if err != nil {
		err = fmt.Errorf("%w: creating temp file: %v", ErrEditor, err)
		goto end
	}
	path = tmp.Name()
	defer func() {
		_ = os.Remove(path)
	}()

	_, err = tmp.WriteString(text)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		err = fmt.Errorf("%w: writing temp file: %v", ErrEditor, err)
		goto end
	}

	cmd = exec.Command(EditorFromEnv(), path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err = cmd.Run()
	if err != nil {
		err = fmt.Errorf("%w: running %s: %v", ErrEditor, EditorFromEnv(), err)
		goto end
	}

	raw, err = os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("%w: reading edited file: %v", ErrEditor, err)
		goto end
	}
	edited = string(raw)

end:
	return edited, err
}
