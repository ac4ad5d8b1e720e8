package quillcliui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// MenuOption represents a single menu choice
type MenuOption struct {
	Label       string
	Description string
}

// MenuArgs contains arguments for displaying a menu
type MenuArgs struct {
	Prompt  string
	Options []MenuOption
	Writer  io.Writer
}

// ShowMenu displays a vertical menu with bracket notation
// Returns:
//   - 0 to len(options)-1: selected option index
//   - -1: read failure
//   - -2: quit selected
func ShowMenu(args MenuArgs) (selectedIndex int, err error) {
	for {
		var choice rune

		fmt.Fprint(args.Writer, "\n")
		for i, opt := range args.Options {
			fmt.Fprintf(args.Writer, "[%d] %s\n", i+1, opt.Label)
		}
		fmt.Fprintf(args.Writer, "[0] help\n")
		fmt.Fprintf(args.Writer, "[9] quit\n")

		fmt.Fprintf(args.Writer, "\n%s ", args.Prompt)

		choice, err = ReadSingleKey()
		if err != nil {
			selectedIndex = -1
			goto end
		}

		// Echo the choice
		fmt.Fprintf(args.Writer, "%c\n\n", choice)

		switch choice {
		case '0':
			showHelp(args, args.Writer)
			continue // Redisplay menu

		case '9', 'q', 'Q':
			selectedIndex = -2
			goto end

		case '1', '2', '3', '4', '5', '6', '7', '8':
			selectedIndex = int(choice - '1')
			if selectedIndex >= len(args.Options) {
				fmt.Fprintf(args.Writer, "Invalid option.\n")
				continue
			}
			goto end

		default:
			fmt.Fprintf(args.Writer, "Invalid option.\n")
			continue
		}
	}

end:
	return selectedIndex, err
}

// showHelp displays all menu options with their descriptions
func showHelp(args MenuArgs, writer io.Writer) {
	fmt.Fprintf(writer, "\nMenu Options:\n\n")
	for i, opt := range args.Options {
		if opt.Description != "" {
			fmt.Fprintf(writer, "[%d] %s: %s\n", i+1, opt.Label, opt.Description)
		} else {
			fmt.Fprintf(writer, "[%d] %s\n", i+1, opt.Label)
		}
	}
	fmt.Fprintf(writer, "[0] help: Show this help message\n")
	fmt.Fprintf(writer, "[9] quit: Exit this menu\n")
	fmt.Fprintf(writer, "\n")
}

// ReadSingleKey reads one keypress without waiting for Enter. When stdin is
// not a terminal it falls back to reading the first rune of a line.
func ReadSingleKey() (key rune, err error) {
	var oldState *term.State
	var buf [1]byte
	var n int

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return readLineKey()
	}

	oldState, err = term.MakeRaw(fd)
	if err != nil {
		goto end
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	n, err = os.Stdin.Read(buf[:])
	if err != nil {
		goto end
	}
	if n == 0 {
		err = io.EOF
		goto end
	}

	key = rune(buf[0])
	// Ctrl-C in raw mode arrives as a byte, not a signal
	if key == 3 {
		key = '9'
	}

end:
	return key, err
}

func readLineKey() (rune, error) {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return 0, err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return '\n', nil
	}
	return rune(line[0]), nil
}

// ReadLine prompts for one line of input and returns it trimmed.
func ReadLine(prompt string, w io.Writer) (line string, err error) {
	fmt.Fprintf(w, "%s ", prompt)
	line, err = bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		goto end
	}
	line = strings.TrimSpace(line)
	err = nil

end:
	return line, err
}
