package spritegif

import (
	"fmt"
	"io"

	"golang.org/x/sys/unix"
)

type Terminal interface {
	ResetCursor(rows int)
	ShowCursor(show bool)
}

type Xterm struct {
	Writer io.Writer
}

// Move the cursor to the beginning of the line and up rows
func (term *Xterm) ResetCursor(rows int) {
	fmt.Fprintf(term.Writer, "\033[999D\033[%dA", rows)
}

func (term *Xterm) ShowCursor(show bool) {
	if show {
		io.WriteString(term.Writer, "\033[?12l\033[?25h")
	} else {
		io.WriteString(term.Writer, "\033[?25l")
	}
}

// TerminalSize returns the columns and lines of the terminal behind fd.
// Callers usually pass stderr, which stays a tty when stdout is piped.
func TerminalSize(fd int) (cols, lines int, err error) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return -1, -1, err
	}
	return int(ws.Col), int(ws.Row), nil
}
