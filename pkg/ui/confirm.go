package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/andparsons/composer-project-files-installer/pkg/errors"
)

// Console asks yes/no questions on a terminal. An empty answer means yes.
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsole creates a console reading answers from in and writing
// questions to out
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

// Confirm prints question followed by "[Y,n]" and reads one line
func (c *Console) Confirm(question string) (bool, error) {
	for {
		if _, err := fmt.Fprintf(c.out, "%s [Y,n] ", question); err != nil {
			return false, errors.Wrap(err, errors.ErrInternal, "failed to write question")
		}
		line, err := c.in.ReadString('\n')
		if err != nil && err != io.EOF {
			return false, errors.Wrap(err, errors.ErrInternal, "failed to read user input")
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "", "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		if err == io.EOF {
			return false, nil
		}
	}
}
