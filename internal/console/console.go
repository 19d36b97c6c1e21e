// Package console handles operator interaction on the terminal: reading
// short answers from stdin and rendering flashcards as framed windows.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/flashmaint/internal/flashcard"
)

// ErrInputClosed is returned when stdin ends while an answer is expected.
var ErrInputClosed = errors.New("operator input closed")

const windowWidth = 60

// Console reads operator answers and writes prompts and card windows.
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a Console over the given streams.
func New(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

// Prompt prints label and returns the next input line with surrounding
// whitespace removed. A final line without a newline is still returned.
func (c *Console) Prompt(label string) (string, error) {
	fmt.Fprint(c.out, label)

	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(c.out)
			return "", ErrInputClosed
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Choice is Prompt with the answer upper-cased, for single-letter menus.
func (c *Console) Choice(label string) (string, error) {
	answer, err := c.Prompt(label)
	return strings.ToUpper(answer), err
}

// Printf writes formatted text.
func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// Println writes a line.
func (c *Console) Println(args ...any) {
	fmt.Fprintln(c.out, args...)
}

// Separator writes a horizontal rule.
func (c *Console) Separator() {
	fmt.Fprintln(c.out, strings.Repeat("-", 80))
}

// Menu writes one line per option, e.g. " [1] Edit Arabic".
func (c *Console) Menu(title string, options ...MenuOption) {
	if title != "" {
		fmt.Fprintln(c.out, title)
	}
	for _, o := range options {
		fmt.Fprintf(c.out, " [%s] %s\n", o.Key, o.Label)
	}
}

// MenuOption is one line of a Menu.
type MenuOption struct {
	Key   string
	Label string
}

// CardWindow renders a card inside a framed block with a title.
func (c *Console) CardWindow(card *flashcard.Card, title string) {
	rule := strings.Repeat("=", windowWidth)
	fmt.Fprintf(c.out, "\n%s\n", rule)
	fmt.Fprintf(c.out, " %s (ID: %d)\n", title, card.ID)
	fmt.Fprintln(c.out, rule)
	fmt.Fprintf(c.out, "  ARABIC:    %s\n", card.Arabic)
	fmt.Fprintf(c.out, "  SPANISH:   %s\n", card.Spanish)
	fmt.Fprintf(c.out, "  CATEGORY:  %s\n", card.Category)
	fmt.Fprintf(c.out, "  PHONETIC:  %s\n", card.Phonetic)
	fmt.Fprintf(c.out, "%s\n\n", rule)
}
