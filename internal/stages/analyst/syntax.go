package analyst

import (
	"errors"
	"fmt"
	"strings"
)

// SyntaxValidator checks generated source before it is handed to the
// executor.
type SyntaxValidator interface {
	Validate(source string) error
}

var errEmptySource = errors.New("generated source is empty")

// PythonStructural performs structural checks on generated Python: the
// handler contract and delimiter balance. It is not a full parser, so it
// catches truncated or malformed output rather than every syntax error.
type PythonStructural struct{}

func (v *PythonStructural) Validate(source string) error {
	if strings.TrimSpace(source) == "" {
		return errEmptySource
	}

	if !strings.Contains(source, "def main(") {
		return errors.New("missing main(context) handler definition")
	}

	if strings.Contains(source, "```") {
		return errors.New("source still contains markdown fences")
	}

	return checkBalance(source)
}

type delimiter struct {
	open  rune
	close rune
}

var delimiters = []delimiter{
	{'(', ')'},
	{'[', ']'},
	{'{', '}'},
}

// checkBalance verifies bracket pairing outside of string literals. Nesting
// order is not tracked per pair; a net imbalance is the signal for truncated
// output.
func checkBalance(source string) error {
	counts := make(map[rune]int)

	var inString rune

	var prev rune

	for _, r := range source {
		if inString != 0 {
			if r == inString && prev != '\\' {
				inString = 0
			}

			prev = r

			continue
		}

		switch r {
		case '\'', '"':
			inString = r
		case '#':
			inString = '\n'
		default:
			for _, d := range delimiters {
				switch r {
				case d.open:
					counts[d.open]++
				case d.close:
					counts[d.open]--
				}
			}
		}

		prev = r
	}

	for _, d := range delimiters {
		if counts[d.open] != 0 {
			return fmt.Errorf("unbalanced %c%c delimiters", d.open, d.close)
		}
	}

	return nil
}
