package artifact

import "errors"

// ErrNotFound is returned by Get, Copy and downstream helpers when the
// addressed blob does not exist.
var ErrNotFound = errors.New("artifact not found")

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
