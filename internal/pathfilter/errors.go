package pathfilter

import "github.com/pkg/errors"

// ErrConfiguration reports an operation invoked before its prerequisite was
// set: a transform before projecting, viewport bounds before point filtering.
var ErrConfiguration = errors.New("pathfilter: configuration error")

func configErr(msg string) error {
	return errors.Wrap(ErrConfiguration, msg)
}
