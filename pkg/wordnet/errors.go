package wordnet

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrInvalidUTF8 is returned when a markup file is not valid UTF-8 text.
var ErrInvalidUTF8 = errors.New("file is not valid UTF-8")

// ErrNoDumpFiles is returned when a directory contains no wordnet dump files.
var ErrNoDumpFiles = errors.New("no wordnet dump files found")

// ErrNoSynsets is returned when a dump holds no synsets. Nothing is imported.
var ErrNoSynsets = errors.New("dump contains no synsets")

// AttributeError reports a required attribute missing from an element.
type AttributeError struct {
	Element   string
	Attribute string
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("element <%s> has no %q attribute", e.Element, e.Attribute)
}
