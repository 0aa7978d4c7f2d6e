package err

import (
	"fmt"
)

//FileAccessError indicates that an input file or embedding resource can not be read
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("can't access file %s: %v", e.Path, e.Err)
}

//Unwrap returns the underlying io error
func (e *FileAccessError) Unwrap() error {
	return e.Err
}

//MalformedInputError indicates a line that can not be parsed
type MalformedInputError struct {
	Path   string
	Line   int
	Reason string
}

func (e *MalformedInputError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("malformed input at line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("malformed input %s:%d: %s", e.Path, e.Line, e.Reason)
}

//DimensionMismatchError indicates embedding vectors of different widths
type DimensionMismatchError struct {
	Token    string
	Expected int
	Got      int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("vector for '%s' has width %d, expected %d", e.Token, e.Got, e.Expected)
}
