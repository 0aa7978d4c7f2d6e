package err

import (
	"github.com/pkg/errors"
)

const (
	// DefaultCode is a default error code
	DefaultCode string = "SERVICE_ERROR"
	// FileAccessCode is returned for FileAccessError
	FileAccessCode string = "FILE_ACCESS"
	// MalformedInputCode is returned for MalformedInputError
	MalformedInputCode string = "MALFORMED_INPUT"
	// DimensionMismatchCode is returned for DimensionMismatchError
	DimensionMismatchCode string = "DIMENSION_MISMATCH"
)

var exitCodes = map[string]int{
	DefaultCode:           1,
	FileAccessCode:        2,
	MalformedInputCode:    3,
	DimensionMismatchCode: 4,
}

//Code finds the first known error in the chain and returns its code or SERVICE_ERROR
func Code(e error) string {
	var fa *FileAccessError
	if errors.As(e, &fa) {
		return FileAccessCode
	}
	var mi *MalformedInputError
	if errors.As(e, &mi) {
		return MalformedInputCode
	}
	var dm *DimensionMismatchError
	if errors.As(e, &dm) {
		return DimensionMismatchCode
	}
	return DefaultCode
}

//ExitCode returns process exit status for the error, 0 for nil
func ExitCode(e error) int {
	if e == nil {
		return 0
	}
	return exitCodes[Code(e)]
}
