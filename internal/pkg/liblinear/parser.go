package liblinear

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

//ErrMalformed indicates a line not following `label name:value ...` format
var ErrMalformed = errors.New("malformed line")

//Feature is one name:value pair
type Feature struct {
	Name  string
	Value float64
}

//Line is a parsed training line
type Line struct {
	Label    string
	Features []Feature
}

//ParseLine parses `label name:value name:value ...`
func ParseLine(line string) (*Line, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, errors.Wrap(ErrMalformed, "no label")
	}
	if len(fields) == 1 {
		return nil, errors.Wrapf(ErrMalformed, "no features for label '%s'", fields[0])
	}
	if strings.Contains(fields[0], ":") {
		return nil, errors.Wrapf(ErrMalformed, "no label, line starts with feature '%s'", fields[0])
	}
	fs, err := parseFeatures(fields[1:])
	if err != nil {
		return nil, err
	}
	return &Line{Label: fields[0], Features: fs}, nil
}

//ParseFeatures parses line without a label: `name:value name:value ...`
func ParseFeatures(line string) ([]Feature, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, errors.Wrap(ErrMalformed, "no features")
	}
	return parseFeatures(fields)
}

func parseFeatures(fields []string) ([]Feature, error) {
	res := make([]Feature, 0, len(fields))
	for _, f := range fields {
		ft, err := parseFeature(f)
		if err != nil {
			return nil, err
		}
		res = append(res, ft)
	}
	return res, nil
}

// cleartk feature names may contain ':', the value is after the last one
func parseFeature(s string) (Feature, error) {
	i := strings.LastIndex(s, ":")
	if i < 0 {
		return Feature{}, errors.Wrapf(ErrMalformed, "no ':' in '%s'", s)
	}
	if i == 0 {
		return Feature{}, errors.Wrapf(ErrMalformed, "no feature name in '%s'", s)
	}
	v, err := strconv.ParseFloat(s[i+1:], 64)
	if err != nil {
		return Feature{}, errors.Wrapf(ErrMalformed, "wrong value in '%s'", s)
	}
	return Feature{Name: s[:i], Value: v}, nil
}
