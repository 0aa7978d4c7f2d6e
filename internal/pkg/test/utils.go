package test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

//WriteFile writes data into dir/name and returns the full path
func WriteFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	f := filepath.Join(dir, name)
	require.Nil(t, os.WriteFile(f, []byte(data), 0644))
	return f
}
