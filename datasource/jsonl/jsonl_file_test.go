package jsonl

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-scrub/scrub"
)

func writeTempFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "data.jsonl")
	require.Nil(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadRows(t *testing.T) {
	path := writeTempFile(t, `{"name":"alice","age":32}
{"name":"bob","age":45}
`)
	f := CreateFile(path, &Conf{Columns: []string{"name", "age"}})
	require.Equal(t, []string{"name", "age"}, f.Columns())

	it, err := f.Open()
	require.Nil(t, err)
	defer it.Close()

	id, row, err := it.Next()
	require.Nil(t, err)
	require.Equal(t, scrub.RowID(0), id)
	require.Equal(t, scrub.Row{"alice", float64(32)}, row)

	_, row, err = it.Next()
	require.Nil(t, err)
	require.Equal(t, scrub.Row{"bob", float64(45)}, row)
	require.False(t, it.HasNext())
}

func TestNestedPaths(t *testing.T) {
	path := writeTempFile(t, `{"name":{"first":"alice"},"tags":["a","b"]}
`)
	f := CreateFile(path, &Conf{Columns: []string{"name.first", "tags.0"}})

	it, err := f.Open()
	require.Nil(t, err)
	defer it.Close()

	_, row, err := it.Next()
	require.Nil(t, err)
	require.Equal(t, scrub.Row{"alice", "a"}, row)
}

func TestMissingPathYieldsNil(t *testing.T) {
	path := writeTempFile(t, `{"name":"alice"}
`)
	f := CreateFile(path, &Conf{Columns: []string{"name", "age"}})

	it, err := f.Open()
	require.Nil(t, err)
	defer it.Close()

	_, row, err := it.Next()
	require.Nil(t, err)
	require.Equal(t, scrub.Row{"alice", nil}, row)
}

func TestOversizedLineSurfacesError(t *testing.T) {
	long := `{"name":"` + strings.Repeat("x", 4096) + `"}`
	path := writeTempFile(t, `{"name":"alice"}
`+long+`
{"name":"bob"}
`)
	f := CreateFile(path, &Conf{Columns: []string{"name"}, MaxBufferSize: 64})

	it, err := f.Open()
	require.Nil(t, err)
	defer it.Close()

	rows := 0
	var lastErr error
	for it.HasNext() {
		_, _, err := it.Next()
		if err != nil {
			lastErr = err
			break
		}
		rows++
	}
	require.Equal(t, 1, rows)
	require.Equal(t, bufio.ErrTooLong, lastErr)
	require.False(t, it.HasNext())
}

func TestOpenMissingFile(t *testing.T) {
	f := CreateFile(filepath.Join(t.TempDir(), "missing.jsonl"), &Conf{Columns: []string{"a"}})
	_, err := f.Open()
	require.NotNil(t, err)
}
