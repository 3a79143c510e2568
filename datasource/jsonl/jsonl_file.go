// Package jsonl streams JSON Lines files as datasets. This adapter uses
// https://github.com/tidwall/gjson to extract values, and supports column
// names formatted as gjson paths. Values within the JSON which do not
// correspond to a schema column are ignored; missing paths yield nil.
package jsonl

import (
	"bufio"
	"io"
	"os"

	"github.com/tidwall/gjson"

	"github.com/go-scrub/scrub"
)

// Conf configures a JSONL File.
type Conf struct {
	Columns       []string // Column names, formatted as gjson paths. Required.
	MaxBufferSize int      // Maximum size in bytes of the buffer used to read lines from the file.
}

// File is a JSON Lines dataset on the local file system.
type File struct {
	path string
	conf *Conf
}

// CreateFile prepares a JSONL file for streaming.
func CreateFile(path string, conf *Conf) *File {
	if conf.MaxBufferSize == 0 {
		conf.MaxBufferSize = bufio.MaxScanTokenSize
	}
	return &File{path: path, conf: conf}
}

// Columns returns the configured column paths.
func (f *File) Columns() []string {
	names := make([]string, len(f.conf.Columns))
	copy(names, f.conf.Columns)
	return names
}

// Open starts a fresh iteration over the lines of the file.
func (f *File) Open() (scrub.RowIterator, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, err
	}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 4096), f.conf.MaxBufferSize)
	it := &fileIterator{file: file, scanner: scanner, columns: f.conf.Columns}
	it.advance()
	return it, nil
}

type fileIterator struct {
	file    *os.File
	scanner *bufio.Scanner
	columns []string
	rowid   scrub.RowID
	next    string
	err     error
	done    bool
}

// advance reads one line ahead so that HasNext can answer without
// consuming. A scanner failure is held back until the next call to Next.
func (it *fileIterator) advance() {
	if !it.scanner.Scan() {
		if err := it.scanner.Err(); err != nil {
			it.err = err
			return
		}
		it.done = true
		return
	}
	it.next = it.scanner.Text()
}

func (it *fileIterator) HasNext() bool {
	return !it.done
}

func (it *fileIterator) Next() (scrub.RowID, scrub.Row, error) {
	if it.err != nil {
		it.done = true
		return 0, nil, it.err
	}
	if it.done {
		return 0, nil, io.EOF
	}
	parsed := gjson.Parse(it.next)
	row := make(scrub.Row, len(it.columns))
	for i, path := range it.columns {
		result := parsed.Get(path)
		if result.Exists() {
			row[i] = result.Value()
		}
	}
	id := it.rowid
	it.rowid++
	it.advance()
	return id, row, nil
}

func (it *fileIterator) Close() error {
	if it.file == nil {
		return nil
	}
	err := it.file.Close()
	it.file = nil
	it.done = true
	return err
}
