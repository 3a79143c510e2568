// Package dsv reads and writes delimiter-separated datasets. A File is both
// a DatasetStream over an existing data file and a RowSink for pipeline
// write stages. Files with a .gz suffix (or an explicit flag) are
// transparently gzip-compressed.
package dsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/go-scrub/scrub"
	"github.com/go-scrub/scrub/errors"
)

// FileConf configures a dsv File.
type FileConf struct {
	Delim      rune     // The delimiter separating columns. Defaults to ','.
	Columns    []string // Explicit header. If nil, the first row of the file is read as the header.
	NilValue   string   // A special token which represents nil values in the file. Defaults to "" (the empty string).
	Compressed bool     // Force gzip compression regardless of the file suffix.
}

// File is a delimiter-separated dataset on the local file system.
type File struct {
	path         string
	conf         *FileConf
	columns      []string
	headerInFile bool
}

// CreateFile opens a dsv file for streaming. If the configuration does not
// carry an explicit header, the first row of the file is read immediately to
// resolve the column schema.
func CreateFile(path string, conf *FileConf) (*File, error) {
	f := CreateSink(path, conf)
	if f.columns == nil {
		header, err := f.readHeader()
		if err != nil {
			return nil, fmt.Errorf("unable to read header of %s: %w", path, err)
		}
		f.columns = header
		f.headerInFile = true
	}
	return f, nil
}

// CreateSink prepares a dsv file as a write target. No I/O happens until a
// writer is opened; the header is supplied by the write stage.
func CreateSink(path string, conf *FileConf) *File {
	if conf == nil {
		conf = &FileConf{}
	}
	if conf.Delim == 0 {
		conf.Delim = ','
	}
	f := &File{path: path, conf: conf}
	if conf.Columns != nil {
		f.columns = make([]string, len(conf.Columns))
		copy(f.columns, conf.Columns)
	}
	return f
}

// Columns returns the column names of the file.
func (f *File) Columns() []string {
	names := make([]string, len(f.columns))
	copy(names, f.columns)
	return names
}

// Open starts a fresh iteration over the data rows of the file, skipping the
// header row if the header came from the file itself.
func (f *File) Open() (scrub.RowIterator, error) {
	file, rc, err := f.openReader()
	if err != nil {
		return nil, err
	}
	reader := csv.NewReader(rc)
	reader.Comma = f.conf.Delim
	if len(f.columns) > 0 {
		reader.FieldsPerRecord = len(f.columns)
	}
	if f.headerInFile {
		if _, err := reader.Read(); err != nil {
			file.Close()
			return nil, err
		}
	}
	it := &fileIterator{file: file, rc: rc, reader: reader, nilValue: f.conf.NilValue}
	it.advance()
	return it, nil
}

// OpenWriter creates (or truncates) the file and writes the given header,
// returning a writer for the data rows. This makes File usable as the sink
// of a pipeline write stage.
func (f *File) OpenWriter(header []string) (scrub.RowWriter, error) {
	file, err := os.Create(f.path)
	if err != nil {
		return nil, err
	}
	var wc io.WriteCloser = file
	if f.compressed() {
		wc = gzip.NewWriter(file)
	}
	writer := csv.NewWriter(wc)
	writer.Comma = f.conf.Delim
	if err := writer.Write(header); err != nil {
		wc.Close()
		if wc != io.WriteCloser(file) {
			file.Close()
		}
		return nil, err
	}
	return &fileWriter{file: file, wc: wc, writer: writer, nilValue: f.conf.NilValue}, nil
}

func (f *File) compressed() bool {
	return f.conf.Compressed || strings.HasSuffix(f.path, ".gz")
}

func (f *File) openReader() (*os.File, io.ReadCloser, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, nil, err
	}
	var rc io.ReadCloser = file
	if f.compressed() {
		zr, err := gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, nil, err
		}
		rc = zr
	}
	return file, rc, nil
}

func (f *File) readHeader() ([]string, error) {
	file, rc, err := f.openReader()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	defer rc.Close()
	reader := csv.NewReader(rc)
	reader.Comma = f.conf.Delim
	return reader.Read()
}

type fileIterator struct {
	file     *os.File
	rc       io.ReadCloser
	reader   *csv.Reader
	nilValue string
	rowid    scrub.RowID
	next     []string
	err      error
	done     bool
}

// advance reads one record ahead so that HasNext can answer without
// consuming.
func (it *fileIterator) advance() {
	record, err := it.reader.Read()
	if err == io.EOF {
		it.done = true
		return
	}
	if err != nil {
		it.err = err
		return
	}
	it.next = record
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
	row := make(scrub.Row, len(it.next))
	for i, field := range it.next {
		if field == it.nilValue {
			row[i] = nil
		} else {
			row[i] = field
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
	if it.rc != io.ReadCloser(it.file) {
		it.rc.Close()
	}
	err := it.file.Close()
	it.file = nil
	it.done = true
	return err
}

type fileWriter struct {
	file     *os.File
	wc       io.WriteCloser
	writer   *csv.Writer
	nilValue string
}

// WriteRow encodes a row of cell values and appends it to the file. Nil
// values are encoded as the configured nil token.
func (w *fileWriter) WriteRow(row scrub.Row) error {
	if w.file == nil {
		return errors.ConsumerClosedError{}
	}
	record := make([]string, len(row))
	for i, v := range row {
		record[i] = encodeValue(v, w.nilValue)
	}
	return w.writer.Write(record)
}

// Close flushes buffered rows and releases the file handle. Closing twice is
// an error.
func (w *fileWriter) Close() error {
	if w.file == nil {
		return errors.ConsumerClosedError{}
	}
	w.writer.Flush()
	err := w.writer.Error()
	if w.wc != io.WriteCloser(w.file) {
		if cerr := w.wc.Close(); err == nil {
			err = cerr
		}
	}
	if cerr := w.file.Close(); err == nil {
		err = cerr
	}
	w.file = nil
	return err
}

func encodeValue(v scrub.Value, nilValue string) string {
	switch val := v.(type) {
	case nil:
		return nilValue
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}
