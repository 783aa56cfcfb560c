// Package artifact reads and writes the pipeline's flat files. Column
// names are part of the contract with presentation layers and must not
// change. Malformed rows are skipped and counted; a missing file is
// reported as internalerr.ErrMissingInput.
package artifact

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cognicore/gourmet/pkg/gourmet/internalerr"
)

// maxKeptErrors bounds how many row errors a ReadReport retains.
const maxKeptErrors = 20

// ReadReport summarizes one table read.
type ReadReport struct {
	Rows    int     // rows accepted
	Skipped int     // malformed rows dropped
	Errors  []error // first few row errors, for logging
}

func (r *ReadReport) skip(err error) {
	r.Skipped++
	if len(r.Errors) < maxKeptErrors {
		r.Errors = append(r.Errors, err)
	}
}

// row gives access to one record by column name.
type row struct {
	line   int
	header map[string]int
	fields []string
}

func (r row) get(col string) string {
	i, ok := r.header[col]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return r.fields[i]
}

func (r row) fail(format string, args ...any) error {
	return &internalerr.RowParseError{Line: r.line, Err: fmt.Errorf(format, args...)}
}

const bom = "\ufeff"

// requireColumns returns a header check that fails when any col is absent.
func requireColumns(cols ...string) func(header map[string]int) error {
	return func(header map[string]int) error {
		for _, col := range cols {
			if _, ok := header[col]; !ok {
				return fmt.Errorf("%w: missing column %q", internalerr.ErrInvalidInput, col)
			}
		}
		return nil
	}
}

// readTable streams a CSV file with a header row. checkHeader sees the
// column index before any row is read. Rows whose field count differs from
// the header, that fail to parse, or for which fn returns a *RowParseError
// are skipped. Any other error from fn aborts the read.
func readTable(path string, checkHeader func(header map[string]int) error, fn func(r row) error) (ReadReport, error) {
	var report ReadReport

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return report, internalerr.MissingInput(path)
		}
		return report, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	head, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return report, fmt.Errorf("%w: %s has no header", internalerr.ErrInvalidInput, path)
		}
		return report, fmt.Errorf("%w: %s header: %v", internalerr.ErrInvalidInput, path, err)
	}
	header := make(map[string]int, len(head))
	for i, h := range head {
		h = strings.TrimSpace(strings.TrimPrefix(h, bom))
		if _, dup := header[h]; !dup {
			header[h] = i
		}
	}
	if checkHeader != nil {
		if err := checkHeader(header); err != nil {
			return report, fmt.Errorf("%s: %w", path, err)
		}
	}

	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				report.skip(&internalerr.RowParseError{Line: perr.StartLine, Err: perr.Err})
				continue
			}
			return report, fmt.Errorf("read %s: %w", path, err)
		}
		line, _ := cr.FieldPos(0)
		if len(fields) != len(head) {
			report.skip(&internalerr.RowParseError{
				Line: line,
				Err:  fmt.Errorf("expected %d fields, got %d", len(head), len(fields)),
			})
			continue
		}

		if err := fn(row{line: line, header: header, fields: fields}); err != nil {
			var rowErr *internalerr.RowParseError
			if errors.As(err, &rowErr) {
				report.skip(err)
				continue
			}
			return report, err
		}
		report.Rows++
	}
	return report, nil
}

// writeTable writes header and rows to path through a temp file so readers
// never observe a partial artifact.
func writeTable(path string, header []string, rows [][]string) error {
	return WriteFileAtomic(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write(header); err != nil {
			return err
		}
		if err := cw.WriteAll(rows); err != nil {
			return err
		}
		return cw.Error()
	})
}

// WriteFileAtomic creates path's directory, writes through fn into a temp
// file beside path, and renames it into place.
func WriteFileAtomic(path string, fn func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := fn(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// Exists reports whether path is an existing regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
