// Package records reads the two flat files the catalog is loaded from: the
// categories file and the books file. Both are comma separated, one record
// per line, with a header line that is skipped.
package records

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"

	domainerrors "github.com/listenupapp/libreria/internal/errors"
	"github.com/listenupapp/libreria/internal/normalize"
)

// Supported file encodings.
const (
	EncodingUTF8        = "utf-8"
	EncodingLatin1      = "latin1"
	EncodingWindows1252 = "windows-1252"
)

const maxLineSize = 1024 * 1024

// CategoryRecord is one row of the categories file: name,isFiction.
type CategoryRecord struct {
	Name    string
	Fiction bool
}

// BookRecord is one row of the books file:
// title,author,rating,category,coverPath,coverWidth,coverHeight.
type BookRecord struct {
	Title       string
	Author      string
	Category    string
	CoverPath   string
	Rating      float64
	CoverWidth  int
	CoverHeight int
}

// Options configures how files are decoded.
type Options struct {
	// Encoding of the source bytes. Empty means UTF-8.
	Encoding string
}

// ReadCategories parses a categories file.
// The fiction flag is true only for the literal "true"; anything else is false.
func ReadCategories(r io.Reader, opts Options) ([]CategoryRecord, error) {
	var out []CategoryRecord
	err := scanRows(r, opts, func(line int, fields []string) error {
		if len(fields) < 2 {
			return fieldCountError(line, 2, fields)
		}
		out = append(out, CategoryRecord{
			Name:    fields[0],
			Fiction: fields[1] == "true",
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReadBooks parses a books file.
// Rating is a decimal; cover width and height are integers. Any parse failure
// aborts the whole read.
func ReadBooks(r io.Reader, opts Options) ([]BookRecord, error) {
	var out []BookRecord
	err := scanRows(r, opts, func(line int, fields []string) error {
		if len(fields) < 7 {
			return fieldCountError(line, 7, fields)
		}

		rating, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
		if err != nil {
			return fieldError(err, line, "rating", fields[2])
		}
		width, err := strconv.Atoi(strings.TrimSpace(fields[5]))
		if err != nil {
			return fieldError(err, line, "cover_width", fields[5])
		}
		height, err := strconv.Atoi(strings.TrimSpace(fields[6]))
		if err != nil {
			return fieldError(err, line, "cover_height", fields[6])
		}

		out = append(out, BookRecord{
			Title:       fields[0],
			Author:      fields[1],
			Rating:      rating,
			Category:    fields[3],
			CoverPath:   fields[4],
			CoverWidth:  width,
			CoverHeight: height,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SplitList splits s on commas the way the catalog files and author lists
// have always been split: fields are not trimmed, and trailing empty fields
// are dropped. An empty input yields a single empty field.
//
//	"A,B"   -> ["A" "B"]
//	"A,B,," -> ["A" "B"]
//	"A,,B"  -> ["A" "" "B"]
//	""      -> [""]
func SplitList(s string) []string {
	fields := strings.Split(s, ",")
	if s == "" {
		return fields
	}
	end := len(fields)
	for end > 0 && fields[end-1] == "" {
		end--
	}
	return fields[:end]
}

// scanRows feeds each data line to fn, with its 1-based line number.
// The header line and blank lines are skipped.
func scanRows(r io.Reader, opts Options, fn func(line int, fields []string) error) error {
	decoded, err := decode(r, opts.Encoding)
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(decoded)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		if lineNum == 1 {
			continue
		}

		line := strings.TrimSpace(normalize.Field(scanner.Text()))
		// Blank lines are skipped rather than rejected. Strictly they are
		// rows with too few fields, but editors commonly leave one at the end.
		if line == "" {
			continue
		}

		if err := fn(lineNum, SplitList(line)); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read records: %w", err)
	}
	return nil
}

func decode(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(encoding) {
	case "", EncodingUTF8, "utf8":
		return r, nil
	case EncodingLatin1, "iso-8859-1":
		return charmap.ISO8859_1.NewDecoder().Reader(r), nil
	case EncodingWindows1252, "cp1252":
		return charmap.Windows1252.NewDecoder().Reader(r), nil
	default:
		return nil, domainerrors.Validation(fmt.Sprintf("unsupported encoding %q", encoding))
	}
}

// FieldError describes the offending value of a malformed record.
type FieldError struct {
	Line  int    `json:"line"`
	Field string `json:"field,omitempty"`
	Value string `json:"value,omitempty"`
}

func fieldCountError(line, want int, fields []string) error {
	return domainerrors.MalformedRecordf("line %d: expected %d fields, got %d", line, want, len(fields)).
		WithDetails(FieldError{Line: line})
}

func fieldError(err error, line int, field, value string) error {
	return domainerrors.Wrapf(err, domainerrors.CodeMalformedRecord, "line %d: invalid %s", line, field).
		WithDetails(FieldError{Line: line, Field: field, Value: value})
}
