// Package analytics answers fixed questions about the friends' game library
// dataset: a semicolon separated CSV of nickname;game;genre;playtime;achievements.
package analytics

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Record is one row of the dataset.
type Record struct {
	Nick         string
	Game         string
	Genre        string
	Playtime     float64
	Achievements float64
}

type Dataset struct {
	Records  []Record
	Encoding string
}

const numColumns = 5

type decoder struct {
	name   string
	decode func([]byte) (string, bool)
}

// encodings are tried in order; the first one that decodes cleanly and
// yields a well-formed table wins.
var encodings = []decoder{
	{"utf-8", func(b []byte) (string, bool) {
		if !utf8.Valid(b) {
			return "", false
		}
		return string(b), true
	}},
	{"windows-1251", func(b []byte) (string, bool) {
		s, err := charmap.Windows1251.NewDecoder().String(string(b))
		if err != nil || strings.ContainsRune(s, utf8.RuneError) {
			return "", false
		}
		return s, true
	}},
	{"iso-8859-1", func(b []byte) (string, bool) {
		s, err := charmap.ISO8859_1.NewDecoder().String(string(b))
		return s, err == nil
	}},
}

// Load reads and parses the dataset at path.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	ds, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// Parse decodes data with the first encoding that works.
func Parse(data []byte) (*Dataset, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	var errs []error
	for _, enc := range encodings {
		text, ok := enc.decode(data)
		if !ok {
			slog.Debug("dataset encoding rejected", "encoding", enc.name)
			errs = append(errs, fmt.Errorf("%s: invalid byte sequence", enc.name))
			continue
		}
		records, err := parseRecords(text)
		if err != nil {
			slog.Debug("dataset encoding rejected", "encoding", enc.name, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", enc.name, err))
			continue
		}
		slog.Info("dataset loaded", "encoding", enc.name, "records", len(records))
		return &Dataset{Records: records, Encoding: enc.name}, nil
	}
	return nil, fmt.Errorf("no encoding could parse the dataset: %w", errors.Join(errs...))
}

func parseRecords(text string) ([]Record, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = ';'
	r.FieldsPerRecord = numColumns
	r.TrimLeadingSpace = true

	// the header row only names the columns; fixed names are used instead
	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return nil, errors.New("empty dataset")
		}
		return nil, fmt.Errorf("header: %w", err)
	}

	var records []Record
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := r.FieldPos(0)

		playtime, err := parseNumber(row[3])
		if err != nil {
			return nil, fmt.Errorf("line %d: playtime: %w", line, err)
		}
		achievements, err := parseNumber(row[4])
		if err != nil {
			return nil, fmt.Errorf("line %d: achievements: %w", line, err)
		}
		records = append(records, Record{
			Nick:         strings.TrimSpace(row[0]),
			Game:         strings.TrimSpace(row[1]),
			Genre:        strings.TrimSpace(row[2]),
			Playtime:     playtime,
			Achievements: achievements,
		})
	}
	if len(records) == 0 {
		return nil, errors.New("dataset has no rows")
	}
	return records, nil
}

// parseNumber accepts both "12.5" and "12,5". NaN and infinities are rejected.
func parseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return f, nil
}
