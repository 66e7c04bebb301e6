package attempt

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/adaptiq/internal/difficulty"
)

// DefaultExportDir is the folder CSV exports are written to by default.
const DefaultExportDir = "logs"

// fileStampLayout is the UTC timestamp appended to export file names.
const fileStampLayout = "20060102T150405Z"

// Header is the CSV column order.
var Header = []string{"timestamp", "user", "difficulty", "prompt", "answer", "correct", "time_taken"}

// FileName returns the export file name for user at now, e.g.
// "AdaLovelace20240301T120000Z.csv".
func FileName(user string, now time.Time) string {
	name := strings.ReplaceAll(user, " ", "")
	name = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, name)
	if name == "" {
		name = DefaultUser
	}
	return name + now.UTC().Format(fileStampLayout) + ".csv"
}

// maxExportSuffix bounds the "-N" suffixes tried when a file name is taken.
const maxExportSuffix = 100

// Export writes the log to a new CSV file in dir, creating dir if needed,
// and returns the file path. An existing file is never overwritten; a
// "-2", "-3", ... suffix is added until the name is free.
func (l *Log) Export(dir string, now time.Time) (string, error) {
	if dir == "" {
		dir = DefaultExportDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	path, f, err := createExclusive(filepath.Join(dir, FileName(l.user, now)))
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	if err := WriteCSV(f, l.records); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close export file: %w", err)
	}
	return path, nil
}

func createExclusive(path string) (string, *os.File, error) {
	base := strings.TrimSuffix(path, ".csv")
	for n := 1; n <= maxExportSuffix; n++ {
		candidate := path
		if n > 1 {
			candidate = fmt.Sprintf("%s-%d.csv", base, n)
		}
		f, err := os.OpenFile(candidate, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", nil, err
		}
		return candidate, f, nil
	}
	return "", nil, fmt.Errorf("%s: %w", path, os.ErrExist)
}

// WriteCSV writes records with a header row.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Timestamp.UTC().Format(time.RFC3339Nano),
			r.User,
			r.Tier.String(),
			r.Prompt,
			strconv.FormatFloat(r.Answer, 'f', -1, 64),
			strconv.FormatBool(r.Correct),
			strconv.FormatFloat(r.TimeTaken, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses records written by WriteCSV.
func ReadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, h := range Header {
		if head[i] != h {
			return nil, fmt.Errorf("column %d is %q, want %q", i, head[i], h)
		}
	}

	var out []Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, rec)
	}
}

func parseRow(row []string) (Record, error) {
	ts, err := time.Parse(time.RFC3339Nano, row[0])
	if err != nil {
		return Record{}, fmt.Errorf("timestamp: %w", err)
	}
	tier, err := difficulty.ParseTier(row[2])
	if err != nil {
		return Record{}, err
	}
	answer, err := strconv.ParseFloat(row[4], 64)
	if err != nil {
		return Record{}, fmt.Errorf("answer: %w", err)
	}
	correct, err := strconv.ParseBool(row[5])
	if err != nil {
		return Record{}, fmt.Errorf("correct: %w", err)
	}
	took, err := strconv.ParseFloat(row[6], 64)
	if err != nil {
		return Record{}, fmt.Errorf("time_taken: %w", err)
	}
	return Record{
		Timestamp: ts.UTC(),
		User:      row[1],
		Tier:      tier,
		Prompt:    row[3],
		Answer:    answer,
		Correct:   correct,
		TimeTaken: took,
	}, nil
}
