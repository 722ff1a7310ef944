package selection

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/KaramelBytes/encodekit/internal/frame"
	"github.com/KaramelBytes/encodekit/internal/utils"
)

// Header lists the log columns after the leading row index.
var Header = func() []string {
	h := []string{"Training sample size", "Encoder", "Interactions", "Scaling", "Regressor"}
	for i := 1; i <= DefaultFolds; i++ {
		h = append(h, fmt.Sprintf("CVS_%d", i))
	}
	return append(h, "Time /s")
}()

// Entry is one cross-validation run.
type Entry struct {
	SampleSize   int
	Encoder      string
	Interactions string
	Scaling      string
	Regressor    string
	// Scores are the per-fold negative mean squared errors.
	Scores  []float64
	Seconds float64
}

func (e Entry) record() []string {
	rec := []string{strconv.Itoa(e.SampleSize), e.Encoder, e.Interactions, e.Scaling, e.Regressor}
	for _, s := range e.Scores {
		rec = append(rec, frame.FormatFloat(s))
	}
	return append(rec, frame.FormatFloat(e.Seconds))
}

func parseEntry(rec []string) (Entry, error) {
	if len(rec) != len(Header) {
		return Entry{}, fmt.Errorf("got %d fields, want %d", len(rec), len(Header))
	}
	n, err := strconv.Atoi(strings.TrimSpace(rec[0]))
	if err != nil {
		return Entry{}, fmt.Errorf("sample size: %w", err)
	}
	e := Entry{SampleSize: n, Encoder: rec[1], Interactions: rec[2], Scaling: rec[3], Regressor: rec[4]}
	for i := 0; i < DefaultFolds; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[5+i]), 64)
		if err != nil {
			return Entry{}, fmt.Errorf("%s: %w", Header[5+i], err)
		}
		e.Scores = append(e.Scores, v)
	}
	if e.Seconds, err = strconv.ParseFloat(strings.TrimSpace(rec[len(rec)-1]), 64); err != nil {
		return Entry{}, fmt.Errorf("time: %w", err)
	}
	return e, nil
}

// Log is an append-only table of runs.
type Log struct {
	entries []Entry
}

// NewLog returns an empty log, or the contents of source when it names an
// existing log file.
func NewLog(source string) (*Log, error) {
	l := &Log{}
	if source == "" {
		return l, nil
	}
	ok, err := utils.FileExists(source)
	if err != nil || !ok {
		return l, err
	}
	if l.entries, err = readLog(source); err != nil {
		return nil, err
	}
	return l, nil
}

// Add stages one run. Exactly DefaultFolds scores are required.
func (l *Log) Add(e Entry) error {
	if len(e.Scores) != DefaultFolds {
		return fmt.Errorf("log entry needs %d fold scores, got %d", DefaultFolds, len(e.Scores))
	}
	e.Scores = append([]float64(nil), e.Scores...)
	l.entries = append(l.entries, e)
	return nil
}

// Entries returns a copy of the staged and loaded runs.
func (l *Log) Entries() []Entry { return append([]Entry(nil), l.entries...) }

func (l *Log) Len() int { return len(l.entries) }

// UpdateLogfile persists the log to path. A new file receives the staged
// rows as they are. An existing file is merged with them, rows identical in
// every column are kept once, the index is renumbered, and the log takes
// the merged contents.
func (l *Log) UpdateLogfile(path string) error {
	ok, err := utils.FileExists(path)
	if err != nil {
		return err
	}
	if ok {
		existing, err := readLog(path)
		if err != nil {
			return err
		}
		l.entries = dedupe(append(existing, l.entries...))
	}
	var buf bytes.Buffer
	if err := writeLog(&buf, l.entries); err != nil {
		return err
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}

func dedupe(entries []Entry) []Entry {
	seen := make(map[string]bool, len(entries))
	out := entries[:0]
	for _, e := range entries {
		key := strings.Join(e.record(), "\x1f")
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e)
	}
	return out
}

func writeLog(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{""}, Header...)); err != nil {
		return err
	}
	for i, e := range entries {
		if err := cw.Write(append([]string{strconv.Itoa(i)}, e.record()...)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func readLog(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer f.Close()
	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read log header: %w", err)
	}
	if len(header) != len(Header)+1 || strings.Join(header[1:], ",") != strings.Join(Header, ",") {
		return nil, fmt.Errorf("%s is not a model log: unexpected header %q", path, header)
	}
	var out []Entry
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read log line %d: %w", line, err)
		}
		if len(rec) == 0 {
			continue
		}
		e, err := parseEntry(rec[1:])
		if err != nil {
			return nil, fmt.Errorf("log line %d: %w", line, err)
		}
		out = append(out, e)
	}
	return out, nil
}
