// Package csvfile loads question suites from human-edited CSV files.
// Pure function: file in, domain records out. No database dependencies.
//
// Expected header: code,topic,difficulty,text (order free). Only `code` and
// `text` are required; `topic` and `difficulty` are optional columns.
package csvfile

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rpshnkv/trainerbot/internal/domain"
)

// Loader reads suite CSV files from a fixed directory.
type Loader struct {
	dir string
}

// NewLoader creates a Loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// LoadSuite reads `<dir>/<suite>.csv` into question records.
// Returns domain.ErrSourceAbsent when the file does not exist (skip signal)
// and a *domain.SourceError for any malformed content.
func (l *Loader) LoadSuite(suite string) ([]domain.QuestionRecord, error) {
	path := filepath.Join(l.dir, suite+".csv")

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("suite %q: %s: %w", suite, path, domain.ErrSourceAbsent)
		}
		return nil, domain.NewSourceError(path, fmt.Sprintf("unreadable file: %v", err))
	}

	return Parse(path, suite, data)
}

// Parse decodes raw CSV bytes into question records for one suite.
// A UTF-8 byte-order mark is stripped, every field is trimmed, blank rows
// are skipped, and difficulty tokens are normalized to 1..3.
func Parse(path, suite string, data []byte) ([]domain.QuestionRecord, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1 // allow variable column count

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return []domain.QuestionRecord{}, nil
		}
		return nil, domain.NewSourceError(path, fmt.Sprintf("read header: %v", err))
	}

	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	codeIdx := slices.Index(header, "code")
	if codeIdx < 0 {
		return nil, domain.NewSourceError(path, "missing 'code' column")
	}
	textIdx := slices.Index(header, "text")
	if textIdx < 0 {
		return nil, domain.NewSourceError(path, "missing 'text' column")
	}
	topicIdx := slices.Index(header, "topic")
	difficultyIdx := slices.Index(header, "difficulty")

	var out []domain.QuestionRecord
	row := 1 // header

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, domain.NewSourceRowError(path, row, fmt.Sprintf("read row: %v", err))
		}

		if blankRow(record) {
			continue
		}

		if codeIdx >= len(record) || textIdx >= len(record) {
			return nil, domain.NewSourceRowError(path, row, "not enough columns")
		}

		code := strings.TrimSpace(record[codeIdx])
		if code == "" {
			return nil, domain.NewSourceRowError(path, row, "empty 'code'")
		}
		text := strings.TrimSpace(record[textIdx])
		if text == "" {
			return nil, domain.NewSourceRowError(path, row, fmt.Sprintf("empty 'text' for code %q", code))
		}

		var topic *string
		if topicIdx >= 0 && topicIdx < len(record) {
			if t := strings.TrimSpace(record[topicIdx]); t != "" {
				topic = &t
			}
		}

		difficulty := domain.DifficultyBasic
		if difficultyIdx >= 0 && difficultyIdx < len(record) {
			difficulty = domain.NormalizeDifficulty(record[difficultyIdx])
		}

		out = append(out, domain.QuestionRecord{
			Suite:      suite,
			Code:       code,
			Text:       text,
			Topic:      topic,
			Difficulty: difficulty,
		})
	}

	if out == nil {
		out = []domain.QuestionRecord{}
	}

	return out, nil
}

func blankRow(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
