package service

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"memorizer/internal/domain"
)

// ErrInvalidCSV is returned when an uploaded document is not a readable CSV
var ErrInvalidCSV = errors.New("invalid csv")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

const maxDelimiterSampleRecords = 20

// ParseRowsCSV reads word-translation pairs from a CSV with an optional
// third flag column ("1", "true" or "yes").
// The delimiter is detected, a UTF-8 BOM and a header line are skipped.
// Returns the pairs and the number of skipped lines.
func ParseRowsCSV(data []byte) ([]domain.RowInput, int, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectCSVDelimiter(data)
	reader.FieldsPerRecord = -1

	var rows []domain.RowInput
	skipped := 0
	checkedHeader := false

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, skipped, err
		}
		if isEmptyCSVRecord(record) {
			skipped++
			continue
		}
		if !checkedHeader {
			checkedHeader = true
			if isHeaderRecord(record) {
				continue
			}
		}
		if len(record) < 2 {
			skipped++
			continue
		}

		word := strings.TrimSpace(record[0])
		translation := strings.TrimSpace(record[1])
		if word == "" || translation == "" {
			skipped++
			continue
		}
		rows = append(rows, domain.RowInput{
			Word:        word,
			Translation: translation,
			Flag:        len(record) > 2 && isFlagValue(record[2]),
		})
	}

	return rows, skipped, nil
}

// BuildRowsCSV writes memo rows as word,translation,flag lines with a header
func BuildRowsCSV(rows []domain.MemoRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"word", "translation", "flag"}); err != nil {
		return nil, err
	}
	for _, r := range rows {
		flag := ""
		if r.Flag {
			flag = "1"
		}
		if err := w.Write([]string{r.Word, r.Translation, flag}); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func detectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', '\t', ';'}
	bestDelimiter := candidates[0]
	bestScore := -1

	for _, delimiter := range candidates {
		score, err := scoreDelimiter(data, delimiter, maxDelimiterSampleRecords)
		if err != nil {
			continue
		}
		if score > bestScore {
			bestScore = score
			bestDelimiter = delimiter
		}
	}

	if bestScore <= 0 {
		return ','
	}
	return bestDelimiter
}

// scoreDelimiter counts how many sampled records share the most common width
func scoreDelimiter(data []byte, delimiter rune, maxRecords int) (int, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	widths := make(map[int]int)
	seen := 0

	for seen < maxRecords {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, err
		}
		if isEmptyCSVRecord(record) {
			continue
		}
		seen++
		if len(record) >= 2 {
			widths[len(record)]++
		}
	}

	best := 0
	for _, n := range widths {
		if n > best {
			best = n
		}
	}
	return best, nil
}

func isEmptyCSVRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

func isFlagValue(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

func isHeaderRecord(record []string) bool {
	if len(record) < 2 {
		return false
	}
	headers := map[string]bool{
		"word":        true,
		"translation": true,
		"front":       true,
		"back":        true,
	}
	left := strings.ToLower(strings.TrimSpace(record[0]))
	right := strings.ToLower(strings.TrimSpace(record[1]))
	return headers[left] && headers[right]
}
