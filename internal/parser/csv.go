package parser

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peekknuf/edaqa/internal/dataset"
)

const sniffSize = 64 * 1024

// ParserConfig contains configuration options for the CSV parser
type ParserConfig struct {
	Delimiter  rune     // Field delimiter (comma, semicolon, tab); 0 detects it
	TrimSpace  bool     // Whether to trim leading/trailing whitespace
	NullValues []string // Tokens read as missing, besides the empty string
	MaxRows    int      // Stop after this many data rows; 0 reads everything
}

// DefaultParserConfig returns a default configuration for the CSV parser
func DefaultParserConfig() ParserConfig {
	return ParserConfig{
		Delimiter:  ',',
		TrimSpace:  true,
		NullValues: dataset.DefaultNullValues,
	}
}

// ReadFile parses the CSV file at path into a dataset.
func ReadFile(path string, config ParserConfig) (*dataset.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	ds, err := Read(file, config)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// Read parses CSV data with a header row into a dataset. Ragged rows and
// unusable headers are reported as *dataset.DataFormatError.
func Read(r io.Reader, config ParserConfig) (*dataset.Dataset, error) {
	if config.Delimiter == 0 {
		br := bufio.NewReaderSize(r, sniffSize)
		// a short peek still returns what is buffered
		sample, _ := br.Peek(sniffSize)
		config.Delimiter = DetectDelimiter(sample)
		r = br
	}

	reader := csv.NewReader(r)
	reader.Comma = config.Delimiter
	reader.FieldsPerRecord = -1 // rectangularity is checked below
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, &dataset.DataFormatError{Reason: "no header row"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read headers: %w", err)
	}
	headers = normalizeHeaders(headers, config.TrimSpace)

	var records [][]string
	line := 1
	for {
		if config.MaxRows > 0 && len(records) >= config.MaxRows {
			break
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return nil, &dataset.DataFormatError{Reason: perr.Err.Error(), Row: line}
			}
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		line++

		if len(record) != len(headers) {
			return nil, &dataset.DataFormatError{
				Reason: fmt.Sprintf("row has %d fields, header has %d", len(record), len(headers)),
				Row:    len(records) + 1,
			}
		}
		if config.TrimSpace {
			for i := range record {
				record[i] = strings.TrimSpace(record[i])
			}
		}
		records = append(records, record)
	}

	return dataset.FromRecords(headers, records, dataset.NewNullSet(config.NullValues))
}

func normalizeHeaders(headers []string, trim bool) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		if trim {
			h = strings.TrimSpace(h)
		}
		out[i] = h
	}
	return out
}
