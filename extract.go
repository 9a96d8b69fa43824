package gomkit

import (
	"bufio"
	"io"
	"strings"
)

// Defaults for locating the LMFR table inside a GoM log report.
const (
	// DefaultMarker is the section header the extractor scans for.
	DefaultMarker = "Lambda-Marginal Frequency Ratio (LMFR)"
	// DefaultSentinel prefixes the footnote lines that terminate the table.
	DefaultSentinel = "*"
)

// ExtractConfig controls report extraction. The zero value plus K is usable:
// Marker and Sentinel fall back to the LMFR defaults.
type ExtractConfig struct {
	// K is the profile count; it determines the expected record width
	// via ProfileSchema.
	K int

	// Marker is the exact, case-sensitive substring identifying the
	// section header line.
	Marker string

	// Sentinel is the prefix that marks legend/footnote lines; the first
	// sentinel line ends the data region.
	Sentinel string

	// Variables is the set of names that open a new variable block when
	// seen as a record's leading token. When empty, VarPrefix is used.
	Variables []string

	// VarPrefix alternatively recognizes new-variable tokens by prefix.
	// Ignored when Variables is non-empty.
	VarPrefix string
}

// Record is one fixed-arity row extracted from the report:
// the active variable label followed by the row's scalar tokens.
type Record []string

// Extraction is the result of scanning a report section.
type Extraction struct {
	Records []Record

	// Dropped counts data-region lines discarded because they carried
	// fewer tokens than the schema requires. The drop itself is
	// deliberate (report rows outside the table shape are not data),
	// but the count keeps the loss observable.
	Dropped int
}

// ReadReportLines splits a report stream into raw lines. Report files may
// carry stray non-UTF-8 bytes in footnotes; lines are passed through as-is
// so extraction never fails on legend text it is about to discard anyway.
func ReadReportLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// Extract locates the configured section in the report lines and segments
// its data region into fixed-arity records.
//
// The window starts two lines after the first line containing the marker
// (the marker line plus one separator line are skipped) and ends at the
// first of: two consecutive blank lines, a sentinel-prefixed line, or end
// of stream. Within the window a small state machine tracks the current
// variable label: a line whose leading token matches the variable set (or
// prefix) updates the label and consumes that token; lines seen before any
// label are header/legend text and are ignored. Remaining lines with at
// least the schema's width are truncated to exactly that width; narrower
// lines are dropped and counted.
func Extract(lines []string, cfg ExtractConfig) (*Extraction, error) {
	marker := cfg.Marker
	if marker == "" {
		marker = DefaultMarker
	}
	sentinel := cfg.Sentinel
	if sentinel == "" {
		sentinel = DefaultSentinel
	}

	window, err := sectionWindow(lines, marker, sentinel)
	if err != nil {
		return nil, err
	}

	// Tokens kept per record, after the leading label.
	width := ProfileSchema(cfg.K).Width - 1

	ext := &Extraction{}
	currentVar := "" // empty = no active variable yet
	for _, line := range window {
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		if isVarToken(parts[0], cfg) {
			currentVar = parts[0]
			parts = parts[1:]
		}
		if currentVar == "" {
			// still inside the column legend above the first variable
			continue
		}
		if len(parts) < width {
			ext.Dropped++
			continue
		}

		rec := make(Record, 0, width+1)
		rec = append(rec, currentVar)
		rec = append(rec, parts[:width]...)
		ext.Records = append(ext.Records, rec)
	}
	return ext, nil
}

// sectionWindow returns the trimmed, non-blank lines of the section's data
// region, or ErrSectionNotFound when the marker never appears.
func sectionWindow(lines []string, marker, sentinel string) ([]string, error) {
	start := -1
	for i, line := range lines {
		if strings.Contains(line, marker) {
			start = i + 2
			break
		}
	}
	if start < 0 {
		return nil, &ErrSectionNotFound{Marker: marker}
	}
	if start > len(lines) {
		start = len(lines)
	}

	var window []string
	blanks := 0
	for _, line := range lines[start:] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			blanks++
			if blanks >= 2 {
				break
			}
			continue
		}
		blanks = 0
		if strings.HasPrefix(trimmed, sentinel) {
			break
		}
		window = append(window, trimmed)
	}
	return window, nil
}

// isVarToken reports whether tok opens a new variable block.
func isVarToken(tok string, cfg ExtractConfig) bool {
	if len(cfg.Variables) > 0 {
		for _, v := range cfg.Variables {
			if tok == v {
				return true
			}
		}
		return false
	}
	return cfg.VarPrefix != "" && strings.HasPrefix(tok, cfg.VarPrefix)
}
