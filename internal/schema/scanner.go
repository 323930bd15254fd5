package schema

import (
	"log/slog"
	"strings"
)

const (
	keywordCreateType = "CREATE TYPE"
	keywordAsEnum     = "AS ENUM"
	keywordVector     = "VECTOR("
	terminator        = ");"
	commentPrefix     = "--"
)

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger sets the sink for trace records. A nil logger is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithProgress registers a callback invoked as the cursor moves through the input.
func WithProgress(fn func(done, total int)) Option {
	return func(s *Scanner) {
		s.onProgress = fn
	}
}

// Scanner finds enum declarations and vector column usage in schema source text.
//
// It only understands two statement shapes and ignores everything else, including
// syntax errors. Malformed enum declarations are skipped, never reported.
type Scanner struct {
	logger     *slog.Logger
	onProgress func(done, total int)
}

// NewScanner creates a Scanner. Without WithLogger, trace records are discarded.
func NewScanner(opts ...Option) *Scanner {
	s := &Scanner{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan walks text line by line and collects custom types. It never fails.
func (s *Scanner) Scan(text string) *ScanResult {
	lines := SplitLines(text)
	result := &ScanResult{}

	i := 0
	for i < len(lines) {
		s.progress(i, len(lines))

		line := strings.TrimSpace(lines[i])
		upper := strings.ToUpper(line)

		if strings.HasPrefix(upper, keywordCreateType) {
			s.logger.Debug("found CREATE TYPE line", "line", i+1, "text", line)

			if strings.Contains(upper, "ENUM") {
				s.logger.Debug("processing enum type", "line", i+1)
				if enum, ok := s.ParseEnum(lines, &i); ok {
					s.logger.Debug("parsed enum type", "name", enum.Name, "values", len(enum.Values))
					result.Enums = append(result.Enums, enum)
				} else {
					s.logger.Debug("failed to parse enum type", "text", line)
				}

				// Never rescan lines of a consumed (or broken) declaration.
				i = skipToTerminator(lines, i) + 1
				continue
			}
		}

		if strings.Contains(upper, keywordVector) && !result.UsesVector {
			s.logger.Debug("found vector column", "line", i+1)
			result.UsesVector = true
		}

		i++
	}

	s.progress(len(lines), len(lines))
	return result
}

// ParseEnum parses the enum declaration starting at lines[*cursor].
//
// For multi-line declarations the cursor is left on the line holding the terminator,
// or at len(lines) when there is none. ok is false when the first line lacks the
// CREATE TYPE / AS ENUM keywords or when no label could be extracted.
func (s *Scanner) ParseEnum(lines []string, cursor *int) (enum EnumType, ok bool) {
	if *cursor < 0 || *cursor >= len(lines) {
		return EnumType{}, false
	}

	first := strings.TrimSpace(lines[*cursor])
	s.logger.Debug("parsing enum", "text", first)

	start := indexFold(first, keywordCreateType)
	if start < 0 {
		s.logger.Debug("could not find CREATE TYPE", "text", first)
		return EnumType{}, false
	}
	start += len(keywordCreateType)

	end := indexFold(first[start:], keywordAsEnum)
	if end < 0 {
		s.logger.Debug("could not find AS ENUM", "text", first)
		return EnumType{}, false
	}

	raw := strings.TrimSpace(first[start : start+end])
	name := CleanTypeName(raw)
	s.logger.Debug("extracted type name", "raw", raw, "name", name)
	if name == "" {
		return EnumType{}, false
	}

	var values []string
	if strings.Contains(first, terminator) {
		s.logger.Debug("processing single-line enum", "name", name)
		values = singleLineLabels(first)
	} else {
		s.logger.Debug("processing multi-line enum", "name", name)
		values = s.multiLineLabels(lines, cursor)
	}

	if len(values) == 0 {
		s.logger.Debug("no values found for enum type", "name", name)
		return EnumType{}, false
	}

	return EnumType{Name: name, Values: values}, true
}

func (s *Scanner) multiLineLabels(lines []string, cursor *int) []string {
	var values []string
	inEnum := false
	opened := false

	for *cursor < len(lines) {
		line := strings.TrimSpace(lines[*cursor])
		if indexFold(line, keywordAsEnum) >= 0 {
			inEnum = true
		}

		if inEnum {
			body := stripComment(line)

			// Only the text inside the parentheses carries labels.
			segment := body
			if !opened {
				if open := strings.IndexByte(segment, '('); open >= 0 {
					segment, opened = segment[open+1:], true
				} else {
					segment = ""
				}
			}
			if idx := strings.Index(segment, terminator); idx >= 0 {
				segment = segment[:idx]
			}

			for _, v := range extractLabels(segment) {
				s.logger.Debug("found enum value", "value", v)
				values = append(values, v)
			}

			if strings.Contains(body, terminator) {
				s.logger.Debug("reached end of enum definition", "line", *cursor+1)
				return values
			}
		}

		*cursor++
	}

	return values
}

func singleLineLabels(line string) []string {
	line = stripComment(line)

	open := strings.IndexByte(line, '(')
	if open < 0 {
		return nil
	}
	closing := strings.IndexByte(line, ')')
	if closing < open {
		return nil
	}

	return extractLabels(line[open+1 : closing])
}

// extractLabels splits s on commas and keeps the single-quoted, non-empty pieces.
func extractLabels(s string) []string {
	var labels []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if len(part) > 2 && part[0] == '\'' && part[len(part)-1] == '\'' {
			labels = append(labels, part[1:len(part)-1])
		}
	}
	return labels
}

// stripComment drops everything from the first "--". Quotes are not honoured.
func stripComment(line string) string {
	if idx := strings.Index(line, commentPrefix); idx >= 0 {
		return line[:idx]
	}
	return line
}

func skipToTerminator(lines []string, i int) int {
	for i < len(lines) && !strings.HasSuffix(strings.TrimSpace(lines[i]), terminator) {
		i++
	}
	return i
}

func (s *Scanner) progress(done, total int) {
	if s.onProgress != nil {
		s.onProgress(done, total)
	}
}

// CleanTypeName removes any schema qualifier, keeping the part after the last dot.
func CleanTypeName(name string) string {
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		return name[idx+1:]
	}
	return name
}

// SplitLines splits text into lines, dropping "\r" line endings and a final empty line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// indexFold is a case-insensitive strings.Index for ASCII keywords.
func indexFold(s, substr string) int {
	n := len(substr)
	for i := 0; i+n <= len(s); i++ {
		if strings.EqualFold(s[i:i+n], substr) {
			return i
		}
	}
	return -1
}
