package indexer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Segmenter splits document text into a title and heading-delimited sections.
type Segmenter struct{}

// NewSegmenter creates a new segmenter.
func NewSegmenter() *Segmenter {
	return &Segmenter{}
}

// Segment splits text using reStructuredText adornment headings when rst is
// set and Markdown ATX headings otherwise. An rst document without any
// adornment heading is split by the Markdown rules.
func (s *Segmenter) Segment(text string, rst bool) (string, []Section) {
	if rst {
		// The first adornment heading always sets the title.
		if title, sections := s.SegmentRST(text); title != "" {
			return title, sections
		}
	}
	return s.SegmentMarkdown(text)
}

// SegmentMarkdown splits Markdown text. A "# " line sets the title (first one
// wins) and stays in the current section. A line starting with "##" closes the
// current section and opens a new one headed by its text.
func (s *Segmenter) SegmentMarkdown(text string) (string, []Section) {
	var title string
	acc := &accumulator{}

	for _, line := range splitLines(text) {
		switch {
		case strings.HasPrefix(line, "# "):
			if title == "" {
				title = headingText(line)
			}
		case strings.HasPrefix(line, "##"):
			acc.flush()
			acc.heading = headingText(line)
		}
		acc.lines = append(acc.lines, line)
	}
	acc.flush()

	return title, acc.sections
}

// SegmentRST splits reStructuredText. A heading is a text line underlined
// (and optionally overlined) by one repeated punctuation character. The first
// adornment style seen is the title level; every other style opens a section.
func (s *Segmenter) SegmentRST(text string) (string, []Section) {
	var title string
	var titleStyle string
	acc := &accumulator{}
	lines := splitLines(text)

	for i := 0; i < len(lines); i++ {
		heading, style, span := rstHeading(lines, i)
		if span == 0 {
			acc.lines = append(acc.lines, lines[i])
			continue
		}

		if titleStyle == "" {
			titleStyle = style
		}
		if style == titleStyle {
			if title == "" {
				title = heading
			}
		} else {
			acc.flush()
			acc.heading = heading
		}
		acc.lines = append(acc.lines, lines[i:i+span]...)
		i += span - 1
	}
	acc.flush()

	return title, acc.sections
}

// accumulator collects lines until a section boundary.
type accumulator struct {
	heading  string
	lines    []string
	sections []Section
}

// flush emits the buffered lines as a section unless they are blank, then resets the buffer.
func (a *accumulator) flush() {
	content := strings.TrimSpace(strings.Join(a.lines, "\n"))
	a.lines = a.lines[:0]
	if content == "" {
		return
	}
	a.sections = append(a.sections, Section{
		Index:   len(a.sections),
		Heading: a.heading,
		Content: content,
	})
}

// splitLines splits on \n, \r\n and \r. A trailing line break does not produce an extra line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

func headingText(line string) string {
	return strings.TrimSpace(strings.TrimLeft(line, "#"))
}

// rstHeading detects an adornment heading starting at lines[i]. It returns the
// heading text, a style key, and the number of lines the heading spans (0 if none).
func rstHeading(lines []string, i int) (string, string, int) {
	// Overline, text, underline.
	if i+2 < len(lines) {
		over, ok := adornment(lines[i])
		if ok {
			under, ok := adornment(lines[i+2])
			text := strings.TrimSpace(lines[i+1])
			if ok && over == under && text != "" && !isAdornmentLine(lines[i+1]) &&
				utf8.RuneCountInString(strings.TrimRight(lines[i+2], " \t")) >= utf8.RuneCountInString(text) {
				return text, "over" + string(over), 3
			}
		}
	}

	// Text, underline.
	if i+1 < len(lines) {
		text := lines[i]
		if strings.TrimSpace(text) == "" || text[0] == ' ' || text[0] == '\t' || isAdornmentLine(text) {
			return "", "", 0
		}
		under, ok := adornment(lines[i+1])
		if ok && utf8.RuneCountInString(strings.TrimRight(lines[i+1], " \t")) >= utf8.RuneCountInString(strings.TrimSpace(text)) {
			return strings.TrimSpace(text), string(under), 2
		}
	}
	return "", "", 0
}

// adornment reports whether line is a run of at least two identical
// punctuation characters and returns that character.
func adornment(line string) (rune, bool) {
	line = strings.TrimRight(line, " \t")
	if utf8.RuneCountInString(line) < 2 {
		return 0, false
	}
	first, _ := utf8.DecodeRuneInString(line)
	if first > unicode.MaxASCII || !unicode.IsPunct(first) && !unicode.IsSymbol(first) {
		return 0, false
	}
	for _, r := range line {
		if r != first {
			return 0, false
		}
	}
	return first, true
}

func isAdornmentLine(line string) bool {
	_, ok := adornment(line)
	return ok
}
