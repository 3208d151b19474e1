// Package fields pulls a structured record out of plain resume text with
// line-oriented heuristics. It has no external dependencies and does no I/O.
package fields

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/spigell/resume-extractor/internal/record"
)

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phoneRe = regexp.MustCompile(`\+?[(0-9][0-9 ()\-]{7,14}`)
)

const (
	nameScanLines = 5
	nameMinLen    = 2
	nameMaxLen    = 49
)

type section struct {
	anchors []string
	window  int
	// minLen is the trimmed length a line must exceed. Zero means the
	// section is tokenized like skills instead.
	minLen int
}

var (
	skillsSection = section{
		anchors: []string{"skills", "technical skills", "technologies", "programming languages"},
		window:  10,
	}
	educationSection = section{
		anchors: []string{"education", "academic", "qualification"},
		window:  8,
		minLen:  10,
	}
	projectsSection = section{
		anchors: []string{"projects", "personal projects", "academic projects"},
		window:  10,
		minLen:  15,
	}
	experienceSection = section{
		anchors: []string{"experience", "employment", "internship", "work history"},
		window:  10,
		minLen:  15,
	}
)

// skillDelimiters are the separators a skills line is split on.
const skillDelimiters = ",;•·-|"

// Extract derives a record from text. It is deterministic: the same text
// always yields an identical record.
func Extract(text string) *record.Record {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lower := make([]string, len(lines))
	for i, line := range lines {
		lower[i] = strings.ToLower(line)
	}

	rec := record.New()
	rec.Name = name(lines, lower)
	rec.Contact.Email = emailRe.FindString(text)
	rec.Contact.Phone = strings.TrimSpace(phoneRe.FindString(text))
	rec.Skills = skills(lines, lower)
	rec.Education = collect(lines, lower, educationSection)
	rec.Projects = collect(lines, lower, projectsSection)
	rec.Experience = collect(lines, lower, experienceSection)

	return rec.Clamp()
}

func name(lines, lower []string) string {
	seen := 0
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if seen == nameScanLines {
			break
		}
		seen++

		n := utf8.RuneCountInString(trimmed)
		if n < nameMinLen || n > nameMaxLen {
			continue
		}
		if strings.Contains(trimmed, "@") ||
			strings.Contains(lower[i], "phone") ||
			strings.Contains(lower[i], "email") {
			continue
		}
		return trimmed
	}

	return record.NotFound
}

// source returns the lines of a section: the remainder of the anchor
// line after its first colon, followed by up to s.window lines. The lower-case
// copies are returned alongside. ok is false when no anchor matched.
func (s section) source(lines, lower []string) (orig, low []string, ok bool) {
	for i, l := range lower {
		if !containsAny(l, s.anchors) {
			continue
		}

		if idx := strings.Index(l, ":"); idx >= 0 {
			// Lower-casing can change byte lengths, so map the offset by rune.
			rest := afterRunes(lines[i], utf8.RuneCountInString(l[:idx+1]))
			orig = append(orig, rest)
			low = append(low, strings.ToLower(rest))
		}

		end := i + 1 + s.window
		if end > len(lines) {
			end = len(lines)
		}
		orig = append(orig, lines[i+1:end]...)
		low = append(low, lower[i+1:end]...)

		return orig, low, true
	}

	return nil, nil, false
}

func skills(lines, lower []string) []string {
	orig, low, ok := skillsSection.source(lines, lower)
	if !ok {
		return []string{}
	}

	out := []string{}
	for i, line := range orig {
		if strings.Contains(low[i], "experience") || strings.Contains(low[i], "education") {
			continue
		}

		tokens := strings.FieldsFunc(line, func(r rune) bool {
			return strings.ContainsRune(skillDelimiters, r)
		})
		for _, token := range tokens {
			token = strings.TrimSpace(token)
			if utf8.RuneCountInString(token) > 1 {
				out = append(out, token)
			}
		}
	}

	return out
}

func collect(lines, lower []string, s section) []string {
	orig, _, ok := s.source(lines, lower)
	if !ok {
		return []string{}
	}

	out := []string{}
	for _, line := range orig {
		trimmed := strings.TrimSpace(line)
		if utf8.RuneCountInString(trimmed) > s.minLen {
			out = append(out, trimmed)
		}
	}

	return out
}

func containsAny(s string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}

func afterRunes(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[i:]
		}
		n--
	}
	return ""
}
