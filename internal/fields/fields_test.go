package fields

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/resume-extractor/internal/record"
)

func TestExtractMinimal(t *testing.T) {
	rec := Extract("Jane Doe\njane@x.com\nSkills: Go, Rust, C++\n")

	assert.Equal(t, "Jane Doe", rec.Name)
	assert.Equal(t, "jane@x.com", rec.Contact.Email)
	assert.Equal(t, "", rec.Contact.Phone)
	assert.Equal(t, []string{"Go", "Rust", "C++"}, rec.Skills)
	assert.Empty(t, rec.Education)
	assert.Empty(t, rec.Projects)
	assert.Empty(t, rec.Experience)
}

const resume = `John Smith
Email: john.smith@example.com
Phone: +1 555 123 4567
Technical Skills: Go, Python | Docker; Kubernetes
• PostgreSQL • Redis
Experience
Senior Engineer at Acme Corp, 2019 - 2024
Built payment services
Education
BSc Computer Science, MIT, 2015
GPA 3.9
Projects
Resume parser written in Go
CLI
`

func TestExtractResume(t *testing.T) {
	rec := Extract(resume)

	assert.Equal(t, "John Smith", rec.Name)
	assert.Equal(t, "john.smith@example.com", rec.Contact.Email)
	assert.Equal(t, "+1 555 123 4567", rec.Contact.Phone)

	require.Len(t, rec.Skills, record.MaxSkills)
	assert.Equal(t, []string{"Go", "Python", "Docker", "Kubernetes", "PostgreSQL", "Redis"}, rec.Skills[:6])
	assert.NotContains(t, rec.Skills, "Experience")
	assert.NotContains(t, rec.Skills, "Education")

	assert.Equal(t, []string{
		"Senior Engineer at Acme Corp, 2019 - 2024",
		"Built payment services",
		"BSc Computer Science, MIT, 2015",
		"Resume parser written in Go",
	}, rec.Experience)
	assert.Equal(t, []string{"BSc Computer Science, MIT, 2015", "Resume parser written in Go"}, rec.Education)
	assert.Equal(t, []string{"Resume parser written in Go"}, rec.Projects)
}

func TestExtractAnchorLineRemainder(t *testing.T) {
	rec := Extract("Ann Lee\nEDUCATION: BSc Physics, Stanford University\n\nMSc Physics, ETH Zurich\n")

	assert.Equal(t, []string{"BSc Physics, Stanford University", "MSc Physics, ETH Zurich"}, rec.Education)
}

func TestExtractFirstAnchorWins(t *testing.T) {
	text := "Ann Lee\nProjects\nInventory tracker for a bakery\n" +
		strings.Repeat("\n", 12) +
		"Projects\nSecond projects section entry\n"

	rec := Extract(text)

	assert.Equal(t, []string{"Inventory tracker for a bakery"}, rec.Projects)
}

func TestExtractWindowBound(t *testing.T) {
	lines := []string{"Ann Lee", "Education"}
	for i := 0; i < 12; i++ {
		lines = append(lines, "University course number")
	}

	rec := Extract(strings.Join(lines, "\n"))

	// eight lines of window, clamped to three
	assert.Len(t, rec.Education, record.MaxEducation)
}

func TestExtractWithoutAnchors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "first short line", text: "Hello there\nThis is a plain note without headers\n", want: "Hello there"},
		{name: "skips contact lines", text: "\n\nx@y.com\nPhone 12345678\nMary Major\n", want: "Mary Major"},
		{name: "nothing qualifies", text: "a\nx@y.com\nemail me\nphone me\n" + strings.Repeat("z", 60) + "\nLate Name\n", want: record.NotFound},
		{name: "empty", text: "", want: record.NotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Extract(tt.text)

			assert.Equal(t, tt.want, rec.Name)
			assert.Equal(t, []string{}, rec.Skills)
			assert.Equal(t, []string{}, rec.Education)
			assert.Equal(t, []string{}, rec.Projects)
			assert.Equal(t, []string{}, rec.Experience)
		})
	}
}

func TestExtractNameLengthBounds(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "one rune is too short", text: "J\nJane Doe\n", want: "Jane Doe"},
		{name: "two runes", text: "Jo\nJane Doe\n", want: "Jo"},
		{name: "49 runes", text: strings.Repeat("a", 49) + "\nJane Doe\n", want: strings.Repeat("a", 49)},
		{name: "50 runes is too long", text: strings.Repeat("a", 50) + "\nJane Doe\n", want: "Jane Doe"},
		{name: "49 multibyte runes", text: strings.Repeat("я", 49) + "\n", want: strings.Repeat("я", 49)},
		{name: "only the first five lines", text: "x\ny\nz\nw\nv\nJane Doe\n", want: record.NotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.text).Name)
		})
	}
}

func TestExtractPhoneLengthBounds(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "seven digits", text: "Jane Doe\ncall 1234567\n", want: ""},
		{name: "eight digits", text: "Jane Doe\ncall 12345678\n", want: "12345678"},
		{name: "fifteen digits", text: "Jane Doe\ncall 123456789012345\n", want: "123456789012345"},
		{name: "longer run is cut at fifteen", text: "Jane Doe\ncall 1234567890123456789\n", want: "123456789012345"},
		{name: "plus prefix and spaces", text: "Jane Doe\nTel: +44 20 7946 0958\n", want: "+44 20 7946 0958"},
		{name: "parentheses and hyphens", text: "Jane Doe\nTel: (555) 123-4567\n", want: "(555) 123-4567"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.text).Contact.Phone)
		})
	}
}

func TestExtractSkillsCap(t *testing.T) {
	tokens := make([]string, 30)
	for i := range tokens {
		tokens[i] = "skill" + strings.Repeat("x", i%3+1)
	}

	rec := Extract("Ann Lee\nSkills: " + strings.Join(tokens[:15], ", ") + "\n" + strings.Join(tokens[15:], " | "))

	assert.Len(t, rec.Skills, record.MaxSkills)
}

func TestExtractDropsSingleRuneTokens(t *testing.T) {
	rec := Extract("Ann Lee\nSkills: C, R, Go, ·, SQL")

	assert.Equal(t, []string{"Go", "SQL"}, rec.Skills)
}

func TestExtractIsDeterministic(t *testing.T) {
	first, err := json.Marshal(Extract(resume))
	require.NoError(t, err)
	second, err := json.Marshal(Extract(resume))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
