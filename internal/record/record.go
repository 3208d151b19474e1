// Package record holds the structured fields extracted from one resume.
package record

// NotFound is the name used when nothing qualified.
const NotFound = "Not found"

// Caps applied to every list field after collection.
const (
	MaxSkills     = 10
	MaxEducation  = 3
	MaxProjects   = 5
	MaxExperience = 5
)

type Contact struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Record is the normalized field set for a single document. Lists are never
// nil so they always serialize as arrays.
type Record struct {
	Name       string   `json:"name"`
	Contact    Contact  `json:"contact"`
	Skills     []string `json:"skills"`
	Education  []string `json:"education"`
	Projects   []string `json:"projects"`
	Experience []string `json:"experience"`
}

// New returns a record with every field at its sentinel value.
func New() *Record {
	return &Record{
		Name:       NotFound,
		Skills:     []string{},
		Education:  []string{},
		Projects:   []string{},
		Experience: []string{},
	}
}

// Clamp truncates the lists to their caps and restores sentinels for empty
// fields. It returns the receiver.
func (r *Record) Clamp() *Record {
	if r.Name == "" {
		r.Name = NotFound
	}

	r.Skills = clamp(r.Skills, MaxSkills)
	r.Education = clamp(r.Education, MaxEducation)
	r.Projects = clamp(r.Projects, MaxProjects)
	r.Experience = clamp(r.Experience, MaxExperience)

	return r
}

// Empty reports whether nothing beyond the sentinels was found.
func (r *Record) Empty() bool {
	return (r.Name == "" || r.Name == NotFound) &&
		r.Contact.Email == "" && r.Contact.Phone == "" &&
		len(r.Skills) == 0 && len(r.Education) == 0 &&
		len(r.Projects) == 0 && len(r.Experience) == 0
}

func clamp(items []string, limit int) []string {
	if items == nil {
		return []string{}
	}
	if len(items) > limit {
		return items[:limit:limit]
	}
	return items
}
