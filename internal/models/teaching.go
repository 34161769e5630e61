package models

// TeachingType tags a node of a teaching hierarchy.
type TeachingType string

const (
	TeachingTypePlain TeachingType = "PLAIN"
	// TeachingTypePart marks a component of an integrated course; all siblings are attended.
	TeachingTypePart TeachingType = "PART"
	// TeachingTypeFork marks an alternative section; exactly one sibling is attended.
	TeachingTypeFork TeachingType = "FORK"
)

// Raw values used by the open-data service.
const (
	rawTeachingTypePart = "modulo"
	rawTeachingTypeFork = "sdoppiamento"
)

// ParseTeachingType maps the upstream value. Unrecognised values are kept verbatim.
func ParseTeachingType(raw string) TeachingType {
	switch raw {
	case "":
		return TeachingTypePlain
	case rawTeachingTypePart:
		return TeachingTypePart
	case rawTeachingTypeFork:
		return TeachingTypeFork
	default:
		return TeachingType(raw)
	}
}

// Teaching is a unit of instruction, either a leaf or a grouping node.
type Teaching struct {
	ID                 int          `json:"id"`
	CourseCode         string       `json:"course_code"`
	SubjectCode        string       `json:"subject_code"`
	SubjectDescription string       `json:"subject_description"`
	URL                string       `json:"url,omitempty"`
	Type               TeachingType `json:"type"`
	TeacherCode        string       `json:"teacher_code,omitempty"`
	TeacherName        string       `json:"teacher_name,omitempty"`
	Language           string       `json:"language,omitempty"`
	FatherID           *int         `json:"father_id,omitempty"`
	RootID             int          `json:"root_id"`
}

// IsRoot reports whether the teaching has no parent.
func (t Teaching) IsRoot() bool {
	return t.FatherID == nil
}
