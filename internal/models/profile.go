package models

// Field is one input scraped from a target application form. The field_id is
// opaque but structurally meaningful: it may embed a repeated-group marker
// and ordinal (e.g. "workExperience-7_company").
type Field struct {
	FieldID     string `json:"field_id"`
	Label       string `json:"label"`
	Type        string `json:"type,omitempty"`
	Name        string `json:"name,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
}

type ExperienceItem struct {
	Company     string `json:"company"`
	Position    string `json:"position"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

type EducationItem struct {
	School    string `json:"school"`
	Degree    string `json:"degree"`
	Field     string `json:"field"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	GPA       string `json:"gpa"`
}

type ProjectItem struct {
	Name        string `json:"name"`
	TechStack   string `json:"techStack"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

type LicenseItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	IssueDate   string `json:"issueDate"`
	ExpiryDate  string `json:"expiryDate"`
}

// ProfileData is the job seeker's structured profile. It is owned by the
// caller and read-only to this service.
type ProfileData struct {
	FullName   string           `json:"fullName"`
	Email      string           `json:"email"`
	Phone      string           `json:"phone"`
	Location   string           `json:"location"`
	LinkedIn   string           `json:"linkedin"`
	GitHub     string           `json:"github"`
	Portfolio  string           `json:"portfolio"`
	Summary    string           `json:"summary"`
	Skills     []string         `json:"skills"`
	Education  []EducationItem  `json:"education"`
	Experience []ExperienceItem `json:"experience"`
	Projects   []ProjectItem    `json:"projects"`
	Licenses   []LicenseItem    `json:"licenses"`
}

type AutofillRequest struct {
	Fields  []Field     `json:"fields"`
	Profile ProfileData `json:"profile"`
}

type MemoryStatsResponse struct {
	MemoryEntries int               `json:"memory_entries"`
	RecentMemory  map[string]string `json:"recent_memory"`
}

type HealthResponse struct {
	Status          string `json:"status"`
	LLMAvailable    bool   `json:"llm_available"`
	ClassifierReady bool   `json:"classifier_ready"`
	Timestamp       int64  `json:"timestamp"`
}
