package domain

// Student is the identity block of the portfolio.
type Student struct {
	Name       string `json:"name"`
	Title      string `json:"title"`
	University string `json:"university"`
	Year       string `json:"year"`
	Major      string `json:"major"`
	Location   string `json:"location"`
	Email      string `json:"email"`
	LinkedIn   string `json:"linkedin"`
	GitHub     string `json:"github"`
	Twitter    string `json:"twitter"`
}

// About holds the free-text summary plus interests and goals.
type About struct {
	Summary   string   `json:"summary"`
	Interests []string `json:"interests"`
	Goals     []string `json:"goals"`
}

// Project describes one portfolio project.
type Project struct {
	ID          int               `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	TechStack   []string          `json:"techStack"`
	Features    []string          `json:"features"`
	Links       map[string]string `json:"links"`
	Status      string            `json:"status"`
	Impact      string            `json:"impact"`
}

// Achievement describes one award, certificate, or milestone.
type Achievement struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Date        string            `json:"date"`
	Type        string            `json:"type"`
	Impact      string            `json:"impact"`
	Links       map[string]string `json:"links,omitempty"`
}

// Skills groups skill names by category.
type Skills struct {
	ProgrammingLanguages []string `json:"programmingLanguages"`
	WebTechnologies      []string `json:"webTechnologies"`
	Databases            []string `json:"databases"`
	CloudPlatforms       []string `json:"cloudPlatforms"`
	AIML                 []string `json:"aiMl"`
	Tools                []string `json:"tools"`
}

// Category returns the skill list for a JSON category key, or nil if the
// key is unknown. Used by the portfolio CRUD layer.
func (s *Skills) Category(key string) []string {
	switch key {
	case "programmingLanguages":
		return s.ProgrammingLanguages
	case "webTechnologies":
		return s.WebTechnologies
	case "databases":
		return s.Databases
	case "cloudPlatforms":
		return s.CloudPlatforms
	case "aiMl":
		return s.AIML
	case "tools":
		return s.Tools
	}
	return nil
}

// AddToCategory appends a skill to the named category. Returns false for
// unknown categories.
func (s *Skills) AddToCategory(key, skill string) bool {
	switch key {
	case "programmingLanguages":
		s.ProgrammingLanguages = append(s.ProgrammingLanguages, skill)
	case "webTechnologies":
		s.WebTechnologies = append(s.WebTechnologies, skill)
	case "databases":
		s.Databases = append(s.Databases, skill)
	case "cloudPlatforms":
		s.CloudPlatforms = append(s.CloudPlatforms, skill)
	case "aiMl":
		s.AIML = append(s.AIML, skill)
	case "tools":
		s.Tools = append(s.Tools, skill)
	default:
		return false
	}
	return true
}

// Experience describes one work or internship entry.
type Experience struct {
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Duration     string   `json:"duration"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
}

// Education is the education record.
type Education struct {
	Degree             string   `json:"degree"`
	University         string   `json:"university"`
	ExpectedGraduation string   `json:"expectedGraduation"`
	GPA                string   `json:"gpa"`
	RelevantCoursework []string `json:"relevantCoursework"`
}

// Certification is an ambassador-highlight certification entry.
type Certification struct {
	Name        string `json:"name"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Project     string `json:"project"`
	Impact      string `json:"impact"`
}

// LeadershipExperience is an ambassador-highlight leadership entry.
type LeadershipExperience struct {
	Role        string   `json:"role"`
	Description string   `json:"description"`
	Impact      string   `json:"impact"`
	Skills      []string `json:"skills"`
}

// InnovationShowcase is an ambassador-highlight innovation entry.
type InnovationShowcase struct {
	Project      string   `json:"project"`
	Innovation   string   `json:"innovation"`
	Technologies []string `json:"technologies"`
	Impact       string   `json:"impact"`
}

// CommunityImpact is an ambassador-highlight community entry.
type CommunityImpact struct {
	Initiative    string `json:"initiative"`
	Description   string `json:"description"`
	Beneficiaries string `json:"beneficiaries"`
	Impact        string `json:"impact"`
}

// AmbassadorVision is the ambassador mission statement block.
type AmbassadorVision struct {
	Mission     string   `json:"mission"`
	Goals       []string `json:"goals"`
	WhyGoogle   string   `json:"why_google"`
	UniqueValue string   `json:"unique_value"`
}

// AmbassadorHighlights is the optional ambassador-program section.
type AmbassadorHighlights struct {
	Certifications       []Certification        `json:"certifications"`
	LeadershipExperience []LeadershipExperience `json:"leadership_experience"`
	InnovationShowcase   []InnovationShowcase   `json:"innovation_showcase"`
	CommunityImpact      []CommunityImpact      `json:"community_impact"`
	AmbassadorVision     AmbassadorVision       `json:"ambassador_vision"`
}

// Portfolio is the full static profile record injected into every prompt.
// It is read-only from the chat pipeline's perspective; mutations go
// through the profile store.
type Portfolio struct {
	Student      Student      `json:"student"`
	About        About        `json:"about"`
	Projects     []Project    `json:"projects"`
	Achievements []Achievement `json:"achievements"`
	Skills       Skills       `json:"skills"`
	Experience   []Experience `json:"experience"`
	Education    Education    `json:"education"`

	AmbassadorHighlights *AmbassadorHighlights `json:"google_ambassador_highlights,omitempty"`
}
