package extraction

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Resume is the result of the fully offline regex extraction path. The path
// is deterministic and side-effect-free; it exists so extraction still works
// when the model is unavailable.
type Resume struct {
	Skills     []string          `json:"skills"`
	Education  []EducationEntry  `json:"education"`
	Experience []ExperienceEntry `json:"experience"`
	Contact    Contact           `json:"contact"`
}

type EducationEntry struct {
	Degree     string `json:"degree"`
	Field      string `json:"field"`
	University string `json:"university"`
	DateRange  string `json:"date_range"`
	GPA        string `json:"gpa"`
}

type ExperienceEntry struct {
	Title            string   `json:"title"`
	Company          string   `json:"company"`
	DateRange        string   `json:"date_range"`
	Responsibilities []string `json:"responsibilities"`
}

type Contact struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
	Website  string `json:"website"`
}

// Known skill keywords searched for when no dedicated skills section exists.
var knownSkills = []string{
	"Python", "Java", "JavaScript", "C\\+\\+", "C#", "Ruby", "PHP", "Swift", "Kotlin",
	"Go", "Rust", "Scala", "Perl", "TypeScript", "HTML", "CSS", "SQL", "R",
	"React", "Angular", "Vue", "Django", "Flask", "Spring", "Express", "Node\\.js",
	"TensorFlow", "PyTorch", "Keras", "Scikit-learn", "Pandas", "NumPy",
	"Bootstrap", "jQuery", "Laravel", "ASP\\.NET", "Ruby on Rails",
	"MySQL", "PostgreSQL", "MongoDB", "SQLite", "Oracle", "SQL Server",
	"Redis", "Cassandra", "ElasticSearch", "DynamoDB", "Firebase",
	"Git", "Docker", "Kubernetes", "AWS", "Azure", "GCP", "Jira",
	"Jenkins", "Travis CI", "CircleCI", "Ansible", "Terraform", "Webpack",
}

var (
	bulletItemPattern = regexp.MustCompile(`(?m)^[\s•\-*]+(.+)$`)

	degreePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(B\.?S\.?|Bachelor of Science)[^\n.]*?(?:in|,)?\s*([^\n.]*)`),
		regexp.MustCompile(`(?i)(B\.?A\.?|Bachelor of Arts)[^\n.]*?(?:in|,)?\s*([^\n.]*)`),
		regexp.MustCompile(`(?i)(Bachelor'?s)[^\n.]*?(?:in|,)?\s*([^\n.]*)`),
		regexp.MustCompile(`(?i)(M\.?S\.?|Master of Science)[^\n.]*?(?:in|,)?\s*([^\n.]*)`),
		regexp.MustCompile(`(?i)(M\.?A\.?|Master of Arts)[^\n.]*?(?:in|,)?\s*([^\n.]*)`),
		regexp.MustCompile(`(?i)(Master'?s)[^\n.]*?(?:in|,)?\s*([^\n.]*)`),
		regexp.MustCompile(`(?i)(Ph\.?D\.?|Doctor of Philosophy|Doctorate)[^\n.]*?(?:in|,)?\s*([^\n.]*)`),
		regexp.MustCompile(`(?i)(B\.?Tech\.?|Bachelor of Technology)[^\n.]*?(?:in|,)?\s*([^\n.]*)`),
		regexp.MustCompile(`(?i)(M\.?Tech\.?|Master of Technology)[^\n.]*?(?:in|,)?\s*([^\n.]*)`),
	}

	universityPattern = regexp.MustCompile(`[A-Z][a-zA-Z\s&]+(?:University|College|Institute|School)`)

	monthDatePattern = regexp.MustCompile(`(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec|January|February|March|April|June|July|August|September|October|November|December)[a-z]*\.?[\s,-]+\d{4}`)
	yearRangePattern = regexp.MustCompile(`((?:20|19)\d{2})\s*(?:-|–|to)\s*((?:20|19)\d{2}|Present|Current|Now)`)

	gpaPattern        = regexp.MustCompile(`(?i)(?:GPA|Grade Point Average|CGPA)[\s:]*([0-9.]+)(?:\s*/\s*([0-9.]+))?`)
	percentagePattern = regexp.MustCompile(`(?i)(?:Percentage|marks)[\s:]*([0-9.]+)\s*%`)

	jobTitlePattern = regexp.MustCompile(`(?:Software|Senior|Junior|Lead|Principal|Full Stack|Backend|Frontend|Data|Machine Learning|DevOps|QA|Product|Project|Program|Technical|Chief|Director|VP|Head|Manager|Engineer|Developer|Scientist|Analyst|Specialist|Consultant|Architect|Administrator|Designer)[^\n,|•]*`)
	companyPattern  = regexp.MustCompile(`[A-Z][a-zA-Z\s&]+(?:Pvt\.?|Private|Inc\.?|LLC|Ltd\.?|Limited|Corp\.?|Corporation|Group|Technologies|Solutions|Systems|Company)`)

	emailPattern   = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern   = regexp.MustCompile(`(?:\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	altPhone       = regexp.MustCompile(`\b\d{10}\b`)
	linkedinHandle = regexp.MustCompile(`(?i)linkedin(?:\.com/in/|:\s*)([a-zA-Z0-9_-]+)`)
	githubHandle   = regexp.MustCompile(`(?i)github(?:\.com/|:\s*)([a-zA-Z0-9_-]+)`)
	websitePattern = regexp.MustCompile(`https?://(?:www\.)?[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}(?:/\S*)?`)
)

// ParseResume extracts structured information from résumé text using only
// pattern matching.
func ParseResume(text string) *Resume {
	return &Resume{
		Skills:     extractSkills(text),
		Education:  extractEducation(text),
		Experience: extractExperience(text),
		Contact:    extractContact(text),
	}
}

// Profile converts the offline extraction into a candidate record. Experience
// years are a best-effort estimate spanning the detected employment year
// ranges; ref supplies "now" for open-ended ranges so the conversion stays
// deterministic under test.
func (r *Resume) Profile(ref time.Time) *Profile {
	titles := make([]string, 0, len(r.Experience))
	for _, entry := range r.Experience {
		if entry.Title != "" {
			titles = append(titles, entry.Title)
		}
	}

	education := ""
	if len(r.Education) > 0 {
		education = strings.TrimSpace(r.Education[0].Degree + " " + r.Education[0].Field)
	}

	return &Profile{
		Skills:          dedupe(r.Skills),
		ExperienceYears: estimateExperienceYears(r.Experience, ref),
		Education:       education,
		JobTitles:       dedupe(titles),
		ExtractedAt:     ref,
	}
}

func estimateExperienceYears(entries []ExperienceEntry, ref time.Time) float64 {
	minStart, maxEnd := 0, 0
	for _, entry := range entries {
		m := yearRangePattern.FindStringSubmatch(entry.DateRange)
		if m == nil {
			continue
		}

		start, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		end, err := strconv.Atoi(m[2])
		if err != nil {
			// Present/Current/Now
			end = ref.Year()
		}

		if minStart == 0 || start < minStart {
			minStart = start
		}
		if end > maxEnd {
			maxEnd = end
		}
	}

	if minStart == 0 || maxEnd < minStart {
		return 0
	}
	return float64(maxEnd - minStart)
}

// extractSection returns the body of the first section whose heading contains
// one of the keywords. Sections end at a blank line.
func extractSection(text string, keywords []string) string {
	pattern := regexp.MustCompile(`(?is)(?:^|\n)\s*(?:` + strings.Join(keywords, "|") + `).{0,20}?(?::|\n)(.*?)(?:\n\s*\n|$)`)
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func extractSkills(text string) []string {
	section := extractSection(text, []string{"skills", "technical skills", "technologies"})

	var skills []string
	if section != "" {
		items := bulletItemPattern.FindAllStringSubmatch(section, -1)
		if len(items) > 0 {
			for _, m := range items {
				for _, part := range splitList(m[1]) {
					skills = append(skills, part)
				}
			}
		} else {
			skills = splitList(section)
		}
	}

	// No dedicated section: scan the whole text for known skills.
	if len(skills) == 0 {
		for _, skill := range knownSkills {
			pattern := regexp.MustCompile(`(?i)(?:^|[^\w])` + skill + `(?:$|[^\w])`)
			if pattern.MatchString(text) {
				skills = append(skills, strings.ReplaceAll(skill, `\`, ""))
			}
		}
	}

	return dedupe(skills)
}

func splitList(s string) []string {
	parts := regexp.MustCompile(`[,;]`).Split(s, -1)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if len(part) > 1 {
			result = append(result, part)
		}
	}
	return result
}

var educationLinePattern = regexp.MustCompile(`(?im)^(?:[•\-*]\s*|\d+\.\s*|)(.*(?:university|college|institute|school|degree|bachelor|master|phd|b\.s|m\.s|b\.a|m\.a).*)$`)

func extractEducation(text string) []EducationEntry {
	section := extractSection(text, []string{"education", "academic", "qualification"})
	if section == "" {
		section = text
	}

	var entries []EducationEntry
	for _, m := range educationLinePattern.FindAllStringSubmatch(section, -1) {
		entry := educationFromLine(m[1])
		if entry.Degree != "" || entry.University != "" {
			entries = append(entries, entry)
		}
	}

	// Fallback: search around each university mention.
	if len(entries) == 0 {
		for _, university := range universityPattern.FindAllString(section, -1) {
			idx := strings.Index(section, university)
			context := contextAround(section, idx, 100, 100)
			entry := educationFromLine(context)
			entry.University = strings.TrimSpace(university)
			entries = append(entries, entry)
		}
	}

	return entries
}

func educationFromLine(line string) EducationEntry {
	entry := EducationEntry{}

	for _, pattern := range degreePatterns {
		if m := pattern.FindStringSubmatch(line); m != nil {
			entry.Degree = strings.TrimSpace(m[1])
			entry.Field = strings.TrimSpace(m[2])
			break
		}
	}

	if m := universityPattern.FindString(line); m != "" {
		entry.University = strings.TrimSpace(m)
	}

	entry.DateRange = findDateRange(line)

	if m := gpaPattern.FindStringSubmatch(line); m != nil {
		if m[2] != "" {
			entry.GPA = m[1] + "/" + m[2]
		} else {
			entry.GPA = m[1]
		}
	} else if m := percentagePattern.FindStringSubmatch(line); m != nil {
		entry.GPA = m[1] + "%"
	}

	return entry
}

func extractExperience(text string) []ExperienceEntry {
	section := extractSection(text, []string{"experience", "work experience", "employment", "professional experience"})
	if section == "" {
		section = text
	}

	var entries []ExperienceEntry
	lines := strings.Split(section, "\n")
	for i, line := range lines {
		title := jobTitlePattern.FindString(line)
		if title == "" {
			continue
		}

		entry := ExperienceEntry{
			Title:     strings.TrimSpace(title),
			DateRange: findDateRange(line),
		}

		if m := companyPattern.FindString(line); m != "" {
			entry.Company = strings.TrimSpace(m)
		}

		// The date range may sit on its own line below the title;
		// responsibilities come from the bullet lines that follow.
		for j := i + 1; j < len(lines) && len(entry.Responsibilities) < 5; j++ {
			if m := bulletItemPattern.FindStringSubmatch(lines[j]); m != nil {
				entry.Responsibilities = append(entry.Responsibilities, strings.TrimSpace(m[1]))
				continue
			}
			if entry.DateRange == "" {
				if rng := findDateRange(lines[j]); rng != "" {
					entry.DateRange = rng
					continue
				}
			}
			break
		}

		if entry.Title != "" || entry.Company != "" {
			entries = append(entries, entry)
		}
	}

	// Fallback: search around each company mention.
	if len(entries) == 0 {
		for _, company := range companyPattern.FindAllString(section, -1) {
			idx := strings.Index(section, company)
			context := contextAround(section, idx, 100, 200)

			entry := ExperienceEntry{
				Company:   strings.TrimSpace(company),
				Title:     strings.TrimSpace(jobTitlePattern.FindString(context)),
				DateRange: findDateRange(context),
			}
			entries = append(entries, entry)
		}
	}

	return entries
}

func extractContact(text string) Contact {
	contact := Contact{}

	contact.Email = emailPattern.FindString(text)

	contact.Phone = phonePattern.FindString(text)
	if contact.Phone == "" {
		contact.Phone = altPhone.FindString(text)
	}

	if m := linkedinHandle.FindStringSubmatch(text); m != nil {
		contact.LinkedIn = "linkedin.com/in/" + m[1]
	}
	if m := githubHandle.FindStringSubmatch(text); m != nil {
		contact.GitHub = "github.com/" + m[1]
	}

	for _, url := range websitePattern.FindAllString(text, -1) {
		if strings.Contains(url, "linkedin.com") || strings.Contains(url, "github.com") {
			continue
		}
		contact.Website = url
		break
	}

	return contact
}

func findDateRange(s string) string {
	if m := monthDatePattern.FindAllString(s, 2); len(m) > 0 {
		if len(m) == 2 {
			first := strings.Index(s, m[0])
			second := strings.Index(s[first+len(m[0]):], m[1])
			return strings.TrimSpace(s[first : first+len(m[0])+second+len(m[1])])
		}
		return strings.TrimSpace(m[0])
	}
	return strings.TrimSpace(yearRangePattern.FindString(s))
}

func contextAround(s string, idx, before, after int) string {
	if idx < 0 {
		return s
	}
	start := idx - before
	if start < 0 {
		start = 0
	}
	end := idx + after
	if end > len(s) {
		end = len(s)
	}
	return s[start:end]
}
