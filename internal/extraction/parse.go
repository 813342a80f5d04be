package extraction

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Outcome tags which parsing tier produced a record.
type Outcome int

const (
	// OutcomeParsed means the response was valid JSON as-is.
	OutcomeParsed Outcome = iota
	// OutcomeFallback means a JSON span or field regexes recovered the data.
	OutcomeFallback
	// OutcomeFailed means all tiers failed; the record is zeroed.
	OutcomeFailed
)

// parseProfile coerces model output into a candidate record. Tiers: strict
// JSON parse, then the first balanced {...} span, then field-by-field
// regexes.
func parseProfile(content string) (*Profile, Outcome) {
	data, outcome := parseObject(content)
	if outcome == OutcomeFailed {
		profile, ok := profileFromFields(content)
		if !ok {
			return &Profile{Skills: []string{}, Error: "response not coercible to the expected schema"}, OutcomeFailed
		}
		return profile, OutcomeFallback
	}

	expYears, expParsed := coerceFloat(data["experience_years"])

	return &Profile{
		Skills:             dedupe(coerceStringSlice(data["skills"])),
		ExperienceYears:    nonNegative(expYears),
		ExperienceUnparsed: !expParsed,
		Education:          coerceString(data["education"]),
		Technologies:       dedupe(coerceStringSlice(data["technologies"])),
		JobTitles:          coerceStringSlice(data["job_titles"]),
	}, outcome
}

// parseRequirement coerces model output into a job-requirement record.
func parseRequirement(content string) (*Requirement, Outcome) {
	data, outcome := parseObject(content)
	if outcome == OutcomeFailed {
		requirement, ok := requirementFromFields(content)
		if !ok {
			return &Requirement{RequiredSkills: []string{}, Error: "response not coercible to the expected schema"}, OutcomeFailed
		}
		return requirement, OutcomeFallback
	}

	expYears, expParsed := coerceFloat(data["experience_years"])

	return &Requirement{
		RequiredSkills:     dedupe(coerceStringSlice(data["required_skills"])),
		PreferredSkills:    dedupe(coerceStringSlice(data["preferred_skills"])),
		ExperienceYears:    nonNegative(expYears),
		ExperienceUnparsed: !expParsed,
		Education:          coerceString(data["education_level"]),
		Technologies:       dedupe(coerceStringSlice(data["technologies"])),
		Responsibilities:   coerceStringSlice(data["responsibilities"]),
	}, outcome
}

// parseObject attempts the first two tiers: strict JSON after fence
// stripping, then the first balanced object span.
func parseObject(content string) (map[string]any, Outcome) {
	cleaned := stripFences(content)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err == nil {
		return data, OutcomeParsed
	}

	span, ok := firstObjectSpan(cleaned)
	if ok {
		if err := json.Unmarshal([]byte(span), &data); err == nil {
			return data, OutcomeFallback
		}
	}

	return nil, OutcomeFailed
}

// stripFences removes markdown code fences around model output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}

// firstObjectSpan returns the first balanced {...} span, tracking string
// literals so braces inside values do not break the count.
func firstObjectSpan(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	return "", false
}

// Field regexes for the last-resort tier.
var (
	skillsFieldPattern    = regexp.MustCompile(`(?s)"(?:required_)?skills"\s*:.*?\[(.*?)\]`)
	expFieldPattern       = regexp.MustCompile(`"experience_years"\s*:\s*(\d+(?:\.\d+)?)`)
	educationFieldPattern = regexp.MustCompile(`"(?:education|education_level|degree)"\s*:\s*"(.*?)"`)
)

func profileFromFields(content string) (*Profile, bool) {
	skills, expYears, education, ok := extractKnownFields(content)
	if !ok {
		return nil, false
	}
	return &Profile{
		Skills:          skills,
		ExperienceYears: expYears,
		Education:       education,
	}, true
}

func requirementFromFields(content string) (*Requirement, bool) {
	skills, expYears, education, ok := extractKnownFields(content)
	if !ok {
		return nil, false
	}
	return &Requirement{
		RequiredSkills:  skills,
		ExperienceYears: expYears,
		Education:       education,
	}, true
}

// extractKnownFields pulls the handful of known keys out of non-JSON text.
// It succeeds when at least one field was found.
func extractKnownFields(content string) (skills []string, expYears float64, education string, ok bool) {
	skills = []string{}

	if m := skillsFieldPattern.FindStringSubmatch(content); m != nil {
		for _, item := range strings.Split(m[1], ",") {
			item = strings.TrimSpace(item)
			item = strings.Trim(item, `"'`)
			if item != "" {
				skills = append(skills, item)
			}
		}
		ok = true
	}

	if m := expFieldPattern.FindStringSubmatch(content); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			expYears = v
			ok = true
		}
	}

	if m := educationFieldPattern.FindStringSubmatch(content); m != nil {
		education = m[1]
		ok = true
	}

	return skills, expYears, education, ok
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}

// coerceFloat reads a numeric value out of dynamic JSON. The second result
// is false only when a value was present but could not be read as a number;
// an absent value coerces to 0 cleanly.
func coerceFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return 0, true
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case nil:
		return 0, true
	default:
		return 0, false
	}
}

func coerceStringSlice(v any) []string {
	switch val := v.(type) {
	case []any:
		result := make([]string, 0, len(val))
		for _, item := range val {
			if s := coerceString(item); s != "" {
				result = append(result, s)
			}
		}
		return result
	case []string:
		return val
	case string:
		parts := strings.Split(val, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			if part = strings.TrimSpace(part); part != "" {
				result = append(result, part)
			}
		}
		return result
	default:
		return []string{}
	}
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}
