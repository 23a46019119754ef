package source

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// requirementKeywords are the technologies and qualifications scanned for
// when a source exposes only free-text descriptions.
var requirementKeywords = []string{
	"react", "typescript", "javascript", "python", "java", "node",
	"golang", "aws", "docker", "kubernetes", "sql", "mongodb", "api",
	"rest", "grpc", "graphql", "css", "html", "vue", "angular", "git",
	"ci/cd", "testing", "agile", "scrum", "linux", "terraform",
}

const maxExtractedRequirements = 8

var titleCaser = cases.Title(language.English)

// ExtractRequirements pulls an ordered requirement list out of a free-text
// description by keyword scan. Used by adapters whose upstream does not
// provide structured requirements.
func ExtractRequirements(description string) []string {
	descLower := strings.ToLower(description)
	var out []string
	for _, kw := range requirementKeywords {
		if len(out) >= maxExtractedRequirements {
			break
		}
		if strings.Contains(descLower, kw) {
			out = append(out, titleCaser.String(kw))
		}
	}
	return out
}

// InferRemote reports whether the posting looks remote from its
// description and location text.
func InferRemote(description, location string) bool {
	return strings.Contains(strings.ToLower(description), "remote") ||
		strings.Contains(strings.ToLower(location), "remote")
}

// matchesQuery keeps a posting when any query token appears in its title.
// An empty query keeps everything.
func matchesQuery(title, query string) bool {
	if query == "" {
		return true
	}
	titleLower := strings.ToLower(title)
	for _, tok := range strings.Fields(strings.ToLower(query)) {
		if strings.Contains(titleLower, tok) {
			return true
		}
	}
	return false
}

// SplitLocation breaks a "City, Region, Country" display string into the
// normalized location fields.
func SplitLocation(display string) (city, region, country string) {
	parts := strings.Split(display, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	switch len(parts) {
	case 0:
		return "", "", ""
	case 1:
		return parts[0], "", ""
	case 2:
		return parts[0], parts[1], ""
	default:
		return parts[0], parts[1], parts[len(parts)-1]
	}
}
