package match

import (
	"fmt"
	"math"
	"strings"

	"github.com/baxromumarov/job-match/internal/store"
)

// Weights externalizes every factor maximum so scoring behavior can be
// tuned and tested independently of the aggregation logic. The defaults
// sum to 110 before clamping; the final score is capped at 100.
type Weights struct {
	SkillsMax        float64
	SkillsBase       float64
	SkillsExactBonus float64

	ExperienceMax  float64
	ExperienceStep float64

	WorkModeExact    float64
	WorkModePartial  float64
	WorkModeFallback float64

	LocationMax       float64
	PreferredLocation float64

	RoleMax float64

	SalaryMeets float64
	SalaryClose float64
}

func DefaultWeights() Weights {
	return Weights{
		SkillsMax:         35,
		SkillsBase:        30,
		SkillsExactBonus:  5,
		ExperienceMax:     20,
		ExperienceStep:    7,
		WorkModeExact:     15,
		WorkModePartial:   10,
		WorkModeFallback:  5,
		LocationMax:       15,
		PreferredLocation: 12,
		RoleMax:           15,
		SalaryMeets:       10,
		SalaryClose:       5,
	}
}

// skillSynonyms widens skill matching beyond literal substrings.
var skillSynonyms = map[string][]string{
	"javascript": {"js", "ecmascript", "es6", "node"},
	"react":      {"reactjs", "react.js", "jsx"},
	"python":     {"py", "django", "flask"},
	"java":       {"j2ee", "spring", "hibernate"},
	"typescript": {"ts"},
	"css":        {"scss", "sass", "styling"},
	"database":   {"sql", "nosql", "mongodb", "postgresql", "mysql"},
}

// experienceOrdinals maps the four experience buckets to ordinal bins.
// Anything unknown lands on 2 (mid-level).
var experienceOrdinals = map[string]int{
	"0-2 years":  1,
	"3-5 years":  2,
	"6-10 years": 3,
	"10+ years":  4,
}

const defaultOrdinal = 2

// Scorer computes compatibility scores. It holds no mutable state:
// identical (profile, job) input always produces identical output.
type Scorer struct {
	weights Weights
}

func NewScorer(weights Weights) *Scorer {
	return &Scorer{weights: weights}
}

// Score returns an integer compatibility score in [0, 100].
func (s *Scorer) Score(profile Profile, job store.Record) int {
	score, _ := s.evaluate(profile, job)
	return score
}

// Reasons returns up to three human-readable explanations for the score,
// strongest factors first.
func (s *Scorer) Reasons(profile Profile, job store.Record) []string {
	_, reasons := s.evaluate(profile, job)
	if len(reasons) > 3 {
		reasons = reasons[:3]
	}
	return reasons
}

func (s *Scorer) evaluate(profile Profile, job store.Record) (int, []string) {
	var score float64
	var reasons []string

	skillScore, matched := s.skillsFactor(profile, job)
	score += skillScore
	if matched > 0 {
		reasons = append(reasons, fmt.Sprintf("%d of your skills match", matched))
	}

	if profile.Experience != "" {
		userOrd := ordinalFor(profile.Experience)
		jobOrd := jobExperienceOrdinal(job)
		diff := math.Abs(float64(userOrd - jobOrd))
		score += math.Max(0, s.weights.ExperienceMax-diff*s.weights.ExperienceStep)
		if userOrd == jobOrd {
			reasons = append(reasons, "Perfect experience match")
		}
	}

	if profile.WorkMode != "" {
		mode := jobWorkMode(job)
		switch {
		case profile.WorkMode == mode:
			score += s.weights.WorkModeExact
			reasons = append(reasons, mode+" work preference")
		case profile.WorkMode == "Flexible" || mode == "Hybrid":
			score += s.weights.WorkModePartial
		default:
			score += s.weights.WorkModeFallback
		}
	}

	locScore, locReason := s.locationFactor(profile, job)
	score += locScore
	if locReason != "" {
		reasons = append(reasons, locReason)
	}

	if roleScore := s.roleFactor(profile, job); roleScore > 0 {
		score += roleScore
		if roleScore > s.weights.RoleMax/2 {
			reasons = append(reasons, "Role aligns with career goals")
		}
	}

	salScore, salReason := s.salaryFactor(profile, job)
	score += salScore
	if salReason != "" {
		reasons = append(reasons, salReason)
	}

	final := int(math.Round(score))
	if final > 100 {
		final = 100
	}
	if final < 0 {
		final = 0
	}
	return final, reasons
}

// skillsFactor tokenizes the profile skills and matches each token against
// requirements (substring either way), the description, or the synonym
// table. The base share rewards coverage; the bonus rewards exact
// requirement hits among the matches.
func (s *Scorer) skillsFactor(profile Profile, job store.Record) (float64, int) {
	tokens := tokenizeSkills(profile.Skills)
	if len(tokens) == 0 {
		return 0, 0
	}

	reqs := make([]string, len(job.Requirements))
	for i, r := range job.Requirements {
		reqs[i] = strings.ToLower(r)
	}
	desc := strings.ToLower(job.Description)

	matched, exact := 0, 0
	for _, token := range tokens {
		exactHit := false
		for _, req := range reqs {
			if req == token || strings.Contains(req, token) || strings.Contains(token, req) {
				exactHit = true
				break
			}
		}
		descHit := desc != "" && strings.Contains(desc, token)
		synHit := false
		for _, syn := range skillSynonyms[token] {
			if descHit || synHit {
				break
			}
			for _, req := range reqs {
				if strings.Contains(req, syn) {
					synHit = true
					break
				}
			}
			if !synHit && desc != "" && strings.Contains(desc, syn) {
				synHit = true
			}
		}

		if exactHit || descHit || synHit {
			matched++
			if exactHit {
				exact++
			}
		}
	}

	base := float64(matched) / float64(len(tokens)) * s.weights.SkillsBase
	bonus := 0.0
	if matched > 0 {
		bonus = float64(exact) / float64(matched) * s.weights.SkillsExactBonus
	}
	return math.Min(s.weights.SkillsMax, base+bonus), matched
}

// locationFactor: a remote job earns the full location score regardless of
// the profile, including when the profile has no location at all.
func (s *Scorer) locationFactor(profile Profile, job store.Record) (float64, string) {
	if job.Remote {
		return s.weights.LocationMax, "Remote position"
	}
	if profile.Location == "" {
		return 0, ""
	}
	userLoc := strings.ToLower(profile.Location)
	jobLoc := strings.ToLower(job.Location())
	if jobLoc != "" && (strings.Contains(jobLoc, userLoc) || strings.Contains(userLoc, jobLoc)) {
		return s.weights.LocationMax, "Location match"
	}
	if profile.PreferredLocation != "" {
		prefLoc := strings.ToLower(profile.PreferredLocation)
		if jobLoc != "" && (strings.Contains(jobLoc, prefLoc) || strings.Contains(prefLoc, jobLoc)) {
			return s.weights.PreferredLocation, "Preferred location match"
		}
	}
	return 0, ""
}

func (s *Scorer) roleFactor(profile Profile, job store.Record) float64 {
	if profile.DesiredRole == "" || job.Title == "" {
		return 0
	}
	desiredWords := strings.Fields(strings.ToLower(profile.DesiredRole))
	titleWords := strings.Fields(strings.ToLower(job.Title))
	if len(desiredWords) == 0 {
		return 0
	}

	matches := 0
	for _, word := range desiredWords {
		if len(word) <= 3 {
			continue
		}
		for _, tw := range titleWords {
			if strings.Contains(tw, word) || strings.Contains(word, tw) {
				matches++
				break
			}
		}
	}
	return math.Min(s.weights.RoleMax, float64(matches)/float64(len(desiredWords))*s.weights.RoleMax)
}

func (s *Scorer) salaryFactor(profile Profile, job store.Record) (float64, string) {
	expected := ParseSalary(profile.Salary)
	offered := jobSalaryMidpoint(job)
	if expected <= 0 || offered <= 0 {
		return 0, ""
	}
	if offered >= expected {
		return s.weights.SalaryMeets, "Salary meets expectations"
	}
	if offered/expected >= 0.8 {
		return s.weights.SalaryClose, "Competitive salary"
	}
	return 0, ""
}

func jobSalaryMidpoint(job store.Record) float64 {
	switch {
	case job.SalaryMin > 0 && job.SalaryMax > 0:
		return (job.SalaryMin + job.SalaryMax) / 2
	case job.SalaryMax > 0:
		return job.SalaryMax
	case job.SalaryMin > 0:
		return job.SalaryMin
	default:
		return 0
	}
}

func tokenizeSkills(skills string) []string {
	raw := strings.FieldsFunc(strings.ToLower(skills), func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	out := raw[:0]
	for _, tok := range raw {
		if len(tok) > 2 {
			out = append(out, tok)
		}
	}
	return out
}

func ordinalFor(bucket string) int {
	if ord, ok := experienceOrdinals[bucket]; ok {
		return ord
	}
	return defaultOrdinal
}

// jobExperienceOrdinal infers the job's experience bin from its
// description; postings rarely carry a structured bucket.
func jobExperienceOrdinal(job store.Record) int {
	desc := strings.ToLower(job.Description)
	switch {
	case strings.Contains(desc, "entry") || strings.Contains(desc, "junior") || strings.Contains(desc, "0-2 years"):
		return 1
	case strings.Contains(desc, "principal") || strings.Contains(desc, "staff"):
		return 4
	case strings.Contains(desc, "senior") || strings.Contains(desc, "lead") || strings.Contains(desc, "7+ years"):
		return 3
	default:
		return defaultOrdinal
	}
}

// jobWorkMode derives the posting's work mode from the remote flag.
// Non-remote postings count as hybrid.
func jobWorkMode(job store.Record) string {
	if job.Remote {
		return "Remote"
	}
	return "Hybrid"
}
