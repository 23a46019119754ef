package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/baxromumarov/job-match/internal/httpx"
)

type leverPosting struct {
	ID          string        `json:"id"`
	Text        string        `json:"text"`
	HostedURL   string        `json:"hostedUrl"`
	ApplyURL    string        `json:"applyUrl"`
	Categories  leverCategory `json:"categories"`
	CreatedAt   int64         `json:"createdAt"`
	Description string        `json:"descriptionPlain"`
	Lists       []leverList   `json:"lists"`
	Workplace   string        `json:"workplaceType"`
}

type leverCategory struct {
	Team     string `json:"team"`
	Location string `json:"location"`
}

type leverList struct {
	Text    string `json:"text"`
	Content string `json:"content"`
}

// LeverAdapter fetches one company board via the public postings API.
type LeverAdapter struct {
	client  *httpx.PoliteClient
	company string
}

func NewLeverAdapter(client *httpx.PoliteClient, company string) *LeverAdapter {
	return &LeverAdapter{client: client, company: company}
}

func (l *LeverAdapter) Name() string { return "lever" }

func (l *LeverAdapter) Fetch(ctx context.Context, criteria Criteria) ([]Job, error) {
	apiURL := fmt.Sprintf("https://api.lever.co/v0/postings/%s?mode=json", l.company)
	var postings []leverPosting
	if err := l.client.GetJSON(ctx, apiURL, &postings); err != nil {
		return nil, fmt.Errorf("lever fetch failed: %w", err)
	}
	return l.convert(postings, criteria), nil
}

func (l *LeverAdapter) convert(postings []leverPosting, criteria Criteria) []Job {
	var jobs []Job
	for _, p := range postings {
		if !matchesQuery(p.Text, criteria.Query) {
			continue
		}

		desc := NormalizeDescription(p.Description)
		reqs := leverRequirements(p.Lists)
		if len(reqs) == 0 {
			reqs = ExtractRequirements(desc)
		}
		city, region, country := SplitLocation(p.Categories.Location)

		applyURL := p.ApplyURL
		if applyURL == "" {
			applyURL = p.HostedURL
		}

		// Missing createdAt stays zero; the store dates it at discovery.
		var postedAt time.Time
		if p.CreatedAt > 0 {
			postedAt = time.UnixMilli(p.CreatedAt)
		}

		jobs = append(jobs, Job{
			Source:          "lever",
			SourceJobID:     p.ID,
			Title:           p.Text,
			Company:         l.company,
			LocationCity:    city,
			LocationRegion:  region,
			LocationCountry: country,
			Remote:          strings.EqualFold(p.Workplace, "remote") || InferRemote(desc, p.Categories.Location),
			Description:     desc,
			Requirements:    reqs,
			ApplyURL:        applyURL,
			PostedAt:        postedAt,
		})
	}
	return jobs
}

// leverRequirements flattens the posting's requirement lists; Lever ships
// them as titled HTML fragments.
func leverRequirements(lists []leverList) []string {
	var out []string
	for _, list := range lists {
		if !strings.Contains(strings.ToLower(list.Text), "requirement") &&
			!strings.Contains(strings.ToLower(list.Text), "qualification") {
			continue
		}
		for _, item := range strings.Split(list.Content, "</li>") {
			text := NormalizeDescription(item)
			if text != "" {
				out = append(out, text)
			}
		}
	}
	return out
}
