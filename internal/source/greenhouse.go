package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/baxromumarov/job-match/internal/httpx"
)

// GreenhouseAdapter scrapes one company's Greenhouse board. The embed
// endpoint serves plain HTML with one .opening node per posting.
type GreenhouseAdapter struct {
	fetcher *httpx.CollyFetcher
	company string
}

func NewGreenhouseAdapter(fetcher *httpx.CollyFetcher, company string) *GreenhouseAdapter {
	return &GreenhouseAdapter{fetcher: fetcher, company: company}
}

func (g *GreenhouseAdapter) Name() string { return "greenhouse" }

func (g *GreenhouseAdapter) Fetch(ctx context.Context, criteria Criteria) ([]Job, error) {
	boardURL := fmt.Sprintf("https://boards.greenhouse.io/%s/embed/jobs?content=true", g.company)
	doc, err := g.fetcher.FetchDocument(ctx, boardURL)
	if err != nil {
		return nil, fmt.Errorf("greenhouse fetch failed: %w", err)
	}
	return g.parse(doc, criteria), nil
}

func (g *GreenhouseAdapter) parse(doc *goquery.Document, criteria Criteria) []Job {
	var jobs []Job
	doc.Find(".opening").Each(func(_ int, s *goquery.Selection) {
		link := s.Find("a")
		href, ok := link.Attr("href")
		if !ok || href == "" {
			return
		}
		title := strings.TrimSpace(link.Text())
		if title == "" || !matchesQuery(title, criteria.Query) {
			return
		}
		location := strings.TrimSpace(s.Find(".location").Text())
		jobURL := href
		if !strings.HasPrefix(jobURL, "http") {
			jobURL = "https://boards.greenhouse.io" + jobURL
		}
		city, region, country := SplitLocation(location)

		jobs = append(jobs, Job{
			Source:          "greenhouse",
			SourceJobID:     greenhouseJobID(href),
			Title:           title,
			Company:         g.company,
			LocationCity:    city,
			LocationRegion:  region,
			LocationCountry: country,
			Remote:          InferRemote(title, location),
			Description:     title,
			Requirements:    ExtractRequirements(title),
			ApplyURL:        jobURL,
		})
	})
	return jobs
}

// greenhouseJobID pulls the numeric posting id off the job link, e.g.
// /company/jobs/4012345. Empty when the link has no id segment; dedup then
// falls back to the content hash.
func greenhouseJobID(href string) string {
	parts := strings.Split(strings.Trim(href, "/"), "/")
	for i, p := range parts {
		if p == "jobs" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}
