package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/baxromumarov/job-match/internal/httpx"
)

// WeWorkRemotelyAdapter scrapes the programming category listing. The
// listing exposes no posting dates or descriptions, only title/company
// pairs, so those fields stay minimal.
type WeWorkRemotelyAdapter struct {
	fetcher *httpx.CollyFetcher
}

func NewWeWorkRemotelyAdapter(fetcher *httpx.CollyFetcher) *WeWorkRemotelyAdapter {
	return &WeWorkRemotelyAdapter{fetcher: fetcher}
}

func (w *WeWorkRemotelyAdapter) Name() string { return "weworkremotely" }

func (w *WeWorkRemotelyAdapter) Fetch(ctx context.Context, criteria Criteria) ([]Job, error) {
	listURL := "https://weworkremotely.com/categories/remote-programming-jobs"
	doc, err := w.fetcher.FetchDocument(ctx, listURL)
	if err != nil {
		return nil, fmt.Errorf("weworkremotely fetch failed: %w", err)
	}
	return parseWeWorkRemotely(doc, criteria), nil
}

func parseWeWorkRemotely(doc *goquery.Document, criteria Criteria) []Job {
	var jobs []Job
	doc.Find("section.jobs article ul li a").Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		if !exists || href == "" {
			return
		}
		title := strings.TrimSpace(s.Find("span.title").Text())
		company := strings.TrimSpace(s.Find("span.company").Text())
		if title == "" || company == "" {
			return
		}
		if !matchesQuery(title, criteria.Query) {
			return
		}
		jobURL := strings.TrimPrefix(href, "//")
		if !strings.HasPrefix(jobURL, "http") {
			jobURL = "https://weworkremotely.com" + href
		}

		jobs = append(jobs, Job{
			Source:       "weworkremotely",
			Title:        title,
			Company:      company,
			Remote:       true,
			Description:  title + " at " + company,
			Requirements: ExtractRequirements(title),
			ApplyURL:     jobURL,
		})
	})
	return jobs
}
