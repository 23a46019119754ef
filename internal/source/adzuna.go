package source

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/baxromumarov/job-match/internal/httpx"
)

const (
	adzunaBaseURL  = "https://api.adzuna.com/v1/api/jobs"
	adzunaPageSize = 50
	adzunaMaxPages = 3
)

type adzunaResponse struct {
	Results []adzunaResult `json:"results"`
	Count   int            `json:"count"`
}

type adzunaResult struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Company     adzunaCompany  `json:"company"`
	Location    adzunaLocation `json:"location"`
	SalaryMin   float64        `json:"salary_min"`
	SalaryMax   float64        `json:"salary_max"`
	RedirectURL string         `json:"redirect_url"`
	Created     string         `json:"created"`
}

type adzunaCompany struct {
	DisplayName string `json:"display_name"`
}

type adzunaLocation struct {
	DisplayName string   `json:"display_name"`
	Area        []string `json:"area"`
}

// AdzunaAdapter queries the Adzuna aggregator API. When credentials are
// missing it contributes nothing rather than failing the whole ingestion.
type AdzunaAdapter struct {
	client  *httpx.PoliteClient
	appID   string
	appKey  string
	country string
}

func NewAdzunaAdapter(client *httpx.PoliteClient, appID, appKey, country string) *AdzunaAdapter {
	if country == "" {
		country = "us"
	}
	return &AdzunaAdapter{client: client, appID: appID, appKey: appKey, country: country}
}

func (a *AdzunaAdapter) Name() string { return "adzuna" }

func (a *AdzunaAdapter) Fetch(ctx context.Context, criteria Criteria) ([]Job, error) {
	if a.appID == "" || a.appKey == "" {
		return nil, nil
	}

	var jobs []Job
	for page := 1; page <= adzunaMaxPages; page++ {
		batch, err := a.fetchPage(ctx, criteria, page)
		if err != nil {
			if len(jobs) > 0 {
				return jobs, nil // keep what earlier pages produced
			}
			return nil, fmt.Errorf("adzuna page %d: %w", page, err)
		}
		if len(batch) == 0 {
			break
		}
		jobs = append(jobs, batch...)
	}
	return jobs, nil
}

func (a *AdzunaAdapter) fetchPage(ctx context.Context, criteria Criteria, page int) ([]Job, error) {
	params := url.Values{}
	params.Set("app_id", a.appID)
	params.Set("app_key", a.appKey)
	params.Set("results_per_page", strconv.Itoa(adzunaPageSize))
	if criteria.Query != "" {
		params.Set("what", criteria.Query)
	}
	if criteria.Location != "" {
		params.Set("where", criteria.Location)
	}

	endpoint := fmt.Sprintf("%s/%s/search/%d?%s", adzunaBaseURL, a.country, page, params.Encode())
	var resp adzunaResponse
	if err := a.client.GetJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}

	jobs := make([]Job, 0, len(resp.Results))
	for _, r := range resp.Results {
		desc := NormalizeDescription(r.Description)
		city, region, country := adzunaLocationFields(r.Location)

		jobs = append(jobs, Job{
			Source:          "adzuna",
			SourceJobID:     r.ID,
			Title:           r.Title,
			Company:         r.Company.DisplayName,
			LocationCity:    city,
			LocationRegion:  region,
			LocationCountry: country,
			Remote:          InferRemote(desc, r.Location.DisplayName),
			SalaryMin:       r.SalaryMin,
			SalaryMax:       r.SalaryMax,
			Description:     desc,
			Requirements:    ExtractRequirements(desc),
			ApplyURL:        r.RedirectURL,
			PostedAt:        parseAdzunaDate(r.Created),
		})
	}
	return jobs, nil
}

// adzunaLocationFields prefers the structured area list, which Adzuna
// orders country-first.
func adzunaLocationFields(loc adzunaLocation) (city, region, country string) {
	if len(loc.Area) >= 3 {
		return loc.Area[len(loc.Area)-1], loc.Area[1], loc.Area[0]
	}
	return SplitLocation(loc.DisplayName)
}

func parseAdzunaDate(val string) time.Time {
	if val == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return time.Time{}
	}
	return t
}
