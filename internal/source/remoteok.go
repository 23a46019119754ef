package source

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/baxromumarov/job-match/internal/httpx"
)

// RemoteOK API returns a JSON array; the first element is metadata.
type remoteOKJob struct {
	ID          any      `json:"id"`
	Slug        string   `json:"slug"`
	Company     string   `json:"company"`
	Position    string   `json:"position"`
	URL         string   `json:"url"`
	Tags        []string `json:"tags"`
	Date        string   `json:"date"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	SalaryMin   float64  `json:"salary_min"`
	SalaryMax   float64  `json:"salary_max"`
}

// RemoteOKAdapter pulls the public RemoteOK feed. Everything on the board
// is remote by definition.
type RemoteOKAdapter struct {
	client  *httpx.PoliteClient
	baseURL string
}

func NewRemoteOKAdapter(client *httpx.PoliteClient) *RemoteOKAdapter {
	return &RemoteOKAdapter{client: client, baseURL: "https://remoteok.com/api"}
}

func (r *RemoteOKAdapter) Name() string { return "remoteok" }

func (r *RemoteOKAdapter) Fetch(ctx context.Context, criteria Criteria) ([]Job, error) {
	var data []remoteOKJob
	if err := r.client.GetJSON(ctx, r.baseURL, &data); err != nil {
		return nil, fmt.Errorf("remoteok fetch failed: %w", err)
	}
	return convertRemoteOKJobs(data, criteria), nil
}

func convertRemoteOKJobs(data []remoteOKJob, criteria Criteria) []Job {
	var jobs []Job
	for _, j := range data {
		// Skip the metadata element
		if j.Slug == "" || j.URL == "" {
			continue
		}
		if !matchesQuery(j.Position, criteria.Query) {
			continue
		}

		desc := NormalizeDescription(j.Description)
		reqs := make([]string, 0, len(j.Tags))
		for _, tag := range j.Tags {
			reqs = append(reqs, tag)
		}
		if len(reqs) == 0 {
			reqs = ExtractRequirements(desc)
		}
		city, region, country := SplitLocation(j.Location)

		jobs = append(jobs, Job{
			Source:          "remoteok",
			SourceJobID:     remoteOKID(j),
			Title:           j.Position,
			Company:         j.Company,
			LocationCity:    city,
			LocationRegion:  region,
			LocationCountry: country,
			Remote:          true,
			SalaryMin:       j.SalaryMin,
			SalaryMax:       j.SalaryMax,
			SalaryCurrency:  "USD",
			Description:     desc,
			Requirements:    reqs,
			ApplyURL:        j.URL,
			PostedAt:        parseRemoteOKDate(j.Date),
		})
	}
	return jobs
}

func remoteOKID(j remoteOKJob) string {
	switch v := j.ID.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	default:
		return j.Slug
	}
}

func parseRemoteOKDate(val string) time.Time {
	if val == "" {
		return time.Time{}
	}
	// Example: "2023-12-20T04:02:19+00:00"
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return time.Time{}
	}
	return t
}
