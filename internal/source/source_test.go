package source

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestExtractRequirements(t *testing.T) {
	reqs := ExtractRequirements("Senior engineer working with React, TypeScript and Docker on AWS")
	require.Equal(t, []string{"React", "Typescript", "Aws", "Docker"}, reqs)
}

func TestExtractRequirementsCapped(t *testing.T) {
	desc := "react typescript javascript python java node golang aws docker kubernetes"
	require.Len(t, ExtractRequirements(desc), 8)
}

func TestExtractRequirementsEmpty(t *testing.T) {
	require.Empty(t, ExtractRequirements("We sell shoes."))
}

func TestInferRemote(t *testing.T) {
	require.True(t, InferRemote("Remote Backend Engineer", ""))
	require.True(t, InferRemote("Backend Engineer", "Remote - US"))
	require.False(t, InferRemote("Backend Engineer", "Berlin, Germany"))
}

func TestMatchesQuery(t *testing.T) {
	require.True(t, matchesQuery("Senior Backend Engineer", ""))
	require.True(t, matchesQuery("Senior Backend Engineer", "backend"))
	require.True(t, matchesQuery("Senior Backend Engineer", "frontend engineer"), "any token matching keeps the posting")
	require.False(t, matchesQuery("Senior Backend Engineer", "designer"))
}

func TestSplitLocation(t *testing.T) {
	tests := []struct {
		display               string
		city, region, country string
	}{
		{"Berlin, Berlin, Germany", "Berlin", "Berlin", "Germany"},
		{"San Francisco, CA", "San Francisco", "CA", ""},
		{"London", "London", "", ""},
		{"", "", "", ""},
	}
	for _, tt := range tests {
		city, region, country := SplitLocation(tt.display)
		require.Equal(t, tt.city, city, tt.display)
		require.Equal(t, tt.region, region, tt.display)
		require.Equal(t, tt.country, country, tt.display)
	}
}

func TestNormalizeDescription(t *testing.T) {
	got := NormalizeDescription("<p>Build   <b>great</b> things</p><script>alert(1)</script>")
	require.Equal(t, "Build great things", got)
}

func TestNormalizeDescriptionPlainText(t *testing.T) {
	require.Equal(t, "already plain", NormalizeDescription("already   plain"))
}

const greenhouseBoardHTML = `
<div class="opening">
  <a href="/stripe/jobs/4012345">Backend Engineer</a>
  <span class="location">Berlin, Berlin, Germany</span>
</div>
<div class="opening">
  <a href="/stripe/jobs/4012346">Remote Frontend Engineer</a>
  <span class="location">Remote</span>
</div>
<div class="opening">
  <a href="/stripe/jobs/4012347">Accountant</a>
  <span class="location">Dublin, Ireland</span>
</div>
<div class="opening">
  <a href="">No Link Role</a>
</div>`

func TestGreenhouseParse(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(greenhouseBoardHTML))
	require.NoError(t, err)

	g := &GreenhouseAdapter{company: "stripe"}
	jobs := g.parse(doc, Criteria{Query: "engineer"})
	require.Len(t, jobs, 2)

	first := jobs[0]
	require.Equal(t, "greenhouse", first.Source)
	require.Equal(t, "4012345", first.SourceJobID)
	require.Equal(t, "Backend Engineer", first.Title)
	require.Equal(t, "stripe", first.Company)
	require.Equal(t, "Berlin", first.LocationCity)
	require.Equal(t, "Germany", first.LocationCountry)
	require.False(t, first.Remote)
	require.Equal(t, "https://boards.greenhouse.io/stripe/jobs/4012345", first.ApplyURL)

	require.True(t, jobs[1].Remote)
}

func TestGreenhouseJobID(t *testing.T) {
	require.Equal(t, "4012345", greenhouseJobID("/stripe/jobs/4012345"))
	require.Equal(t, "", greenhouseJobID("/stripe/careers"))
}

const wwrListingHTML = `
<section class="jobs">
  <article>
    <ul>
      <li>
        <a href="/remote-jobs/acme-backend-engineer">
          <span class="title">Backend Engineer</span>
          <span class="company">Acme</span>
        </a>
      </li>
      <li>
        <a href="/remote-jobs/other-designer">
          <span class="title">Product Designer</span>
          <span class="company">Other</span>
        </a>
      </li>
      <li>
        <a href="/remote-jobs/nameless">
          <span class="title"></span>
          <span class="company">Nameless</span>
        </a>
      </li>
    </ul>
  </article>
</section>`

func TestParseWeWorkRemotely(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(wwrListingHTML))
	require.NoError(t, err)

	jobs := parseWeWorkRemotely(doc, Criteria{Query: "engineer"})
	require.Len(t, jobs, 1)
	require.Equal(t, "weworkremotely", jobs[0].Source)
	require.Equal(t, "Backend Engineer", jobs[0].Title)
	require.Equal(t, "Acme", jobs[0].Company)
	require.True(t, jobs[0].Remote)
	require.Equal(t, "https://weworkremotely.com/remote-jobs/acme-backend-engineer", jobs[0].ApplyURL)
}

func TestConvertRemoteOKJobs(t *testing.T) {
	data := []remoteOKJob{
		{}, // metadata element, no slug
		{
			ID:          float64(123456),
			Slug:        "acme-go-developer",
			Company:     "Acme",
			Position:    "Go Developer",
			URL:         "https://remoteok.com/remote-jobs/123456",
			Tags:        []string{"golang", "aws"},
			Date:        "2023-12-20T04:02:19+00:00",
			Description: "<p>Write Go services</p>",
			Location:    "Worldwide",
			SalaryMin:   80000,
			SalaryMax:   120000,
		},
		{
			ID:       "789",
			Slug:     "other-designer",
			Company:  "Other",
			Position: "Product Designer",
			URL:      "https://remoteok.com/remote-jobs/789",
		},
	}

	jobs := convertRemoteOKJobs(data, Criteria{Query: "developer"})
	require.Len(t, jobs, 1)

	job := jobs[0]
	require.Equal(t, "remoteok", job.Source)
	require.Equal(t, "123456", job.SourceJobID)
	require.Equal(t, "Go Developer", job.Title)
	require.True(t, job.Remote)
	require.Equal(t, "Write Go services", job.Description)
	require.Equal(t, []string{"golang", "aws"}, job.Requirements)
	require.Equal(t, float64(80000), job.SalaryMin)
	require.Equal(t, 2023, job.PostedAt.Year())
	require.Equal(t, "Worldwide", job.LocationCity)
}

func TestRemoteOKID(t *testing.T) {
	require.Equal(t, "42", remoteOKID(remoteOKJob{ID: float64(42)}))
	require.Equal(t, "abc", remoteOKID(remoteOKJob{ID: "abc"}))
	require.Equal(t, "fallback-slug", remoteOKID(remoteOKJob{Slug: "fallback-slug"}))
}
