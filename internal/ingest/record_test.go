package ingest

import (
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobFromRaw(t *testing.T) {
	t.Parallel()

	base, err := url.Parse("https://www.saramin.co.kr")
	require.NoError(t, err)
	runID := uuid.New()
	captured := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)

	raw := RawListing{
		Kind: KindJobs,
		Fields: map[string]string{
			FieldTitle:      "  백엔드 개발자 ",
			FieldCompany:    "좋은회사",
			FieldPostingURL: "/zf_user/jobs/relay/view?rec_idx=99",
			FieldDeadline:   "~ 07/25(금)",
			FieldLocation:   "서울",
		},
	}
	rec := JobFromRaw(raw, base, runID, captured)

	assert.Equal(t, runID, rec.RunID)
	assert.Equal(t, captured, rec.CapturedDate)
	assert.Equal(t, "백엔드 개발자", rec.Title)
	assert.Equal(t, "https://www.saramin.co.kr/zf_user/jobs/relay/view?rec_idx=99", rec.PostingURL)
	assert.Equal(t, "~ 07/25(금)", rec.DeadlineText)
	// Fields absent from the raw map come out as the placeholder, never "".
	assert.Equal(t, Placeholder, rec.ExperienceLevel)
	assert.Equal(t, Placeholder, rec.Requirement)
	assert.Equal(t, Placeholder, rec.EmploymentType)
}

func TestJobFromRawMissingURL(t *testing.T) {
	t.Parallel()

	base, _ := url.Parse("https://www.saramin.co.kr")
	rec := JobFromRaw(RawListing{Kind: KindJobs, Fields: map[string]string{}}, base, uuid.New(), time.Time{})
	assert.Equal(t, urlFallback, rec.PostingURL)
}

func TestSalaryFromRaw(t *testing.T) {
	t.Parallel()

	base, err := url.Parse("https://www.saramin.co.kr")
	require.NoError(t, err)

	raw := RawListing{
		Kind: KindSalaries,
		Fields: map[string]string{
			FieldCompanyName: "네이버",
			FieldCompanyURL:  "/zf_user/company-info/view?csn=123",
			FieldCompanyType: "대기업",
			FieldIndustry:    "포털·인터넷",
			FieldAvgSalary:   "8,000만원",
			FieldMinSalary:   "5,200만원",
			FieldMaxSalary:   "1억 2,000만원",
		},
	}
	rec := SalaryFromRaw(raw, base, uuid.New(), time.Time{})

	assert.Equal(t, "네이버", rec.CompanyName)
	assert.Equal(t, "https://www.saramin.co.kr/zf_user/company-info/view?csn=123", rec.CompanyURL)
	assert.Equal(t, logoFallback, rec.LogoURL)
	assert.Equal(t, 8000, rec.AvgSalary)
	assert.Equal(t, 5200, rec.MinSalary)
	assert.Equal(t, 12000, rec.MaxSalary)
}
