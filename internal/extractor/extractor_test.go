package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jobradar/jobradar-crawler/internal/ingest"
)

const jobPage = `<html><body>
<div class="content">
  <div class="item_recruit">
    <h2 class="job_tit"><a href="/zf_user/jobs/relay/view?rec_idx=101" title="백엔드 개발자 채용">백엔드 개발자 채용</a></h2>
    <div class="area_corp"><strong class="corp_name"><a href="/company/1">알파소프트</a></strong></div>
    <div class="job_condition">
      <span>서울 강남구</span>
      <span>경력 3년↑</span>
      <span>대졸↑</span>
      <span>정규직</span>
    </div>
    <div class="job_date"><span class="date">~ 07/25(금)</span></div>
  </div>
  <div class="item_recruit">
    <h2 class="job_tit"><a href="/zf_user/jobs/relay/view?rec_idx=102" title="데이터 엔지니어">데이터 엔지니어</a></h2>
    <div class="area_corp"><strong class="corp_name"><a href="/company/2">베타랩</a></strong></div>
    <div class="job_condition"><span>판교</span></div>
    <div class="job_date"><span class="date">~ 08/01(금)</span></div>
  </div>
  <div class="item_recruit">
    <h2 class="job_tit"><a href="/zf_user/jobs/relay/view?rec_idx=103">제목 속성 없음</a></h2>
    <div class="area_corp"><strong class="corp_name"><a href="/company/3">감마상사</a></strong></div>
  </div>
</div>
</body></html>`

func TestJobsExtract(t *testing.T) {
	t.Parallel()

	e := NewJobs(zap.NewNop())
	listings, skipped, err := e.Extract([]byte(jobPage))
	require.NoError(t, err)

	// The third card carries no title attribute, so it is skipped.
	require.Len(t, listings, 2)
	assert.Equal(t, 1, skipped)

	first := listings[0].Fields
	assert.Equal(t, ingest.KindJobs, listings[0].Kind)
	assert.Equal(t, "백엔드 개발자 채용", first[ingest.FieldTitle])
	assert.Equal(t, "/zf_user/jobs/relay/view?rec_idx=101", first[ingest.FieldPostingURL])
	assert.Equal(t, "알파소프트", first[ingest.FieldCompany])
	assert.Equal(t, "~ 07/25(금)", first[ingest.FieldDeadline])
	assert.Equal(t, "서울 강남구", first[ingest.FieldLocation])
	assert.Equal(t, "경력 3년↑", first[ingest.FieldExperience])
	assert.Equal(t, "대졸↑", first[ingest.FieldRequirement])
	assert.Equal(t, "정규직", first[ingest.FieldEmploymentType])

	// Missing condition spans come back empty, deferred to normalization.
	second := listings[1].Fields
	assert.Equal(t, "데이터 엔지니어", second[ingest.FieldTitle])
	assert.Equal(t, "판교", second[ingest.FieldLocation])
	assert.Equal(t, "", second[ingest.FieldExperience])
}

const salaryPage = `<html><body>
<ul class="nav"><li><a href="/home">홈</a></li><li><a href="/login">로그인</a></li></ul>
<ul class="company_list">
  <li>
    <span class="inner_logo"><img src="/logo/alpha.png" alt="알파소프트"></span>
    <strong class="tit_company"><a class="link_tit" href="/zf_user/company-info/view?csn=11">알파소프트</a></strong>
    <dl class="info_item"><dt>기업형태</dt><dd>중견기업</dd><dt>산업(업종)</dt><dd>솔루션·SI</dd></dl>
    <span class="wrap_graph color01"><em class="txt_avg">4,800만원</em></span>
    <span class="wrap_graph color02"><em class="txt_g">3,200만원</em></span>
    <span class="wrap_graph color03"><em class="txt_g">6,900만원</em></span>
  </li>
  <li>
    <strong class="tit_company"><a class="link_tit" href="/zf_user/company-info/view?csn=22">베타랩</a></strong>
    <dl class="info_item"><dt>기업형태</dt><dd>스타트업</dd></dl>
    <span class="wrap_graph color01"><em class="txt_avg">5,100만원</em></span>
  </li>
  <li>
    <span class="inner_logo"><img src="/logo/anon.png" alt=""></span>
    <dl class="info_item"><dt>기업형태</dt><dd>비공개</dd></dl>
  </li>
</ul>
</body></html>`

func TestSalariesExtract(t *testing.T) {
	t.Parallel()

	e := NewSalaries(zap.NewNop())
	listings, skipped, err := e.Extract([]byte(salaryPage))
	require.NoError(t, err)

	require.Len(t, listings, 2)

	first := listings[0].Fields
	assert.Equal(t, ingest.KindSalaries, listings[0].Kind)
	assert.Equal(t, "알파소프트", first[ingest.FieldCompanyName])
	assert.Equal(t, "/zf_user/company-info/view?csn=11", first[ingest.FieldCompanyURL])
	assert.Equal(t, "/logo/alpha.png", first[ingest.FieldLogoURL])
	assert.Equal(t, "중견기업", first[ingest.FieldCompanyType])
	assert.Equal(t, "솔루션·SI", first[ingest.FieldIndustry])
	assert.Equal(t, "4,800만원", first[ingest.FieldAvgSalary])
	assert.Equal(t, "3,200만원", first[ingest.FieldMinSalary])
	assert.Equal(t, "6,900만원", first[ingest.FieldMaxSalary])

	second := listings[1].Fields
	assert.Equal(t, "베타랩", second[ingest.FieldCompanyName])
	assert.Equal(t, "", second[ingest.FieldMinSalary])

	// Only the logo-and-type row without a company name counts as skipped;
	// nav items matching no rule at all are ignored as page furniture.
	assert.Equal(t, 1, skipped)
}

func TestExtractEmptyAndMalformedPages(t *testing.T) {
	t.Parallel()

	e := NewJobs(zap.NewNop())

	listings, skipped, err := e.Extract([]byte("<html><body><p>검색 결과가 없습니다</p></body></html>"))
	require.NoError(t, err)
	assert.Empty(t, listings)
	assert.Zero(t, skipped)

	// Truncated markup still parses; html5 recovery never errors here.
	listings, _, err = e.Extract([]byte("<div class=\"item_recruit\"><a title=\"x\" href"))
	require.NoError(t, err)
	assert.Empty(t, listings)
}

func TestExtractPreservesDocumentOrder(t *testing.T) {
	t.Parallel()

	page := `<div class="item_recruit"><a title="first" href="/1"></a></div>` +
		`<div class="item_recruit"><a title="second" href="/2"></a></div>` +
		`<div class="item_recruit"><a title="third" href="/3"></a></div>`

	listings, _, err := NewJobs(zap.NewNop()).Extract([]byte(page))
	require.NoError(t, err)
	require.Len(t, listings, 3)
	assert.Equal(t, "first", listings[0].Fields[ingest.FieldTitle])
	assert.Equal(t, "second", listings[1].Fields[ingest.FieldTitle])
	assert.Equal(t, "third", listings[2].Fields[ingest.FieldTitle])
}
