package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ken6921-byte/zuinsurance-app/internal/ai"
	"github.com/ken6921-byte/zuinsurance-app/internal/config"
	"github.com/ken6921-byte/zuinsurance-app/internal/dto"
	"github.com/ken6921-byte/zuinsurance-app/internal/infra"
	"github.com/ken6921-byte/zuinsurance-app/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// ── In-memory Repository Stub ─────────────────────────────────────────────────

type stubPolicyRepo struct {
	policies map[uuid.UUID]*model.Policy
}

func newStubPolicyRepo() *stubPolicyRepo {
	return &stubPolicyRepo{policies: make(map[uuid.UUID]*model.Policy)}
}

func (r *stubPolicyRepo) Create(_ context.Context, p *model.Policy) error {
	p.ID = uuid.New()
	for i := range p.Items {
		p.Items[i].ID = uuid.New()
		p.Items[i].PolicyID = p.ID
	}
	r.policies[p.ID] = p
	return nil
}

func (r *stubPolicyRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Policy, error) {
	p, ok := r.policies[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubPolicyRepo) ListByCustomer(_ context.Context, customerID uuid.UUID) ([]model.Policy, error) {
	out := make([]model.Policy, 0)
	for _, p := range r.policies {
		if p.CustomerID == customerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubPolicyRepo) ListAll(_ context.Context) ([]model.Policy, error) {
	out := make([]model.Policy, 0, len(r.policies))
	for _, p := range r.policies {
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubPolicyRepo) ListAllItems(_ context.Context) ([]model.PolicyItem, error) {
	out := make([]model.PolicyItem, 0)
	for _, p := range r.policies {
		out = append(out, p.Items...)
	}
	return out, nil
}

func (r *stubPolicyRepo) UpdateHealthReport(_ context.Context, id uuid.UUID, report string) error {
	p, ok := r.policies[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.HealthReport = report
	return nil
}

func (r *stubPolicyRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.policies, id)
	return nil
}

// ── AI Client Stub ────────────────────────────────────────────────────────────

type stubAIClient struct {
	doc          *ai.ExtractedDocument
	summary      string
	extractErr   error
	summaryErr   error
	extractCalls int
	summaryCalls int
}

func (c *stubAIClient) ExtractPolicyDocument(context.Context, []byte, string) (*ai.ExtractedDocument, error) {
	c.extractCalls++
	if c.extractErr != nil {
		return nil, c.extractErr
	}
	return c.doc, nil
}

func (c *stubAIClient) GenerateHealthCheck(context.Context, *ai.ExtractedDocument) (string, error) {
	c.summaryCalls++
	if c.summaryErr != nil {
		return "", c.summaryErr
	}
	return c.summary, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func sampleDoc() *ai.ExtractedDocument {
	return &ai.ExtractedDocument{Document: ai.DocumentPayload{
		InsuredName: "王小明",
		PrintDate:   "114/11/04",
		PolicyGroups: []ai.PolicyGroup{{
			PolicyGroupName: "安心人生組合",
			Insurer:         "國泰人壽",
			EffectiveDate:   "110/05/01",
			PayMode:         "年繳",
			TotalPremium:    "$52,340 元",
			Items: []ai.LineItem{
				{ContractType: "主約", ProductName: "新終身壽險", SumInsured: "100萬", Premium: "32,000"},
				{ContractType: "附約", ProductName: "住院醫療日額附約", SumInsured: "2000元", Premium: "10,129"},
				{ContractType: "附約", ProductName: "意外傷害保險附約", SumInsured: "300萬", Premium: "10,211"},
			},
		}},
	}}
}

type policyTestEnv struct {
	svc       PolicyService
	aiStub    *stubAIClient
	polRepo   *stubPolicyRepo
	custRepo  *stubCustomerRepo
	usageRepo *stubUsageRepo
	usageSvc  *usageService
}

func newPolicyTestEnv() *policyTestEnv {
	polRepo := newStubPolicyRepo()
	custRepo := newStubCustomerRepo()
	usageRepo := newStubUsageRepo()
	usageSvc := newUsageSvc(usageRepo)
	aiStub := &stubAIClient{doc: sampleDoc(), summary: "# 重複保障\n無重大重複。"}
	customers := NewCustomerService(custRepo)
	svc := NewPolicyService(polRepo, customers, custRepo, usageSvc, aiStub,
		infra.NewPDFRenderer(""), infra.NewMailer(&config.Config{}))
	return &policyTestEnv{
		svc: svc, aiStub: aiStub, polRepo: polRepo,
		custRepo: custRepo, usageRepo: usageRepo, usageSvc: usageSvc,
	}
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestExtractAndIngestCategorizesAndNormalizes(t *testing.T) {
	env := newPolicyTestEnv()
	ctx := context.Background()

	resp, err := env.svc.ExtractAndIngest(ctx, "agent1", []byte("img"), "image/jpeg", dto.ExtractRequest{})
	assert.NoError(t, err)
	assert.Equal(t, "王小明", resp.CustomerName)
	assert.Len(t, resp.PolicyIDs, 1)

	p := env.polRepo.policies[resp.PolicyIDs[0]]
	assert.Equal(t, "國泰人壽", p.Insurer)
	assert.Equal(t, 52340, p.TotalPremiumYear)
	assert.Equal(t, "", p.PolicyNo)
	assert.Equal(t, "agent1", p.CreatedBy)
	assert.NotEmpty(t, p.RawJSON)

	assert.Len(t, p.Items, 3)
	assert.Equal(t, "壽險", p.Items[0].Category)
	assert.Equal(t, 32000, p.Items[0].Premium)
	assert.Equal(t, "醫療", p.Items[1].Category)
	assert.Equal(t, 10129, p.Items[1].Premium)
	assert.Equal(t, "意外", p.Items[2].Category)

	// SumInsured stays display text.
	assert.Equal(t, "100萬", p.Items[0].SumInsured)

	// One image call consumed, no text call.
	usage, err := env.usageSvc.Today(ctx, "agent1")
	assert.NoError(t, err)
	assert.Equal(t, 1, usage.ImageCalls)
	assert.Equal(t, 0, usage.TextCalls)
}

func TestExtractAndIngestManualNameWins(t *testing.T) {
	env := newPolicyTestEnv()

	resp, err := env.svc.ExtractAndIngest(context.Background(), "agent1", []byte("img"), "image/jpeg",
		dto.ExtractRequest{CustomerName: "王曉明", CustomerIDNo: "A123456789"})
	assert.NoError(t, err)
	assert.Equal(t, "王曉明", resp.CustomerName)

	customer := env.custRepo.customers[resp.CustomerID]
	assert.Equal(t, "A123456789", customer.IDNo)
}

func TestExtractAndIngestNoNameAnywhere(t *testing.T) {
	env := newPolicyTestEnv()
	env.aiStub.doc.Document.InsuredName = "  "

	_, err := env.svc.ExtractAndIngest(context.Background(), "agent1", []byte("img"), "image/jpeg", dto.ExtractRequest{})
	assert.Error(t, err)
	assert.Len(t, env.polRepo.policies, 0)
}

// A caller at the image ceiling is refused before any external call is made.
func TestExtractAndIngestRefusedAtCeilingWithoutAICall(t *testing.T) {
	env := newPolicyTestEnv()
	ctx := context.Background()

	for i := 0; i < 30; i++ {
		assert.NoError(t, env.usageSvc.RecordImageCall(ctx, "agent1"))
	}

	_, err := env.svc.ExtractAndIngest(ctx, "agent1", []byte("img"), "image/jpeg", dto.ExtractRequest{})
	var limitErr *LimitError
	assert.ErrorAs(t, err, &limitErr)
	assert.Equal(t, 0, env.aiStub.extractCalls)
}

// A failed extraction never counts against the ceiling.
func TestExtractFailureNotCounted(t *testing.T) {
	env := newPolicyTestEnv()
	env.aiStub.extractErr = errors.New("upstream timeout")
	ctx := context.Background()

	_, err := env.svc.ExtractAndIngest(ctx, "agent1", []byte("img"), "image/jpeg", dto.ExtractRequest{})
	var aiErr *AIError
	assert.ErrorAs(t, err, &aiErr)

	usage, err := env.usageSvc.Today(ctx, "agent1")
	assert.NoError(t, err)
	assert.Equal(t, 0, usage.ImageCalls)
}

func TestExtractAndIngestWithSummary(t *testing.T) {
	env := newPolicyTestEnv()
	ctx := context.Background()

	resp, err := env.svc.ExtractAndIngest(ctx, "agent1", []byte("img"), "image/jpeg",
		dto.ExtractRequest{GenerateSummary: true})
	assert.NoError(t, err)
	assert.Equal(t, env.aiStub.summary, resp.HealthReport)
	assert.Equal(t, env.aiStub.summary, env.polRepo.policies[resp.PolicyIDs[0]].HealthReport)

	usage, err := env.usageSvc.Today(ctx, "agent1")
	assert.NoError(t, err)
	assert.Equal(t, 1, usage.ImageCalls)
	assert.Equal(t, 1, usage.TextCalls)
}

func TestRegenerateSummary(t *testing.T) {
	env := newPolicyTestEnv()
	ctx := context.Background()

	ingested, err := env.svc.ExtractAndIngest(ctx, "agent1", []byte("img"), "image/jpeg", dto.ExtractRequest{})
	assert.NoError(t, err)

	env.aiStub.summary = "# 保障不足\n醫療日額偏低。"
	resp, err := env.svc.RegenerateSummary(ctx, "agent1", ingested.PolicyIDs[0])
	assert.NoError(t, err)
	assert.Equal(t, env.aiStub.summary, resp.HealthReport)
	assert.Equal(t, env.aiStub.summary, env.polRepo.policies[ingested.PolicyIDs[0]].HealthReport)
}

func TestRegenerateSummaryMissingPolicy(t *testing.T) {
	env := newPolicyTestEnv()
	_, err := env.svc.RegenerateSummary(context.Background(), "agent1", uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEmailReportRequiresSummaryAndAddress(t *testing.T) {
	env := newPolicyTestEnv()
	ctx := context.Background()

	ingested, err := env.svc.ExtractAndIngest(ctx, "agent1", []byte("img"), "image/jpeg", dto.ExtractRequest{})
	assert.NoError(t, err)
	policyID := ingested.PolicyIDs[0]

	// No summary yet.
	assert.Error(t, env.svc.EmailReport(ctx, policyID, "someone@example.com"))

	env.polRepo.policies[policyID].HealthReport = "# 重複保障\n無。"
	// Summary present but neither an explicit address nor a stored email.
	assert.Error(t, env.svc.EmailReport(ctx, policyID, ""))
}

// Without a configured font the PDF endpoint must answer with the localized
// configuration message, not an internal English string.
func TestRenderPDFWithoutFontConfigured(t *testing.T) {
	env := newPolicyTestEnv()
	ctx := context.Background()

	ingested, err := env.svc.ExtractAndIngest(ctx, "agent1", []byte("img"), "image/jpeg", dto.ExtractRequest{})
	assert.NoError(t, err)
	env.polRepo.policies[ingested.PolicyIDs[0]].HealthReport = "# 重複保障\n無。"

	_, _, err = env.svc.RenderPDF(ctx, ingested.PolicyIDs[0])
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "尚未設定 PDF 字型")
}

func TestGetPolicyIncludesItems(t *testing.T) {
	env := newPolicyTestEnv()
	ctx := context.Background()

	ingested, err := env.svc.ExtractAndIngest(ctx, "agent1", []byte("img"), "image/jpeg", dto.ExtractRequest{})
	assert.NoError(t, err)

	resp, err := env.svc.Get(ctx, ingested.PolicyIDs[0])
	assert.NoError(t, err)
	assert.Len(t, resp.Items, 3)
}
