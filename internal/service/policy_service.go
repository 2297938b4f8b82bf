package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ken6921-byte/zuinsurance-app/internal/ai"
	"github.com/ken6921-byte/zuinsurance-app/internal/classify"
	"github.com/ken6921-byte/zuinsurance-app/internal/dto"
	"github.com/ken6921-byte/zuinsurance-app/internal/infra"
	"github.com/ken6921-byte/zuinsurance-app/internal/model"
	"github.com/ken6921-byte/zuinsurance-app/internal/normalize"
	"github.com/ken6921-byte/zuinsurance-app/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AIClient is what the policy flow needs from internal/ai; narrowed to an
// interface so tests can stub the external calls.
type AIClient interface {
	ExtractPolicyDocument(ctx context.Context, image []byte, mime string) (*ai.ExtractedDocument, error)
	GenerateHealthCheck(ctx context.Context, doc *ai.ExtractedDocument) (string, error)
}

type PolicyService interface {
	// ExtractAndIngest runs the full sheet-photo flow: ceiling check, vision
	// extraction, customer resolution/upsert, one policy per policy group
	// with categorized items, optional health-check summary.
	ExtractAndIngest(ctx context.Context, username string, image []byte, mime string, req dto.ExtractRequest) (*dto.ExtractResponse, error)
	Get(ctx context.Context, id uuid.UUID) (dto.PolicyResponse, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]dto.PolicyResponse, error)
	// RegenerateSummary re-runs the text model over the stored extraction
	// payload; counts against the caller's text ceiling.
	RegenerateSummary(ctx context.Context, username string, id uuid.UUID) (dto.SummaryResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	RenderPDF(ctx context.Context, id uuid.UUID) ([]byte, string, error)
	// EmailReport mails the policy's health-check summary (PDF attached when
	// rendering is configured) to the given address, or the customer's stored
	// email when to is empty.
	EmailReport(ctx context.Context, id uuid.UUID, to string) error
}

type policyService struct {
	policies  repository.PolicyRepository
	customers CustomerService
	usage     UsageService
	aiClient  AIClient
	pdf       *infra.PDFRenderer
	mailer    *infra.Mailer
	custRepo  repository.CustomerRepository
}

func NewPolicyService(
	policies repository.PolicyRepository,
	customers CustomerService,
	custRepo repository.CustomerRepository,
	usage UsageService,
	aiClient AIClient,
	pdf *infra.PDFRenderer,
	mailer *infra.Mailer,
) PolicyService {
	return &policyService{
		policies:  policies,
		customers: customers,
		custRepo:  custRepo,
		usage:     usage,
		aiClient:  aiClient,
		pdf:       pdf,
		mailer:    mailer,
	}
}

func mapItem(i model.PolicyItem) dto.PolicyItemResponse {
	return dto.PolicyItemResponse{
		ID:           i.ID,
		ContractType: i.ContractType,
		ProductCode:  i.ProductCode,
		ProductName:  i.ProductName,
		Term:         i.Term,
		CoverageTerm: i.CoverageTerm,
		SumInsured:   i.SumInsured,
		Premium:      i.Premium,
		Category:     i.Category,
	}
}

func mapPolicy(p model.Policy, withItems bool) dto.PolicyResponse {
	resp := dto.PolicyResponse{
		ID:               p.ID,
		CustomerID:       p.CustomerID,
		PolicyGroupName:  p.PolicyGroupName,
		Insurer:          p.Insurer,
		PolicyNo:         p.PolicyNo,
		PayMode:          p.PayMode,
		EffectiveDate:    p.EffectiveDate,
		PrintDate:        p.PrintDate,
		TotalPremiumYear: p.TotalPremiumYear,
		HealthReport:     p.HealthReport,
		CreatedBy:        p.CreatedBy,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
	if withItems {
		resp.Items = make([]dto.PolicyItemResponse, 0, len(p.Items))
		for _, i := range p.Items {
			resp.Items = append(resp.Items, mapItem(i))
		}
	}
	return resp
}

func (s *policyService) ExtractAndIngest(ctx context.Context, username string, image []byte, mime string, req dto.ExtractRequest) (*dto.ExtractResponse, error) {
	if err := s.usage.CheckImageAllowance(ctx, username); err != nil {
		return nil, err
	}

	doc, err := s.aiClient.ExtractPolicyDocument(ctx, image, mime)
	if err != nil {
		return nil, &AIError{Err: err}
	}
	if err := s.usage.RecordImageCall(ctx, username); err != nil {
		return nil, err
	}

	// Manual name wins over the extracted insured name.
	finalName := strings.TrimSpace(req.CustomerName)
	if finalName == "" {
		finalName = strings.TrimSpace(doc.Document.InsuredName)
	}
	if finalName == "" {
		return nil, errors.New("無法取得客戶姓名，請手動輸入「客戶姓名」後再試一次")
	}

	customer, err := s.customers.Upsert(ctx, dto.CreateCustomerRequest{
		Name:    finalName,
		IDNo:    req.CustomerIDNo,
		Phone:   req.CustomerPhone,
		Address: req.CustomerAddress,
		Notes:   req.CustomerNotes,
	})
	if err != nil {
		return nil, err
	}

	report := ""
	if req.GenerateSummary {
		if err := s.usage.CheckTextAllowance(ctx, username); err != nil {
			return nil, err
		}
		report, err = s.aiClient.GenerateHealthCheck(ctx, doc)
		if err != nil {
			return nil, &AIError{Err: err}
		}
		if err := s.usage.RecordTextCall(ctx, username); err != nil {
			return nil, err
		}
	}

	rawJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	policyIDs := make([]uuid.UUID, 0, len(doc.Document.PolicyGroups))
	for _, g := range doc.Document.PolicyGroups {
		policy := &model.Policy{
			CustomerID:      customer.ID,
			PolicyGroupName: strings.TrimSpace(g.PolicyGroupName),
			Insurer:         strings.TrimSpace(g.Insurer),
			// Summary sheets rarely carry a policy number; left empty.
			PolicyNo:         "",
			PayMode:          strings.TrimSpace(g.PayMode),
			EffectiveDate:    strings.TrimSpace(g.EffectiveDate),
			PrintDate:        strings.TrimSpace(doc.Document.PrintDate),
			TotalPremiumYear: normalize.Premium(g.TotalPremium),
			RawJSON:          string(rawJSON),
			HealthReport:     report,
			CreatedBy:        username,
			Items:            buildItems(g.Items),
		}
		if err := s.policies.Create(ctx, policy); err != nil {
			return nil, err
		}
		policyIDs = append(policyIDs, policy.ID)
	}

	log.Info().
		Str("username", username).
		Str("customer", finalName).
		Int("policies", len(policyIDs)).
		Msg("policy sheet ingested")

	return &dto.ExtractResponse{
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		PolicyIDs:    policyIDs,
		Document:     doc,
		HealthReport: report,
	}, nil
}

func buildItems(items []ai.LineItem) []model.PolicyItem {
	out := make([]model.PolicyItem, 0, len(items))
	for _, it := range items {
		name := strings.TrimSpace(it.ProductName)
		out = append(out, model.PolicyItem{
			ContractType: strings.TrimSpace(it.ContractType),
			ProductCode:  strings.TrimSpace(it.ProductCode),
			ProductName:  name,
			Term:         strings.TrimSpace(it.Term),
			CoverageTerm: strings.TrimSpace(it.CoverageTerm),
			SumInsured:   strings.TrimSpace(it.SumInsured),
			Premium:      normalize.Premium(it.Premium),
			Category:     classify.ProductName(name),
		})
	}
	return out
}

func (s *policyService) Get(ctx context.Context, id uuid.UUID) (dto.PolicyResponse, error) {
	p, err := s.policies.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PolicyResponse{}, ErrNotFound
		}
		return dto.PolicyResponse{}, err
	}
	return mapPolicy(*p, true), nil
}

func (s *policyService) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]dto.PolicyResponse, error) {
	policies, err := s.policies.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.PolicyResponse, 0, len(policies))
	for _, p := range policies {
		result = append(result, mapPolicy(p, false))
	}
	return result, nil
}

func (s *policyService) RegenerateSummary(ctx context.Context, username string, id uuid.UUID) (dto.SummaryResponse, error) {
	p, err := s.policies.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SummaryResponse{}, ErrNotFound
		}
		return dto.SummaryResponse{}, err
	}

	var doc ai.ExtractedDocument
	if err := json.Unmarshal([]byte(p.RawJSON), &doc); err != nil {
		return dto.SummaryResponse{}, fmt.Errorf("此保單沒有可用的擷取資料：%w", err)
	}

	if err := s.usage.CheckTextAllowance(ctx, username); err != nil {
		return dto.SummaryResponse{}, err
	}
	report, err := s.aiClient.GenerateHealthCheck(ctx, &doc)
	if err != nil {
		return dto.SummaryResponse{}, &AIError{Err: err}
	}
	if err := s.usage.RecordTextCall(ctx, username); err != nil {
		return dto.SummaryResponse{}, err
	}

	if err := s.policies.UpdateHealthReport(ctx, id, report); err != nil {
		return dto.SummaryResponse{}, err
	}
	return dto.SummaryResponse{PolicyID: id, HealthReport: report}, nil
}

func (s *policyService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.policies.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.policies.Delete(ctx, id)
}

func (s *policyService) RenderPDF(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	p, err := s.policies.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}
	customer, err := s.custRepo.FindByID(ctx, p.CustomerID)
	if err != nil {
		return nil, "", err
	}

	data, err := s.pdf.RenderHealthReport(customer, p)
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("health_report_%s.pdf", id)
	return data, filename, nil
}

func (s *policyService) EmailReport(ctx context.Context, id uuid.UUID, to string) error {
	p, err := s.policies.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if strings.TrimSpace(p.HealthReport) == "" {
		return errors.New("此保單尚未產生健檢摘要")
	}
	customer, err := s.custRepo.FindByID(ctx, p.CustomerID)
	if err != nil {
		return err
	}
	if to == "" {
		to = strings.TrimSpace(customer.Email)
	}
	if to == "" {
		return errors.New("客戶沒有 Email，請先補登或指定收件地址")
	}

	// PDF attachment is best-effort: missing font config falls back to
	// text-only mail rather than failing the send.
	var pdfData []byte
	if s.pdf.Enabled() {
		if data, err := s.pdf.RenderHealthReport(customer, p); err == nil {
			pdfData = data
		} else {
			log.Warn().Err(err).Str("policy_id", id.String()).Msg("pdf attachment skipped")
		}
	}

	subject := fmt.Sprintf("保單健檢摘要 — %s", customer.Name)
	return s.mailer.SendHealthReport(to, subject, p.HealthReport, pdfData)
}
