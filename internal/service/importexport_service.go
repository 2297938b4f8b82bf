package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ken6921-byte/zuinsurance-app/internal/dto"
	"github.com/ken6921-byte/zuinsurance-app/internal/model"
	"github.com/ken6921-byte/zuinsurance-app/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// utf8BOM prefixes every CSV export so Excel opens the files with the right
// encoding (the original tool exported utf-8-sig for the same reason).
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

const sampleRows = 20

// ImportExportService moves customer data in and out of the store: column-
// mapped spreadsheet import, per-table CSV export, and a combined multi-sheet
// XLSX backup.
type ImportExportService interface {
	// Inspect parses an uploaded table and returns its columns plus a sample
	// so the operator can build the column mapping.
	Inspect(filename string, data []byte) (*dto.InspectResponse, error)
	// ImportCustomers upserts one customer per row with a non-empty mapped
	// name; blank-name rows are skipped, not errors.
	ImportCustomers(ctx context.Context, filename string, data []byte, mapping dto.ColumnMapping) (*dto.ImportResponse, error)
	ExportCustomersCSV(ctx context.Context) ([]byte, error)
	ExportPoliciesCSV(ctx context.Context) ([]byte, error)
	ExportPolicyItemsCSV(ctx context.Context) ([]byte, error)
	ExportBackupXLSX(ctx context.Context) ([]byte, error)
}

type importExportService struct {
	customers CustomerService
	custRepo  repository.CustomerRepository
	policies  repository.PolicyRepository
}

func NewImportExportService(
	customers CustomerService,
	custRepo repository.CustomerRepository,
	policies repository.PolicyRepository,
) ImportExportService {
	return &importExportService{customers: customers, custRepo: custRepo, policies: policies}
}

// ── Import ───────────────────────────────────────────────────────────────────

// parseTable reads CSV or XLSX into a header row plus data rows. Legacy .xls
// is not supported — the upload form says so up front.
func parseTable(filename string, data []byte) ([]string, [][]string, error) {
	name := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(name, ".csv"):
		return parseCSV(data)
	case strings.HasSuffix(name, ".xlsx"):
		return parseXLSX(data)
	default:
		return nil, nil, errors.New("只支援 CSV 或 Excel（.xlsx）檔案")
	}
}

func parseCSV(data []byte) ([]string, [][]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1 // ragged exports from other CRMs are common
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("讀檔失敗：%w", err)
	}
	if len(records) == 0 {
		return nil, nil, errors.New("檔案沒有任何資料列")
	}
	return records[0], records[1:], nil
}

func parseXLSX(data []byte) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("讀檔失敗：%w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, errors.New("檔案沒有任何工作表")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("讀檔失敗：%w", err)
	}
	if len(rows) == 0 {
		return nil, nil, errors.New("檔案沒有任何資料列")
	}
	return rows[0], rows[1:], nil
}

func (s *importExportService) Inspect(filename string, data []byte) (*dto.InspectResponse, error) {
	headers, rows, err := parseTable(filename, data)
	if err != nil {
		return nil, err
	}
	sample := rows
	if len(sample) > sampleRows {
		sample = sample[:sampleRows]
	}
	return &dto.InspectResponse{Columns: headers, Sample: sample, RowCount: len(rows)}, nil
}

// cell returns the value of the mapped column for a row, "" when the column
// is unmapped, missing from the header, or past the row's ragged end.
func cell(row []string, headers []string, column string) string {
	if column == "" {
		return ""
	}
	for i, h := range headers {
		if h == column {
			if i < len(row) {
				return strings.TrimSpace(row[i])
			}
			return ""
		}
	}
	return ""
}

func (s *importExportService) ImportCustomers(ctx context.Context, filename string, data []byte, mapping dto.ColumnMapping) (*dto.ImportResponse, error) {
	headers, rows, err := parseTable(filename, data)
	if err != nil {
		return nil, err
	}

	nameFound := false
	for _, h := range headers {
		if h == mapping.Name {
			nameFound = true
			break
		}
	}
	if !nameFound {
		return nil, fmt.Errorf("找不到姓名欄位「%s」", mapping.Name)
	}

	resp := &dto.ImportResponse{}
	for _, row := range rows {
		name := cell(row, headers, mapping.Name)
		if name == "" || strings.EqualFold(name, "nan") {
			resp.Skipped++
			continue
		}
		_, err := s.customers.Upsert(ctx, dto.CreateCustomerRequest{
			Name:     name,
			IDNo:     cell(row, headers, mapping.IDNo),
			Birthday: cell(row, headers, mapping.Birthday),
			Phone:    cell(row, headers, mapping.Phone),
			Email:    cell(row, headers, mapping.Email),
			Address:  cell(row, headers, mapping.Address),
			Notes:    cell(row, headers, mapping.Notes),
		})
		if err != nil {
			return nil, fmt.Errorf("匯入第 %d 筆失敗：%w", resp.Imported+resp.Skipped+1, err)
		}
		resp.Imported++
	}

	log.Info().Int("imported", resp.Imported).Int("skipped", resp.Skipped).Msg("customer import finished")
	return resp, nil
}

// ── Export ───────────────────────────────────────────────────────────────────

var (
	customerHeader = []string{"id", "name", "id_no", "birthday", "phone", "email", "address", "notes", "created_at", "updated_at"}
	policyHeader   = []string{"id", "customer_id", "policy_group_name", "insurer", "policy_no", "pay_mode", "effective_date", "print_date", "total_premium_year", "raw_json", "health_report", "created_by", "created_at", "updated_at"}
	itemHeader     = []string{"id", "policy_id", "contract_type", "product_code", "product_name", "term", "coverage_term", "sum_insured", "premium", "category"}
)

func customerRow(c model.Customer) []string {
	return []string{
		c.ID.String(), c.Name, c.IDNo, c.Birthday, c.Phone, c.Email, c.Address, c.Notes,
		c.CreatedAt.Format(time.RFC3339), c.UpdatedAt.Format(time.RFC3339),
	}
}

func policyRow(p model.Policy) []string {
	return []string{
		p.ID.String(), p.CustomerID.String(), p.PolicyGroupName, p.Insurer, p.PolicyNo,
		p.PayMode, p.EffectiveDate, p.PrintDate, strconv.Itoa(p.TotalPremiumYear),
		p.RawJSON, p.HealthReport, p.CreatedBy,
		p.CreatedAt.Format(time.RFC3339), p.UpdatedAt.Format(time.RFC3339),
	}
}

func itemRow(i model.PolicyItem) []string {
	return []string{
		i.ID.String(), i.PolicyID.String(), i.ContractType, i.ProductCode, i.ProductName,
		i.Term, i.CoverageTerm, i.SumInsured, strconv.Itoa(i.Premium), i.Category,
	}
}

func writeCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *importExportService) ExportCustomersCSV(ctx context.Context) ([]byte, error) {
	customers, err := s.custRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, customerRow(c))
	}
	return writeCSV(customerHeader, rows)
}

func (s *importExportService) ExportPoliciesCSV(ctx context.Context) ([]byte, error) {
	policies, err := s.policies.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(policies))
	for _, p := range policies {
		rows = append(rows, policyRow(p))
	}
	return writeCSV(policyHeader, rows)
}

func (s *importExportService) ExportPolicyItemsCSV(ctx context.Context) ([]byte, error) {
	items, err := s.policies.ListAllItems(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(items))
	for _, i := range items {
		rows = append(rows, itemRow(i))
	}
	return writeCSV(itemHeader, rows)
}

// ExportBackupXLSX packages all three tables into one workbook, one sheet per
// table, for the weekly backup / handover routine.
func (s *importExportService) ExportBackupXLSX(ctx context.Context) ([]byte, error) {
	customers, err := s.custRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	policies, err := s.policies.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.policies.ListAllItems(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	custRows := make([][]string, 0, len(customers))
	for _, c := range customers {
		custRows = append(custRows, customerRow(c))
	}
	polRows := make([][]string, 0, len(policies))
	for _, p := range policies {
		polRows = append(polRows, policyRow(p))
	}
	itRows := make([][]string, 0, len(items))
	for _, i := range items {
		itRows = append(itRows, itemRow(i))
	}

	if err := f.SetSheetName("Sheet1", "customers"); err != nil {
		return nil, err
	}
	if err := writeSheet(f, "customers", customerHeader, custRows); err != nil {
		return nil, err
	}
	for _, sheet := range []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{"policies", policyHeader, polRows},
		{"policy_items", itemHeader, itRows},
	} {
		if _, err := f.NewSheet(sheet.name); err != nil {
			return nil, err
		}
		if err := writeSheet(f, sheet.name, sheet.header, sheet.rows); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]string) error {
	if err := setStringRow(f, sheet, 1, header); err != nil {
		return err
	}
	for i, row := range rows {
		if err := setStringRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func setStringRow(f *excelize.File, sheet string, rowNum int, values []string) error {
	cellRef, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}
	return f.SetSheetRow(sheet, cellRef, &row)
}
