package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractedDocument mirrors the JSON the vision model is instructed to emit.
// All leaf fields are display text straight off the sheet; normalization and
// categorization happen downstream at ingest.
type ExtractedDocument struct {
	Document DocumentPayload `json:"document"`
}

type DocumentPayload struct {
	InsuredName  string        `json:"insured_name"`
	PrintDate    string        `json:"print_date"`
	PolicyGroups []PolicyGroup `json:"policy_groups"`
}

// PolicyGroup is one insurer/product bundle on the sheet; it becomes one
// Policy row with its items.
type PolicyGroup struct {
	PolicyGroupName string     `json:"policy_group_name"`
	Insurer         string     `json:"insurer"`
	EffectiveDate   string     `json:"effective_date"`
	PayMode         string     `json:"pay_mode"`
	Items           []LineItem `json:"items"`
	TotalPremium    string     `json:"total_premium"`
}

type LineItem struct {
	ContractType string `json:"contract_type"`
	ProductCode  string `json:"product_code"`
	ProductName  string `json:"product_name"`
	Term         string `json:"term"`
	CoverageTerm string `json:"coverage_term"`
	SumInsured   string `json:"sum_insured"`
	Premium      string `json:"premium"`
}

// schemaHint is embedded in the extraction prompt so the model sees the exact
// shape it must emit. Kept as a literal rather than reflected from the types:
// the prompt wants empty-string placeholders, not Go zero-value noise.
const schemaHint = `{"document":{"insured_name":"","print_date":"","policy_groups":[{"policy_group_name":"","insurer":"","effective_date":"","pay_mode":"","items":[{"contract_type":"","product_code":"","product_name":"","term":"","coverage_term":"","sum_insured":"","premium":""}],"total_premium":""}]}}`

const extractPrompt = `你是一個台灣保險保單「商品明細表」解析器。請從圖片中擷取欄位並輸出「嚴格 JSON」（不要 markdown、不要註解、不要多餘文字）。

輸出 JSON 結構如下（可參考但請以圖片為準）：
` + schemaHint + `

規則：
1) 必填鍵：document/insured_name/print_date/policy_groups
2) policy_groups 為陣列：一個保險公司/組合一個 group
3) items 為陣列，逐列擷取：約別、商品代碼、商品名稱、年期、保障年期、保額、保費
4) premium/total_premium 若能看出請填數字字串（例如 "10129"），看不出填空字串
5) 日期可用原樣（例如 114/11/04 或 2025/11/4 都可）
6) 若欄位在圖中不存在，就填空字串，不要亂猜

現在開始輸出 JSON：`

// ExtractPolicyDocument sends the sheet photo plus the fixed instruction to
// the vision model with deterministic decoding and parses the reply.
// mime must be image/jpeg or image/png. Transport and parse failures abort
// the caller's operation; there is no retry or partial-result recovery.
func (c *Client) ExtractPolicyDocument(ctx context.Context, image []byte, mime string) (*ExtractedDocument, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(image))

	msgs := []message{{
		Role: "user",
		Content: []contentPart{
			{Type: "text", Text: extractPrompt},
			{Type: "image_url", ImageURL: &imageURL{URL: dataURL}},
		},
	}}

	text, err := c.chat(ctx, c.visionModel, msgs, 0)
	if err != nil {
		return nil, err
	}
	return ParseDocument(text)
}

// ParseDocument strips incidental code fences the model sometimes wraps its
// output in, then parses the strict-JSON payload.
func ParseDocument(text string) (*ExtractedDocument, error) {
	cleaned := StripCodeFence(text)
	var doc ExtractedDocument
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return nil, fmt.Errorf("openai: parse extraction JSON: %w", err)
	}
	return &doc, nil
}

// StripCodeFence removes ```json / ``` markers wherever they appear and trims
// surrounding whitespace. Conservative on purpose: anything beyond fence
// noise stays intact and fails JSON parsing loudly instead of being guessed
// around.
func StripCodeFence(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
