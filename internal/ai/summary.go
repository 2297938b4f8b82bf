package ai

import (
	"context"
	"encoding/json"
	"fmt"
)

// compactDocument is the reduced payload fed to the text model: names, codes,
// sums, and premiums only. Term/coverage columns are dropped to bound prompt
// size on sheets with long item tables.
type compactDocument struct {
	InsuredName  string         `json:"insured_name"`
	PrintDate    string         `json:"print_date"`
	PolicyGroups []compactGroup `json:"policy_groups"`
}

type compactGroup struct {
	PolicyGroupName string        `json:"policy_group_name"`
	Insurer         string        `json:"insurer"`
	EffectiveDate   string        `json:"effective_date"`
	PayMode         string        `json:"pay_mode"`
	TotalPremium    string        `json:"total_premium"`
	Items           []compactItem `json:"items"`
}

type compactItem struct {
	ContractType string `json:"contract_type"`
	ProductCode  string `json:"product_code"`
	ProductName  string `json:"product_name"`
	SumInsured   string `json:"sum_insured"`
	Premium      string `json:"premium"`
}

func compact(doc *ExtractedDocument) compactDocument {
	out := compactDocument{
		InsuredName:  doc.Document.InsuredName,
		PrintDate:    doc.Document.PrintDate,
		PolicyGroups: make([]compactGroup, 0, len(doc.Document.PolicyGroups)),
	}
	for _, g := range doc.Document.PolicyGroups {
		cg := compactGroup{
			PolicyGroupName: g.PolicyGroupName,
			Insurer:         g.Insurer,
			EffectiveDate:   g.EffectiveDate,
			PayMode:         g.PayMode,
			TotalPremium:    g.TotalPremium,
			Items:           make([]compactItem, 0, len(g.Items)),
		}
		for _, it := range g.Items {
			cg.Items = append(cg.Items, compactItem{
				ContractType: it.ContractType,
				ProductCode:  it.ProductCode,
				ProductName:  it.ProductName,
				SumInsured:   it.SumInsured,
				Premium:      it.Premium,
			})
		}
		out.PolicyGroups = append(out.PolicyGroups, cg)
	}
	return out
}

const healthCheckPreamble = `你是台灣保險業務的「保單健檢分析助手」。根據以下 JSON（商品明細表擷取），請輸出「給客戶看的健檢摘要」：
- 用繁體中文
- 口吻專業、可行、務實
- 不要提到你是 AI，也不要提到模型/系統字眼
- 不要做法律/稅務保證，只能建議需再確認條款
- 格式請用 Markdown，固定四大段落標題：

## 1) 重複保障
## 2) 保障不足（缺口）
## 3) 條款風險（容易誤解/理賠限制）
## 4) 可優化保費（不影響核心保障前提）

資料：
`

// GenerateHealthCheck produces the four-section Markdown health-check summary
// for an extracted document. The result is opaque narrative text — it is
// stored and rendered, never parsed.
func (c *Client) GenerateHealthCheck(ctx context.Context, doc *ExtractedDocument) (string, error) {
	data, err := json.Marshal(compact(doc))
	if err != nil {
		return "", fmt.Errorf("openai: marshal compact document: %w", err)
	}

	msgs := []message{{Role: "user", Content: healthCheckPreamble + string(data)}}

	// Slight temperature: the narrative should read naturally, extraction
	// stays at 0.
	return c.chat(ctx, c.textModel, msgs, 0.2)
}
