// Package classify maps a product name to one of eight coarse coverage
// categories used by reporting. The rules are a keyword table, not logic:
// adding a category or keyword means editing data, nothing else.
package classify

import "strings"

// Category labels. CategoryOther is the fallback for empty or unmatched names.
const (
	CategoryLife     = "壽險"
	CategoryMedical  = "醫療"
	CategoryAccident = "意外"
	CategoryCancer   = "癌症"
	CategoryCritical = "重傷"
	CategoryLTC      = "長照"
	CategoryWaiver   = "豁免"
	CategoryOther    = "其他"
)

// rules are evaluated in order, first match wins. Order matters: the groups
// share vocabulary (a name can contain both a medical and an accident
// keyword), so earlier rows take precedence.
var rules = []struct {
	category string
	keywords []string
}{
	{CategoryLife, []string{"壽險", "定期壽險", "終身壽險", "重大傷病定期保險", "壽"}},
	{CategoryMedical, []string{"住院", "實支", "醫療", "手術", "療程", "健康保險", "醫卡", "日額"}},
	{CategoryAccident, []string{"傷害", "意外", "骨折", "失能", "災害"}},
	{CategoryCancer, []string{"癌", "防癌", "惡性腫瘤"}},
	{CategoryCritical, []string{"重大傷病", "重傷", "重大疾病"}},
	{CategoryLTC, []string{"長照", "照護", "失能扶助", "失能照護"}},
	{CategoryWaiver, []string{"豁免", "免繳"}},
}

// Categories lists every label a PolicyItem.Category can hold.
func Categories() []string {
	out := make([]string, 0, len(rules)+1)
	for _, r := range rules {
		out = append(out, r.category)
	}
	return append(out, CategoryOther)
}

// ProductName returns the category for a product name.
func ProductName(name string) string {
	t := strings.TrimSpace(name)
	if t == "" {
		return CategoryOther
	}
	for _, r := range rules {
		for _, k := range r.keywords {
			if strings.Contains(t, k) {
				return r.category
			}
		}
	}
	return CategoryOther
}
