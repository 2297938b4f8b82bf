package dto

// ColumnMapping maps source spreadsheet column headers to customer fields.
// Only Name is mandatory; unmapped fields import as empty strings.
type ColumnMapping struct {
	Name     string `json:"name" validate:"required"`
	IDNo     string `json:"id_no"`
	Birthday string `json:"birthday"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	Notes    string `json:"notes"`
}

// InspectResponse previews an uploaded table so the operator can build the
// column mapping before committing the import.
type InspectResponse struct {
	Columns  []string   `json:"columns"`
	Sample   [][]string `json:"sample"`
	RowCount int        `json:"row_count"`
}

type ImportResponse struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}
