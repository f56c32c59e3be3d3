package dto

// ExportReportRequest enqueues an Excel export of the sales in a date range.
// The export runs as a background job; the response returns the job id and the
// path where the workbook will be written.
type ExportReportRequest struct {
	From string `json:"from" validate:"required,datetime=2006-01-02"`
	To   string `json:"to"   validate:"required,datetime=2006-01-02"`
}

type ExportReportResponse struct {
	JobID string `json:"job_id"`
	Path  string `json:"path"`
}

// ─── Customers ───────────────────────────────────────────────────────────────

type CreateCustomerRequest struct {
	Name           string `json:"name"            validate:"required,min=2"`
	DocumentNumber string `json:"document_number" validate:"max=20"`
	Phone          string `json:"phone"           validate:"max=30"`
	Email          string `json:"email"           validate:"omitempty,email"`
	Address        string `json:"address"         validate:"max=200"`
}
