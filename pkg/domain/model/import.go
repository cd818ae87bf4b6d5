package model

// RowError records a single failed row of a bulk import. Row numbers are
// 1-based, matching spreadsheet row numbering.
type RowError struct {
	Row   int
	Error string
}

// ImportReport is the outcome of a bulk import. Rows succeed or fail
// independently; one bad row never fails the batch.
type ImportReport struct {
	BatchID   string
	Succeeded int
	Failed    []RowError
}
