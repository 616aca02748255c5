package dashboard

// SchemaValidationResult reports whether a registered schema matches the
// physical database: table present, every declared column present, lookup
// tables reachable.
type SchemaValidationResult struct {
	SchemaID   string       `json:"schemaId"`
	SchemaName string       `json:"schemaName"`
	Source     SchemaSource `json:"source"`
	IsValid    bool         `json:"isValid"`

	// Errors block execution; warnings do not.
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`

	// ExecutionTimeUs is the validation duration in microseconds.
	ExecutionTimeUs int64 `json:"executionTimeUs"`

	// RowCount from the test count query, nil when the table is missing.
	RowCount *int64 `json:"rowCount,omitempty"`
}

// ValidateSchemasResponse is the result of validating every registered schema.
type ValidateSchemasResponse struct {
	Results    []SchemaValidationResult `json:"results"`
	TotalCount int                      `json:"totalCount"`
	ValidCount int                      `json:"validCount"`
}
