package model

// IssueCode classifies a validation problem.
type IssueCode string

const (
	IssueMissingField      IssueCode = "missing-field"
	IssueTypeError         IssueCode = "type-error"
	IssueEmptyValue        IssueCode = "empty-value"
	IssueRangeError        IssueCode = "range-error"
	IssueBusinessLogic     IssueCode = "business-logic-error"
	IssueDetailSumMismatch IssueCode = "detail-sum-mismatch"
	IssueDuplicateRow      IssueCode = "duplicate-row"
	IssueUnknown           IssueCode = "unknown"
)

// ValidationIssue is one data-level problem found in a candidate record.
type ValidationIssue struct {
	Code    IssueCode `json:"code"`
	Field   string    `json:"field,omitempty"`
	Message string    `json:"message"`
}

// ValidationResult is the outcome of validating a candidate. Value is non-nil
// iff OK is true.
type ValidationResult struct {
	OK     bool               `json:"ok"`
	Issues []ValidationIssue  `json:"issues"`
	Value  *CalculationInputs `json:"value"`
}
