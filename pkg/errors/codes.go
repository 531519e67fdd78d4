package errors

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes
const (
	ErrCodeInternal       ErrorCode = "COMMON_001"
	ErrCodeInvalidParam   ErrorCode = "COMMON_002"
	ErrCodeNotFound       ErrorCode = "COMMON_003"
	ErrCodeValidation     ErrorCode = "COMMON_004"
	ErrCodeSerialization  ErrorCode = "COMMON_005"
	ErrCodeConfiguration  ErrorCode = "COMMON_006"
	ErrCodeNotImplemented ErrorCode = "COMMON_007"
)

// Molecule error codes
const (
	ErrCodeMolfileParseFailed ErrorCode = "MOL_001"
	ErrCodeMolfileNotFound    ErrorCode = "MOL_002"
	ErrCodeMoleculeIDInvalid  ErrorCode = "MOL_003"
)

// Reaction-analysis error codes
const (
	ErrCodeRoleAmbiguous      ErrorCode = "RXN_001"
	ErrCodeNoDataSource       ErrorCode = "RXN_002"
	ErrCodeDirectoryScan      ErrorCode = "RXN_003"
	ErrCodeOutputParseFailed  ErrorCode = "RXN_004"
	ErrCodeReportWriteFailed  ErrorCode = "RXN_005"
	ErrCodeReportParseFailed  ErrorCode = "RXN_006"
	ErrCodeRegressionFailed   ErrorCode = "RXN_007"
	ErrCodeDatasetInvalid     ErrorCode = "RXN_008"
	ErrCodeNothingToAggregate ErrorCode = "RXN_009"
)

// Store error codes
const (
	ErrCodeStoreNotConfigured ErrorCode = "DB_001"
	ErrCodeStoreConnection    ErrorCode = "DB_002"
	ErrCodeStoreQuery         ErrorCode = "DB_003"
	ErrCodeStoreInsert        ErrorCode = "DB_004"
	ErrCodeStoreMigration     ErrorCode = "DB_005"
)

// CodeOK is the sentinel returned by GetCode for a nil error.
const CodeOK = ErrorCode("OK")

// CodeUnknown is returned by GetCode when no AppError is present in a chain.
const CodeUnknown = ErrorCode("UNKNOWN")
