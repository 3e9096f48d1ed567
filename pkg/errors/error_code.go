package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidPeriod        ErrorCode = 102
	ErrCodeInvalidThreshold     ErrorCode = 103
	ErrCodeInvalidCapital       ErrorCode = 104
	ErrCodeUnsupportedVersion   ErrorCode = 105

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound     ErrorCode = 200
	ErrCodeInsufficientData ErrorCode = 201
	ErrCodeEmptySeries      ErrorCode = 202

	// Strategy errors (300-399)
	ErrCodeStrategyInitFailed ErrorCode = 300
	ErrCodeStrategyNotReady   ErrorCode = 301

	// Backtest errors (400-499)
	ErrCodeBacktestFailed   ErrorCode = 400
	ErrCodeNilStrategy      ErrorCode = 401
	ErrCodeNilSeries        ErrorCode = 402
	ErrCodeBenchmarkMissing ErrorCode = 403

	// Macro errors (500-599)
	ErrCodeMacroAnalysisFailed ErrorCode = 500
	ErrCodeUnknownRegime       ErrorCode = 501

	// Market data errors (600-699)
	ErrCodeFetchFailed     ErrorCode = 600
	ErrCodeParseFailed     ErrorCode = 601
	ErrCodeMissingAPIKey   ErrorCode = 602
	ErrCodeUnexpectedState ErrorCode = 603
)
