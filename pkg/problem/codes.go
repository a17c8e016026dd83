package problem

// ErrorCode is a stable, machine-readable error identifier.
type ErrorCode interface {
	Code() string
}

// DomainErrorCode is an ErrorCode following the <domain>.<code> convention.
type DomainErrorCode interface {
	ErrorCode
	Domain() string
	Local() string
}

// TransferErrorCode enumerates transfer domain errors.
type TransferErrorCode string

const TransferLimitExceededCode TransferErrorCode = "transfer_limit_exceeded"

func (TransferErrorCode) Domain() string  { return "transfer" }
func (c TransferErrorCode) Local() string { return string(c) }
func (c TransferErrorCode) Code() string  { return c.Domain() + "." + string(c) }
func (c TransferErrorCode) String() string {
	return c.Code()
}

// AccountErrorCode enumerates account domain errors.
type AccountErrorCode string

const AccountSuspendedCode AccountErrorCode = "account_suspended"

func (AccountErrorCode) Domain() string  { return "account" }
func (c AccountErrorCode) Local() string { return string(c) }
func (c AccountErrorCode) Code() string  { return c.Domain() + "." + string(c) }
func (c AccountErrorCode) String() string {
	return c.Code()
}

// ValidationErrorCode identifies a validation entry variant.
type ValidationErrorCode string

const (
	MissingValueCode  ValidationErrorCode = "missing_value"
	InvalidFormatCode ValidationErrorCode = "invalid_format"
)

func (c ValidationErrorCode) Code() string   { return string(c) }
func (c ValidationErrorCode) String() string { return string(c) }

var (
	_ DomainErrorCode = TransferLimitExceededCode
	_ DomainErrorCode = AccountSuspendedCode
	_ ErrorCode       = MissingValueCode
)
