package syntax

import "strconv"

// ErrorCode describes why a pattern failed to parse.
type ErrorCode string

// Parse error codes.
const (
	ErrMissingParen          ErrorCode = "missing closing )"
	ErrUnexpectedParen       ErrorCode = "unexpected )"
	ErrMissingBracket        ErrorCode = "missing closing ]"
	ErrInvalidCharRange      ErrorCode = "invalid character class range"
	ErrMissingRepeatArgument ErrorCode = "missing argument to repetition operator"
	ErrInvalidRepeatOp       ErrorCode = "invalid nested repetition operator"
	ErrInvalidRepeatSize     ErrorCode = "invalid repeat count"
	ErrTrailingBackslash     ErrorCode = "trailing backslash at end of expression"
	ErrInvalidEscape         ErrorCode = "invalid escape sequence"
	ErrInvalidBackref        ErrorCode = "invalid back-reference"
	ErrInvalidGroup          ErrorCode = "invalid or unsupported group syntax"
	ErrInvalidNamedCapture   ErrorCode = "invalid named capture"
	ErrDuplicateName         ErrorCode = "duplicate capture group name"
	ErrNestingDepth          ErrorCode = "expression nests too deeply"
	ErrInvalidFlags          ErrorCode = "invalid flags"
	ErrInvalidLiteral        ErrorCode = "invalid pattern literal"
)

func (e ErrorCode) String() string {
	return string(e)
}

// Error is returned when a pattern is structurally invalid.
// Offset is the byte offset in Expr where the problem was detected.
type Error struct {
	Code   ErrorCode
	Expr   string
	Offset int
}

// Error implements the error interface.
func (e *Error) Error() string {
	return "error parsing regexp: " + e.Code.String() +
		" at offset " + strconv.Itoa(e.Offset) + ": `" + e.Expr + "`"
}
