// Package errors provides structured error handling with i18n support.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// CodeInvalidBody represents a malformed or oversized request body.
	CodeInvalidBody Code = "INVALID_REQUEST_BODY"

	// Board errors
	CodeBoardTitleEmpty   Code = "BOARD_TITLE_EMPTY"
	CodeBoardInvalidColor Code = "BOARD_INVALID_COLOR"
	CodeBoardLimitReached Code = "USER_BOARD_LIMIT_REACHED"

	// Membership errors
	CodeBoardMemberLimitReached Code = "BOARD_MEMBER_LIMIT_REACHED"

	// Invitation errors
	CodeInviteTargetRequired   Code = "INVITE_TARGET_REQUIRED"
	CodeInviteTargetConflict   Code = "INVITE_TARGET_CONFLICT"
	CodeInviteAlreadyMember    Code = "INVITE_ALREADY_MEMBER"
	CodeInviteAlreadyPending   Code = "INVITE_ALREADY_PENDING"
	CodeInviteAlreadyProcessed Code = "INVITE_ALREADY_PROCESSED"

	// User errors
	CodeUserEmailAmbiguous Code = "USER_EMAIL_AMBIGUOUS"
	CodeUserEmailUnknown   Code = "USER_EMAIL_UNKNOWN"
	CodeUserInvalidLocale  Code = "USER_INVALID_LOCALE"

	// List errors
	CodeListTitleEmpty Code = "LIST_TITLE_EMPTY"

	// Task errors
	CodeTaskTitleEmpty    Code = "TASK_TITLE_EMPTY"
	CodeTaskListMismatch  Code = "TASK_LIST_MISMATCH"
	CodeTaskNotAssignable Code = "TASK_NOT_ASSIGNABLE"

	// Access errors
	CodeUnauthenticated Code = "UNAUTHENTICATED"
	CodeForbidden       Code = "FORBIDDEN"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	// Bad request - validation failures, malformed input
	case CodeInvalidBody,
		CodeBoardTitleEmpty,
		CodeBoardInvalidColor,
		CodeInviteTargetRequired,
		CodeInviteTargetConflict,
		CodeUserEmailAmbiguous,
		CodeUserEmailUnknown,
		CodeUserInvalidLocale,
		CodeListTitleEmpty,
		CodeTaskTitleEmpty,
		CodeTaskListMismatch,
		CodeTaskNotAssignable:
		return http.StatusBadRequest

	// Conflict - state or uniqueness violations, including capacity limits
	case CodeBoardLimitReached,
		CodeBoardMemberLimitReached,
		CodeInviteAlreadyMember,
		CodeInviteAlreadyPending,
		CodeInviteAlreadyProcessed:
		return http.StatusConflict

	case CodeUnauthenticated:
		return http.StatusUnauthorized

	case CodeForbidden:
		return http.StatusForbidden

	case CodeNotFound:
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}

// IsCapacity reports whether the code represents a capacity-limit violation.
// Capacity errors are a specialization of conflict that carry which limit was hit.
func (c Code) IsCapacity() bool {
	return c == CodeBoardLimitReached || c == CodeBoardMemberLimitReached
}
