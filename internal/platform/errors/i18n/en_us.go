package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeInvalidBody             = "INVALID_REQUEST_BODY"
	CodeBoardTitleEmpty         = "BOARD_TITLE_EMPTY"
	CodeBoardInvalidColor       = "BOARD_INVALID_COLOR"
	CodeBoardLimitReached       = "USER_BOARD_LIMIT_REACHED"
	CodeBoardMemberLimitReached = "BOARD_MEMBER_LIMIT_REACHED"
	CodeInviteTargetRequired    = "INVITE_TARGET_REQUIRED"
	CodeInviteTargetConflict    = "INVITE_TARGET_CONFLICT"
	CodeInviteAlreadyMember     = "INVITE_ALREADY_MEMBER"
	CodeInviteAlreadyPending    = "INVITE_ALREADY_PENDING"
	CodeInviteAlreadyProcessed  = "INVITE_ALREADY_PROCESSED"
	CodeUserEmailAmbiguous      = "USER_EMAIL_AMBIGUOUS"
	CodeUserEmailUnknown        = "USER_EMAIL_UNKNOWN"
	CodeUserInvalidLocale       = "USER_INVALID_LOCALE"
	CodeListTitleEmpty          = "LIST_TITLE_EMPTY"
	CodeTaskTitleEmpty          = "TASK_TITLE_EMPTY"
	CodeTaskListMismatch        = "TASK_LIST_MISMATCH"
	CodeTaskNotAssignable       = "TASK_NOT_ASSIGNABLE"
	CodeUnauthenticated         = "UNAUTHENTICATED"
	CodeForbidden               = "FORBIDDEN"
	CodeNotFound                = "NOT_FOUND"
)

func init() {
	register(&Catalog{
		locale: "en-US",
		messages: map[Code]string{
			CodeInvalidBody: "Request body could not be parsed",

			// Board errors
			CodeBoardTitleEmpty:   "Board title cannot be empty",
			CodeBoardInvalidColor: "Board color must be a hex value like #FFFFFF",
			CodeBoardLimitReached: "Cannot create or join more than {{.MaxBoards}} boards",

			// Membership errors
			CodeBoardMemberLimitReached: "Cannot add more than {{.MaxMembers}} members to a board",

			// Invitation errors
			CodeInviteTargetRequired:   "Either an invited user or an email is required",
			CodeInviteTargetConflict:   "Provide either an invited user or an email, not both",
			CodeInviteAlreadyMember:    "User is already a member of this board",
			CodeInviteAlreadyPending:   "An invitation for this user to this board already exists",
			CodeInviteAlreadyProcessed: "This invitation is already processed",

			// User errors
			CodeUserEmailAmbiguous: "Multiple users found with email: {{.Email}}",
			CodeUserEmailUnknown:   "No user found with email: {{.Email}}",
			CodeUserInvalidLocale:  "Unsupported language: {{.Locale}}",

			// List errors
			CodeListTitleEmpty: "List title cannot be empty",

			// Task errors
			CodeTaskTitleEmpty:    "Task title cannot be empty",
			CodeTaskListMismatch:  "Tasks can only move between lists on the same board",
			CodeTaskNotAssignable: "Only board members can be assigned to tasks",

			// Access errors
			CodeUnauthenticated: "Authentication required",
			CodeForbidden:       "You do not have permission to perform this action",

			// Storage errors
			CodeNotFound: "Resource not found",
		},
	})
}
