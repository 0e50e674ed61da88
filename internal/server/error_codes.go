package server

const (
	// Validation (1xxx)
	ErrCodeInvalidArgument      = 1000
	ErrCodeInvalidJSON          = 1001
	ErrCodeRequestTooLarge      = 1002
	ErrCodeInvalidQuery         = 1003
	ErrCodeInvalidID            = 1004
	ErrCodeInvalidStatus        = 1005
	ErrCodeInvalidTag           = 1006
	ErrCodeMissingRequired      = 1007
	ErrCodeInvalidCursor        = 1008
	ErrCodeInvalidAttachmentRef = 1009

	// Domain state (2xxx)
	ErrCodeIdeaNotFound       = 2001
	ErrCodeAttachmentNotFound = 2002
	ErrCodeIdeaIDExists       = 2101
	ErrCodeConflict           = 2102
	ErrCodeInvalidTransition  = 2103

	// Auth & limits (3xxx)
	ErrCodeUnauthorized      = 3001
	ErrCodeForbidden         = 3002
	ErrCodeResourceExhausted = 3003

	// Internal/system (4xxx)
	ErrCodeInternal       = 4001
	ErrCodeStoreFailure   = 4002
	ErrCodeExportFailed   = 4003
	ErrCodeNotImplemented = 4004
)

func defaultErrorCodeByStatus(status int) int {
	switch status {
	case 400:
		return ErrCodeInvalidArgument
	case 401:
		return ErrCodeUnauthorized
	case 403:
		return ErrCodeForbidden
	case 404:
		return ErrCodeIdeaNotFound
	case 409:
		return ErrCodeConflict
	case 429:
		return ErrCodeResourceExhausted
	case 500:
		return ErrCodeInternal
	case 501:
		return ErrCodeNotImplemented
	default:
		return 0
	}
}
