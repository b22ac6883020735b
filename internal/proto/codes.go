package proto

// ErrorDomain is the ErrorInfo domain of identity service errors.
const ErrorDomain = "identity.mhst"

// Error reasons carried in google.rpc.ErrorInfo.
const (
	ReasonInvalidEmail      = "ERROR_INVALID_EMAIL"
	ReasonWrongPassword     = "ERROR_WRONG_PASSWORD"
	ReasonUserNotFound      = "ERROR_USER_NOT_FOUND"
	ReasonUserDisabled      = "ERROR_USER_DISABLED"
	ReasonEmailAlreadyInUse = "ERROR_EMAIL_ALREADY_IN_USE"
	ReasonWeakPassword      = "ERROR_WEAK_PASSWORD"
	ReasonInvalidToken      = "ERROR_INVALID_TOKEN"
)
