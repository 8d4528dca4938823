package apperror

type Code string

const (
	CodeUnauthenticated Code = "UNAUTHENTICATED"
	CodeForbidden       Code = "FORBIDDEN"
	CodeValidation      Code = "VALIDATION_ERROR"
	CodeNotFound        Code = "NOT_FOUND"
	CodeRemoteStore     Code = "REMOTE_STORE_ERROR"
	CodeInternal        Code = "INTERNAL"
)
