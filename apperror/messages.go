package apperror

var (
	ErrNotAuthenticated  = Unauthenticated("you must be signed in")
	ErrNotMessageSender  = Forbidden("only the sender can modify this message")
	ErrNotParticipant    = Forbidden("you are not a participant in this conversation")
	ErrMessagingBlocked  = Forbidden("messaging is blocked between these users")
	ErrContentTooLong    = Validation("message content too long (max 1000 characters)")
	ErrTooManyFiles      = Validation("a message can carry at most 5 attachments")
	ErrEmptyMessage      = Validation("message must have content or at least one valid attachment")
	ErrSelfConversation  = Validation("you cannot message yourself")
	ErrSelfBlock         = Validation("you can't block yourself")
	ErrSelfUnblock       = Validation("you can't unblock yourself")
	ErrInvalidImage      = Validation("unsupported image format, please use JPG, PNG, WebP, or GIF")
	ErrInvalidCredential = Unauthenticated("invalid email or password")
)
