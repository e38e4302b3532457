package errors

var (
	// Auth
	ErrEmailTaken         = AlreadyExists("email is already in use")
	ErrInvalidCredentials = Unauthorized("invalid email or password")
	ErrNoSession          = Unauthorized("authentication required")

	// Tour requests
	ErrTravelerOnly     = Forbidden("only travelers can perform this action")
	ErrGuideOnly        = Forbidden("only guides can perform this action")
	ErrGuideNotFound    = NotFound("guide not found")
	ErrRequestNotFound  = NotFound("tour request not found or not yours")
	ErrAlreadyProcessed = FailedPrecondition("request already processed")
	ErrNotCancellable   = FailedPrecondition("request can no longer be cancelled")
	ErrNotCompletable   = FailedPrecondition("only accepted tours can be completed")

	// Chat
	ErrRoomNotFound   = NotFound("chat room not found")
	ErrNotParticipant = Forbidden("you are not a participant of this chat room")

	// Reviews
	ErrTourNotCompleted = FailedPrecondition("only completed tours can be reviewed")
	ErrReviewExists     = FailedPrecondition("review already submitted for this tour")
	ErrReviewNotFound   = NotFound("review not found or not yours")
)
