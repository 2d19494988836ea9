package constants

// User-facing messages. Internal detail never goes into these.
const (
	MsgGenericFailure      = "Something went wrong. Please try again."
	MsgInvalidCredentials  = "Invalid username or password"
	MsgCredentialsRequired = "Username and password are required"
	MsgTooManyAttempts     = "Too many login attempts. Please wait a minute."
	MsgInvalidCSRF         = "Your form expired. Please reload the page and try again."
	MsgNotFound            = "The requested item no longer exists"
	MsgUnknownAction       = "Unknown action"
	MsgForbidden           = "You are not allowed to do that"
	MsgInvalidID           = "Invalid item id"
)

const (
	MsgUsernameTaken       = "Username already exists"
	MsgEmailTaken          = "Email already exists"
	MsgIdentityTaken       = "Username or email already exists"
	MsgUsernamePending     = "Username is already awaiting approval"
	MsgEmailPending        = "Email is already awaiting approval"
	MsgCannotDeleteSelf    = "You cannot delete your own account"
	MsgMemberHasRequests   = "Member still has pending or approved equipment requests"
	MsgRegistrationQueued  = "Registration submitted! An administrator will review it shortly."
	MsgMemberApproved      = "Member approved"
	MsgMemberRejected      = "Registration rejected"
	MsgApprovalCollision   = "Cannot approve: username or email was claimed after this registration"
	MsgPhotoType           = "Photo must be a JPEG or PNG image"
	MsgPhotoSize           = "Photo must be 2MB or less"
	MsgPhotoUnreadable     = "Photo could not be read"
	MsgWelcomeNotification = "Your membership has been approved. Welcome to the club!"
	MsgMemberSaved         = "Member saved"
	MsgMemberDeleted       = "Member deleted"
)

const (
	MsgInsufficientStock   = "Requested quantity exceeds what is currently available"
	MsgEquipmentInUse      = "Equipment has pending or approved requests and cannot be deleted"
	MsgQuantityBelowLoaned = "Quantity cannot be lower than the number of units currently on loan"
	MsgRequestDecided      = "This request has already been processed"
	MsgRequestSubmitted    = "Equipment request submitted"
	MsgRequestApproved     = "Request approved"
	MsgRequestDenied       = "Request denied"
	MsgEquipmentSaved      = "Equipment saved"
	MsgEquipmentDeleted    = "Equipment deleted"
)

const (
	MsgAnnouncementSaved   = "Announcement saved"
	MsgAnnouncementDeleted = "Announcement deleted"
	MsgEventSaved          = "Event saved"
	MsgEventDeleted        = "Event deleted"
	MsgNotificationsRead   = "Notifications marked as read"
)
