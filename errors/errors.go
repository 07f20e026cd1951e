package errors

const (
	InvalidTokenError         = "Token is invalid"
	InvalidUserTokenError     = "Invalid user token"
	ExpiredTokenError         = "Verification token has expired"
	EmailAlreadyExist         = "Email already exists in database"
	InvalidCredentials        = "Invalid email or password"
	NotVerificatedUser        = "User wasn't verified yet"
	InvalidResendMailError    = "Invalid resend mail"
	NotFoundMailError         = "Email not found"
	NotMatchingPasswordsError = "Passwords do not match"
	InvalidRequestFormatError = "Invalid request format"
	BlackList                 = "Password is in the blacklist"

	InvalidDateRange     = "Check-out date must be after check-in date"
	CheckInInPast        = "Check-in date cannot be in the past"
	RoomTypeUnknown      = "Unknown room type"
	RoomNotAvailable     = "Selected room is no longer available"
	GuestCountOutOfRange = "Guest count exceeds room capacity"
	BookingNotFound      = "Booking not found"
	NotBookingOwner      = "Booking belongs to another user"
	BookingNotCancelable = "Only pending or confirmed bookings can be cancelled"
	BookingAlreadyBegun  = "Bookings can only be cancelled before check-in"

	ProfileNotFound    = "Profile not found"
	AvatarTooLarge     = "Avatar image exceeds the maximum allowed size"
	AvatarWrongType    = "Avatar must be an image file"
	TicketSubjectEmpty = "Subject cannot be empty"
	TicketBodyEmpty    = "Description cannot be empty"
)
