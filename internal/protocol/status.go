// Package protocol defines the JSON wire messages exchanged with clients and
// the numeric status codes carried in responses. The values are part of the
// wire contract and must not change.
package protocol

// Status codes, partitioned by category: 1xx room errors and outcomes,
// 2xx auth success, 3xx signup/info, 4xx invalid values and access control,
// 5xx bad command or date, 1200/1400/1401 generic request outcomes.
const (
	StatusRoomNotFound         = 101
	StatusReservationNotFound  = 102
	StatusRoomAdded            = 104
	StatusRoomModified         = 105
	StatusRoomDeleted          = 106
	StatusBalanceNotEnough     = 108
	StatusRoomCapacityFull     = 109
	StatusCancelOK             = 110
	StatusRoomExists           = 111
	StatusLoggedOut            = 201
	StatusSignedIn             = 230
	StatusSignedUp             = 231
	StatusUsernameDoesNotExist = 311
	StatusUserInfoChanged      = 312
	StatusInvalidValue         = 401
	StatusAccessDenied         = 403
	StatusInvalidCapacity      = 412
	StatusUserLeftRoom         = 413
	StatusWrongUserPassword    = 430
	StatusUsernameExists       = 451
	StatusBadCommand           = 503
	StatusOK                   = 1200
	StatusBadRequest           = 1400
	StatusUnauthorized         = 1401
)
