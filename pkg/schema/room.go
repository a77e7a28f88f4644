package schema

// RoomAttendantStatusCount is the number of rooms in one housekeeping status
// bucket, as returned by GET /v2/mp/RAStatus.
type RoomAttendantStatusCount struct {
	Status string `json:"Status" validate:"required"`
	Text   string `json:"Text"`
	Sec    int    `json:"Sec" validate:"min=0"`
	Total  int    `json:"Total" validate:"min=0"`
}

// RoomSearchRecord is one row of GET /v2/mp/RASearchRoom/{start}/{end}.
// Dates are ISO-8601 strings exactly as the backend sends them.
// Flag* fields are booleans encoded as 0 or 1.
type RoomSearchRecord struct {
	Room          string `json:"Room" validate:"required"`
	ReservationID int    `json:"ReservationID"`
	StatusHK      string `json:"StatusHK" validate:"required"`
	StatusFO      string `json:"StatusFO" validate:"required"`
	StatusAll     string `json:"StatusAll"`
	RoomType      string `json:"RoomType"`
	GuestName     string `json:"GuestName"`
	ArrivalDate   string `json:"ArrivalDate"`
	DepartureDate string `json:"DepartureDate"`

	FlagDoubleLock       int `json:"FlagDoubleLock" validate:"oneof=0 1"`
	FlagDND              int `json:"FlagDND" validate:"oneof=0 1"`
	FlagRejectCleaning   int `json:"FlagRejectCleaning" validate:"oneof=0 1"`
	FlagNL               int `json:"FlagNL" validate:"oneof=0 1"`
	FlagGuestSick        int `json:"FlagGuestSick" validate:"oneof=0 1"`
	FlagGuestHandicap    int `json:"FlagGuestHandicap" validate:"oneof=0 1"`
	FlagMsg              int `json:"FlagMsg" validate:"oneof=0 1"`
	FlagGuestNoInfo      int `json:"FlagGuestNoInfo" validate:"oneof=0 1"`
	FlagHoneymooner      int `json:"FlagHoneymooner" validate:"oneof=0 1"`
	FlagComplain         int `json:"FlagComplain" validate:"oneof=0 1"`
	FlagSleepOut         int `json:"FlagSleepOut" validate:"oneof=0 1"`
	FlagLockedMinibar    int `json:"FlagLockedMinibar" validate:"oneof=0 1"`
	FlagMR               int `json:"FlagMR" validate:"oneof=0 1"`
	FlagTransactionClose int `json:"FlagTransactionClose" validate:"oneof=0 1"`

	BorrowedItem int     `json:"BorrowedItem"`
	History      int     `json:"History"`
	POSInCash    float64 `json:"POSInCash"`
	Viplevel     int     `json:"Viplevel"`

	NoteRoomMessage string `json:"NoteRoomMessage"`
	NotePrefer      string `json:"NotePrefer"`

	OOOTitle  string `json:"OOOTitle"`
	OOONote   string `json:"OOONote"`
	OOONumber int    `json:"OOONumber"`
	DateStart string `json:"DateStart"`
	DateEnd   string `json:"DateEnd"`
}

// DoNotDisturb reports whether the guest asked not to be disturbed.
func (r RoomSearchRecord) DoNotDisturb() bool { return r.FlagDND == 1 }

// OutOfOrder reports whether the room carries an out-of-order window.
func (r RoomSearchRecord) OutOfOrder() bool {
	return r.DateStart != "" || r.OOONumber > 0
}

// RoomUpdateCommand is the body of PUT /v2/mp/RARoomUpdate/{room}.
// All six fields are always serialized, empty strings included.
type RoomUpdateCommand struct {
	Room      string `json:"Room"`
	StatusHK  string `json:"StatusHK"`
	EditUser  string `json:"EditUser"`
	EditDate  string `json:"EditDate"`
	LogNote   string `json:"LogNote"`
	LogSource int    `json:"LogSource"`
}

// RoomUpdateResult is one row echoed back by the update endpoint.
type RoomUpdateResult struct {
	Room      string `json:"Room" validate:"required"`
	StatusHK  string `json:"StatusHK" validate:"required"`
	EditUser  string `json:"EditUser"`
	EditDate  string `json:"EditDate"`
	LogNote   string `json:"LogNote"`
	LogSource int    `json:"LogSource"`
}
