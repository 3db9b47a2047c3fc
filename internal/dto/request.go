package dto

type CreateBookingRequest struct {
	Date              string   `json:"date" validate:"required"`
	StartHour         int      `json:"start_hour" validate:"gte=0,lte=23"`
	Duration          int      `json:"duration" validate:"required,gte=1,lte=4"`
	ParticipantNames  []string `json:"participant_names" validate:"required,min=1"`
	ReserverID        uint     `json:"reserver_id" validate:"required"`
	RequestedTotalFee *float64 `json:"requested_total_fee,omitempty"`
}

// UpdateBookingRequest is a partial edit; omitted fields are unchanged.
type UpdateBookingRequest struct {
	Date             *string  `json:"date,omitempty"`
	StartHour        *int     `json:"start_hour,omitempty"`
	Duration         *int     `json:"duration,omitempty"`
	ParticipantNames []string `json:"participant_names,omitempty"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason,omitempty"`
}

type CreateBlockRequest struct {
	Date        string `json:"date" validate:"required"`
	StartHour   int    `json:"start_hour" validate:"gte=0,lte=23"`
	Duration    int    `json:"duration" validate:"required,gte=1,lte=12"`
	BlockReason string `json:"block_reason" validate:"required"`
	BlockNotes  string `json:"block_notes,omitempty"`
}
