package rest

// FlagStatusFlagged marks a message for follow-up.
const FlagStatusFlagged = "Flagged"

// timeZoneUTC is the zone name sent with every flag timestamp.
const timeZoneUTC = "UTC"

// PatchMessageRequest is the body of PATCH /v2.0/me/messages/{id}
// when only the follow-up flag changes.
type PatchMessageRequest struct {
	Flag FollowupFlag `json:"Flag"`
}

// FollowupFlag is the Outlook REST v2.0 FollowupFlag resource.
type FollowupFlag struct {
	FlagStatus    string           `json:"FlagStatus"`
	StartDateTime DateTimeTimeZone `json:"StartDateTime"`
	DueDateTime   DateTimeTimeZone `json:"DueDateTime"`
}

// DateTimeTimeZone pairs a timestamp with the zone it is expressed in.
type DateTimeTimeZone struct {
	DateTime string `json:"DateTime"`
	TimeZone string `json:"TimeZone"`
}
