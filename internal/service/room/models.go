package room

const (
	MessageTypeState        = "state"
	MessageTypeParticipants = "participants"
	MessageTypeVideo        = "video"
	MessageTypePlay         = "play"
	MessageTypePause        = "pause"
	MessageTypeSeek         = "seek"
)
