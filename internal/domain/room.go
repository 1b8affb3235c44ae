package domain

import (
	"sync"
	"time"
)

// Room is the shared playback truth of one room. Callers must hold the room
// lock for every read and mutation.
type Room struct {
	Id              string
	VideoId         *string
	PositionSeconds float64
	Playing         bool
	Participants    Participants
	MasterClientId  string
	// LastUpdate is the instant at which PositionSeconds was accurate.
	LastUpdate time.Time

	mu      sync.Mutex
	removed bool
}

func NewRoom(id, masterClientId string, now time.Time) *Room {
	return &Room{
		Id:              id,
		VideoId:         nil,
		PositionSeconds: 0,
		Playing:         false,
		Participants:    Participants{masterClientId},
		MasterClientId:  masterClientId,
		LastUpdate:      now,
	}
}

func (r *Room) Lock() {
	r.mu.Lock()
}

func (r *Room) Unlock() {
	r.mu.Unlock()
}

// MarkRemoved flags the room as reaped. A removed room must not be mutated
// again; holders of a stale pointer re-resolve it through the registry.
func (r *Room) MarkRemoved() {
	r.removed = true
}

func (r *Room) IsRemoved() bool {
	return r.removed
}

func (r *Room) IsEmpty() bool {
	return r.Participants.Length() == 0
}

// Advance folds the time elapsed since the last update into the position of a
// playing room and rebases it at now.
func (r *Room) Advance(now time.Time) {
	if r.Playing {
		r.PositionSeconds += ElapsedSince(r.LastUpdate, now)
	}
	r.LastUpdate = now
}

func (r *Room) SetVideo(videoId string, now time.Time) {
	r.VideoId = &videoId
	r.PositionSeconds = 0
	r.LastUpdate = now
}

func (r *Room) Play(now time.Time) {
	r.Advance(now)
	r.Playing = true
}

func (r *Room) Pause(now time.Time) {
	r.Advance(now)
	r.Playing = false
}

func (r *Room) Seek(position float64, now time.Time) {
	r.PositionSeconds = position
	r.LastUpdate = now
}

// State is the wire snapshot of a room sent to a joining client.
type State struct {
	Video        *string  `json:"video"`
	Timestamp    float64  `json:"timestamp"`
	Playing      bool     `json:"playing"`
	Participants []string `json:"participants"`
	Master       string   `json:"master"`
	LastUpdate   float64  `json:"last_update"`
}

func (r *Room) State() State {
	var video *string
	if r.VideoId != nil {
		v := *r.VideoId
		video = &v
	}

	return State{
		Video:        video,
		Timestamp:    r.PositionSeconds,
		Playing:      r.Playing,
		Participants: r.Participants.AsList(),
		Master:       r.MasterClientId,
		LastUpdate:   EpochSeconds(r.LastUpdate),
	}
}
