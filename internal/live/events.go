package live

import (
	"time"

	"tycoonhub/pkg/models"
)

const (
	// NewGameEventType announces an entry accepted during the current
	// scrape run.
	NewGameEventType = "catalog.new_game"
	// SyncDoneEventType announces the end of a scrape run.
	SyncDoneEventType = "catalog.sync_done"
)

type NewGameEvent struct {
	Type       string      `json:"type"`
	Game       models.Game `json:"game"`
	CoverImage string      `json:"cover_image"`
	At         time.Time   `json:"at"`
}

func NewGame(g models.Game) NewGameEvent {
	return NewGameEvent{
		Type:       NewGameEventType,
		Game:       g,
		CoverImage: g.CoverImageURL(),
		At:         time.Now().UTC(),
	}
}

type SyncDoneEvent struct {
	Type  string    `json:"type"`
	Added int       `json:"added"`
	Total int       `json:"total"`
	At    time.Time `json:"at"`
}

func SyncDone(added, total int) SyncDoneEvent {
	return SyncDoneEvent{
		Type:  SyncDoneEventType,
		Added: added,
		Total: total,
		At:    time.Now().UTC(),
	}
}
