package audio

import "github.com/lixenwraith/bunny-coffee/event"

// Player is what the cue handler drives; *AudioEngine satisfies it
type Player interface {
	Play(SoundType) bool
}

// Cues maps shop events to sounds
type Cues struct {
	player Player
}

// NewCues binds a player
func NewCues(p Player) *Cues {
	return &Cues{player: p}
}

// CueFor returns the sound for an event type
func CueFor(et event.EventType) (SoundType, bool) {
	switch et {
	case event.EventProductCompleted:
		return SoundSale, true
	case event.EventApplianceLevelUp:
		return SoundLevelUp, true
	case event.EventPurchaseRejected:
		return SoundReject, true
	case event.EventEmployeeHired, event.EventApplianceBought, event.EventDecorationBought:
		return SoundPurchase, true
	}
	return 0, false
}

// EventTypes implements event.Handler
func (c *Cues) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventProductCompleted,
		event.EventApplianceLevelUp,
		event.EventPurchaseRejected,
		event.EventEmployeeHired,
		event.EventApplianceBought,
		event.EventDecorationBought,
	}
}

// HandleEvent implements event.Handler
func (c *Cues) HandleEvent(ev event.GameEvent) {
	if st, ok := CueFor(ev.Type); ok {
		c.player.Play(st)
	}
}
