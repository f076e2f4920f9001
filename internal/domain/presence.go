package domain

import (
	"errors"
	"time"
)

var (
	ErrMemberNotFound = errors.New("member not found")
	ErrRoomFull       = errors.New("room is full")
	ErrAlreadyJoined  = errors.New("already joined")
)

// Participant is one connection's presence entry.
type Participant struct {
	SessionID string    `json:"sessionId"`
	Name      string    `json:"name"`
	Joined    bool      `json:"joined"`
	Admin     bool      `json:"admin"`
	JoinedAt  time.Time `json:"joinedAt"`
}

// Identity is the name shown in presence lists.
func (p Participant) Identity() string {
	if !p.Joined || p.Name == "" {
		return DefaultIdentity
	}
	return p.Name
}

// Presence tracks a room's connections in connection order and the single
// admin slot.
type Presence struct {
	entries    []*Participant
	admin      string
	maxMembers int
}

func NewPresence(maxMembers int) *Presence {
	return &Presence{
		entries:    make([]*Participant, 0, 8),
		maxMembers: maxMembers,
	}
}

// Connect registers sessionID as an unjoined participant.
func (p *Presence) Connect(sessionID string) error {
	if p.find(sessionID) != nil {
		return ErrAlreadyJoined
	}
	if p.maxMembers > 0 && len(p.entries) >= p.maxMembers {
		return ErrRoomFull
	}

	p.entries = append(p.entries, &Participant{
		SessionID: sessionID,
		JoinedAt:  time.Now(),
	})
	return nil
}

// Join names sessionID and returns the identity it was given, which differs
// from name when another participant already holds it.
func (p *Presence) Join(sessionID, name string) (string, error) {
	entry := p.find(sessionID)
	if entry == nil {
		return "", ErrMemberNotFound
	}

	entry.Name = uniqueName(name, func(candidate string) bool {
		for _, e := range p.entries {
			if e != entry && e.Joined && e.Name == candidate {
				return true
			}
		}
		return false
	})
	entry.Joined = true

	return entry.Name, nil
}

// Leave removes sessionID and reports whether it held the admin slot. The
// slot is left vacant.
func (p *Presence) Leave(sessionID string) (wasAdmin bool, err error) {
	idx := -1
	for i, e := range p.entries {
		if e.SessionID == sessionID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false, ErrMemberNotFound
	}

	// keep connection order for display
	p.entries = append(p.entries[:idx], p.entries[idx+1:]...)

	if p.admin == sessionID {
		p.admin = ""
		return true, nil
	}
	return false, nil
}

// SetAdmin gives the admin slot to sessionID.
func (p *Presence) SetAdmin(sessionID string) error {
	entry := p.find(sessionID)
	if entry == nil {
		return ErrMemberNotFound
	}

	if current := p.find(p.admin); current != nil {
		current.Admin = false
	}
	entry.Admin = true
	p.admin = sessionID
	return nil
}

// PromoteEarliest fills a vacant admin slot with the longest-connected
// participant.
func (p *Presence) PromoteEarliest() (Participant, bool) {
	if p.admin != "" || len(p.entries) == 0 {
		return Participant{}, false
	}

	next := p.entries[0]
	_ = p.SetAdmin(next.SessionID)
	return *next, true
}

func (p *Presence) IsAdmin(sessionID string) bool {
	return sessionID != "" && p.admin == sessionID
}

func (p *Presence) Admin() (Participant, bool) {
	entry := p.find(p.admin)
	if entry == nil {
		return Participant{}, false
	}
	return *entry, true
}

func (p *Presence) Get(sessionID string) (Participant, bool) {
	entry := p.find(sessionID)
	if entry == nil {
		return Participant{}, false
	}
	return *entry, true
}

// Identity returns the display identity of sessionID.
func (p *Presence) Identity(sessionID string) string {
	entry := p.find(sessionID)
	if entry == nil {
		return DefaultIdentity
	}
	return entry.Identity()
}

// Names lists every participant's identity in connection order.
func (p *Presence) Names() []string {
	names := make([]string, 0, len(p.entries))
	for _, e := range p.entries {
		names = append(names, e.Identity())
	}
	return names
}

func (p *Presence) Participants() []Participant {
	out := make([]Participant, 0, len(p.entries))
	for _, e := range p.entries {
		out = append(out, *e)
	}
	return out
}

func (p *Presence) Len() int {
	return len(p.entries)
}

func (p *Presence) find(sessionID string) *Participant {
	if sessionID == "" {
		return nil
	}
	for _, e := range p.entries {
		if e.SessionID == sessionID {
			return e
		}
	}
	return nil
}
