package board

import (
	"sync"
	"time"

	"github.com/litigio/tramita/pkg/client/api"
	"github.com/litigio/tramita/pkg/domain/types"
)

// Card is the rendered projection of one action row
type Card struct {
	ActionID      int64
	Title         string
	ClientName    string
	Reference     string
	CreatorName   string
	Status        types.ActionStatus
	ReviewComment string
	CreatedAt     time.Time
}

// CardFromAction projects a wire action onto a card. An unrecognized
// status value lands in the unstarted column.
func CardFromAction(a *api.Action) Card {
	status := types.ActionStatus(a.Status).Normalize()
	if !status.IsValid() {
		status = types.ActionStatusUnstarted
	}

	return Card{
		ActionID:      a.ID,
		Title:         a.Title,
		ClientName:    a.ClientName,
		Reference:     a.Reference,
		CreatorName:   a.CreatorName,
		Status:        status,
		ReviewComment: a.ReviewComment,
		CreatedAt:     a.CreatedAt,
	}
}

// Renderer receives card mutations as the mirror reconciles. An update
// is only emitted when a rendered field actually changed.
type Renderer interface {
	Insert(card Card)
	Update(card Card)
	Remove(actionID int64)
}

// Mirror is a session-local projection of the filtered action set. It
// is the single owner of its card state; the server row stays
// authoritative and every Apply converges the mirror to the snapshot
// it is given.
type Mirror struct {
	mu       sync.Mutex
	renderer Renderer
	cards    map[int64]Card
}

func NewMirror(renderer Renderer) *Mirror {
	return &Mirror{
		renderer: renderer,
		cards:    make(map[int64]Card),
	}
}

// Apply reconciles the mirror against a fresh authoritative snapshot
// with a minimal diff: approved or vanished actions drop their card,
// new actions gain one, and surviving cards re-render only when a
// field changed. Applying the same snapshot twice is a no-op.
func (m *Mirror) Apply(snapshot []api.Action) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fresh := make(map[int64]Card, len(snapshot))
	for i := range snapshot {
		action := &snapshot[i]
		if action.Approved() {
			continue
		}
		fresh[action.ID] = CardFromAction(action)
	}

	for id := range m.cards {
		if _, ok := fresh[id]; !ok {
			delete(m.cards, id)
			m.renderer.Remove(id)
		}
	}

	for id, card := range fresh {
		existing, ok := m.cards[id]
		if !ok {
			m.cards[id] = card
			m.renderer.Insert(card)
			continue
		}
		if existing != card {
			m.cards[id] = card
			m.renderer.Update(card)
		}
	}
}

// SetStatus relocates a card locally before the server has confirmed
// the transition. The next Apply confirms or corrects it.
func (m *Mirror) SetStatus(actionID int64, status types.ActionStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()

	card, ok := m.cards[actionID]
	if !ok || card.Status == status {
		return
	}
	card.Status = status
	m.cards[actionID] = card
	m.renderer.Update(card)
}

// Card returns the mirrored card for an action, if present
func (m *Mirror) Card(actionID int64) (Card, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	card, ok := m.cards[actionID]
	return card, ok
}

// Cards returns a copy of the current card set
func (m *Mirror) Cards() map[int64]Card {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[int64]Card, len(m.cards))
	for id, card := range m.cards {
		out[id] = card
	}
	return out
}
