package service

import (
	"sync"

	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/db/models"
	"github.com/google/uuid"
)

// Pubsub fans committed transfer events out to in-process subscribers.
// Publish never blocks: a subscriber that falls behind misses events and has
// to catch up from the transfer ledger.
type Pubsub struct {
	mu   sync.RWMutex
	subs map[string]chan models.TransferEvent
}

func NewPubsub() *Pubsub {
	ps := &Pubsub{}
	ps.subs = make(map[string]chan models.TransferEvent)
	return ps
}

func (ps *Pubsub) Subscribe(ch chan models.TransferEvent) (subId string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	subId = uuid.NewString()
	ps.subs[subId] = ch
	return subId
}

func (ps *Pubsub) Unsubscribe(id string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.subs[id] == nil {
		return
	}
	close(ps.subs[id])
	delete(ps.subs, id)
}

// Publish returns the number of subscribers that could not take the event.
func (ps *Pubsub) Publish(msg models.TransferEvent) (dropped int) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	for _, ch := range ps.subs {
		select {
		case ch <- msg:
		default:
			dropped++
		}
	}
	return dropped
}
