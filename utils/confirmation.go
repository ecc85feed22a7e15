package utils

import (
	"context"
	"sync"
	"time"
)

const (
	ConfirmEmoji = "✅"
	CancelEmoji  = "❌"
)

// ReactionConfirmations routes reaction events to commands waiting for a
// yes/no answer on a specific message.
type ReactionConfirmations struct {
	mu      sync.Mutex
	pending map[string]*PendingConfirmation
}

// PendingConfirmation is one outstanding question.
type PendingConfirmation struct {
	owner     *ReactionConfirmations
	messageID string
	userID    string
	result    chan bool
}

func NewReactionConfirmations() *ReactionConfirmations {
	return &ReactionConfirmations{pending: make(map[string]*PendingConfirmation)}
}

// Register starts listening for userID's answer on messageID. It must be
// called before the reactions are offered so no answer is missed.
func (c *ReactionConfirmations) Register(messageID, userID string) *PendingConfirmation {
	p := &PendingConfirmation{owner: c, messageID: messageID, userID: userID, result: make(chan bool, 1)}
	c.mu.Lock()
	c.pending[messageID] = p
	c.mu.Unlock()
	return p
}

// Resolve delivers a reaction. It reports whether the reaction answered a
// pending confirmation; reactions from other users or with other emoji are ignored.
func (c *ReactionConfirmations) Resolve(messageID, userID, emoji string) bool {
	if emoji != ConfirmEmoji && emoji != CancelEmoji {
		return false
	}
	c.mu.Lock()
	p, ok := c.pending[messageID]
	if !ok || p.userID != userID {
		c.mu.Unlock()
		return false
	}
	delete(c.pending, messageID)
	c.mu.Unlock()

	p.result <- emoji == ConfirmEmoji
	return true
}

// Len returns the number of unanswered confirmations.
func (c *ReactionConfirmations) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

func (c *ReactionConfirmations) forget(p *PendingConfirmation) {
	c.mu.Lock()
	if c.pending[p.messageID] == p {
		delete(c.pending, p.messageID)
	}
	c.mu.Unlock()
}

// Wait blocks until the user answers, timeout elapses or ctx ends.
// answered is false on timeout, which callers treat as cancellation.
func (p *PendingConfirmation) Wait(ctx context.Context, timeout time.Duration) (confirmed, answered bool) {
	defer p.owner.forget(p)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case confirmed := <-p.result:
		return confirmed, true
	case <-timer.C:
		return false, false
	case <-ctx.Done():
		return false, false
	}
}
