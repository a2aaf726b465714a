package model

// Chain is an ordered queue of live-event IDs plus chain-scoped metadata
//. A chain whose ID equals some LiveEvent's ID is a sub-chain of that
// parent event (invariant 4).
type Chain struct {
	ID                   string
	LiveEventIDs         []string
	ParentChainID        string // "" if top-level
	CanAutoActivate      bool
	DuplicateEventsToAdd map[string]EventBlock // liveID -> parked block
	VariablesByName      map[string]any
	CreatedAt            int64 // wall-clock millis, for ChainClosed duration metrics
}

// HasLiveEvent reports whether liveID is currently in this chain's queue.
func (c *Chain) HasLiveEvent(liveID string) bool {
	for _, id := range c.LiveEventIDs {
		if id == liveID {
			return true
		}
	}
	return false
}

// RemoveLiveEvent deletes liveID from the queue, preserving order.
func (c *Chain) RemoveLiveEvent(liveID string) {
	out := c.LiveEventIDs[:0]
	for _, id := range c.LiveEventIDs {
		if id != liveID {
			out = append(out, id)
		}
	}
	c.LiveEventIDs = out
}

// IndexOf returns the position of liveID in the queue, or -1.
func (c *Chain) IndexOf(liveID string) int {
	for i, id := range c.LiveEventIDs {
		if id == liveID {
			return i
		}
	}
	return -1
}

// Clone returns a deep-enough copy for snapshotting.
func (c *Chain) Clone() *Chain {
	out := &Chain{
		ID:              c.ID,
		ParentChainID:   c.ParentChainID,
		CanAutoActivate: c.CanAutoActivate,
		CreatedAt:       c.CreatedAt,
	}
	out.LiveEventIDs = append([]string(nil), c.LiveEventIDs...)
	if c.DuplicateEventsToAdd != nil {
		out.DuplicateEventsToAdd = make(map[string]EventBlock, len(c.DuplicateEventsToAdd))
		for k, v := range c.DuplicateEventsToAdd {
			out.DuplicateEventsToAdd[k] = v
		}
	}
	if c.VariablesByName != nil {
		out.VariablesByName = make(map[string]any, len(c.VariablesByName))
		for k, v := range c.VariablesByName {
			out.VariablesByName[k] = v
		}
	}
	return out
}
