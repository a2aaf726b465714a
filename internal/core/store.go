package core

import "github.com/kestrelflow/eventchain/internal/model"

// All methods in this file are internal, lock-free helpers: callers must
// already hold e.mu.

// getChain looks up a chain by ID.
func (e *Engine) getChain(id string) (*model.Chain, bool) {
	c, ok := e.chains[id]
	return c, ok
}

// getLiveEvent looks up a live event by ID.
func (e *Engine) getLiveEvent(id string) (*model.LiveEvent, bool) {
	le, ok := e.liveEvents[id]
	return le, ok
}

// ensureChain returns the chain for id, creating it if absent. canAutoActivate is only consulted on creation.
func (e *Engine) ensureChain(id, parentChainID string, canAutoActivate bool) *model.Chain {
	if c, ok := e.chains[id]; ok {
		return c
	}
	c := &model.Chain{
		ID:                   id,
		ParentChainID:        parentChainID,
		CanAutoActivate:      canAutoActivate,
		DuplicateEventsToAdd: make(map[string]model.EventBlock),
		VariablesByName:      make(map[string]any),
		CreatedAt:            e.clock(),
	}
	e.chains[id] = c
	return c
}

// isSubChain reports whether chainID names both a chain and a live event
// (invariant 4: a sub-chain's ID equals its parent live event's ID).
func (e *Engine) isSubChain(chainID string) bool {
	_, ok := e.liveEvents[chainID]
	return ok
}

// addEvents appends liveEventIDs for blocks to chain targetChainID,
// creating the chain if needed, handling duplicate-ID parking and priority
// insertion.
func (e *Engine) addEvents(targetChainID string, blocks []model.EventBlock, opts addEventsOptions) []string {
	// A sub-chain stays gated only while its parent live event is still in
	// "add"; afterTransition opens the gate once the parent leaves it.
	canAutoActivate := true
	if opts.parentLiveID != "" {
		parent, ok := e.liveEvents[opts.parentLiveID]
		canAutoActivate = ok && parent.NowRunMode != model.RunModeAdd
	}
	chain := e.ensureChain(targetChainID, opts.parentChainID, canAutoActivate)

	var assigned []string
	var toInsert []string

	for _, block := range blocks {
		liveID := block.Options.LiveID
		if liveID == "" {
			liveID = newID()
		}
		assigned = append(assigned, liveID)

		if existing, ok := e.liveEvents[liveID]; ok {
			// Duplicate-ID handling: park the new block, cancel the
			// existing live event; it is re-attempted on removal.
			chain.DuplicateEventsToAdd[liveID] = block
			e.setRunMode(existing, model.RunModeCancel)
			continue
		}

		// Block options win when set; otherwise fall back to the registered
		// type's defaults (defaultDuration, defaultTimePath, isParallel).
		// def is nil for built-ins like basic.returnValue, which carry no
		// type-level defaults of their own.
		def, _ := e.reg.GetEventType(block.Group, block.Name)
		isParallel := block.Options.IsParallel
		duration := block.Options.Duration
		timePath := block.Options.TimePath
		if def != nil {
			if !isParallel {
				isParallel = def.IsParallel
			}
			if duration == nil {
				duration = def.DefaultDuration
			}
			if timePath == nil {
				timePath = def.DefaultTimePath
			}
		}

		le := &model.LiveEvent{
			ID:              liveID,
			ChainID:         targetChainID,
			ParentChainID:   opts.parentChainID,
			Event:           block,
			NowRunMode:      model.RunModeAdd,
			IsParallel:      isParallel,
			Duration:        duration,
			ElapsedTimePath: timePath,
			AddedBy:         block.Options.AddedBy,
			AddTime:         e.clock(),
		}
		e.liveEvents[liveID] = le
		toInsert = append(toInsert, liveID)
		e.dispatchAdd(le)
	}

	if len(toInsert) > 0 {
		if blocks[0].Options.HasPriority {
			e.insertWithPriority(chain, toInsert)
		} else {
			chain.LiveEventIDs = append(chain.LiveEventIDs, toInsert...)
		}
	}

	e.runScheduler(chain.ID)
	return assigned
}

type addEventsOptions struct {
	parentChainID string
	parentLiveID  string // non-"" if targetChainID is a sub-chain of this live event
}

// insertWithPriority inserts newIDs immediately after the active prefix
// (the first non-active index), preserving their relative order.
func (e *Engine) insertWithPriority(chain *model.Chain, newIDs []string) {
	active := e.getActiveEventIDs(chain)
	insertAt := len(active)
	// insertAt is the position right after the longest active prefix: the
	// first index that is neither already past "add" (started, paused, ...)
	// nor in the add-mode selection about to be activated.
	activeSet := make(map[int]bool, len(active))
	for _, idx := range active {
		activeSet[idx] = true
	}
	insertAt = 0
	for insertAt < len(chain.LiveEventIDs) {
		if !activeSet[insertAt] {
			le, ok := e.getLiveEvent(chain.LiveEventIDs[insertAt])
			if !ok || le.NowRunMode == model.RunModeAdd {
				break
			}
		}
		insertAt++
	}

	head := append([]string(nil), chain.LiveEventIDs[:insertAt]...)
	tail := append([]string(nil), chain.LiveEventIDs[insertAt:]...)
	head = append(head, newIDs...)
	chain.LiveEventIDs = append(head, tail...)
}

// finalizeEvent removes liveID from its chain's queue and schedules removal
// of the live-event record itself on the next tick. Lock-free: every
// caller already holds e.mu, so the next-tick closure is appended directly
// rather than through Defer (which would re-acquire the lock this call is
// already running under).
func (e *Engine) finalizeEvent(le *model.LiveEvent) {
	if chain, ok := e.chains[le.ChainID]; ok {
		chain.RemoveLiveEvent(le.ID)
		e.drainIfEmpty(chain)
	}
	id := le.ID
	e.nextTick = append(e.nextTick, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.liveEvents, id)
	})
}

// drainIfEmpty removes chain if its queue is empty, resolving any pending
// getEventValue resolver with nil and re-admitting parked duplicates
// otherwise.
func (e *Engine) drainIfEmpty(chain *model.Chain) {
	if len(chain.LiveEventIDs) != 0 {
		e.readmitDuplicates(chain)
		e.runScheduler(chain.ID)
		return
	}
	if resolve, ok := e.resolveValueMap[chain.ID]; ok {
		delete(e.resolveValueMap, chain.ID)
		resolve(nil)
	}
	// A drained sub-chain releases its parent live event, which has been
	// waiting on it with goalEndTime +Inf; the next Tick ends the parent.
	if parent, ok := e.liveEvents[chain.ID]; ok && parent.GoalEndTime == model.Inf && e.pendingCounts[parent.ID] == 0 {
		e.setGoalEnd(parent, 0)
	}
	e.metrics.ChainClosed(float64(e.clock() - chain.CreatedAt))
	delete(e.chains, chain.ID)
}

// readmitDuplicates re-attempts any parked duplicate blocks whose original
// live event has since been removed from the store.
func (e *Engine) readmitDuplicates(chain *model.Chain) {
	for liveID, block := range chain.DuplicateEventsToAdd {
		if _, stillLive := e.liveEvents[liveID]; stillLive {
			continue
		}
		delete(chain.DuplicateEventsToAdd, liveID)
		b := block
		b.Options.LiveID = liveID
		e.addEvents(chain.ID, []model.EventBlock{b}, addEventsOptions{parentChainID: chain.ParentChainID})
	}
}

// storeAccessor adapts *Engine to vars.ChainAccessor for normal-mode chains.
type storeAccessor Engine

func (s *storeAccessor) e() *Engine { return (*Engine)(s) }

func (s *storeAccessor) Exists(chainID string) bool {
	_, ok := s.e().chains[chainID]
	return ok
}

func (s *storeAccessor) ParentChainID(chainID string) string {
	if c, ok := s.e().chains[chainID]; ok {
		return c.ParentChainID
	}
	return ""
}

func (s *storeAccessor) Variables(chainID string) map[string]any {
	if c, ok := s.e().chains[chainID]; ok {
		return c.VariablesByName
	}
	return nil
}

func (s *storeAccessor) SetVariable(chainID, name string, value any) {
	if c, ok := s.e().chains[chainID]; ok {
		if c.VariablesByName == nil {
			c.VariablesByName = make(map[string]any)
		}
		c.VariablesByName[name] = value
	}
}
