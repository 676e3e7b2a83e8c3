package dispatcher

// pending correlates invocation ids with awaiting calls; only the event loop touches it
type pending struct {
	calls map[string]*Call
}

func newPending() *pending {
	return &pending{calls: make(map[string]*Call)}
}

func (p *pending) put(call *Call) {
	p.calls[call.ID()] = call
}

// take removes and returns the call, or nil when it was already resolved
func (p *pending) take(id string) *Call {
	call, ok := p.calls[id]
	if !ok {
		return nil
	}
	delete(p.calls, id)
	return call
}

func (p *pending) has(id string) bool {
	_, ok := p.calls[id]
	return ok
}

func (p *pending) size() int {
	return len(p.calls)
}

func (p *pending) drain() []*Call {
	ret := make([]*Call, 0, len(p.calls))
	for id, call := range p.calls {
		ret = append(ret, call)
		delete(p.calls, id)
	}
	return ret
}
