package eviction

import "container/list"

// MRU evicts the most-recently-touched key, the mirror image of LRU:
// useful when a workload re-scans the same hot set and wants to evict
// what it just used rather than what it will use again soonest. Ties
// (equal recency) resolve by most-recent-insertion-order, the same as
// LRU's queue discipline in reverse.
type MRU struct {
	ll    *list.List
	elems map[any]*list.Element
}

// NewMRU returns an empty MRU policy.
func NewMRU() *MRU {
	return &MRU{ll: list.New(), elems: make(map[any]*list.Element)}
}

func (p *MRU) Touch(key any) {
	if e, ok := p.elems[key]; ok {
		p.ll.MoveToFront(e)
		return
	}
	p.elems[key] = p.ll.PushFront(key)
}

func (p *MRU) Add(key any) {
	if _, ok := p.elems[key]; ok {
		return
	}
	p.elems[key] = p.ll.PushBack(key)
}

func (p *MRU) Remove(key any) {
	if e, ok := p.elems[key]; ok {
		p.ll.Remove(e)
		delete(p.elems, key)
	}
}

func (p *MRU) Evict() (any, bool) {
	e := p.ll.Front()
	if e == nil {
		return nil, false
	}
	key := e.Value
	p.ll.Remove(e)
	delete(p.elems, key)
	return key, true
}

func (p *MRU) Len() int { return p.ll.Len() }

func (p *MRU) Clear() {
	p.ll = list.New()
	p.elems = make(map[any]*list.Element)
}
