package eviction

import "container/list"

// LRU evicts the least-recently-touched key, via a container/list
// recency queue; ties
// (equal recency cannot occur since Touch always moves to the front)
// are resolved by insertion order.
type LRU struct {
	ll    *list.List
	elems map[any]*list.Element
}

// NewLRU returns an empty LRU policy.
func NewLRU() *LRU {
	return &LRU{ll: list.New(), elems: make(map[any]*list.Element)}
}

func (p *LRU) Touch(key any) {
	if e, ok := p.elems[key]; ok {
		p.ll.MoveToFront(e)
		return
	}
	p.elems[key] = p.ll.PushFront(key)
}

func (p *LRU) Add(key any) {
	if _, ok := p.elems[key]; ok {
		return
	}
	p.elems[key] = p.ll.PushBack(key)
}

func (p *LRU) Remove(key any) {
	if e, ok := p.elems[key]; ok {
		p.ll.Remove(e)
		delete(p.elems, key)
	}
}

func (p *LRU) Evict() (any, bool) {
	e := p.ll.Back()
	if e == nil {
		return nil, false
	}
	key := e.Value
	p.ll.Remove(e)
	delete(p.elems, key)
	return key, true
}

func (p *LRU) Len() int { return p.ll.Len() }

func (p *LRU) Clear() {
	p.ll = list.New()
	p.elems = make(map[any]*list.Element)
}
