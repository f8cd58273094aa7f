package question

import (
	"fmt"
	"sort"
	"strings"
)

// Pool is an immutable set of question records keyed by id.
type Pool struct {
	records map[string]Record
	order   []string
}

// NewPool validates records and indexes them by id. Duplicate ids and
// records failing Validate are reported as DataIntegrityError.
func NewPool(records []Record) (*Pool, error) {
	p := &Pool{
		records: make(map[string]Record, len(records)),
		order:   make([]string, 0, len(records)),
	}
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return nil, &DataIntegrityError{Source: "pool", Row: i + 1, Err: err}
		}
		if _, dup := p.records[r.ID]; dup {
			return nil, &DataIntegrityError{Source: "pool", Row: i + 1, Err: fmt.Errorf("duplicate question id %q", r.ID)}
		}
		p.records[r.ID] = r
		p.order = append(p.order, r.ID)
	}
	return p, nil
}

// Get returns the record for id.
func (p *Pool) Get(id string) (Record, bool) {
	r, ok := p.records[id]
	return r, ok
}

// Has reports whether id is in the pool.
func (p *Pool) Has(id string) bool {
	_, ok := p.records[id]
	return ok
}

// Len returns the number of questions.
func (p *Pool) Len() int {
	return len(p.order)
}

// IDs returns every question id in load order.
func (p *Pool) IDs() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// BySubject returns the ids of questions whose subject matches
// case-insensitively, in load order.
func (p *Pool) BySubject(subject string) []string {
	var out []string
	for _, id := range p.order {
		if strings.EqualFold(p.records[id].Subject, subject) {
			out = append(out, id)
		}
	}
	return out
}

// Subjects returns the distinct subjects, sorted.
func (p *Pool) Subjects() []string {
	seen := make(map[string]bool)
	for _, r := range p.records {
		if r.Subject != "" {
			seen[r.Subject] = true
		}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Filter returns a pool restricted to subject. The result may be empty.
func (p *Pool) Filter(subject string) *Pool {
	ids := p.BySubject(subject)
	sub := &Pool{
		records: make(map[string]Record, len(ids)),
		order:   ids,
	}
	for _, id := range ids {
		sub.records[id] = p.records[id]
	}
	return sub
}
