package token

import (
	"errors"
	"sync"

	"github.com/rom-protocol/rom-go/pkg/async"
)

// JoinPolicy selects how a Composite combines its member outcomes.
type JoinPolicy int

const (
	// JoinAll resolves only when every member resolves; the first member
	// rejection rejects the composite and cancels the remaining members.
	JoinAll JoinPolicy = iota

	// JoinAllowFailures waits for every member to settle, swallowing
	// rejections; it rejects only when no member resolved at all.
	JoinAllowFailures

	// JoinFirst resolves with the first member to resolve and cancels the
	// rest; it rejects only when every member rejected.
	JoinFirst
)

// String returns the policy name.
func (p JoinPolicy) String() string {
	switch p {
	case JoinAll:
		return "ALL"
	case JoinAllowFailures:
		return "ALLOW_FAILURES"
	case JoinFirst:
		return "FIRST"
	default:
		return "UNKNOWN"
	}
}

// ErrNoMemberResolved is the rejection payload of a composite whose
// policy required at least one member to resolve and none did.
var ErrNoMemberResolved = errors.New("no member request resolved")

// Composite joins several correlation tokens under one policy and
// exposes a single completion for the group.
type Composite struct {
	policy  JoinPolicy
	members []Token
	comp    *async.Completion

	mu       sync.Mutex
	results  []any
	resolved int
	rejected int
}

// NewComposite joins the given tokens under the policy and starts
// observing their completions. The members are expected to be in flight
// already; their individual completions remain usable alongside the
// composite one.
func NewComposite(policy JoinPolicy, members ...Token) *Composite {
	c := &Composite{
		policy:  policy,
		members: members,
		comp:    async.NewCompletion(),
		results: make([]any, len(members)),
	}
	if len(members) == 0 {
		c.comp.Resolve([]any{})
		return c
	}
	for i, m := range members {
		go c.observe(i, m)
	}
	return c
}

// Completion returns the composite's settlement primitive.
func (c *Composite) Completion() *async.Completion {
	return c.comp
}

// Members returns the joined tokens in join order.
func (c *Composite) Members() []Token {
	return c.members
}

// CancelAll forwards Cancel to every member unconditionally. Terminal
// members ignore it; the composite then settles per its policy.
func (c *Composite) CancelAll() {
	for _, m := range c.members {
		m.Cancel()
	}
}

// observe waits for one member to settle and folds its outcome into the
// composite per the join policy.
func (c *Composite) observe(i int, m Token) {
	<-m.Completion().Done()
	value, err := m.Completion().Result()

	c.mu.Lock()
	if err != nil {
		c.rejected++
	} else {
		c.resolved++
		c.results[i] = value
	}
	resolved, rejected := c.resolved, c.rejected
	settled := resolved + rejected
	total := len(c.members)
	c.mu.Unlock()

	switch c.policy {
	case JoinAll:
		if err != nil {
			c.comp.Reject(err)
			c.cancelOthers(i)
			return
		}
		if resolved == total {
			c.comp.Resolve(c.snapshot())
		}
	case JoinAllowFailures:
		if settled < total {
			return
		}
		if resolved == 0 {
			c.comp.Reject(ErrNoMemberResolved)
			return
		}
		c.comp.Resolve(c.snapshot())
	case JoinFirst:
		if err == nil {
			if c.comp.Resolve([]any{value}) {
				c.cancelOthers(i)
			}
			return
		}
		if rejected == total {
			c.comp.Reject(err)
		}
	}
}

// snapshot copies the ordered result list; failed or unsettled slots
// stay nil.
func (c *Composite) snapshot() []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]any, len(c.results))
	copy(out, c.results)
	return out
}

// cancelOthers cancels every member except the one that settled the
// composite.
func (c *Composite) cancelOthers(settledIdx int) {
	for i, m := range c.members {
		if i != settledIdx {
			m.Cancel()
		}
	}
}
