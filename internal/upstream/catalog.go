package upstream

import (
	"sort"
	"sync"
)

// Behavior is how the fake upstream answers for an account.
type Behavior int

const (
	WithData Behavior = iota
	WithoutData
	Denied
	Broken
)

type Profile struct {
	NativeID string
	Name     string
	Behavior Behavior
	Rows     int    // rows generated per day for WithData
	Failure  string // message for Broken
}

type Catalog struct {
	mu       sync.RWMutex
	profiles map[string]Profile
}

func NewCatalog(profiles ...Profile) *Catalog {
	c := &Catalog{profiles: make(map[string]Profile, len(profiles))}
	for _, p := range profiles {
		c.Put(p)
	}
	return c
}

// DefaultCatalog covers every outcome class. Accounts not listed are denied.
func DefaultCatalog() *Catalog {
	return NewCatalog(
		Profile{NativeID: "acc1", Name: "Account 1", Behavior: WithData, Rows: 10},
		Profile{NativeID: "acc2", Name: "Account 2", Behavior: WithoutData},
		Profile{NativeID: "acc3", Name: "Account 3", Behavior: Broken, Failure: "unknown error"},
		Profile{NativeID: "acc_no_data", Name: "Account acc_no_data", Behavior: WithoutData},
		Profile{NativeID: "acc_no_access", Name: "Account acc_no_access", Behavior: Denied},
		Profile{NativeID: "acc_unknown_error", Name: "Account acc_unknown_error", Behavior: Broken, Failure: "unknown error"},
	)
}

func (c *Catalog) Put(p Profile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profiles[p.NativeID] = p
}

func (c *Catalog) Lookup(id string) (Profile, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.profiles[id]
	return p, ok
}

// Visible lists accounts the API user can see, ordered by id.
func (c *Catalog) Visible() []Profile {
	c.mu.RLock()
	out := make([]Profile, 0, len(c.profiles))
	for _, p := range c.profiles {
		if p.Behavior != Denied {
			out = append(out, p)
		}
	}
	c.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].NativeID < out[j].NativeID })
	return out
}
