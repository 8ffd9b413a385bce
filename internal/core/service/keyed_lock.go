package service

import (
	"sync"

	"github.com/google/uuid"
)

const lockStripes = 64

// keyedLock serializes work per payment id using striped mutexes. Distinct
// payments hashing to the same stripe over-serialize, which is harmless.
type keyedLock struct {
	stripes [lockStripes]sync.Mutex
}

// Lock acquires the stripe for the given id and returns its unlock func
func (k *keyedLock) Lock(id uuid.UUID) func() {
	m := &k.stripes[stripeIndex(id)]
	m.Lock()
	return m.Unlock
}

func stripeIndex(id uuid.UUID) int {
	var h uint32
	for _, b := range id {
		h = h*31 + uint32(b)
	}
	return int(h % lockStripes)
}
