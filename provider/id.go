package provider

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDAllocator hands out item IDs unique within one session.
type IDAllocator struct {
	prefix string
	next   atomic.Uint64
}

// NewIDAllocator creates an allocator with a fresh session prefix.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{prefix: uuid.NewString()[:8]}
}

// Next returns the next unique item ID.
func (a *IDAllocator) Next() string {
	return fmt.Sprintf("%s-%d", a.prefix, a.next.Add(1))
}
