package youtube

import (
	"fmt"
	"sync"
)

// CredentialUsage is a point-in-time view of one key's consumption
type CredentialUsage struct {
	Label    string
	Key      string // masked
	Consumed int64
	Capacity int64
}

// Exhausted reports whether the key has reached its cap
func (u CredentialUsage) Exhausted() bool {
	return u.Consumed >= u.Capacity
}

type credential struct {
	key      string
	consumed int64
}

// credentialPool owns per-key counters and the rotation cursor.
// Every read and write happens under mu; network I/O never does.
type credentialPool struct {
	mu          sync.Mutex
	credentials []credential
	capacity    int64
	cursor      int
}

func newCredentialPool(keys []string, capacity int64) *credentialPool {
	credentials := make([]credential, len(keys))
	for i, key := range keys {
		credentials[i] = credential{key: key}
	}

	return &credentialPool{
		credentials: credentials,
		capacity:    capacity,
	}
}

// acquire picks the next key with capacity left, starting at the cursor, and
// charges cost to it. The cursor moves one past the chosen key so consecutive
// calls spread across keys.
func (p *credentialPool) acquire(cost int64) (key string, index int, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(p.credentials)
	for i := 0; i < n; i++ {
		idx := (p.cursor + i) % n
		if p.credentials[idx].consumed >= p.capacity {
			continue
		}

		p.credentials[idx].consumed += cost
		p.cursor = (idx + 1) % n

		return p.credentials[idx].key, idx, nil
	}

	return "", -1, ErrQuotaExhausted
}

// remaining counts keys with consumption strictly below capacity
func (p *credentialPool) remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	count := 0
	for _, c := range p.credentials {
		if c.consumed < p.capacity {
			count++
		}
	}

	return count
}

// reset zeroes all counters. Only called at quota epoch rollover.
func (p *credentialPool) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range p.credentials {
		p.credentials[i].consumed = 0
	}
}

func (p *credentialPool) usage(index int) CredentialUsage {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.usageLocked(index)
}

func (p *credentialPool) snapshot() []CredentialUsage {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]CredentialUsage, len(p.credentials))
	for i := range p.credentials {
		out[i] = p.usageLocked(i)
	}

	return out
}

func (p *credentialPool) usageLocked(index int) CredentialUsage {
	c := p.credentials[index]

	return CredentialUsage{
		Label:    credentialLabel(index),
		Key:      maskKey(c.key),
		Consumed: c.consumed,
		Capacity: p.capacity,
	}
}

// credentialLabel is a stable, secret-free identifier for metrics and logs
func credentialLabel(index int) string {
	return fmt.Sprintf("key-%d", index)
}

func maskKey(key string) string {
	const visible = 4
	if len(key) <= visible {
		return "****"
	}

	return "****" + key[len(key)-visible:]
}
