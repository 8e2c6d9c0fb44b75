// Package probe implements fixed-interval TCP readiness checks against
// loopback ports.
package probe

import (
	"context"
	"fmt"
	"net"
	"time"

	"launchpad/pkg/logging"
)

// DefaultDialTimeout bounds a single connection attempt.
const DefaultDialTimeout = 500 * time.Millisecond

// DialFunc opens a connection; it matches (*net.Dialer).DialContext.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Prober checks whether something accepts TCP connections on 127.0.0.1.
type Prober struct {
	Host        string
	DialTimeout time.Duration

	dial  DialFunc
	sleep func(ctx context.Context, d time.Duration) bool
}

// New creates a Prober for the loopback interface.
func New() *Prober {
	return &Prober{Host: "127.0.0.1", DialTimeout: DefaultDialTimeout}
}

// WithDialer replaces the dial function, for tests.
func (p *Prober) WithDialer(dial DialFunc) *Prober {
	p.dial = dial
	return p
}

// Reachable makes a single connection attempt.
func (p *Prober) Reachable(ctx context.Context, port int) bool {
	return p.Probe(ctx, port, 1, 0)
}

// Probe tries to connect up to attempts times, sleeping delay between failed
// attempts (not after the last one). It returns true on the first successful
// connection and false once attempts are exhausted or ctx is done.
func (p *Prober) Probe(ctx context.Context, port int, attempts int, delay time.Duration) bool {
	address := net.JoinHostPort(p.host(), fmt.Sprintf("%d", port))
	for i := 0; i < attempts; i++ {
		if p.connect(ctx, address) {
			logging.Debug("Probe", "%s accepted a connection on attempt %d", address, i+1)
			return true
		}
		if i == attempts-1 {
			break
		}
		if !p.wait(ctx, delay) {
			return false
		}
	}
	return false
}

func (p *Prober) connect(ctx context.Context, address string) bool {
	timeout := p.DialTimeout
	if timeout <= 0 {
		timeout = DefaultDialTimeout
	}
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	dial := p.dial
	if dial == nil {
		dial = (&net.Dialer{}).DialContext
	}
	conn, err := dial(dialCtx, "tcp", address)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func (p *Prober) wait(ctx context.Context, d time.Duration) bool {
	if p.sleep != nil {
		return p.sleep(ctx, d)
	}
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func (p *Prober) host() string {
	if p.Host == "" {
		return "127.0.0.1"
	}
	return p.Host
}
