package core

import (
	"context"
	"time"
)

// RunSweep runs the liveness sweep until ctx is cancelled: sockets that
// missed an acknowledgment since the previous cycle are torn down, the rest
// are probed again. Cycles run sequentially; probes are bounded by the period
// so they cannot pile up across cycles.
func (rl *Relay) RunSweep(ctx context.Context, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.sweep(ctx, period)
		}
	}
}

func (rl *Relay) sweep(ctx context.Context, period time.Duration) {
	rl.mu.Lock()
	conns := make([]*Socket, 0, len(rl.conns))
	for s := range rl.conns {
		conns = append(conns, s)
	}
	rl.mu.Unlock()

	rl.log.Debug().Int("sockets", len(conns)).Msg("liveness sweep")

	for _, s := range conns {
		if !s.Alive() {
			// Name is written by the join handler on another goroutine; the
			// ID and IP are fixed at accept time and safe to read here.
			rl.log.Info().Str("socket", s.ID).Str("ip", s.IP).Msg("terminating unresponsive socket")
			s.Terminate()
			continue
		}

		s.SetAlive(false)
		go func(s *Socket) {
			probeCtx, cancel := context.WithTimeout(ctx, period)
			defer cancel()
			if err := s.Ping(probeCtx); err == nil {
				s.SetAlive(true)
			}
		}(s)
	}
}
