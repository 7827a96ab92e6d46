package service

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"trend_bot/internal/models"
)

type State struct {
	ready     atomic.Bool
	startedAt time.Time

	lastTickUnix atomic.Int64 // unix seconds

	mu     sync.RWMutex
	status models.Status
	subs   []func(models.Status)
}

func NewState() *State {
	s := &State{startedAt: time.Now()}
	s.ready.Store(false)
	return s
}

func (s *State) SetReady(v bool) { s.ready.Store(v) }
func (s *State) Ready() bool     { return s.ready.Load() }

func (s *State) TouchTick(t time.Time) { s.lastTickUnix.Store(t.Unix()) }
func (s *State) LastTick() time.Time {
	u := s.lastTickUnix.Load()
	if u == 0 {
		return time.Time{}
	}
	return time.Unix(u, 0)
}

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }

// Publish сохраняет снимок и раздаёт его подписчикам.
// NaN заменяются нулями, json их не кодирует.
func (s *State) Publish(st models.Status) {
	st.FastEMA = zeroNaN(st.FastEMA)
	st.SlowEMA = zeroNaN(st.SlowEMA)
	st.RSI = zeroNaN(st.RSI)

	s.mu.Lock()
	s.status = st
	subs := append([]func(models.Status){}, s.subs...)
	s.mu.Unlock()

	s.TouchTick(st.Time)
	for _, fn := range subs {
		fn(st)
	}
}

func (s *State) Status() models.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Subscribe: fn вызывается синхронно из Publish, не должна блокировать.
func (s *State) Subscribe(fn func(models.Status)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func zeroNaN(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
