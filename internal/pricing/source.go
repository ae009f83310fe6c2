// Package pricing produces simulated stock prices.
package pricing

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
)

// MaxPrice is the exclusive upper bound of a simulated price
const MaxPrice = 100

// ErrPriceUnavailable is returned when a source cannot produce a price
var ErrPriceUnavailable = errors.New("price unavailable")

// PriceSource produces the current price of a stock
type PriceSource interface {
	Price(ctx context.Context) (int, error)
}

// Quote is the body of a successful price check
type Quote struct {
	StockPrice int `json:"stock_price"`
}

// RandomSource mocks a price feed with a uniform integer in [0, MaxPrice)
type RandomSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomSource creates a source backed by the runtime's global generator
func NewRandomSource() *RandomSource {
	return &RandomSource{}
}

// NewRandomSourceWithRand creates a source backed by r.
// Access to r is serialized, since *rand.Rand is not safe for concurrent use.
func NewRandomSourceWithRand(r *rand.Rand) *RandomSource {
	return &RandomSource{rnd: r}
}

// Price returns floor(u * MaxPrice) for u uniform in [0, 1)
func (s *RandomSource) Price(ctx context.Context) (int, error) {
	return int(s.draw() * MaxPrice), nil
}

func (s *RandomSource) draw() float64 {
	if s.rnd == nil {
		return rand.Float64()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64()
}

// StaticSource always returns the same price. Useful for local runs and tests.
type StaticSource int

// Price returns the fixed price
func (s StaticSource) Price(ctx context.Context) (int, error) {
	if s < 0 || s >= MaxPrice {
		return 0, ErrPriceUnavailable
	}
	return int(s), nil
}
