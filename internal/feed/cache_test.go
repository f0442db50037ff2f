package feed

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeSource struct {
	latestCalls int
	seriesCalls int
	price       float64
	err         error
}

func (f *fakeSource) GetSeries(ctx context.Context, pair string, intervalMin, count int) ([]float64, error) {
	f.seriesCalls++
	return []float64{1.1, 1.2}, f.err
}

func (f *fakeSource) GetLatest(ctx context.Context, pair string) (float64, error) {
	f.latestCalls++
	return f.price, f.err
}

func TestCachedSourceHitsCacheWithinTTL(t *testing.T) {
	src := &fakeSource{price: 1.1005}
	cached := NewCachedSource(src, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		price, err := cached.GetLatest(ctx, "EUR/USD")
		if err != nil {
			t.Fatalf("GetLatest: %v", err)
		}
		if price != 1.1005 {
			t.Errorf("price = %v", price)
		}
	}
	if src.latestCalls != 1 {
		t.Errorf("upstream calls = %d, want 1", src.latestCalls)
	}
}

func TestCachedSourceExpires(t *testing.T) {
	src := &fakeSource{price: 1.1005}
	cached := NewCachedSource(src, 10*time.Millisecond)
	ctx := context.Background()

	if _, err := cached.GetLatest(ctx, "EUR/USD"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, err := cached.GetLatest(ctx, "EUR/USD"); err != nil {
		t.Fatal(err)
	}
	if src.latestCalls != 2 {
		t.Errorf("upstream calls = %d, want 2 after expiry", src.latestCalls)
	}
}

func TestCachedSourceDoesNotCacheErrors(t *testing.T) {
	src := &fakeSource{err: ErrUnavailable}
	cached := NewCachedSource(src, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := cached.GetLatest(ctx, "EUR/USD"); !errors.Is(err, ErrUnavailable) {
			t.Errorf("err = %v, want ErrUnavailable", err)
		}
	}
	if src.latestCalls != 2 {
		t.Errorf("upstream calls = %d, want 2 (errors must not be cached)", src.latestCalls)
	}
}

func TestCachedSourceSeriesPassthrough(t *testing.T) {
	src := &fakeSource{}
	cached := NewCachedSource(src, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := cached.GetSeries(ctx, "EUR/USD", 5, 21); err != nil {
			t.Fatal(err)
		}
	}
	if src.seriesCalls != 2 {
		t.Errorf("series calls = %d, want 2 (no caching on series)", src.seriesCalls)
	}
}
