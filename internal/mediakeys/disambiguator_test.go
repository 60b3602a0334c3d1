package mediakeys_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"podbridge/internal/mediakeys"
)

func TestSinglePressResolvesSingle(t *testing.T) {
	d := mediakeys.New(20 * time.Millisecond)
	intent, ok := d.Tap(context.Background(), mediakeys.KeyPlayPause)
	if !ok || intent != mediakeys.IntentSingle {
		t.Fatalf("Tap = (%v, %v), want (single, true)", intent, ok)
	}
}

func TestNextKeyResolvesDouble(t *testing.T) {
	d := mediakeys.New(20 * time.Millisecond)
	intent, ok := d.Tap(context.Background(), mediakeys.KeyNext)
	if !ok || intent != mediakeys.IntentDouble {
		t.Fatalf("Tap = (%v, %v), want (double, true)", intent, ok)
	}
}

func TestPreviousKeyResolvesTripleImmediately(t *testing.T) {
	d := mediakeys.New(time.Minute)
	start := time.Now()
	intent, ok := d.Tap(context.Background(), mediakeys.KeyPrevious)
	if !ok || intent != mediakeys.IntentTriple {
		t.Fatalf("Tap = (%v, %v), want (triple, true)", intent, ok)
	}
	if time.Since(start) > time.Second {
		t.Fatalf("triple press should resolve without waiting for the timeout")
	}
}

func TestTwoQuickPressesResolveDoubleForLastCaller(t *testing.T) {
	d := mediakeys.New(40 * time.Millisecond)

	var wg sync.WaitGroup
	results := make([]mediakeys.Intent, 2)
	oks := make([]bool, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], oks[i] = d.Tap(context.Background(), mediakeys.KeyPlayPause)
		}(i)
		time.Sleep(10 * time.Millisecond)
	}
	wg.Wait()

	resolved := 0
	for i := range results {
		if oks[i] {
			resolved++
			if results[i] != mediakeys.IntentDouble {
				t.Fatalf("resolved intent = %v, want double", results[i])
			}
		}
	}
	if resolved != 1 {
		t.Fatalf("expected exactly one resolved caller, got %d", resolved)
	}
}

func TestTapHonorsContextCancellation(t *testing.T) {
	d := mediakeys.New(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	var intent mediakeys.Intent
	var ok bool
	go func() {
		intent, ok = d.Tap(ctx, mediakeys.KeyPlayPause)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Tap did not return after cancellation")
	}
	if ok || intent != mediakeys.IntentNone {
		t.Fatalf("Tap = (%v, %v), want (none, false)", intent, ok)
	}
}

func TestClustersAreIndependent(t *testing.T) {
	d := mediakeys.New(20 * time.Millisecond)
	if intent, ok := d.Tap(context.Background(), mediakeys.KeyPlayPause); !ok || intent != mediakeys.IntentSingle {
		t.Fatalf("first cluster = (%v, %v), want (single, true)", intent, ok)
	}
	if intent, ok := d.Tap(context.Background(), mediakeys.KeyPlayPause); !ok || intent != mediakeys.IntentSingle {
		t.Fatalf("second cluster = (%v, %v), want (single, true)", intent, ok)
	}
}
