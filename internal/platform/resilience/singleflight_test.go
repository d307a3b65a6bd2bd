package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_Do(t *testing.T) {
	var g SingleFlight[[]byte]
	var counter int32

	const workers = 20
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			got, err, _ := g.Do("MPL/Indonesia/Season_13", func() ([]byte, error) {
				atomic.AddInt32(&counter, 1)
				time.Sleep(20 * time.Millisecond)
				return []byte("ok"), nil
			})
			if err != nil {
				t.Errorf("singleflight call failed: %v", err)
			}
			if string(got) != "ok" {
				t.Errorf("unexpected shared value %q", got)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&counter); got != 1 {
		t.Fatalf("expected function to run once, got %d", got)
	}
}

func TestSingleFlight_KeyReusableAfterCompletion(t *testing.T) {
	var g SingleFlight[int]
	for i := 1; i <= 2; i++ {
		got, err, shared := g.Do("page", func() (int, error) { return i, nil })
		if err != nil || shared || got != i {
			t.Fatalf("call %d: got=%d shared=%v err=%v", i, got, shared, err)
		}
	}
}
