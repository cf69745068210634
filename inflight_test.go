package authdash

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestInFlight_AcquireRelease(t *testing.T) {
	f := NewInFlight()
	release, err := f.Acquire("s1", "login")
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if !f.Busy("s1", "login") {
		t.Error("form should be busy")
	}
	if _, err := f.Acquire("s1", "login"); !errors.Is(err, ErrInFlight) {
		t.Errorf("second Acquire() = %v, want ErrInFlight", err)
	}

	// other forms and sessions are independent
	if r, err := f.Acquire("s1", "register"); err != nil {
		t.Errorf("other form: %v", err)
	} else {
		r()
	}
	if r, err := f.Acquire("s2", "login"); err != nil {
		t.Errorf("other session: %v", err)
	} else {
		r()
	}

	release()
	release() // idempotent
	if f.Busy("s1", "login") {
		t.Error("form still busy after release")
	}
	if _, err := f.Acquire("s1", "login"); err != nil {
		t.Errorf("Acquire() after release = %v", err)
	}
}

func TestInFlight_OneWinnerUnderContention(t *testing.T) {
	f := NewInFlight()
	var wins atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, err := f.Acquire("s", "change-username"); err == nil {
				wins.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()
	if wins.Load() != 1 {
		t.Errorf("%d goroutines acquired the lock, want 1", wins.Load())
	}
}

func TestInFlight_ZeroValue(t *testing.T) {
	var f InFlight
	release, err := f.Acquire("s", "f")
	if err != nil {
		t.Fatal(err)
	}
	release()
}
