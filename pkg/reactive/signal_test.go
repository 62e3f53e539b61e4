package reactive

import (
	"sync"
	"testing"
)

func TestSignalBasic(t *testing.T) {
	count := NewSignal(0)

	if count.Get() != 0 {
		t.Errorf("expected initial value 0, got %d", count.Get())
	}

	count.Set(5)
	if count.Get() != 5 {
		t.Errorf("expected value 5, got %d", count.Get())
	}

	count.Update(func(n int) int { return n * 2 })
	if count.Get() != 10 {
		t.Errorf("expected value 10, got %d", count.Get())
	}
}

func TestSignalSubscribe(t *testing.T) {
	count := NewSignal(0)

	var got []int
	count.Subscribe(func(v int) { got = append(got, v) })

	count.Set(1)
	count.Set(2)

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("expected notifications [1 2], got %v", got)
	}
}

func TestSignalNoNotifyWhenUnchanged(t *testing.T) {
	name := NewSignal("a")

	notified := 0
	name.Subscribe(func(string) { notified++ })

	name.Set("a")
	if notified != 0 {
		t.Errorf("setting equal value should not notify, got %d notifications", notified)
	}

	name.Set("b")
	if notified != 1 {
		t.Errorf("expected 1 notification, got %d", notified)
	}
}

func TestSignalForceNotifiesEqualValue(t *testing.T) {
	name := NewSignal("a")

	notified := 0
	name.Subscribe(func(string) { notified++ })

	name.Force("a")
	if notified != 1 {
		t.Errorf("Force should notify even for an equal value, got %d notifications", notified)
	}
}

func TestSignalUnsubscribe(t *testing.T) {
	count := NewSignal(0)

	notified := 0
	stop := count.Subscribe(func(int) { notified++ })

	count.Set(1)
	stop()
	count.Set(2)

	if notified != 1 {
		t.Errorf("expected 1 notification after unsubscribe, got %d", notified)
	}

	// Unsubscribing twice is a no-op.
	stop()
	count.Set(3)
	if notified != 1 {
		t.Errorf("expected no notifications after double unsubscribe, got %d", notified)
	}
}

func TestSignalSubscriberOrder(t *testing.T) {
	count := NewSignal(0)

	var order []string
	count.Subscribe(func(int) { order = append(order, "first") })
	count.Subscribe(func(int) { order = append(order, "second") })

	count.Set(1)

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("expected registration-order notification, got %v", order)
	}
}

func TestSignalSliceEquality(t *testing.T) {
	items := NewSignal([]string{"a"})

	notified := 0
	items.Subscribe(func([]string) { notified++ })

	// DeepEqual slices: no change, no notification.
	items.Set([]string{"a"})
	if notified != 0 {
		t.Errorf("deep-equal slice should not notify, got %d", notified)
	}

	items.Set([]string{"a", "b"})
	if notified != 1 {
		t.Errorf("expected 1 notification, got %d", notified)
	}
}

func TestSignalWithEquals(t *testing.T) {
	// Compare only by length.
	items := NewSignal([]int{1}).WithEquals(func(a, b []int) bool {
		return len(a) == len(b)
	})

	notified := 0
	items.Subscribe(func([]int) { notified++ })

	items.Set([]int{2})
	if notified != 0 {
		t.Errorf("custom equality should suppress notification, got %d", notified)
	}

	items.Set([]int{1, 2})
	if notified != 1 {
		t.Errorf("expected 1 notification, got %d", notified)
	}
}

func TestSignalConcurrentSet(t *testing.T) {
	count := NewSignal(0)

	var mu sync.Mutex
	notified := 0
	count.Subscribe(func(int) {
		mu.Lock()
		notified++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			count.Update(func(v int) int { return v + n })
		}(i)
	}
	wg.Wait()

	if got := count.Get(); got != 1275 {
		t.Errorf("expected 1275 after concurrent updates, got %d", got)
	}
}
