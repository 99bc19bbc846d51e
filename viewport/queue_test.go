package viewport

import "testing"

func TestQueueDrainOrder(t *testing.T) {
	var got []int
	q := NewQueue(nil)
	q.Defer(func() { got = append(got, 1) })
	q.Defer(func() {
		got = append(got, 2)
		q.Defer(func() { got = append(got, 3) })
	})

	if n := q.Drain(); n != 2 {
		t.Fatalf("first drain ran %d, want 2", n)
	}
	if len(got) != 2 || q.Len() != 1 {
		t.Fatalf("got %v with %d pending", got, q.Len())
	}
	q.Drain()
	if len(got) != 3 || got[2] != 3 {
		t.Errorf("got %v, want [1 2 3]", got)
	}
	if n := q.Drain(); n != 0 {
		t.Errorf("empty drain ran %d", n)
	}
}

func TestQueueWake(t *testing.T) {
	wakes := 0
	q := NewQueue(func() { wakes++ })
	q.Defer(func() {})
	q.Defer(func() {})
	if wakes != 2 {
		t.Errorf("wakes = %d, want 2", wakes)
	}
}

func TestTriggerCoalesces(t *testing.T) {
	q := NewQueue(nil)
	fired := 0
	tr := NewTrigger(q, func() { fired++ })

	if !tr.Request() {
		t.Fatal("first request should arm")
	}
	for i := 0; i < 5; i++ {
		if tr.Request() {
			t.Fatal("request while armed should not arm again")
		}
	}
	if q.Len() != 1 || !tr.Pending() {
		t.Fatalf("queue len %d, pending %v", q.Len(), tr.Pending())
	}
	q.Drain()
	if fired != 1 || tr.Pending() {
		t.Fatalf("fired %d, pending %v", fired, tr.Pending())
	}
	if !tr.Request() {
		t.Error("request after firing should arm again")
	}
}

func TestTriggerRearmDuringFire(t *testing.T) {
	q := NewQueue(nil)
	fired := 0
	var tr *Trigger
	tr = NewTrigger(q, func() {
		fired++
		if fired == 1 {
			tr.Request()
		}
	})
	tr.Request()
	q.Drain()
	if !tr.Pending() || q.Len() != 1 {
		t.Fatal("request during fire should re-arm for the next drain")
	}
	q.Drain()
	if fired != 2 {
		t.Errorf("fired %d, want 2", fired)
	}
}
