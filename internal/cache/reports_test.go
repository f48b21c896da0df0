package cache

import (
	"bytes"
	"testing"
	"time"
)

func TestReportsRoundTrip(t *testing.T) {
	c := NewReports(2, time.Minute)
	c.Put("osszesito:1", []byte("a"))
	got, ok := c.Get("osszesito:1")
	if !ok || !bytes.Equal(got, []byte("a")) {
		t.Fatalf("Get = %q, %v", got, ok)
	}
	if _, ok := c.Get("osszesito:2"); ok {
		t.Fatal("unexpected hit")
	}
}

func TestReportsEvictsOldest(t *testing.T) {
	c := NewReports(2, time.Minute)
	c.Put("a", []byte("a"))
	c.Put("b", []byte("b"))
	c.Get("a") // refresh a, b becomes oldest
	c.Put("c", []byte("c"))
	if _, ok := c.Get("b"); ok {
		t.Fatal("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a should have survived")
	}
	if c.Len() != 2 {
		t.Fatalf("Len = %d", c.Len())
	}
}

func TestReportsExpiry(t *testing.T) {
	c := NewReports(4, time.Nanosecond)
	c.Put("a", []byte("a"))
	time.Sleep(time.Millisecond)
	if _, ok := c.Get("a"); ok {
		t.Fatal("expired entry returned")
	}
	c.Put("b", []byte("b"))
	time.Sleep(time.Millisecond)
	if pruned := c.Prune(); pruned != 1 {
		t.Fatalf("Prune = %d", pruned)
	}
}
