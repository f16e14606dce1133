package useragent

import (
	"strconv"
	"sync"
	"testing"
)

func TestCell_PublishOnce(t *testing.T) {
	var c Cell
	if _, ok := c.Load(); ok {
		t.Fatal("zero Cell should be empty")
	}
	if c.Publish("") {
		t.Error("Publish(\"\") stored an empty value")
	}
	if !c.Publish("first") {
		t.Fatal("first Publish returned false")
	}
	if c.Publish("second") {
		t.Error("second Publish returned true")
	}
	if v, ok := c.Load(); !ok || v != "first" {
		t.Errorf("Load() = %q, %v, want first, true", v, ok)
	}
}

func TestNewCell(t *testing.T) {
	if _, ok := NewCell("").Load(); ok {
		t.Error("NewCell(\"\") should be empty")
	}
	if v, _ := NewCell("ua").Load(); v != "ua" {
		t.Errorf("NewCell(ua).Load() = %q", v)
	}
}

func TestCell_ConcurrentPublish(t *testing.T) {
	var c Cell
	var wg sync.WaitGroup
	wins := make(chan string, 64)

	for i := 0; i < 64; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			v := "ua-" + strconv.Itoa(i)
			if c.Publish(v) {
				wins <- v
			}
		}(i)
		go func() {
			defer wg.Done()
			c.Load()
		}()
	}
	wg.Wait()
	close(wins)

	var winners []string
	for w := range wins {
		winners = append(winners, w)
	}
	if len(winners) != 1 {
		t.Fatalf("%d publishes succeeded, want 1", len(winners))
	}
	if v, _ := c.Load(); v != winners[0] {
		t.Errorf("Load() = %q, want winner %q", v, winners[0])
	}
}
