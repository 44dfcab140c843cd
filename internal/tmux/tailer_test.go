package tmux

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"
)

func TestTailerNext(t *testing.T) {
	tl := NewTailer(nil, "s", 0, time.Second)

	steps := []struct {
		name    string
		capture []string
		want    []string
	}{
		{"baseline emits nothing", []string{"a", "b", "> "}, nil},
		{"unchanged", []string{"a", "b", "> "}, nil},
		{"cursor line grows, held back", []string{"a", "b", "> par"}, nil},
		{"cursor line settles", []string{"a", "b", "> partial", "c"}, []string{"> partial"}},
		{"scrolled window", []string{"> partial", "c", "d", "e", "> "}, []string{"c", "d", "e"}},
		{"repeated lines", []string{"e", "x", "x", "x", "> "}, []string{"x", "x", "x"}},
		{"screen cleared", []string{"fresh", "> "}, []string{"fresh"}},
	}
	for _, s := range steps {
		got := tl.Next(s.capture)
		if !reflect.DeepEqual(got, s.want) {
			t.Errorf("%s: Next() = %q, want %q", s.name, got, s.want)
		}
	}
}

type captureOps struct {
	SessionOps

	mu       sync.Mutex
	captures [][]string
	calls    int
}

func (c *captureOps) CapturePane(ctx context.Context, target string, lines int) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.calls >= len(c.captures) {
		return nil, errors.New("session gone")
	}
	capture := c.captures[c.calls]
	c.calls++
	return capture, nil
}

func TestTailerRun(t *testing.T) {
	ops := &captureOps{captures: [][]string{
		{"old", "> "},
		{"old", "one", "two", "> "},
		{"old", "one", "two", "three", "> "},
	}}
	tl := NewTailer(ops, "s", 100, time.Millisecond)

	out := make(chan string, 10)
	err := tl.Run(context.Background(), out)
	if err == nil || err.Error() != "session gone" {
		t.Fatalf("Run() = %v, want capture error", err)
	}
	close(out)

	var got []string
	for l := range out {
		got = append(got, l)
	}
	want := []string{"one", "two", "three"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("lines = %q, want %q", got, want)
	}
}

func TestTailerRun_CancelWhileBlocked(t *testing.T) {
	ops := &captureOps{captures: [][]string{
		{"> "},
		{"a", "b", "> "},
	}}
	tl := NewTailer(ops, "s", 0, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan string) // nobody reads
	done := make(chan error, 1)
	go func() { done <- tl.Run(ctx, out) }()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
