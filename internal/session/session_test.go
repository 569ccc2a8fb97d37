package session_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/model"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/session"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newMemory() (*session.Memory, *clock) {
	clk := &clock{t: time.Date(2026, 2, 27, 9, 0, 0, 0, time.UTC)}
	m := session.NewMemory(10 * time.Minute)
	m.Now = clk.now
	return m, clk
}

func TestSetGetExpire(t *testing.T) {
	m, clk := newMemory()
	want := session.State{
		QuestionID: "fomo",
		Question:   "Heb je FOMO gevoeld?",
		Options:    []string{"Ja", "Nee"},
		Kind:       model.KindMultipleChoice,
		Category:   "emotion",
		AskedAt:    clk.t,
	}
	m.Set("chat-1", want)

	got, ok := m.Get("chat-1")
	if !ok {
		t.Fatal("Get: state missing")
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("state (-want +got):\n%s", diff)
	}
	if _, ok := m.Get("chat-2"); ok {
		t.Error("Get returned state for unknown id")
	}

	m.Expire("chat-1")
	if _, ok := m.Get("chat-1"); ok {
		t.Error("state still present after Expire")
	}
}

func TestTTL(t *testing.T) {
	m, clk := newMemory()
	m.Set("chat-1", session.State{QuestionID: "q"})

	clk.t = clk.t.Add(9 * time.Minute)
	if _, ok := m.Get("chat-1"); !ok {
		t.Fatal("state expired before ttl")
	}
	clk.t = clk.t.Add(time.Minute)
	if _, ok := m.Get("chat-1"); ok {
		t.Error("state still live at ttl")
	}
	if m.Len() != 0 {
		t.Errorf("Len = %d, want expired state dropped", m.Len())
	}
}

func TestSweep(t *testing.T) {
	m, clk := newMemory()
	m.Set("old", session.State{QuestionID: "a"})
	clk.t = clk.t.Add(5 * time.Minute)
	m.Set("new", session.State{QuestionID: "b"})
	clk.t = clk.t.Add(6 * time.Minute)

	if n := m.Sweep(); n != 1 {
		t.Errorf("Sweep removed %d, want 1", n)
	}
	if _, ok := m.Get("new"); !ok {
		t.Error("live state removed by Sweep")
	}
}
