package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus_PublishDeliversInOrder(t *testing.T) {
	b := NewBus()
	var got []string

	b.Subscribe(SessionEnded, func(e Event) { got = append(got, "a:"+string(e.Reason)) })
	b.Subscribe(SessionEnded, func(e Event) { got = append(got, "b:"+string(e.Reason)) })
	b.Subscribe(Kind("other"), func(e Event) { got = append(got, "other") })

	b.Publish(Event{Kind: SessionEnded, Reason: ReasonLogout})

	assert.Equal(t, []string{"a:logout", "b:logout"}, got)
}

func TestBus_Unsubscribe(t *testing.T) {
	b := NewBus()
	calls := 0
	unsub := b.Subscribe(SessionEnded, func(Event) { calls++ })
	keep := 0
	b.Subscribe(SessionEnded, func(Event) { keep++ })

	b.Publish(Event{Kind: SessionEnded})
	unsub()
	unsub()
	b.Publish(Event{Kind: SessionEnded})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, keep)
}

func TestBus_HandlerMayPublish(t *testing.T) {
	b := NewBus()
	var seen []Kind
	b.Subscribe(SessionEnded, func(Event) { b.Publish(Event{Kind: "follow-up"}) })
	b.Subscribe("follow-up", func(e Event) { seen = append(seen, e.Kind) })

	b.Publish(Event{Kind: SessionEnded, Reason: ReasonExpired})

	assert.Equal(t, []Kind{"follow-up"}, seen)
}

func TestBus_NoSubscribers(t *testing.T) {
	assert.NotPanics(t, func() { NewBus().Publish(Event{Kind: SessionEnded}) })
}
