package event

import (
	"testing"
	"time"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	bus := NewBus()

	got := make(chan *RewardEvent, 2)
	bus.Subscribe(func(evt *RewardEvent) { got <- evt })
	bus.Subscribe(func(evt *RewardEvent) { got <- evt })

	want := &RewardEvent{UserID: 42, Type: "hearts", Amount: 5, Reason: "streak_milestone_3"}
	bus.Publish(want)

	for i := 0; i < 2; i++ {
		select {
		case evt := <-got:
			if evt.UserID != want.UserID || evt.Reason != want.Reason {
				t.Fatalf("event = %+v, want %+v", evt, want)
			}
		case <-time.After(time.Second):
			t.Fatal("subscriber not invoked")
		}
	}
}

func TestPublishNotBlockedBySlowSubscriber(t *testing.T) {
	bus := NewBus()

	release := make(chan struct{})
	bus.Subscribe(func(_ *RewardEvent) { <-release })

	done := make(chan struct{})
	go func() {
		bus.Publish(&RewardEvent{UserID: 1, Type: "hearts"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked by subscriber")
	}
	close(release)
}
