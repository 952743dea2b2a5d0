package views

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"threadhub/internal/thread"
)

// ThreadEventMsg carries one controller event into the Bubble Tea loop
type ThreadEventMsg struct {
	Event thread.Event
}

// EventBridge forwards controller events to the program, one message per
// Listen call, in emission order
type EventBridge struct {
	events      chan thread.Event
	done        chan struct{}
	unsubscribe func()
	once        sync.Once
}

// NewEventBridge subscribes to ctrl
func NewEventBridge(ctrl *thread.Controller) *EventBridge {
	b := &EventBridge{
		events: make(chan thread.Event, 64),
		done:   make(chan struct{}),
	}
	b.unsubscribe = ctrl.Subscribe(func(ev thread.Event) {
		select {
		case b.events <- ev:
		case <-b.done:
		}
	})
	return b
}

// Listen waits for the next event. Re-issue it after every ThreadEventMsg.
func (b *EventBridge) Listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case ev := <-b.events:
			return ThreadEventMsg{Event: ev}
		case <-b.done:
			return nil
		}
	}
}

// Close unsubscribes and releases any blocked listener
func (b *EventBridge) Close() {
	b.once.Do(func() {
		b.unsubscribe()
		close(b.done)
	})
}
