package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/listing"
	"github.com/mmcdole/marquee/internal/search"
)

// ChannelObserver adapts engine callbacks, which fire on timer and fetch
// goroutines, to a channel drained by the Bubble Tea loop.
type ChannelObserver struct {
	ch chan tea.Msg

	// Messages that must not be lost wait here until Wait picks them up
	mu      sync.Mutex
	pending []tea.Msg
	ready   chan struct{}
}

// NewChannelObserver creates an observer with a buffer of size messages
func NewChannelObserver(size int) *ChannelObserver {
	return &ChannelObserver{
		ch:    make(chan tea.Msg, size),
		ready: make(chan struct{}, 1),
	}
}

// Send queues msg, dropping it when the buffer is full. Change signals
// carry no state and the model re-reads snapshots on every tick.
func (o *ChannelObserver) Send(msg tea.Msg) {
	select {
	case o.ch <- msg:
	default:
	}
}

// Post queues msg without ever dropping it. It never blocks, so it is safe
// to call from inside Update.
func (o *ChannelObserver) Post(msg tea.Msg) {
	o.mu.Lock()
	o.pending = append(o.pending, msg)
	o.mu.Unlock()

	select {
	case o.ready <- struct{}{}:
	default:
	}
}

func (o *ChannelObserver) next() (tea.Msg, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.pending) == 0 {
		return nil, false
	}
	msg := o.pending[0]
	o.pending = o.pending[1:]
	return msg, true
}

// Wait returns a command that delivers the next queued message. Posted
// messages go first.
func (o *ChannelObserver) Wait() tea.Cmd {
	return func() tea.Msg {
		for {
			if msg, ok := o.next(); ok {
				return msg
			}
			select {
			case <-o.ready:
			case msg := <-o.ch:
				return msg
			}
		}
	}
}

// OnSearch is a search.Session subscriber
func (o *ChannelObserver) OnSearch(search.Snapshot) {
	o.Send(SearchChangedMsg{})
}

// OnListing returns a listing.Listing subscriber for surface
func (o *ChannelObserver) OnListing(surface Surface) func(listing.Snapshot) {
	return func(listing.Snapshot) {
		o.Send(ListingChangedMsg{Surface: surface})
	}
}

// Navigate is a domain.Navigator
func (o *ChannelObserver) Navigate(intent domain.Intent) {
	o.Post(NavigateMsg{Intent: intent})
}
