package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/marquee/internal/detail"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/listing"
)

// Command factories for async operations. Listing operations block until
// their batch resolves, so each runs in its own command goroutine.

const listingTimeout = 30 * time.Second

func listingCmd(surface Surface, op func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), listingTimeout)
		defer cancel()
		return ListingDoneMsg{Surface: surface, Err: op(ctx)}
	}
}

// LoadCmd fetches the first page of every source
func LoadCmd(l *listing.Listing, surface Surface) tea.Cmd {
	return listingCmd(surface, l.Load)
}

// LoadMoreCmd fetches the next page of every source with more pages
func LoadMoreCmd(l *listing.Listing, surface Surface) tea.Cmd {
	return listingCmd(surface, l.LoadMore)
}

// RetryCmd re-issues the failed batch
func RetryCmd(l *listing.Listing, surface Surface) tea.Cmd {
	return listingCmd(surface, l.Retry)
}

// RefreshCmd starts the listing over
func RefreshCmd(l *listing.Listing, surface Surface) tea.Cmd {
	return listingCmd(surface, l.Refresh)
}

// DetailCmd loads every section of item's detail page
func DetailCmd(svc *detail.Service, item domain.CatalogItem) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), listingTimeout)
		defer cancel()
		d, err := svc.Load(ctx, item)
		return DetailLoadedMsg{Key: item.Key(), Detail: d, Err: err}
	}
}

// TickCmd returns a command that sends a tick after the given duration
func TickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears the status after a delay
func ClearStatusCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
