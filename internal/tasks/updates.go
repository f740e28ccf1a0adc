package tasks

import (
	"fmt"

	"github.com/desertthunder/trx/internal/services"
)

// ProgressUpdate represents a progress event during a sync cycle.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	CheckLists Phase = iota
	CheckPlaylist
	FetchItems
	ResolveItems
	ApplyPlaylist
	CommitState
	ExportList
)

func (p Phase) String() string {
	switch p {
	case CheckLists:
		return "check_lists"
	case CheckPlaylist:
		return "check_playlist"
	case FetchItems:
		return "fetch_items"
	case ResolveItems:
		return "resolve_items"
	case ApplyPlaylist:
		return "apply_playlist"
	case CommitState:
		return "commit_state"
	case ExportList:
		return "export_list"
	default:
		return ""
	}
}

func checkListsUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CheckLists,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching list directory (%d selected)...", total),
	}
}

func checkPlaylistUpdate(step, total int, list services.RemoteList) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CheckPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Checking playlist: %s", step, total, list.Name),
	}
}

func upToDateUpdate(step, total int, list services.RemoteList) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CheckPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s is up to date", step, total, list.Name),
	}
}

func fetchItemsUpdate(step, total int, list services.RemoteList) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchItems,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching items: %s", step, total, list.Name),
	}
}

func resolveItemsUpdate(step, total int, item services.RemoteItem) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveItems,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Matching: %s", step, total, item.Title),
	}
}

func applyPlaylistUpdate(name string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ApplyPlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Writing %d items to playlist: %s", count, name),
	}
}

func commitStateUpdate(slug string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CommitState,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Recording marker for %s", slug),
	}
}

func exportingListUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportList,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, name),
	}
}

func exportFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportList,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}
