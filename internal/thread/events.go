package thread

// EventKind tells a listener what changed
type EventKind int

const (
	// EventForestChanged fires after every change to the comment forest
	EventForestChanged EventKind = iota
	// EventLoadingChanged fires when a root or reply load starts or ends
	EventLoadingChanged
	// EventViewChanged fires when a node is expanded or collapsed
	EventViewChanged
	// EventScrollToBottom asks the view to scroll to its end once it has
	// rendered the forest delivered by the preceding EventForestChanged
	EventScrollToBottom
	// EventScrollTo asks the view to bring CommentID into sight
	EventScrollTo
	// EventHighlightCleared fires when the navigation highlight expires
	EventHighlightCleared
)

func (k EventKind) String() string {
	switch k {
	case EventForestChanged:
		return "forest_changed"
	case EventLoadingChanged:
		return "loading_changed"
	case EventViewChanged:
		return "view_changed"
	case EventScrollToBottom:
		return "scroll_to_bottom"
	case EventScrollTo:
		return "scroll_to"
	case EventHighlightCleared:
		return "highlight_cleared"
	default:
		return "unknown"
	}
}

// Event is delivered to subscribers in emission order
type Event struct {
	Kind      EventKind
	CommentID string
}

// Listener receives controller events. It runs outside the controller lock
// and may call back into the controller.
type Listener func(Event)

type subscription struct {
	id int
	fn Listener
}
