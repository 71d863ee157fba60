package session

// Event kinds broadcast to observers.
const (
	EventPausedChanged     = "paused_changed"
	EventStateSaved        = "state_saved"
	EventSavingSupported   = "saving_supported"
	EventRenderSizeChanged = "render_size_changed"
	EventOptionAdded       = "option_added"
	EventMessage           = "message"
	EventError             = "error"
)

// Event is a notification about session state. Only the fields relevant to
// Kind are set.
type Event struct {
	Kind      string   `json:"event"`
	Paused    bool     `json:"paused,omitempty"`
	Supported bool     `json:"supported,omitempty"`
	Width     int      `json:"width,omitempty"`
	Height    int      `json:"height,omitempty"`
	Path      string   `json:"path,omitempty"`
	Key       string   `json:"key,omitempty"`
	Value     string   `json:"value,omitempty"`
	Label     string   `json:"label,omitempty"`
	Choices   []string `json:"choices,omitempty"`
	Message   string   `json:"message,omitempty"`
}

// Subscribe registers fn to receive events. Observers run synchronously on
// the session goroutine and must not call back into the session.
func (s *Session) Subscribe(fn func(Event)) {
	s.observers = append(s.observers, fn)
}

func (s *Session) emit(ev Event) {
	for _, fn := range s.observers {
		fn(ev)
	}
}
