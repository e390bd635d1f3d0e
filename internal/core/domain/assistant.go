package domain

// AssistantKind identifies which legal assistant a chat session belongs to.
// Each kind is an independent namespace: its own id prefix, default title,
// greeting, backend endpoint and current-session key.
type AssistantKind string

// Available assistant kinds.
const (
	// AssistantIPC looks up Indian Penal Code sections.
	AssistantIPC AssistantKind = "ipc"

	// AssistantBNS looks up Bharatiya Nyaya Sanhita sections.
	AssistantBNS AssistantKind = "bns"
)

// AllAssistantKinds returns every supported kind in display order.
func AllAssistantKinds() []AssistantKind {
	return []AssistantKind{AssistantIPC, AssistantBNS}
}

// ParseAssistantKind converts a string into an AssistantKind.
func ParseAssistantKind(s string) (AssistantKind, error) {
	k := AssistantKind(s)
	if !k.IsValid() {
		return "", ErrUnsupportedKind
	}
	return k, nil
}

// IsValid returns true if the kind is recognised.
func (k AssistantKind) IsValid() bool {
	switch k {
	case AssistantIPC, AssistantBNS:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k AssistantKind) String() string {
	return string(k)
}

// Description returns a human-readable name of the assistant.
func (k AssistantKind) Description() string {
	switch k {
	case AssistantIPC:
		return "IPC Legal Assistant"
	case AssistantBNS:
		return "BNS Legal Assistant"
	default:
		return "Unknown"
	}
}

// SessionIDPrefix returns the prefix used for generated session ids.
func (k AssistantKind) SessionIDPrefix() string {
	if k == AssistantBNS {
		return "bns_session_"
	}
	return "session_"
}

// DefaultTitle returns the placeholder title of a session without user text.
func (k AssistantKind) DefaultTitle() string {
	if k == AssistantBNS {
		return "New BNS Chat"
	}
	return "New Chat"
}

// Greeting returns the first bot message of a new session.
func (k AssistantKind) Greeting() string {
	if k == AssistantBNS {
		return "Hello! I'm your BNS Legal AI assistant. How can I help you today?"
	}
	return "Hello! I'm your Legal AI assistant. How can I help you today?"
}

// Endpoint returns the backend path the assistant posts audio to.
func (k AssistantKind) Endpoint() string {
	if k == AssistantBNS {
		return "/api/bns-chat"
	}
	return "/api/voice-chat"
}

// CurrentSessionKey returns the preference key tracking the active session.
func (k AssistantKind) CurrentSessionKey() string {
	return string(k) + ".current_session_id"
}
