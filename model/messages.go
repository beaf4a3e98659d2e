package model

// StoreChangedMsg is sent after either store signals a change.
type StoreChangedMsg struct{}

type MessageSentMsg struct{}

type MCPInitializedMsg struct{}

type ServerTestedMsg struct {
	URL string
	OK  bool
}

type SessionRestoredMsg struct {
	Restored bool
}

type ClipboardCopiedMsg struct {
	Err error
}
