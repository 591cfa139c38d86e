package dialog

// Event is one normalized inbound interaction. The transport maps its own
// update shapes (commands, free text, button callbacks) onto these three
// types before handing them to the engine.
type Event interface {
	isEvent()
	Owner() string
}

// SessionStart is an owner opening (or reopening) a conversation.
type SessionStart struct {
	OwnerID string
	Label   string
}

// TextInput is free-form text from an owner.
type TextInput struct {
	OwnerID string
	Text    string
}

// Selection is an owner picking a presented choice by its ID.
type Selection struct {
	OwnerID  string
	ChoiceID string
}

func (SessionStart) isEvent() {}
func (TextInput) isEvent()    {}
func (Selection) isEvent()    {}

func (e SessionStart) Owner() string { return e.OwnerID }
func (e TextInput) Owner() string    { return e.OwnerID }
func (e Selection) Owner() string    { return e.OwnerID }
