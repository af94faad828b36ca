package ir

// AgentID identifies the local writer. It is "agent:" followed by the hex
// ed25519 public key.
type AgentID string

// ActionKind names the kind of history action recorded against an entry.
type ActionKind string

const (
	ActionUpdate     ActionKind = "update"
	ActionDelete     ActionKind = "delete"
	ActionValidation ActionKind = "validation"
)

// ValidActionKinds defines allowed action kinds.
var ValidActionKinds = map[ActionKind]bool{
	ActionUpdate:     true,
	ActionDelete:     true,
	ActionValidation: true,
}

// ValidationStatus is the outcome carried by a validation action.
type ValidationStatus string

const (
	ValidationValid     ValidationStatus = "valid"
	ValidationRejected  ValidationStatus = "rejected"
	ValidationAbandoned ValidationStatus = "abandoned"
)

// ValidValidationStatuses defines allowed validation outcomes.
var ValidValidationStatuses = map[ValidationStatus]bool{
	ValidationValid:     true,
	ValidationRejected:  true,
	ValidationAbandoned: true,
}

// EntryStatus is the liveness of an entry derived from its history.
type EntryStatus string

const (
	EntryLive EntryStatus = "live"
	EntryDead EntryStatus = "dead"
)

// Entry is a stored record at its content address.
type Entry struct {
	Address   Address  `json:"address"`
	EntryType string   `json:"entry_type"`
	Content   IRObject `json:"content"`
	Author    AgentID  `json:"author"`
	Seq       int64    `json:"seq"`
}

// Action is an immutable history element appended against a target entry.
// Actions are content-addressed and signed by their author; an action's own
// address is a known address that never carries entry-level metadata.
type Action struct {
	Address   Address          `json:"address"`
	Kind      ActionKind       `json:"kind"`
	Target    Address          `json:"target"`
	NewEntry  Address          `json:"new_entry,omitempty"` // update only
	Status    ValidationStatus `json:"status,omitempty"`    // validation only
	Author    AgentID          `json:"author"`
	Seq       int64            `json:"seq"`
	Signature string           `json:"signature"`
}

// Body returns the signed, hashed portion of the action.
// Address and Signature are derived from it and therefore excluded.
func (a Action) Body() IRObject {
	body := IRObject{
		"kind":   IRString(a.Kind),
		"target": IRString(a.Target),
		"author": IRString(a.Author),
		"seq":    IRInt(a.Seq),
	}
	if a.NewEntry != "" {
		body["new_entry"] = IRString(a.NewEntry)
	}
	if a.Status != "" {
		body["status"] = IRString(a.Status)
	}
	return body
}

// Metadata is the entry-level history attached to an address.
// It only exists once at least one action targets the entry.
type Metadata struct {
	Address          Address          `json:"address"`
	EntryType        string           `json:"entry_type"`
	Entry            IRObject         `json:"entry"`
	Author           AgentID          `json:"author"`
	Updates          []Action         `json:"updates"`
	Deletes          []Action         `json:"deletes"`
	Validations      []Action         `json:"validations"`
	Status           EntryStatus      `json:"status"`
	ValidationStatus ValidationStatus `json:"validation_status,omitempty"`
}

// NewMetadata folds an entry and its ordered history into Metadata.
// Actions must already be sorted by seq.
func NewMetadata(entry Entry, actions []Action) *Metadata {
	md := &Metadata{
		Address:     entry.Address,
		EntryType:   entry.EntryType,
		Entry:       entry.Content,
		Author:      entry.Author,
		Updates:     []Action{},
		Deletes:     []Action{},
		Validations: []Action{},
		Status:      EntryLive,
	}
	for _, act := range actions {
		switch act.Kind {
		case ActionUpdate:
			md.Updates = append(md.Updates, act)
		case ActionDelete:
			md.Deletes = append(md.Deletes, act)
			md.Status = EntryDead
		case ActionValidation:
			md.Validations = append(md.Validations, act)
			md.ValidationStatus = act.Status
		}
	}
	return md
}
