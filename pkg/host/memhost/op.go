package memhost

// OpKind is the type of logged tree operation.
type OpKind uint8

const (
	OpCreateElement     OpKind = iota + 1 // New element node
	OpCreateText                          // New text node
	OpCreatePlaceholder                   // New placeholder anchor
	OpReplaceText                         // In-place text update
	OpSetField                            // Field assignment
	OpSubscribe                           // Event handler subscribed
	OpUnsubscribe                         // Event handler unsubscribed
	OpInsert                              // Node attached
	OpMove                                // Attached node relocated
	OpRemove                              // Node detached
	OpDestroy                             // Node slot freed
)

// String returns the string representation of the OpKind.
func (k OpKind) String() string {
	switch k {
	case OpCreateElement:
		return "CreateElement"
	case OpCreateText:
		return "CreateText"
	case OpCreatePlaceholder:
		return "CreatePlaceholder"
	case OpReplaceText:
		return "ReplaceText"
	case OpSetField:
		return "SetField"
	case OpSubscribe:
		return "Subscribe"
	case OpUnsubscribe:
		return "Unsubscribe"
	case OpInsert:
		return "Insert"
	case OpMove:
		return "Move"
	case OpRemove:
		return "Remove"
	case OpDestroy:
		return "Destroy"
	default:
		return "Unknown"
	}
}

// Op is one logged tree operation.
type Op struct {
	Kind   OpKind
	Node   Handle
	Parent Handle
	Anchor Handle
	Name   string // Field/event name, or element tag for creates
	Value  string // Stringified value for text/field ops
}
