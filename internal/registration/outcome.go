package registration

import "github.com/diewo77/tutorconnect/validation"

// Variant selects how a notice is presented.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notice is a user-visible notification. Title and Description are message
// codes; Detail carries a raw message (e.g. a store error) shown instead of
// the description when set.
type Notice struct {
	Variant     Variant
	Title       string
	Description string
	Detail      string
}

func errorNotice(err error) *Notice {
	return &Notice{Variant: VariantDestructive, Title: "toast.error.title", Detail: err.Error()}
}

func missingInfoNotice() *Notice {
	return &Notice{Variant: VariantDestructive, Title: "toast.missing_info.title", Description: "toast.missing_info.desc"}
}

func createdNotice(role Role) *Notice {
	return &Notice{Variant: VariantDefault, Title: "toast.created.title", Description: "toast.created." + string(role)}
}

// Outcome is what an operation at the flow boundary resolves to. Errors never
// escape an operation; they are folded into Notice (and kept in Err for logs).
type Outcome struct {
	// Redirect is empty when the user stays on the current screen.
	Redirect Destination
	Notice   *Notice
	// Ignored is set when a role selection arrived while another was in flight.
	Ignored    bool
	Violations validation.Violations
	Err        error
}

// Label is a short classification for metrics and logs.
func (o Outcome) Label() string {
	switch {
	case o.Ignored:
		return "ignored"
	case !o.Violations.Empty():
		return "invalid"
	case o.Err != nil:
		return "error"
	case o.Redirect == DestAuth:
		return "unauthenticated"
	default:
		return "ok"
	}
}
