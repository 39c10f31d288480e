package registration

// Destination is a client-side route.
type Destination string

const (
	DestHome       Destination = "/"
	DestAuth       Destination = "/auth"
	DestRoleSelect Destination = "/role-select"
	DestSearch     Destination = "/search"
	DestDashboard  Destination = "/dashboard"
)

// Event is a navigation-relevant result of the onboarding flow.
type Event int

const (
	EventUnauthenticated Event = iota
	EventRoleChosen
	EventProfileSubmitted
)

// ProfilePath is the profile form route for role.
func ProfilePath(role Role) Destination {
	return Destination("/profile/" + string(role))
}

// Route maps a flow event to its destination. role is only consulted for
// EventRoleChosen and EventProfileSubmitted.
func Route(ev Event, role Role) Destination {
	switch ev {
	case EventRoleChosen:
		return ProfilePath(role)
	case EventProfileSubmitted:
		if role == RoleTutor {
			return DestDashboard
		}
		return DestSearch
	default:
		return DestAuth
	}
}

// BackFrom is where the back link of a screen leads.
func BackFrom(d Destination) Destination {
	switch d {
	case DestRoleSelect:
		return DestHome
	case ProfilePath(RoleStudent), ProfilePath(RoleTutor):
		return DestRoleSelect
	default:
		return DestHome
	}
}
