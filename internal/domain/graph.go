package domain

// transitions is the full status graph. Anything not listed here is illegal,
// no matter who asks.
var transitions = map[Status][]Status{
	StatusNew:               {StatusInterviewing, StatusReady, StatusTerminated},
	StatusInterviewing:      {StatusReady, StatusTerminated},
	StatusReady:             {StatusPendingAcceptance, StatusReturned},
	StatusPendingAcceptance: {StatusOnboarding, StatusReady},
	StatusOnboarding:        {StatusProbation, StatusReturned},
	StatusProbation:         {StatusConfirmed, StatusPIP, StatusResigned, StatusTerminated},
	StatusConfirmed:         {StatusPIP, StatusResigned, StatusReturned},
	StatusPIP:               {StatusConfirmed, StatusTerminated, StatusResigned},
	StatusReturned:          {StatusReady, StatusPendingAcceptance},
	StatusResigned:          {},
	StatusTerminated:        {},
}

// jvMutable are the only statuses a JV partner may set directly
// (post-placement lifecycle only).
var jvMutable = map[Status]bool{
	StatusOnboarding: true,
	StatusProbation:  true,
	StatusConfirmed:  true,
	StatusPIP:        true,
	StatusResigned:   true,
	StatusReturned:   true,
}

// active are statuses where the candidate works at a JV, i.e. the only
// statuses where current_jv_id may be set.
var active = map[Status]bool{
	StatusOnboarding: true,
	StatusProbation:  true,
	StatusConfirmed:  true,
	StatusPIP:        true,
}

// AllStatuses in funnel order, used for dashboard counts.
var AllStatuses = []Status{
	StatusNew, StatusInterviewing, StatusReady, StatusPendingAcceptance,
	StatusOnboarding, StatusProbation, StatusConfirmed, StatusPIP,
	StatusResigned, StatusTerminated, StatusReturned,
}

// EndStatuses excludes a candidate from a JV's team view.
var EndStatuses = []Status{StatusResigned, StatusTerminated, StatusReturned}

func AllowedNext(s Status) []Status {
	next := transitions[s]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

func IsAllowed(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func IsTerminal(s Status) bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

func IsActive(s Status) bool { return active[s] }

func JVMutable(s Status) bool { return jvMutable[s] }

func ValidStatus(s Status) bool {
	_, ok := transitions[s]
	return ok
}
