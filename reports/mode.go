package reports

// Mode selects which report a request renders. It is resolved once per request.
type Mode int

const (
	ModeUnknown Mode = iota
	ModeGeneral
	ModePeople
)

func (m Mode) String() string {
	switch m {
	case ModeGeneral:
		return "general"
	case ModePeople:
		return "people"
	default:
		return "unknown"
	}
}

// ParseMode maps the raw "mode" query parameter to a Mode. A missing
// parameter means general; an unrecognised value (including "") is Unknown
// and renders no report content.
func ParseMode(value string, present bool) Mode {
	if !present {
		return ModeGeneral
	}
	switch value {
	case "general":
		return ModeGeneral
	case "people":
		return ModePeople
	default:
		return ModeUnknown
	}
}
