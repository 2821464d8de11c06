// Package extract pulls raw candidate fields out of rendered page content.
// Two passes run in order: the structured pass reads machine-readable markup
// (schema.org Event blocks, social-preview meta tags), then the heuristic
// pass scans visible text for whatever is still missing. Candidates are raw
// strings; pkg/normalize turns them into typed values.
package extract

type Origin string

const (
	OriginStructured Origin = "structured"
	OriginHeuristic  Origin = "heuristic"
)

// Candidate field names.
const (
	FieldTitle          = "title"
	FieldDescription    = "description"
	FieldStartDate      = "start_date"
	FieldEndDate        = "end_date"
	FieldStartTime      = "start_time"
	FieldEndTime        = "end_time"
	FieldCity           = "city"
	FieldState          = "state"
	FieldAddress        = "address"
	FieldVenueName      = "venue_name"
	FieldPriceText      = "price_text"
	FieldPriceFrom      = "price_from"
	FieldIsFree         = "is_free"
	FieldTicketURL      = "ticket_url"
	FieldEventURL       = "event_url"
	FieldImageURL       = "image_url"
	FieldOrganizerName  = "organizer_name"
	FieldOrganizerURL   = "organizer_url"
	FieldLatitude       = "latitude"
	FieldLongitude      = "longitude"
	FieldAttendanceMode = "attendance_mode"
	FieldOnlineSignal   = "online_signal"
	FieldCategory       = "category"
	FieldTopics         = "topics"
)

// Candidate is one raw extracted value, tagged with where it came from.
// Discarded after normalization.
type Candidate struct {
	Name   string
	Raw    string
	Origin Origin
}

// Fields collects candidates by name. The first writer wins, which is what
// makes "structured beats heuristic" hold: the structured pass always runs
// first.
type Fields map[string]Candidate

func (f Fields) Set(name, raw string, origin Origin) {
	if raw == "" {
		return
	}
	if _, taken := f[name]; taken {
		return
	}
	f[name] = Candidate{Name: name, Raw: raw, Origin: origin}
}

func (f Fields) Get(name string) string {
	return f[name].Raw
}

func (f Fields) Has(name string) bool {
	_, ok := f[name]
	return ok
}

func (f Fields) Origin(name string) Origin {
	return f[name].Origin
}
