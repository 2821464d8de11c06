package event

import "time"

type Category string

const (
	CategoryTecnologia Category = "tecnologia"
	CategoryNegocios   Category = "negocios"
	CategoryDesign     Category = "design"
	CategoryMarketing  Category = "marketing"
	CategoryEducacao   Category = "educacao"
	CategoryComunidade Category = "comunidade"
	CategoryOutros     Category = "outros"
)

// Categories is the closed set of accepted values; nothing outside it is ever emitted.
var Categories = []Category{
	CategoryTecnologia,
	CategoryNegocios,
	CategoryDesign,
	CategoryMarketing,
	CategoryEducacao,
	CategoryComunidade,
	CategoryOutros,
}

type Format string

const (
	FormatPresencial Format = "PRESENCIAL"
	FormatOnline     Format = "ONLINE"
	FormatHibrido    Format = "HIBRIDO"
)

type PriceType string

const (
	PriceAPartirDe    PriceType = "a_partir_de"
	PriceUnico        PriceType = "unico"
	PriceNaoInformado PriceType = "nao_informado"
)

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ScrapedEventData is the normalized record produced for one event page.
// Empty strings / nil pointers stand for fields the page did not yield;
// they are never guessed.
type ScrapedEventData struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date,omitempty"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`

	City      string `json:"city"`
	State     string `json:"state"`
	Address   string `json:"address,omitempty"`
	VenueName string `json:"venue_name,omitempty"`

	Category Category `json:"category,omitempty"`
	Topics   []string `json:"topics,omitempty"`

	IsFree     bool      `json:"is_free"`
	PriceType  PriceType `json:"price_type,omitempty"`
	PriceValue *float64  `json:"price_value,omitempty"`

	TicketURL string `json:"ticket_url,omitempty"`
	EventURL  string `json:"event_url"`
	ImageURL  string `json:"image_url,omitempty"`

	OrganizerName string `json:"organizer_name"`
	OrganizerURL  string `json:"organizer_url,omitempty"`

	Format Format `json:"format"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	Slug string `json:"slug"`
}

// ScrapeMeta describes how one record was obtained and how much to trust it.
type ScrapeMeta struct {
	SourceURL           string     `json:"source_url"`
	ExtractedAt         time.Time  `json:"extracted_at"`
	HasStructuredSignal bool       `json:"has_structured_signal"`
	HasSocialMeta       bool       `json:"has_social_meta"`
	Confidence          Confidence `json:"confidence"`
}

// RequiredFieldCount is the size of the fixed required-field set used by
// confidence scoring.
const RequiredFieldCount = 9

// CountRequired returns how many of the fixed required fields
// {title, start_date, city, state, category, format, organizer_name,
// event_url, description} are populated.
func (d *ScrapedEventData) CountRequired() int {
	n := 0
	for _, s := range []string{
		d.Title,
		d.StartDate,
		d.City,
		d.State,
		string(d.Category),
		string(d.Format),
		d.OrganizerName,
		d.EventURL,
		d.Description,
	} {
		if s != "" {
			n++
		}
	}
	return n
}

// Viable reports whether the minimal viable subset (title, start date,
// city, state) was resolved. Anything less is an extraction failure,
// not a low-confidence success.
func (d *ScrapedEventData) Viable() bool {
	return d.Title != "" && d.StartDate != "" && d.City != "" && d.State != ""
}
