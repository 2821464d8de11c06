package scrape

import (
	"strconv"
	"strings"
	"time"

	"github.com/eventscope/eventscope/pkg/event"
	"github.com/eventscope/eventscope/pkg/extract"
	"github.com/eventscope/eventscope/pkg/normalize"
	"github.com/eventscope/eventscope/pkg/price"
)

// assemble converts raw candidates into the final typed record. Candidates
// that fail normalization are dropped, never guessed at.
func assemble(f extract.Fields, pageText, sourceURL string, hasStructured, hasSocial bool, now time.Time) *Result {
	var d event.ScrapedEventData

	d.Title = f.Get(extract.FieldTitle)
	d.Description = f.Get(extract.FieldDescription)

	if date, ok := normalize.Date(f.Get(extract.FieldStartDate)); ok {
		d.StartDate = date
	}
	if date, ok := normalize.Date(f.Get(extract.FieldEndDate)); ok {
		d.EndDate = date
	}
	if t, ok := normalize.Time(f.Get(extract.FieldStartTime)); ok {
		d.StartTime = t
	}
	if t, ok := normalize.Time(f.Get(extract.FieldEndTime)); ok {
		d.EndTime = t
	}

	d.City = f.Get(extract.FieldCity)
	d.State = strings.ToUpper(f.Get(extract.FieldState))
	d.Address = f.Get(extract.FieldAddress)
	d.VenueName = f.Get(extract.FieldVenueName)

	d.Category, d.Topics = resolveCategory(f, pageText)
	d.Format = resolveFormat(f)

	assemblePrice(f, pageText, &d)

	d.TicketURL = f.Get(extract.FieldTicketURL)
	d.EventURL = f.Get(extract.FieldEventURL)
	if d.EventURL == "" {
		d.EventURL = sourceURL
	}
	d.ImageURL = f.Get(extract.FieldImageURL)
	d.OrganizerName = f.Get(extract.FieldOrganizerName)
	d.OrganizerURL = f.Get(extract.FieldOrganizerURL)

	d.Latitude = parseCoord(f.Get(extract.FieldLatitude))
	d.Longitude = parseCoord(f.Get(extract.FieldLongitude))

	// Derived once from the title; later edits never re-derive it here.
	d.Slug = normalize.Slug(d.Title)

	meta := event.ScrapeMeta{
		SourceURL:           sourceURL,
		ExtractedAt:         now,
		HasStructuredSignal: hasStructured,
		HasSocialMeta:       hasSocial,
	}
	meta.Confidence = Confidence(hasStructured, hasSocial, d.CountRequired())

	return &Result{Data: d, Meta: meta}
}

func resolveCategory(f extract.Fields, pageText string) (event.Category, []string) {
	var topics []string
	for _, t := range strings.Split(f.Get(extract.FieldTopics), ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			topics = append(topics, t)
		}
	}
	topics = dedupe(topics)

	if cat, ok := normalize.Category(f.Get(extract.FieldCategory)); ok {
		return cat, topics
	}
	// Structured markup rarely carries a category; classify page text.
	cat, classified := normalize.Classify(pageText)
	if len(topics) == 0 {
		topics = classified
	}
	return cat, topics
}

func resolveFormat(f extract.Fields) event.Format {
	if format, ok := normalize.AttendanceMode(f.Get(extract.FieldAttendanceMode)); ok {
		return format
	}
	hasAddress := f.Has(extract.FieldAddress) || f.Has(extract.FieldVenueName)
	return normalize.Format(hasAddress, f.Has(extract.FieldOnlineSignal))
}

// assemblePrice applies the shared price normalizer and the free-admission
// override. price_type is nao_informado only when the page never shows a
// numeric token anywhere; a price fragment with an unusable number keeps its
// classified type with a null value.
func assemblePrice(f extract.Fields, pageText string, d *event.ScrapedEventData) {
	if f.Get(extract.FieldIsFree) == "true" {
		d.IsFree = true
		d.PriceType = ""
		d.PriceValue = nil
		return
	}

	fragment := f.Get(extract.FieldPriceText)
	if fragment != "" {
		p := price.Parse(fragment)
		d.PriceType = event.PriceType(p.Type)
		if f.Get(extract.FieldPriceFrom) == "true" {
			d.PriceType = event.PriceAPartirDe
		}
		d.PriceValue = p.Value
		if p.Value == nil && !price.HasNumericToken(pageText) {
			d.PriceType = event.PriceNaoInformado
		}
		return
	}

	if !price.HasNumericToken(pageText) {
		d.PriceType = event.PriceNaoInformado
	}
}

func parseCoord(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func dedupe(list []string) []string {
	seen := make(map[string]bool, len(list))
	out := list[:0]
	for _, v := range list {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
