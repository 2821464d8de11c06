package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

const structuredPage = `<!DOCTYPE html>
<html><head>
<title>DevConf BH 2026</title>
<meta property="og:title" content="DevConf BH 2026">
<meta property="og:description" content="Dois dias de palestras sobre tecnologia.">
<meta property="og:image" content="https://cdn.example.com/devconf.png">
<meta property="og:url" content="https://devconf.com.br/2026">
<link rel="canonical" href="https://devconf.com.br/2026">
<script type="application/ld+json">
{
  "@context": "https://schema.org",
  "@type": "Event",
  "name": "DevConf BH 2026",
  "description": "Dois dias de palestras sobre tecnologia e comunidade.",
  "startDate": "2026-05-09T09:00:00-03:00",
  "endDate": "2026-05-10T18:00:00-03:00",
  "eventAttendanceMode": "https://schema.org/OfflineEventAttendanceMode",
  "keywords": "tecnologia,comunidade",
  "location": {
    "@type": "Place",
    "name": "Centro de Convenções BH",
    "address": {
      "@type": "PostalAddress",
      "streetAddress": "Av. Augusto de Lima, 785",
      "addressLocality": "Belo Horizonte",
      "addressRegion": "MG"
    },
    "geo": {"@type": "GeoCoordinates", "latitude": -19.92, "longitude": -43.94}
  },
  "offers": {"@type": "Offer", "price": "150.00", "priceCurrency": "BRL", "url": "https://ingressos.example.com/devconf"},
  "organizer": {"@type": "Organization", "name": "Comunidade DevMG", "url": "https://devmg.org"},
  "image": "https://cdn.example.com/devconf.png",
  "url": "https://devconf.com.br/2026"
}
</script>
</head><body><h1>DevConf BH 2026</h1></body></html>`

func TestStructured_FullEvent(t *testing.T) {
	f := Fields{}
	hasStructured, hasSocial := Structured(mustDoc(t, structuredPage), f)

	if !hasStructured || !hasSocial {
		t.Fatalf("signals = (%v, %v), want both true", hasStructured, hasSocial)
	}

	want := map[string]string{
		FieldTitle:          "DevConf BH 2026",
		FieldStartDate:      "2026-05-09T09:00:00-03:00",
		FieldEndDate:        "2026-05-10T18:00:00-03:00",
		FieldVenueName:      "Centro de Convenções BH",
		FieldAddress:        "Av. Augusto de Lima, 785",
		FieldCity:           "Belo Horizonte",
		FieldState:          "MG",
		FieldPriceText:      "150.00",
		FieldTicketURL:      "https://ingressos.example.com/devconf",
		FieldOrganizerName:  "Comunidade DevMG",
		FieldOrganizerURL:   "https://devmg.org",
		FieldEventURL:       "https://devconf.com.br/2026",
		FieldImageURL:       "https://cdn.example.com/devconf.png",
		FieldLatitude:       "-19.92",
		FieldLongitude:      "-43.94",
		FieldAttendanceMode: "https://schema.org/OfflineEventAttendanceMode",
	}
	for name, raw := range want {
		if got := f.Get(name); got != raw {
			t.Errorf("%s = %q, want %q", name, got, raw)
		}
		if f.Origin(name) != OriginStructured {
			t.Errorf("%s origin = %q, want structured", name, f.Origin(name))
		}
	}
}

func TestStructured_GraphContainerAndMalformedBlocks(t *testing.T) {
	page := `<html><head>
<script type="application/ld+json">{not json at all</script>
<script type="application/ld+json">{"@type": "Organization", "name": "Alguém"}</script>
<script type="application/ld+json">
{"@graph": [
  {"@type": "WebSite", "name": "site"},
  {"@type": "BusinessEvent", "name": "Semana de Negócios", "startDate": "2026-08-01"}
]}
</script>
</head><body></body></html>`

	f := Fields{}
	hasStructured, hasSocial := Structured(mustDoc(t, page), f)

	if !hasStructured {
		t.Fatal("event inside @graph not detected")
	}
	if hasSocial {
		t.Fatal("no social tags on this page")
	}
	if f.Get(FieldTitle) != "Semana de Negócios" {
		t.Fatalf("title = %q", f.Get(FieldTitle))
	}
	if f.Get(FieldStartDate) != "2026-08-01" {
		t.Fatalf("start_date = %q", f.Get(FieldStartDate))
	}
}

func TestStructured_SocialOnly(t *testing.T) {
	page := `<html><head>
<meta property="og:title" content="Feira de Design">
<meta property="og:image" content="https://img.example.com/feira.jpg">
</head><body></body></html>`

	f := Fields{}
	hasStructured, hasSocial := Structured(mustDoc(t, page), f)
	if hasStructured {
		t.Fatal("no ld+json on this page")
	}
	if !hasSocial {
		t.Fatal("og tags not detected")
	}
	if f.Get(FieldTitle) != "Feira de Design" {
		t.Fatalf("title = %q", f.Get(FieldTitle))
	}
}

func TestStructured_FreeEventOffer(t *testing.T) {
	page := `<html><head><script type="application/ld+json">
{"@type": "Event", "name": "Meetup", "startDate": "2026-02-10", "isAccessibleForFree": true,
 "offers": {"@type": "Offer", "price": "0"}}
</script></head><body></body></html>`

	f := Fields{}
	Structured(mustDoc(t, page), f)
	if f.Get(FieldIsFree) != "true" {
		t.Fatalf("is_free = %q", f.Get(FieldIsFree))
	}
	if f.Has(FieldPriceText) {
		t.Fatalf("price_text should be absent, got %q", f.Get(FieldPriceText))
	}
}

func TestStructured_LowPriceMarksStartingFrom(t *testing.T) {
	page := `<html><head><script type="application/ld+json">
{"@type": "Event", "name": "Festival", "offers": {"@type": "AggregateOffer", "lowPrice": "89.90", "highPrice": "250.00"}}
</script></head><body></body></html>`

	f := Fields{}
	Structured(mustDoc(t, page), f)
	if f.Get(FieldPriceText) != "89.90" {
		t.Fatalf("price_text = %q", f.Get(FieldPriceText))
	}
	if f.Get(FieldPriceFrom) != "true" {
		t.Fatal("lowPrice offer must mark price_from")
	}
}

const heuristicPage = `<html><head><title>Meetup de Programação</title></head><body>
<h1>Meetup de Programação Curitiba</h1>
<p>Quando: 12/04/2026, das 19:00 às 22h30.</p>
<p>Local: Teatro Guaira - Rua XV de Novembro, 971 - Centro, Curitiba - PR</p>
<p>Ingressos: R$ 45,00 no primeiro lote.</p>
<p>Palestras sobre programação, backend e open source para a comunidade local.</p>
</body></html>`

func TestHeuristic_FillsMissingFields(t *testing.T) {
	doc := mustDoc(t, heuristicPage)
	f := Fields{}
	Heuristic(doc, f, "https://www.meetupcuritiba.com.br/eventos/123")

	if got := f.Get(FieldStartDate); got != "12/04/2026" {
		t.Errorf("start_date = %q", got)
	}
	if got := f.Get(FieldStartTime); got != "19:00" {
		t.Errorf("start_time = %q", got)
	}
	if got := f.Get(FieldEndTime); got != "22h30" {
		t.Errorf("end_time = %q", got)
	}
	if got := f.Get(FieldCity); got != "Curitiba" {
		t.Errorf("city = %q", got)
	}
	if got := f.Get(FieldState); got != "PR" {
		t.Errorf("state = %q", got)
	}
	if got := f.Get(FieldAddress); !strings.HasPrefix(got, "Rua XV de Novembro") {
		t.Errorf("address = %q", got)
	}
	if got := f.Get(FieldVenueName); got != "Teatro Guaira" {
		t.Errorf("venue_name = %q", got)
	}
	if got := f.Get(FieldPriceText); !strings.Contains(got, "45,00") {
		t.Errorf("price_text = %q", got)
	}
	if got := f.Get(FieldCategory); got != "tecnologia" {
		t.Errorf("category = %q", got)
	}
	if got := f.Get(FieldOrganizerName); got != "Meetupcuritiba" {
		t.Errorf("organizer_name = %q", got)
	}
	for _, name := range []string{FieldStartDate, FieldCity, FieldState} {
		if f.Origin(name) != OriginHeuristic {
			t.Errorf("%s origin = %q, want heuristic", name, f.Origin(name))
		}
	}
}

func TestHeuristic_DoesNotOverrideStructured(t *testing.T) {
	doc := mustDoc(t, heuristicPage)
	f := Fields{}
	f.Set(FieldStartDate, "2026-01-01", OriginStructured)
	Heuristic(doc, f, "https://example.com")

	if got := f.Get(FieldStartDate); got != "2026-01-01" {
		t.Fatalf("structured value overwritten: %q", got)
	}
	if f.Origin(FieldStartDate) != OriginStructured {
		t.Fatal("structured origin lost")
	}
}

func TestHeuristic_FreeKeyword(t *testing.T) {
	page := `<html><body><p>Evento gratuito, vagas limitadas. Palestra sobre design e ux.</p></body></html>`
	f := Fields{}
	Heuristic(mustDoc(t, page), f, "https://example.com")
	if f.Get(FieldIsFree) != "true" {
		t.Fatal("gratuito not detected")
	}
}

func TestHeuristic_OnlineSignal(t *testing.T) {
	page := `<html><body><p>Evento online com transmissão pelo zoom.us, inscrições abertas.</p></body></html>`
	f := Fields{}
	Heuristic(mustDoc(t, page), f, "https://example.com")
	if !f.Has(FieldOnlineSignal) {
		t.Fatal("online signal not detected")
	}
}

func TestHeuristic_NothingFabricated(t *testing.T) {
	page := `<html><body><p>uma página sem nada de útil</p></body></html>`
	f := Fields{}
	Heuristic(mustDoc(t, page), f, "https://example.com")

	for _, name := range []string{FieldStartDate, FieldCity, FieldState, FieldAddress, FieldPriceText, FieldIsFree} {
		if f.Has(name) {
			t.Errorf("%s fabricated: %q", name, f.Get(name))
		}
	}
	// Category falls back to the sentinel, never to an invented value.
	if got := f.Get(FieldCategory); got != "outros" {
		t.Errorf("category = %q, want outros", got)
	}
}
