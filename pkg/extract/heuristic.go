package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/weppos/publicsuffix-go/publicsuffix"

	"github.com/eventscope/eventscope/internal/utils"
	"github.com/eventscope/eventscope/pkg/normalize"
)

// brazilianStates is the fixed set of UF codes for address matching.
var brazilianStates = map[string]bool{
	"AC": true, "AL": true, "AP": true, "AM": true, "BA": true, "CE": true,
	"DF": true, "ES": true, "GO": true, "MA": true, "MT": true, "MS": true,
	"MG": true, "PA": true, "PB": true, "PR": true, "PE": true, "PI": true,
	"RJ": true, "RN": true, "RS": true, "RO": true, "RR": true, "SC": true,
	"SP": true, "SE": true, "TO": true,
}

var (
	numericDateRe = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b|\b\d{4}-\d{2}-\d{2}\b`)
	writtenDateRe = regexp.MustCompile(`(?i)\b\d{1,2}\s+de\s+(?:janeiro|fevereiro|março|marco|abril|maio|junho|julho|agosto|setembro|outubro|novembro|dezembro)\s+de\s+\d{4}\b`)
	clockRe       = regexp.MustCompile(`\b(?:[01]?\d|2[0-3])(?::[0-5]\d|h(?:[0-5]\d)?)\b`)

	// Street-type prefix, a street name, then a number.
	addressRe = regexp.MustCompile(`(?i)\b(?:Rua|R\.|Avenida|Av\.|Alameda|Al\.|Praça|Praca|Travessa|Rodovia|Estrada)\s+[^,\n]{2,60},?\s*(?:n[ºo°]?\s*)?\d+[^\s,]*`)

	// "Cidade - UF" with the UF validated against the fixed set afterwards.
	cityStateRe = regexp.MustCompile(`([A-ZÀ-Ú][\p{L}.']*(?:\s+(?:de|do|da|dos|das|[A-ZÀ-Ú][\p{L}.']*))*)\s*[-–/]\s*([A-Z]{2})\b`)

	// Capitalized phrase right before an address, taken as the venue name.
	venueRe = regexp.MustCompile(`((?:[A-ZÀ-Ú][\p{L}&.']*\s+){0,4}[A-ZÀ-Ú][\p{L}&.']{2,})\s*[-–,]?\s*$`)
)

var dateKeywords = []string{"data", "quando", "dia", "início", "inicio", "agenda"}

var priceKeywords = []string{
	"r$", "preço", "preco", "valor", "ingresso", "ingressos",
	"investimento", "inscrição", "inscricao", "lote",
}

var freeKeywords = []string{"grátis", "gratis", "gratuito", "gratuita", "entrada franca", "free"}

var onlineKeywords = []string{
	"evento online", "100% online", "ao vivo", "transmissão", "transmissao",
	"zoom.us", "meet.google.com", "youtube.com", "teams.microsoft.com", "online",
}

// Heuristic fills fields the structured pass left empty by scanning visible
// page text for domain patterns. Best effort by contract: a field that
// cannot be found stays absent, it is never invented.
func Heuristic(doc *goquery.Document, f Fields, pageURL string) {
	text := VisibleText(doc)

	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		f.Set(FieldTitle, title, OriginHeuristic)
	}

	heuristicDates(text, f)
	heuristicTimes(text, f)
	heuristicPrice(text, f)
	heuristicLocation(text, f)
	heuristicCategory(text, f)
	heuristicOrganizer(f, pageURL)
	heuristicOnline(text, f)
}

// VisibleText returns the page's rendered text with scripts, styles and
// whitespace runs stripped.
func VisibleText(doc *goquery.Document) string {
	clone := doc.Clone()
	clone.Find("script, style, noscript").Remove()
	body := clone.Find("body")
	if body.Length() == 0 {
		return strings.Join(strings.Fields(clone.Text()), " ")
	}
	return strings.Join(strings.Fields(body.Text()), " ")
}

// heuristicDates prefers a date phrase appearing near a contextual keyword
// ("data", "quando", ...) and falls back to the first date on the page. A
// second, distinct date becomes the end date.
func heuristicDates(text string, f Fields) {
	if f.Has(FieldStartDate) && f.Has(FieldEndDate) {
		return
	}

	var matches []string
	for _, re := range []*regexp.Regexp{numericDateRe, writtenDateRe} {
		matches = append(matches, re.FindAllString(text, 4)...)
	}
	if len(matches) == 0 {
		return
	}

	start := ""
	lower := strings.ToLower(text)
	for _, m := range matches {
		idx := strings.Index(lower, strings.ToLower(m))
		if idx < 0 {
			continue
		}
		contextStart := idx - 40
		if contextStart < 0 {
			contextStart = 0
		}
		if containsAny(lower[contextStart:idx], dateKeywords) {
			start = m
			break
		}
	}
	if start == "" {
		start = matches[0]
	}

	f.Set(FieldStartDate, start, OriginHeuristic)
	for _, m := range matches {
		if m != start {
			f.Set(FieldEndDate, m, OriginHeuristic)
			break
		}
	}
}

func heuristicTimes(text string, f Fields) {
	if f.Has(FieldStartTime) && f.Has(FieldEndTime) {
		return
	}
	matches := clockRe.FindAllString(text, 2)
	if len(matches) > 0 {
		f.Set(FieldStartTime, matches[0], OriginHeuristic)
	}
	if len(matches) > 1 {
		f.Set(FieldEndTime, matches[1], OriginHeuristic)
	}
}

// heuristicPrice grabs the text window following a price keyword; the price
// normalizer does the actual parsing later. Free-admission wording sets the
// is_free candidate.
func heuristicPrice(text string, f Fields) {
	lower := strings.ToLower(text)

	for _, kw := range freeKeywords {
		if strings.Contains(lower, kw) {
			f.Set(FieldIsFree, "true", OriginHeuristic)
			break
		}
	}

	if f.Has(FieldPriceText) {
		return
	}
	for _, kw := range priceKeywords {
		idx := strings.Index(lower, kw)
		if idx < 0 {
			continue
		}
		end := idx + 80
		if end > len(text) {
			end = len(text)
		}
		f.Set(FieldPriceText, text[idx:end], OriginHeuristic)
		return
	}
}

func heuristicLocation(text string, f Fields) {
	if loc := addressRe.FindStringIndex(text); loc != nil {
		f.Set(FieldAddress, strings.TrimSpace(text[loc[0]:loc[1]]), OriginHeuristic)

		// Venue: capitalized phrase immediately before the address.
		contextStart := loc[0] - 70
		if contextStart < 0 {
			contextStart = 0
		}
		if m := venueRe.FindStringSubmatch(strings.TrimSpace(text[contextStart:loc[0]])); m != nil {
			f.Set(FieldVenueName, strings.TrimSpace(m[1]), OriginHeuristic)
		}
	}

	if f.Has(FieldCity) && f.Has(FieldState) {
		return
	}
	for _, m := range cityStateRe.FindAllStringSubmatch(text, 8) {
		if brazilianStates[m[2]] {
			f.Set(FieldCity, strings.TrimSpace(m[1]), OriginHeuristic)
			f.Set(FieldState, m[2], OriginHeuristic)
			return
		}
	}
}

func heuristicCategory(text string, f Fields) {
	if f.Has(FieldCategory) && f.Has(FieldTopics) {
		return
	}
	category, topics := normalize.Classify(text)
	f.Set(FieldCategory, string(category), OriginHeuristic)
	f.Set(FieldTopics, strings.Join(topics, ","), OriginHeuristic)
}

// heuristicOrganizer falls back to a title-cased form of the page's
// registrable domain when no explicit organizer was found.
func heuristicOrganizer(f Fields, pageURL string) {
	if f.Has(FieldOrganizerName) {
		return
	}
	u, err := url.Parse(pageURL)
	if err != nil || u.Hostname() == "" {
		return
	}

	domain, err := publicsuffix.Domain(u.Hostname())
	if err != nil {
		utils.Log.Debug("registrable domain lookup failed for ", u.Hostname(), ": ", err)
		domain = u.Hostname()
	}

	label := strings.SplitN(domain, ".", 2)[0]
	if label == "" {
		return
	}
	f.Set(FieldOrganizerName, utils.TitleCaseWords(label), OriginHeuristic)
	f.Set(FieldOrganizerURL, u.Scheme+"://"+u.Host, OriginHeuristic)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func heuristicOnline(text string, f Fields) {
	if f.Has(FieldOnlineSignal) {
		return
	}
	padded := " " + strings.ToLower(text) + " "
	for _, kw := range onlineKeywords {
		if strings.Contains(padded, kw) {
			f.Set(FieldOnlineSignal, kw, OriginHeuristic)
			return
		}
	}
}
