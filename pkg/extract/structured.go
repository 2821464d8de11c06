package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"

	"github.com/eventscope/eventscope/internal/utils"
)

// Structured scans the document for schema.org Event blocks (ld+json, also
// inside @graph containers) and social-preview meta tags, writing every
// matched property into f with origin=structured. Malformed blocks are
// skipped one by one, never fatal. The returned flags report whether any
// qualifying block/tag was present at all, usable or not.
func Structured(doc *goquery.Document, f Fields) (hasStructured, hasSocial bool) {
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		raw := strings.TrimSpace(sel.Text())
		if raw == "" || !gjson.Valid(raw) {
			utils.Log.Debug("skipping malformed ld+json block")
			return
		}
		for _, node := range eventNodes(gjson.Parse(raw)) {
			hasStructured = true
			projectEvent(node, f)
		}
	})

	hasSocial = socialMeta(doc, f)
	return hasStructured, hasSocial
}

// eventNodes walks a parsed ld+json document and returns every node typed as
// an Event (or a subtype such as BusinessEvent), looking inside top-level
// arrays and @graph containers.
func eventNodes(root gjson.Result) []gjson.Result {
	var nodes []gjson.Result

	collect := func(n gjson.Result) {
		if isEventType(n.Get("@type")) {
			nodes = append(nodes, n)
		}
	}

	switch {
	case root.IsArray():
		root.ForEach(func(_, n gjson.Result) bool {
			collect(n)
			return true
		})
	case root.Get("@graph").Exists():
		root.Get("@graph").ForEach(func(_, n gjson.Result) bool {
			collect(n)
			return true
		})
	default:
		collect(root)
	}
	return nodes
}

func isEventType(t gjson.Result) bool {
	if t.IsArray() {
		for _, v := range t.Array() {
			if isEventType(v) {
				return true
			}
		}
		return false
	}
	s := t.Str
	return s == "Event" || strings.HasSuffix(s, "Event")
}

func projectEvent(node gjson.Result, f Fields) {
	f.Set(FieldTitle, strings.TrimSpace(node.Get("name").Str), OriginStructured)
	f.Set(FieldDescription, strings.TrimSpace(node.Get("description").Str), OriginStructured)

	if start := node.Get("startDate").Str; start != "" {
		f.Set(FieldStartDate, start, OriginStructured)
		if strings.Contains(start, "T") {
			f.Set(FieldStartTime, start, OriginStructured)
		}
	}
	if end := node.Get("endDate").Str; end != "" {
		f.Set(FieldEndDate, end, OriginStructured)
		if strings.Contains(end, "T") {
			f.Set(FieldEndTime, end, OriginStructured)
		}
	}

	projectLocation(first(node.Get("location")), f)
	projectOffers(first(node.Get("offers")), f)

	if node.Get("isAccessibleForFree").Bool() {
		f.Set(FieldIsFree, "true", OriginStructured)
	}

	organizer := first(node.Get("organizer"))
	f.Set(FieldOrganizerName, strings.TrimSpace(organizer.Get("name").Str), OriginStructured)
	f.Set(FieldOrganizerURL, organizer.Get("url").Str, OriginStructured)

	f.Set(FieldImageURL, imageURL(node.Get("image")), OriginStructured)
	f.Set(FieldEventURL, node.Get("url").Str, OriginStructured)
	f.Set(FieldAttendanceMode, node.Get("eventAttendanceMode").Str, OriginStructured)
	f.Set(FieldTopics, node.Get("keywords").Str, OriginStructured)
}

func projectLocation(loc gjson.Result, f Fields) {
	if !loc.Exists() {
		return
	}
	if loc.Type == gjson.String {
		f.Set(FieldAddress, strings.TrimSpace(loc.Str), OriginStructured)
		return
	}

	if strings.Contains(loc.Get("@type").Str, "VirtualLocation") {
		f.Set(FieldOnlineSignal, loc.Get("url").Str, OriginStructured)
		return
	}

	f.Set(FieldVenueName, strings.TrimSpace(loc.Get("name").Str), OriginStructured)

	addr := loc.Get("address")
	if addr.Type == gjson.String {
		f.Set(FieldAddress, strings.TrimSpace(addr.Str), OriginStructured)
	} else if addr.Exists() {
		f.Set(FieldAddress, strings.TrimSpace(addr.Get("streetAddress").Str), OriginStructured)
		f.Set(FieldCity, strings.TrimSpace(addr.Get("addressLocality").Str), OriginStructured)
		f.Set(FieldState, strings.TrimSpace(addr.Get("addressRegion").Str), OriginStructured)
	}

	if geo := loc.Get("geo"); geo.Exists() {
		f.Set(FieldLatitude, geo.Get("latitude").String(), OriginStructured)
		f.Set(FieldLongitude, geo.Get("longitude").String(), OriginStructured)
	}
}

func projectOffers(offer gjson.Result, f Fields) {
	if !offer.Exists() {
		return
	}

	switch {
	case offer.Get("lowPrice").Exists():
		f.Set(FieldPriceText, offer.Get("lowPrice").String(), OriginStructured)
		f.Set(FieldPriceFrom, "true", OriginStructured)
	case offer.Get("price").Exists():
		price := offer.Get("price")
		if price.Num == 0 && (price.Str == "0" || price.Str == "" || price.Str == "0.00" || price.Str == "0,00") {
			f.Set(FieldIsFree, "true", OriginStructured)
		} else {
			f.Set(FieldPriceText, price.String(), OriginStructured)
		}
	}

	f.Set(FieldTicketURL, offer.Get("url").Str, OriginStructured)
}

// first unwraps single-element semantics from properties that may hold either
// an object or an array of objects.
func first(v gjson.Result) gjson.Result {
	if v.IsArray() {
		arr := v.Array()
		if len(arr) == 0 {
			return gjson.Result{}
		}
		return arr[0]
	}
	return v
}

func imageURL(img gjson.Result) string {
	img = first(img)
	if img.Type == gjson.String {
		return img.Str
	}
	return img.Get("url").Str
}

// socialMeta reads the social-preview tags (Open Graph with twitter:*
// fallbacks, plus the canonical link). Values only land in fields the
// ld+json pass left empty.
func socialMeta(doc *goquery.Document, f Fields) bool {
	found := false

	meta := func(attr, key string) (string, bool) {
		sel := doc.Find(`meta[` + attr + `="` + key + `"]`)
		if sel.Length() == 0 {
			return "", false
		}
		content, _ := sel.First().Attr("content")
		return strings.TrimSpace(content), true
	}

	pick := func(field string, keys ...string) {
		for _, key := range keys {
			attr := "property"
			if strings.HasPrefix(key, "twitter:") {
				attr = "name"
			}
			if content, ok := meta(attr, key); ok {
				found = true
				f.Set(field, content, OriginStructured)
			}
		}
	}

	pick(FieldTitle, "og:title", "twitter:title")
	pick(FieldDescription, "og:description", "twitter:description")
	pick(FieldImageURL, "og:image", "twitter:image")
	pick(FieldEventURL, "og:url")

	if canonical, ok := doc.Find(`link[rel="canonical"]`).Attr("href"); ok && canonical != "" {
		f.Set(FieldEventURL, canonical, OriginStructured)
	}

	return found
}
