package normalize

import (
	"testing"

	"github.com/eventscope/eventscope/pkg/event"
)

func TestDate_Notations(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"2026-03-02", "2026-03-02", true},
		{"2026-03-02T19:00:00-03:00", "2026-03-02", true},
		{"02/03/2026", "2026-03-02", true},
		{"2/3/2026", "2026-03-02", true},
		{"02-03-2026", "2026-03-02", true},
		{"2 de março de 2026", "2026-03-02", true},
		{"15 de Dezembro de 2025", "2025-12-15", true},
		{"2 de março", "", false}, // no year, would be a guess
		{"32/01/2026", "", false},
		{"02/13/2026", "", false},
		{"sábado que vem", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := Date(tt.raw)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Date(%q) = (%q, %v), want (%q, %v)", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestTime_Notations(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"19:00", "19:00", true},
		{"19:00:30", "19:00", true},
		{"19h30", "19:30", true},
		{"19h", "19:00", true},
		{"9:05", "09:05", true},
		{"2026-03-02T19:30:00-03:00", "19:30", true},
		{"25:00", "", false},
		{"19:61", "", false},
		{"às oito", "", false},
	}
	for _, tt := range tests {
		got, ok := Time(tt.raw)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Time(%q) = (%q, %v), want (%q, %v)", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Conferência de Tecnologia 2026", "conferencia-de-tecnologia-2026"},
		{"  Meetup — Go & Cloud!  ", "meetup-go-cloud"},
		{"São Paulo / 100% Prático", "sao-paulo-100-pratico"},
		{"---", ""},
	}
	for _, tt := range tests {
		if got := Slug(tt.title); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestSlug_CapsLength(t *testing.T) {
	long := "evento muito grande com um titulo absurdamente comprido que nunca deveria virar um slug inteiro de verdade"
	got := Slug(long)
	if len(got) > 80 {
		t.Fatalf("slug too long (%d): %q", len(got), got)
	}
	if got[len(got)-1] == '-' {
		t.Fatalf("slug ends with hyphen: %q", got)
	}
}

func TestSlug_Deterministic(t *testing.T) {
	a := Slug("Congresso de Inovação & Startups")
	b := Slug("Congresso de Inovação & Startups")
	if a != b {
		t.Fatalf("slug not deterministic: %q vs %q", a, b)
	}
}

func TestClassify(t *testing.T) {
	cat, topics := Classify("Workshop de programação em Python, com foco em api e cloud")
	if cat != event.CategoryTecnologia {
		t.Fatalf("expected tecnologia, got %q", cat)
	}
	if len(topics) == 0 || len(topics) > 5 {
		t.Fatalf("unexpected topics: %#v", topics)
	}

	cat, topics = Classify("churrasco da firma")
	if cat != event.CategoryOutros {
		t.Fatalf("expected outros fallback, got %q", cat)
	}
	if len(topics) != 0 {
		t.Fatalf("expected no topics, got %#v", topics)
	}
}

func TestCategory_FixedSet(t *testing.T) {
	if got, ok := Category("Educação"); !ok || got != event.CategoryEducacao {
		t.Fatalf("Category(\"Educação\") = (%q, %v)", got, ok)
	}
	if _, ok := Category("gastronomia"); ok {
		t.Fatal("category outside the fixed set must be rejected")
	}
}

func TestFormat_Rules(t *testing.T) {
	tests := []struct {
		address, online bool
		want            event.Format
	}{
		{true, false, event.FormatPresencial},
		{false, true, event.FormatOnline},
		{true, true, event.FormatHibrido},
		{false, false, event.FormatOnline},
	}
	for _, tt := range tests {
		if got := Format(tt.address, tt.online); got != tt.want {
			t.Errorf("Format(%v, %v) = %q, want %q", tt.address, tt.online, got, tt.want)
		}
	}
}

func TestAttendanceMode(t *testing.T) {
	if got, ok := AttendanceMode("https://schema.org/OnlineEventAttendanceMode"); !ok || got != event.FormatOnline {
		t.Fatalf("online mode not recognized: (%q, %v)", got, ok)
	}
	if got, ok := AttendanceMode("https://schema.org/MixedEventAttendanceMode"); !ok || got != event.FormatHibrido {
		t.Fatalf("mixed mode not recognized: (%q, %v)", got, ok)
	}
	if _, ok := AttendanceMode("whatever"); ok {
		t.Fatal("unknown mode must report false")
	}
}
