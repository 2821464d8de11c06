package normalize

import (
	"regexp"
	"strings"

	"github.com/eventscope/eventscope/pkg/event"
)

const maxTopics = 5

var wordSepRe = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// categoryKeywords scores page text against the fixed category set.
// Immutable after init; never add entries at runtime.
var categoryKeywords = map[event.Category][]string{
	event.CategoryTecnologia: {
		"tecnologia", "programação", "programacao", "software", "developer",
		"dev", "devops", "dados", "data science", "inteligência artificial",
		"inteligencia artificial", "machine learning", "cloud", "backend",
		"frontend", "mobile", "python", "javascript", "golang", "segurança",
		"seguranca", "hackathon", "open source", "api",
	},
	event.CategoryNegocios: {
		"negócios", "negocios", "empreendedorismo", "startup", "startups",
		"inovação", "inovacao", "investimento", "vendas", "gestão", "gestao",
		"liderança", "lideranca", "produto", "finanças", "financas",
	},
	event.CategoryDesign: {
		"design", "ux", "ui", "experiência do usuário", "experiencia do usuario",
		"figma", "prototipagem", "designer", "design system",
	},
	event.CategoryMarketing: {
		"marketing", "growth", "branding", "mídias sociais", "midias sociais",
		"redes sociais", "seo", "conteúdo", "conteudo", "publicidade",
		"tráfego pago", "trafego pago",
	},
	event.CategoryEducacao: {
		"educação", "educacao", "curso", "workshop", "treinamento", "bootcamp",
		"palestra", "aula", "capacitação", "capacitacao", "certificação",
		"certificacao",
	},
	event.CategoryComunidade: {
		"comunidade", "meetup", "encontro", "networking", "voluntariado",
		"grupo de estudos", "colaboração", "colaboracao",
	},
}

// Classify scores text against the keyword dictionary. The category with the
// highest term overlap wins; ties go to the first category in the fixed
// declaration order. Topics are the matched terms across all categories,
// first occurrence order, capped. With zero matches the category falls back
// to "outros" and topics are empty.
func Classify(text string) (event.Category, []string) {
	// Pad with spaces so short keywords like "ui" only match whole words.
	padded := " " + wordSepRe.ReplaceAllString(strings.ToLower(text), " ") + " "

	best := event.CategoryOutros
	bestScore := 0
	var topics []string

	for _, cat := range event.Categories {
		keywords, ok := categoryKeywords[cat]
		if !ok {
			continue
		}
		score := 0
		for _, kw := range keywords {
			if strings.Contains(padded, " "+kw+" ") {
				score++
				if len(topics) < maxTopics && !containsString(topics, kw) {
					topics = append(topics, kw)
				}
			}
		}
		if score > bestScore {
			best = cat
			bestScore = score
		}
	}

	return best, topics
}

// Category validates a raw value against the fixed set, tolerating case and
// accents ("Educação" -> educacao).
func Category(raw string) (event.Category, bool) {
	slug := Slug(raw)
	for _, cat := range event.Categories {
		if slug == string(cat) {
			return cat, true
		}
	}
	return "", false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
