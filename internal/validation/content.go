package validation

import (
	"strings"
	"unicode"
)

var defaultDisallowed = []string{
	"casino",
	"казино",
	"escort",
	"эскорт",
	"наркотики",
	"drugs",
	"закладки",
	"scam",
}

// ContentGuard отклоняет текст с запрещёнными словами
type ContentGuard struct {
	words   map[string]struct{}
	phrases []string
}

// NewContentGuard объединяет встроенный список с дополнительными словами
func NewContentGuard(extra ...string) *ContentGuard {
	g := &ContentGuard{words: make(map[string]struct{})}
	for _, term := range append(append([]string(nil), defaultDisallowed...), extra...) {
		term = Fold(term)
		if term == "" {
			continue
		}
		if strings.ContainsFunc(term, unicode.IsSpace) {
			g.phrases = append(g.phrases, term)
			continue
		}
		g.words[term] = struct{}{}
	}
	return g
}

// Allowed сообщает, что текст не содержит запрещённых слов
func (g *ContentGuard) Allowed(input string) bool {
	folded := Fold(input)
	for _, token := range strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if _, ok := g.words[token]; ok {
			return false
		}
	}
	for _, phrase := range g.phrases {
		if strings.Contains(folded, phrase) {
			return false
		}
	}
	return true
}

// Guard возвращает проверку для цепочки Check
func (g *ContentGuard) Guard() Guard {
	return func(input string) error {
		if g == nil || g.Allowed(input) {
			return nil
		}
		return Reject(ReasonDisallowed)
	}
}
