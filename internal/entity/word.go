package entity

import "sort"

const DefaultLanguage = "en"

// Word holds the same word rendered per language code, e.g. {"ar": "أسد", "en": "Lion"}.
type Word map[string]string

// Text returns the word in lang, falling back to DefaultLanguage and then to the
// first language in code order.
func (that Word) Text(lang string) string {
	return pickText(that, lang)
}

type Category struct {
	ID    string            `json:"id"`
	Name  map[string]string `json:"name"`
	Words []Word            `json:"words"`
}

func (that *Category) DisplayName(lang string) string {
	if name := pickText(that.Name, lang); name != "" {
		return name
	}

	return that.ID
}

// WordPack is the loadable content pack: a list of bilingual categories.
type WordPack struct {
	Categories []Category `json:"categories"`
}

func (that *WordPack) Category(id string) (Category, bool) {
	for _, category := range that.Categories {
		if category.ID == id {
			return category, true
		}
	}

	return Category{}, false
}

func pickText(texts map[string]string, lang string) string {
	if text, ok := texts[lang]; ok && text != "" {
		return text
	}

	if text, ok := texts[DefaultLanguage]; ok && text != "" {
		return text
	}

	langs := make([]string, 0, len(texts))
	for code := range texts {
		langs = append(langs, code)
	}
	sort.Strings(langs)

	for _, code := range langs {
		if texts[code] != "" {
			return texts[code]
		}
	}

	return ""
}
