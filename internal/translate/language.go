package translate

// Language is the closed set of translation targets the API accepts.
type Language string

const (
	LanguageEnglish Language = "english"
	LanguageHindi   Language = "hindi"
)

// ParseLanguage maps a request value onto the closed enum. Anything
// unrecognized falls back to english rather than failing the request.
func ParseLanguage(s string) Language {
	switch Language(s) {
	case LanguageEnglish, LanguageHindi:
		return Language(s)
	default:
		return LanguageEnglish
	}
}

// Locale returns the collaborator-facing locale code.
func (l Language) Locale() string {
	switch l {
	case LanguageHindi:
		return "hi"
	default:
		return "en"
	}
}
