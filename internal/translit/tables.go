package translit

// CharMap maps a single Cyrillic rune to its Latin Romanian rendering.
// An empty value marks a silent letter.
type CharMap map[rune]string

// Phrase is one entry of the override dictionary.
type Phrase struct {
	// Cyrillic is the lowercase word or fragment to look for.
	Cyrillic string `json:"cyrillic"`

	// Romanian replaces every exact occurrence of Cyrillic.
	Romanian string `json:"romanian"`
}

// PhraseDict is an ordered phrase dictionary. Entries are applied first to last.
type PhraseDict []Phrase

// DefaultCharMap returns a fresh copy of the built-in character table.
func DefaultCharMap() CharMap {
	m := make(CharMap, len(defaultChars))
	for k, v := range defaultChars {
		m[k] = v
	}
	return m
}

// DefaultPhrases returns a fresh copy of the built-in phrase dictionary.
func DefaultPhrases() PhraseDict {
	return append(PhraseDict(nil), defaultPhrases...)
}

var defaultChars = CharMap{
	'А': "A", 'Б': "B", 'В': "V", 'Г': "G", 'Д': "D",
	'Е': "E", 'Ё': "Io", 'Ж': "Jh", 'З': "Z", 'И': "I",
	'Й': "Y", 'К': "K", 'Л': "L", 'М': "M", 'Н': "N",
	'О': "O", 'П': "P", 'Р': "R", 'С': "S", 'Т': "T",
	'У': "U", 'Ф': "F", 'Х': "H", 'Ц': "Ts", 'Ч': "Ci",
	'Ш': "Și", 'Щ': "Șci", 'Ъ': "", 'Ы': "Y", 'Ь': "",
	'Э': "E", 'Ю': "Iu", 'Я': "Ia",

	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d",
	'е': "e", 'ё': "io", 'ж': "jh", 'з': "z", 'и': "i",
	'й': "y", 'к': "k", 'л': "l", 'м': "m", 'н': "n",
	'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t",
	'у': "u", 'ф': "f", 'х': "h", 'ц': "ts", 'ч': "ci",
	'ш': "și", 'щ': "șci", 'ъ': "", 'ы': "y", 'ь': "",
	'э': "e", 'ю': "iu", 'я': "ia",
}

// The trailing "i" in the last two keys is Latin; OCR often returns the
// plural ending that way.
var defaultPhrases = PhraseDict{
	{Cyrillic: "тынэр", Romanian: "tanar"},
	{Cyrillic: "тинер", Romanian: "tanar"},
	{Cyrillic: "тынар", Romanian: "tanar"},
	{Cyrillic: "режиуня", Romanian: "regiune"},
	{Cyrillic: "цинутул", Romanian: "ținutul"},
	{Cyrillic: "тинерi", Romanian: "tineri"},
	{Cyrillic: "тынерi", Romanian: "tineri"},
}
