// Package translit converts Cyrillic map labels into Latin-script Romanian.
//
// Translation runs in two stages over a single string value:
//
//  1. Phrase overrides: known words and word fragments whose letter-by-letter
//     rendering would be wrong are replaced with their Romanian spelling.
//  2. Character mapping: every remaining rune is looked up in the character
//     table and replaced by its Latin group, or kept unchanged when absent.
//
// The result is then normalized (one pass of double-space collapsing and a
// trim of surrounding whitespace).
//
// # Tables
//
// The character table treats uppercase and lowercase Cyrillic letters as
// independent entries; nothing is derived by case folding. The phrase
// dictionary is an ordered list and is applied in declaration order, so when
// keys overlap the earlier entry wins. For example "тинер" precedes "тинерi",
// which makes "тинерi" translate to "tanari".
//
// # Case Sensitivity
//
// Phrase keys are lowercase. Containment is tested against a lowercase copy
// of the input, but replacement is exact-case on the input itself. A
// capitalized label such as "Режиуня" therefore passes the containment test,
// is not replaced, and falls through to the character table ("Rejhiunia").
// This behaviour is kept as is; see DESIGN.md.
//
// # Thread Safety
//
// A Translator never mutates its tables after construction. All methods are
// safe for concurrent use.
package translit
