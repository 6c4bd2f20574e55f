// Package hashtag turns free-text tags into canonical keys.
//
// A canonical tag is lowercase and contains only ASCII letters and digits
// plus Hiragana, Katakana and CJK Unified Ideographs. Every other rune is
// deleted rather than replaced, so distinct raw tags can collapse onto the
// same key:
//
//	Normalize("node-js") == Normalize("nodejs")  // "nodejs"
//	Normalize("C++")     == Normalize("c")       // "c"
//
// This collision is accepted. Callers that need two different canonical
// keys to match each other register them in an Aliases table instead of
// changing the normalizer.
//
// The empty string is never a tag. Every function here treats "" as
// absence and none of them panic on bad input.
package hashtag
