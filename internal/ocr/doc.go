// Package ocr finds text fragments on map images using Tesseract.
//
// This package wraps the Tesseract OCR engine (via gosseract/v2). A Tesseract
// value implements the Recognizer interface; the map processor only depends
// on that interface, so tests can substitute a fake.
//
// # Prerequisites
//
// Tesseract and the language data for each configured language must be
// installed:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-rus
//   - macOS: brew install tesseract tesseract-lang
//
// # Languages
//
// The default language list is "rus" plus "eng". Map labels are mostly
// Cyrillic, but scans also carry Latin grid references and numbers.
//
// # Fragments
//
// Each Fragment holds the recognized text, a confidence between 0 and 1, and
// its bounding box in image coordinates. Fragments are returned in Tesseract's
// reading order. Empty fragments and those below MinConfidence are dropped.
package ocr
