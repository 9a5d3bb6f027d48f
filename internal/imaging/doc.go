// Package imaging loads scanned map images, prepares them for OCR and draws
// translated labels back onto them.
//
// All operations work with standard Go image.Image types and use a coordinate
// system where (0,0) is at the top-left corner, X increases rightward, and Y
// increases downward.
//
// # Loading
//
// ImageCache decodes PNG, JPEG, GIF, TIFF and BMP files (scanned maps are
// frequently TIFF) and keeps the decoded image keyed by path. It is safe for
// concurrent use.
//
// # Preprocessing
//
// Enhance converts an image to grayscale and raises its contrast. The result
// is what the OCR engine sees; the original image is kept for the overlay.
//
// # Overlay
//
// DrawLabels copies the source image and, for every label, draws a filled
// point marker, a background box and the label text in a fixed 7x13 bitmap
// font. The font only covers Latin-1, so labels can be folded to plain ASCII
// first (ș -> s, ț -> t, Î -> I).
//
// # Error Handling
//
// Functions return errors for:
//   - File I/O errors during image loading or saving
//   - Undecodable image data
//   - Malformed colour strings in a LabelStyle
package imaging
