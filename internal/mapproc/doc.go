// Package mapproc runs the full map pipeline: load and enhance a scanned map,
// detect labels with OCR, translate them, draw them back onto the map and
// export the results.
//
// # Stages
//
//  1. LoadImage: decode the map and build the enhanced grayscale copy used
//     for OCR (saved as debug_enhanced.png in debug mode).
//  2. ProcessPoints: recognize fragments and translate each one. Points are
//     numbered from 1 in recognition order; a point's position is the centre
//     of its bounding box.
//  3. CreateTranslatedMap: draw every point and its "<id>: <text>" label on a
//     copy of the original image.
//  4. ExportResults: write visualization_translated.png, results.csv and
//     report.txt into the results directory.
//
// Process runs all four in order.
//
// # Results Directory
//
// Each Processor owns one directory named results_YYYYMMDD_HHMMSS, created
// next to the image or under Options.OutputRoot. When that name is taken a
// numeric suffix is added (results_20240101_120000_2), so concurrent runs
// never share a directory.
//
// # Errors
//
// Load failures wrap ErrImageLoad. Calling a later stage before LoadImage
// returns ErrNoImage. OCR and filesystem errors are returned wrapped.
package mapproc
