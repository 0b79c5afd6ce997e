// Package barcode provides the pluggable symbol-decoding capability used by
// the scan pipeline. The default backend is the pure-Go ZXing port; callers
// inject a Backend so availability can be queried and stubbed in tests rather
// than consulted through process-wide state.
package barcode
