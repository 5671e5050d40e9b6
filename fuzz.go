package xfs

// Fuzz decodes arbitrary bytes as an XFS document and, on success,
// round-trips it through Encode to exercise the writer too.
func Fuzz(data []byte) int {
	doc, err := LoadBytes(data, nil)
	if err != nil {
		return 0
	}
	if _, err := doc.Encode(); err != nil {
		return 0
	}
	return 1
}
