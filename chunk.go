package sitechat

// SplitText splits text into consecutive, non-overlapping chunks of at most
// max bytes, preserving order. The last chunk may be shorter. Concatenating
// the returned chunks reproduces the input exactly.
//
// Empty input returns nil. A non-positive max returns the whole text as a
// single chunk.
func SplitText(text string, max int) []string {
	if text == "" {
		return nil
	}
	if max <= 0 {
		return []string{text}
	}

	chunks := make([]string, 0, (len(text)+max-1)/max)
	for len(text) > max {
		chunks = append(chunks, text[:max])
		text = text[max:]
	}
	return append(chunks, text)
}
