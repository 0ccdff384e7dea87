package textutil

import "strings"

// ChunkText splits cleaned text into request-sized chunks along line
// boundaries. Lines longer than maxChars are split at the last space
// before the limit, or hard-split when there is none.
func ChunkText(text string, maxChars int) []string {
	if maxChars < 1 {
		maxChars = 1
	}
	prepared := CleanBlockText(text)
	if prepared == "" {
		return nil
	}
	if len([]rune(prepared)) <= maxChars {
		return []string{prepared}
	}

	var lines []string
	for _, rawLine := range strings.Split(prepared, "\n") {
		stripped := strings.TrimSpace(rawLine)
		if stripped == "" {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, splitLongLine(stripped, maxChars)...)
	}

	var chunks []string
	current := ""
	for _, line := range lines {
		if line == "" {
			if current != "" {
				chunks = append(chunks, current)
				current = ""
			}
			continue
		}
		candidate := line
		if current != "" {
			candidate = current + "\n" + line
		}
		if len([]rune(candidate)) <= maxChars {
			current = candidate
		} else {
			if current != "" {
				chunks = append(chunks, current)
			}
			current = line
		}
	}
	if current != "" {
		chunks = append(chunks, current)
	}
	return chunks
}

func splitLongLine(line string, maxChars int) []string {
	var parts []string
	remaining := []rune(line)
	for len(remaining) > maxChars {
		splitIdx := maxChars
		for i := maxChars - 1; i > 0; i-- {
			if remaining[i] == ' ' {
				splitIdx = i
				break
			}
		}
		parts = append(parts, strings.TrimSpace(string(remaining[:splitIdx])))
		remaining = []rune(strings.TrimSpace(string(remaining[splitIdx:])))
	}
	if len(remaining) > 0 {
		parts = append(parts, string(remaining))
	}
	return parts
}

// JoinChunks reassembles translated chunks, skipping empties.
func JoinChunks(chunks []string) string {
	var nonEmpty []string
	for _, chunk := range chunks {
		if chunk != "" {
			nonEmpty = append(nonEmpty, chunk)
		}
	}
	return strings.TrimSpace(strings.Join(nonEmpty, "\n"))
}
