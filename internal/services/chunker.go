package services

import (
	"strings"
	"unicode/utf8"
)

const defaultChunkSize = 1000

type TextChunker interface {
	ChunkText(text string, maxChunkSize int, overlap int) []string
}

type textChunker struct{}

func NewTextChunker() TextChunker {
	return &textChunker{}
}

// ChunkText packs paragraphs into chunks of at most maxChunkSize runes.
// Paragraphs longer than a chunk are split on line breaks, and single lines
// longer than a chunk are cut. Each chunk after the first starts with the
// last overlap runes of its predecessor when they fit.
func (tc *textChunker) ChunkText(text string, maxChunkSize int, overlap int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = defaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChunkSize {
		overlap = maxChunkSize / 4
	}

	var (
		chunks  []string
		current strings.Builder
		size    int
	)

	flush := func() {
		if current.Len() == 0 {
			return
		}
		chunks = append(chunks, current.String())
		current.Reset()
		size = 0
		if overlap > 0 {
			tail := getLastNChars(chunks[len(chunks)-1], overlap)
			current.WriteString(tail)
			size = utf8.RuneCountInString(tail)
		}
	}

	add := func(piece, sep string) {
		n := utf8.RuneCountInString(piece)
		if size > 0 && size+utf8.RuneCountInString(sep)+n > maxChunkSize {
			flush()
			if size+utf8.RuneCountInString(sep)+n > maxChunkSize {
				current.Reset()
				size = 0
			}
		}
		if size > 0 {
			current.WriteString(sep)
			size += utf8.RuneCountInString(sep)
		}
		current.WriteString(piece)
		size += n
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if utf8.RuneCountInString(para) <= maxChunkSize {
			add(para, "\n\n")
			continue
		}

		for _, line := range strings.Split(para, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			for _, piece := range splitRunes(line, maxChunkSize-overlap-1) {
				add(piece, "\n")
			}
		}
	}

	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}

// splitRunes cuts s into pieces of at most n runes.
func splitRunes(s string, n int) []string {
	if n <= 0 {
		n = 1
	}
	runes := []rune(s)
	if len(runes) <= n {
		return []string{s}
	}

	var pieces []string
	for len(runes) > 0 {
		end := n
		if end > len(runes) {
			end = len(runes)
		}
		pieces = append(pieces, string(runes[:end]))
		runes = runes[end:]
	}
	return pieces
}

func getLastNChars(text string, n int) string {
	if n <= 0 {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= n {
		return text
	}

	return string(runes[len(runes)-n:])
}
