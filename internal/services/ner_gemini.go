package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"alfredoptarigan/resume-parser/internal/logger"
	"alfredoptarigan/resume-parser/internal/parser"
)

// GeminiRecognizer asks the language model for person names, one chunk at a
// time. Only names that occur verbatim in their chunk are returned.
type GeminiRecognizer struct {
	gemini        GeminiService
	chunker       TextChunker
	promptBuilder *PromptBuilder
	chunkSize     int
	maxRetries    int
}

func NewGeminiRecognizer(gemini GeminiService, maxRetries int) *GeminiRecognizer {
	return &GeminiRecognizer{
		gemini:        gemini,
		chunker:       NewTextChunker(),
		promptBuilder: NewPromptBuilder(),
		chunkSize:     defaultChunkSize,
		maxRetries:    maxRetries,
	}
}

type entityResponse struct {
	Entities []parser.Entity `json:"entities"`
}

func (g *GeminiRecognizer) Recognize(ctx context.Context, text string) ([]parser.Entity, error) {
	var (
		ents []parser.Entity
		seen = make(map[string]struct{})
	)

	for i, chunk := range g.chunker.ChunkText(text, g.chunkSize, 0) {
		prompt := g.promptBuilder.BuildEntityPrompt(chunk)

		response, err := g.gemini.GenerateTextWithRetry(ctx, prompt, 0, g.maxRetries)
		if err != nil {
			return nil, fmt.Errorf("failed to recognize entities in chunk %d: %w", i, err)
		}

		found, err := parseEntityResponse(response)
		if err != nil {
			return nil, fmt.Errorf("failed to parse entities in chunk %d: %w", i, err)
		}

		for _, ent := range groundEntities(chunk, found) {
			key := ent.Label + "\x00" + ent.Text
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			ents = append(ents, ent)
		}
	}

	logger.Debug().Int("entities", len(ents)).Msg("gemini entity recognition finished")
	return ents, nil
}

func parseEntityResponse(response string) ([]parser.Entity, error) {
	jsonStr := extractJSON(response)

	if strings.HasPrefix(jsonStr, "[") {
		var ents []parser.Entity
		if err := json.Unmarshal([]byte(jsonStr), &ents); err != nil {
			return nil, fmt.Errorf("failed to unmarshal JSON: %w", err)
		}
		return ents, nil
	}

	var out entityResponse
	if err := json.Unmarshal([]byte(jsonStr), &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	return out.Entities, nil
}

// groundEntities drops entities whose text is not in chunk and orders the
// rest by their first position in it.
func groundEntities(chunk string, found []parser.Entity) []parser.Entity {
	type located struct {
		pos int
		ent parser.Entity
	}

	var kept []located
	for _, ent := range found {
		ent.Text = strings.TrimSpace(ent.Text)
		ent.Label = strings.ToUpper(strings.TrimSpace(ent.Label))
		if ent.Text == "" {
			continue
		}
		pos := strings.Index(chunk, ent.Text)
		if pos < 0 {
			continue
		}
		kept = append(kept, located{pos: pos, ent: ent})
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].pos < kept[j].pos })

	ents := make([]parser.Entity, 0, len(kept))
	for _, k := range kept {
		ents = append(ents, k.ent)
	}
	return ents
}

// extractJSON strips markdown fences and returns the outermost JSON object or array.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")
	endObj := strings.LastIndex(text, "}")
	endArr := strings.LastIndex(text, "]")

	isArray := startArr != -1 && (startObj == -1 || startArr < startObj)
	if isArray && endArr > startArr {
		return text[startArr : endArr+1]
	} else if startObj != -1 && endObj > startObj {
		return text[startObj : endObj+1]
	}

	return strings.TrimSpace(text)
}
