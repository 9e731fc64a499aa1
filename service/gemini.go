package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
)

const (
	embeddingAPI      = "https://generativelanguage.googleapis.com/v1beta/models/gemini-embedding-001:embedContent"
	batchEmbeddingAPI = "https://generativelanguage.googleapis.com/v1beta/models/gemini-embedding-001:batchEmbedContents"
	generationAPI     = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"
	maxRetries        = 3
	initialBackoff    = time.Second
)

// Generator is the generation backend consumed by the extractor and the Q&A
// path
type Generator interface {
	Generate(ctx context.Context, prompt string, temperature float64) (string, error)
}

// Embedder converts text into a normalized embedding vector
type Embedder interface {
	EmbedText(ctx context.Context, text string, taskType string) ([]float64, error)
}

// GeminiBackend implements Generator and Embedder against the Gemini REST API
type GeminiBackend struct {
	client *genai.Client
}

// NewGeminiBackend creates a backend around an initialized Gemini client
func NewGeminiBackend(client *genai.Client) *GeminiBackend {
	return &GeminiBackend{client: client}
}

// EmbeddingRequest represents an embedding API request
type EmbeddingRequest struct {
	Model                string       `json:"model"`
	Content              ContentInput `json:"content"`
	TaskType             string       `json:"task_type,omitempty"`
	OutputDimensionality int          `json:"output_dimensionality,omitempty"`
}

// ContentInput represents content for embedding
type ContentInput struct {
	Parts []PartInput `json:"parts"`
}

// PartInput represents a part of content
type PartInput struct {
	Text string `json:"text"`
}

// EmbeddingResponse represents an embedding API response
type EmbeddingResponse struct {
	Embedding EmbeddingData `json:"embedding"`
}

// EmbeddingData contains the embedding values
type EmbeddingData struct {
	Values []float64 `json:"values"`
}

// BatchEmbeddingItem is the structure returned by the batch API (no nested
// "embedding" key)
type BatchEmbeddingItem struct {
	Values []float64 `json:"values"`
}

// BatchEmbeddingRequest wraps multiple embedding requests
type BatchEmbeddingRequest struct {
	Requests []EmbeddingRequest `json:"requests"`
}

// BatchEmbeddingResponse holds the batch API output
type BatchEmbeddingResponse struct {
	Embeddings []BatchEmbeddingItem `json:"embeddings"`
}

// normalize scales a vector to unit length in place
func normalize(embedding []float64) {
	norm := 0.0
	for _, v := range embedding {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range embedding {
			embedding[i] /= norm
		}
	}
}

// EmbedText generates a 768-dimension normalized embedding for the text.
// taskType is "RETRIEVAL_QUERY" for searches and "RETRIEVAL_DOCUMENT" for
// ingestion.
func (b *GeminiBackend) EmbedText(ctx context.Context, text string, taskType string) ([]float64, error) {
	if b.client == nil {
		return nil, errors.New("gemini client not set")
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	reqBody := EmbeddingRequest{
		Model: "models/gemini-embedding-001",
		Content: ContentInput{
			Parts: []PartInput{{Text: text}},
		},
		TaskType:             taskType,
		OutputDimensionality: 768,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	backoff := initialBackoff
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(backoff)
			backoff *= 2
		}

		req, err := http.NewRequestWithContext(ctx, "POST", embeddingAPI, bytes.NewBuffer(jsonData))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", apiKey)

		client := &http.Client{Timeout: 30 * time.Second}
		resp, err := client.Do(req)
		if err != nil {
			if attempt == maxRetries-1 {
				return nil, fmt.Errorf("failed to send request after %d attempts: %w", maxRetries, err)
			}
			continue
		}

		if resp.StatusCode == http.StatusOK {
			var apiResp EmbeddingResponse
			if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
				resp.Body.Close()
				if attempt == maxRetries-1 {
					return nil, fmt.Errorf("failed to decode response: %w", err)
				}
				continue
			}
			resp.Body.Close()

			embedding := apiResp.Embedding.Values
			if len(embedding) != 768 {
				return nil, fmt.Errorf("expected 768-dimension embedding, got %d", len(embedding))
			}
			normalize(embedding)
			return embedding, nil
		}

		resp.Body.Close()

		// Don't retry on 400 or 401 errors
		if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("API error: %d", resp.StatusCode)
		}

		if attempt == maxRetries-1 {
			return nil, fmt.Errorf("API error after %d attempts: %d", maxRetries, resp.StatusCode)
		}
	}

	return nil, errors.New("embedding request failed")
}

// EmbedBatch generates normalized embeddings for a batch of texts, preserving
// input order
func (b *GeminiBackend) EmbedBatch(ctx context.Context, texts []string, taskType string) ([][]float64, error) {
	if b.client == nil {
		return nil, errors.New("gemini client not set")
	}
	if len(texts) == 0 {
		return nil, nil
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	reqBody := BatchEmbeddingRequest{}
	for _, text := range texts {
		reqBody.Requests = append(reqBody.Requests, EmbeddingRequest{
			Model: "models/gemini-embedding-001",
			Content: ContentInput{
				Parts: []PartInput{{Text: text}},
			},
			TaskType:             taskType,
			OutputDimensionality: 768,
		})
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", batchEmbeddingAPI, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", apiKey)

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error: %d - %s", resp.StatusCode, string(bodyBytes))
	}

	var apiResp BatchEmbeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(apiResp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(apiResp.Embeddings))
	}

	embeddings := make([][]float64, len(texts))
	for i, item := range apiResp.Embeddings {
		normalize(item.Values)
		embeddings[i] = item.Values
	}

	return embeddings, nil
}

// Generate calls the Gemini generation API once and returns the concatenated
// candidate text. Transport failures and timeouts surface as
// ErrGenerationUnavailable; retry policy belongs to the caller.
func (b *GeminiBackend) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	if b.client == nil {
		return "", fmt.Errorf("%w: gemini client not set", ErrGenerationUnavailable)
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("%w: GEMINI_API_KEY not set", ErrGenerationUnavailable)
	}

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]interface{}{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature": temperature,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", generationAPI, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", apiKey)

	client := &http.Client{Timeout: 120 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		log.Printf("Gemini API error: Status %d, Body: %s", resp.StatusCode, string(bodyBytes))
		return "", fmt.Errorf("%w: API error %d", ErrGenerationUnavailable, resp.StatusCode)
	}

	var apiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
			FinishReason string `json:"finishReason,omitempty"`
		} `json:"candidates"`
		PromptFeedback struct {
			BlockReason string `json:"blockReason,omitempty"`
		} `json:"promptFeedback,omitempty"`
		Error struct {
			Code    int    `json:"code,omitempty"`
			Message string `json:"message,omitempty"`
		} `json:"error,omitempty"`
	}

	bodyBytes, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(bodyBytes, &apiResp); err != nil {
		log.Printf("Failed to decode response. Body: %s", string(bodyBytes))
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if apiResp.Error.Message != "" {
		return "", fmt.Errorf("%w: %s (code: %d)", ErrGenerationUnavailable, apiResp.Error.Message, apiResp.Error.Code)
	}

	if apiResp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("API blocked prompt: %s", apiResp.PromptFeedback.BlockReason)
	}

	if len(apiResp.Candidates) == 0 {
		log.Printf("API returned no candidates. Full response: %s", string(bodyBytes))
		return "", fmt.Errorf("API returned no candidates")
	}

	var responseText strings.Builder
	for i, candidate := range apiResp.Candidates {
		if candidate.FinishReason != "" && candidate.FinishReason != "STOP" {
			log.Printf("Warning: Candidate %d finished with reason: %s", i, candidate.FinishReason)
		}

		for _, part := range candidate.Content.Parts {
			if part.Text == "" {
				continue
			}
			responseText.WriteString(part.Text)
		}
	}

	result := responseText.String()
	if result == "" {
		return "", fmt.Errorf("API returned empty content")
	}

	return result, nil
}
