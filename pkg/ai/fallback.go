package ai

import (
	"context"
	"fmt"
	"log"
	"net"
	"strings"

	"draftpilot-backend/internal/draft/domain"
)

// FallbackService routes between providers:
// - Gemini first (better grounding adherence), fallback to Ollama on quota error
// - Ollama retried as last resort on connection errors
type FallbackService struct {
	gemini ReplyService
	ollama *OllamaService
}

// NewFallbackService creates a new fallback service with both providers
func NewFallbackService(gemini ReplyService, ollama *OllamaService) *FallbackService {
	return &FallbackService{
		gemini: gemini,
		ollama: ollama,
	}
}

// isConnectionError checks if the error is a network/connection error
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}

	if _, ok := err.(net.Error); ok {
		return true
	}

	errStr := strings.ToLower(err.Error())
	connectionIndicators := []string{
		"connection refused",
		"no such host",
		"network is unreachable",
		"connection reset",
		"timeout",
		"dial tcp",
		"eof",
	}
	for _, indicator := range connectionIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}

	return false
}

// isQuotaError checks if the error indicates API quota exhaustion (429)
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	quotaIndicators := []string{
		"429",
		"quota",
		"rate limit",
		"too many requests",
		"resource exhausted",
	}
	for _, indicator := range quotaIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}

	return false
}

func (f *FallbackService) GenerateReply(ctx context.Context, msg *domain.Message, similarContext, historyContext string) (string, error) {
	return f.generate(ctx, "reply", func(svc ReplyService) (string, error) {
		return svc.GenerateReply(ctx, msg, similarContext, historyContext)
	})
}

func (f *FallbackService) GenerateClarification(ctx context.Context, msg *domain.Message, missingSlots []string) (string, error) {
	return f.generate(ctx, "clarification", func(svc ReplyService) (string, error) {
		return svc.GenerateClarification(ctx, msg, missingSlots)
	})
}

// generate tries Gemini first, falls back to Ollama, and retries Gemini once
// if Ollama fails with a connection error.
func (f *FallbackService) generate(ctx context.Context, kind string, call func(ReplyService) (string, error)) (string, error) {
	if f.gemini != nil {
		log.Printf("[AI] Trying Gemini for %s generation...", kind)
		result, err := call(f.gemini)
		if err == nil {
			return result, nil
		}
		if isQuotaError(err) {
			log.Printf("[AI] Gemini quota exhausted: %v, falling back to Ollama", err)
		} else {
			log.Printf("[AI] Gemini error: %v, falling back to Ollama", err)
		}
	}

	if f.ollama != nil {
		log.Printf("[AI] Using Ollama for %s generation...", kind)
		result, err := call(f.ollama)
		if err == nil {
			return result, nil
		}
		if isConnectionError(err) && f.gemini != nil {
			log.Printf("[AI] Ollama connection failed: %v, retrying Gemini", err)
			return call(f.gemini)
		}
		return "", fmt.Errorf("ollama %s generation failed: %w", kind, err)
	}

	return "", fmt.Errorf("no AI provider available for %s generation", kind)
}
