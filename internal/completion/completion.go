package completion

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// Message is a single role-tagged chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request describes one completion call.
type Request struct {
	Messages    []Message
	Temperature float64
	MaxTokens   int
	// Stream asks the upstream for a streamed response. Streamed responses
	// are never cached, so the flag is excluded from the cache key and is
	// dropped whenever the service has to answer from cache.
	Stream bool
	// ForceCache answers only from cache, never calling upstream.
	ForceCache bool
}

// Completion is a successful completion result.
type Completion struct {
	Content string `json:"content"`
	Cached  bool   `json:"cached"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// cacheKey derives a deterministic key from the normalized request. The
// stream flag is not part of the key.
func cacheKey(req Request) string {
	parts := make([]string, 0, len(req.Messages)+2)
	for _, m := range req.Messages {
		parts = append(parts, fmt.Sprintf("%s:%s", m.Role, m.Content))
	}
	parts = append(parts, fmt.Sprintf("temp:%g", req.Temperature))
	parts = append(parts, fmt.Sprintf("tokens:%d", req.MaxTokens))

	sum := sha256.Sum256([]byte(strings.Join(parts, "|||")))
	return fmt.Sprintf("%x", sum[:])
}
