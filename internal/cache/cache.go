package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// RequestKey generates a cache key for one LLM generation request.
// The key covers everything that shapes the response: provider, model
// and both prompts.
func RequestKey(provider, model, system, prompt string) string {
	h := sha256.New()
	h.Write([]byte(strings.Join([]string{provider, model, system, prompt}, "\x00")))
	return "podtrace:v1:" + hex.EncodeToString(h.Sum(nil))
}
