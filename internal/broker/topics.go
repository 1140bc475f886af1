package broker

import (
	"fmt"
	"strings"
)

// BuildTopic builds the topic for a run event.
// Format: sync/{entity_type} (e.g., sync/Element)
func BuildTopic(entityType string) string {
	return fmt.Sprintf("sync/%s", entityType)
}

// ParseTopic parses a run event topic back to its entity type.
func ParseTopic(topic string) (entityType string, ok bool) {
	parts := strings.Split(topic, "/")
	if len(parts) != 2 || parts[0] != "sync" {
		return "", false
	}
	return parts[1], true
}
