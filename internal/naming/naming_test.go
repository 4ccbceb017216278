package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"orders.created", "orders-created"},
		{"Orders / Created!", "orders-created"},
		{"room/{roomId}", "room-roomid"},
		{"--leading and trailing--", "leading-and-trailing"},
		{"Événements Café", "evenements-cafe"},
		{"smartylighting.streetlights.1.0.event.{streetlightId}.lighting.measured", "smartylighting-streetlights-1-0-event-streetlightid-lighting-measured"},
		{"!!!", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slug(tt.input))
		})
	}
}

func TestToTitleCase(t *testing.T) {
	assert.Equal(t, "Publish", ToTitleCase("publish"))
	assert.Equal(t, "Subscribe Events", ToTitleCase("subscribe events"))
	assert.Equal(t, "", ToTitleCase(""))
}
