package studio

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func TestNextTitle(t *testing.T) {
	tests := []struct {
		name    string
		version int
		want    string
	}{
		{"Snake", 2, "Snake V2"},
		{"Snake V2", 3, "Snake V3"},
		{"Snake V12", 13, "Snake V13"},
		{"Snake V2 V3", 4, "Snake V2 V4"},
		{"Version V", 2, "Version V V2"},
		{"SnakeV2", 3, "SnakeV2 V3"},
		{"", 2, " V2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextTitle(tt.name, tt.version))
		})
	}
}

func TestTitleSuffixNeverStacks(t *testing.T) {
	name := "Snake"
	for v := 2; v <= 10; v++ {
		name = NextTitle(name, v)
		assert.Equal(t, 1, strings.Count(name, " V"), name)
	}
	assert.Equal(t, "Snake V10", name)
}

func TestPrompts(t *testing.T) {
	p := GeneratePrompt("pong")
	assert.Contains(t, p, "single-file HTML game")
	assert.Contains(t, p, "Do not use any external libraries or assets.")
	assert.True(t, strings.HasSuffix(p, "Game Description: \"pong\""))

	assert.Equal(t,
		"This is the code of the game we are iterating on:\n<html></html>\n\nIterate on this game.\nThis is the user request:\nfaster",
		IteratePrompt("<html></html>", "faster"))
}
