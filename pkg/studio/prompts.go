package studio

import "fmt"

const generateTemplate = "You are a game development expert. Create a complete, single-file HTML game based on the following description. " +
	"The game must be self-contained in a single HTML file with all necessary HTML, CSS, and JavaScript. " +
	"Do not use any external libraries or assets. The game should be playable and functional.\n\n" +
	"Game Description: \"%s\""

const iterateTemplate = "This is the code of the game we are iterating on:\n%s\n\n" +
	"Iterate on this game.\n" +
	"This is the user request:\n%s"

// GeneratePrompt wraps a game description in the generation instructions.
func GeneratePrompt(description string) string {
	return fmt.Sprintf(generateTemplate, description)
}

// IteratePrompt embeds the current code and the change request.
func IteratePrompt(code, request string) string {
	return fmt.Sprintf(iterateTemplate, code, request)
}
