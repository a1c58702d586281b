package pipeline

import (
	"fmt"
	"os"
	"strings"

	"github.com/forPelevin/vidscope/internal/types"
)

var rule = strings.Repeat("=", 50)

func resultTitle(m types.Mode) string {
	switch m {
	case types.ModeRandom:
		return "CALL-TO-ACTION:"
	case types.ModeCreative:
		return "CREATIVE TEXT:"
	default:
		return "ANALYSIS RESULT:"
	}
}

// RenderResult formats the block printed to stdout after a successful run.
func RenderResult(res types.Result) string {
	return fmt.Sprintf("\n%s\n%s\n%s\n%s\n", rule, resultTitle(res.Mode), rule, res.Text)
}

// RenderReport formats the contents of the --output file: a short header
// naming the input and mode parameters, a rule, then the text.
func RenderReport(inputPath, prompt string, creative types.CreativeRequest, res types.Result) string {
	var b strings.Builder
	switch res.Mode {
	case types.ModeRandom:
		b.WriteString("Call-to-Action Generation Results\n")
		fmt.Fprintf(&b, "File: %s\n", inputPath)
		b.WriteString("Mode: Random CTA Generation\n")
	case types.ModeCreative:
		b.WriteString("Creative Text Generation Results\n")
		fmt.Fprintf(&b, "File: %s\n", inputPath)
		fmt.Fprintf(&b, "Theme: %s\n", creative.Theme)
		fmt.Fprintf(&b, "Style: %s\n", creative.Style)
	default:
		b.WriteString("Video Analysis Results\n")
		fmt.Fprintf(&b, "File: %s\n", inputPath)
		fmt.Fprintf(&b, "Prompt: %s\n", prompt)
	}
	fmt.Fprintf(&b, "%s\n\n", rule)
	b.WriteString(res.Text)
	return b.String()
}

func writeReport(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("save results: %w", err)
	}
	return nil
}
