package genai

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/appsmith/internal/task"
)

const systemPrompt = "You are an expert web developer who creates complete, working HTML applications."

// attachmentURLLimit caps the attachment URL length embedded in the prompt.
// Cosmetic truncation to keep prompts small, not a security boundary.
const attachmentURLLimit = 100

// BuildPrompt assembles the single generation prompt from the task brief,
// the pass/fail checks, and any attachments.
func BuildPrompt(brief string, checks []string, attachments []task.Attachment) string {
	var checksList strings.Builder
	for i, check := range checks {
		if i > 0 {
			checksList.WriteString("\n")
		}
		checksList.WriteString("- " + check)
	}

	attachmentInfo := ""
	if len(attachments) > 0 {
		lines := make([]string, 0, len(attachments)+1)
		lines = append(lines, "ATTACHMENTS:")
		for _, att := range attachments {
			ref := att.URL
			if len(ref) > attachmentURLLimit {
				ref = ref[:attachmentURLLimit] + "..."
			}
			lines = append(lines, fmt.Sprintf("- %s: %s", att.Name, ref))
		}
		attachmentInfo = strings.Join(lines, "\n")
	}

	return fmt.Sprintf(`Generate a complete single-page HTML application.

TASK BRIEF:
%s

REQUIREMENTS (the app MUST pass these checks):
%s

%s

INSTRUCTIONS:
1. Create a COMPLETE, self-contained HTML file
2. Include ALL CSS in style tags within head
3. Include ALL JavaScript in script tags before body closing tag
4. Use Bootstrap 5 from CDN
5. Make sure ALL requirement checks will pass
6. Use professional, clean code

Return ONLY the HTML code, nothing else. No explanations.`, brief, checksList.String(), attachmentInfo)
}
