package publish

import "fmt"

// RenderReadme produces the repository README for the given round.
func RenderReadme(repoName, brief string, round int) string {
	return fmt.Sprintf(`# %s

## Summary
Auto-generated application (Round %d): %s

## Setup
No setup required. This is a static HTML page deployed on GitHub Pages.

## Usage
1. Visit the GitHub Pages URL for this repository
2. The application will load and run in your browser
3. Follow the on-screen instructions

## Code Explanation
This application was automatically generated using LLM-based code generation (Groq/Llama).

The code includes:
- Self-contained HTML with embedded CSS and JavaScript
- Bootstrap 5 for styling
- All required functionality as specified in the brief

## Deployment
- Hosted on GitHub Pages
- Automatically deployed from the main branch
- Updates are live within minutes of pushing changes

## License
MIT License - see LICENSE file for details`, repoName, round, brief)
}
