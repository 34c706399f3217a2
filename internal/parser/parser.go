// Package parser decodes model responses into ordered segments of
// narrative text and tagged file blocks.
//
// The wire convention is a line containing [FILE: relative/path.ext]
// followed by a fenced code block with the complete file content.
// Responses drift from the convention constantly (decorated tag lines,
// corrected filenames, truncated fences), so the parser is a forgiving
// line scanner: it never fails and never drops content.
package parser

import (
	"regexp"
	"strings"

	"github.com/emredev/devai/internal/models"
)

// DefaultFileName is used for fenced blocks with no preceding file tag.
const DefaultFileName = "untitled"

// fileTagRe matches a [FILE: name] tag anywhere on a line. Models like
// to prepend markdown decoration ("# [FILE: ...]", "- [FILE: ...]"), so
// anchoring to line start would lose files.
var fileTagRe = regexp.MustCompile(`\[FILE:\s*([^\]]+)\]`)

// Parse scans a model response line by line and returns its ordered
// segments. The result is never empty and Parse never fails: malformed
// input degrades to text, and an unterminated fence is flushed as a
// code segment so a truncated response still yields a partial file.
func Parse(response string) []models.Segment {
	var segments []models.Segment

	var textBuf strings.Builder
	var codeBuf strings.Builder
	inCode := false
	pendingName := ""
	pendingLang := ""

	flushText := func() {
		content := strings.TrimSuffix(textBuf.String(), "\n")
		if strings.TrimSpace(content) != "" {
			segments = append(segments, models.TextSegment(content))
		}
		textBuf.Reset()
	}

	flushCode := func() {
		name := strings.TrimSpace(pendingName)
		if name == "" {
			name = DefaultFileName
		}
		code := strings.TrimSuffix(codeBuf.String(), "\n")
		segments = append(segments, models.CodeSegment(name, pendingLang, code))
		codeBuf.Reset()
		pendingName = ""
		pendingLang = ""
	}

	for _, line := range strings.Split(response, "\n") {
		trimmed := strings.TrimSpace(line)

		if !inCode {
			if m := fileTagRe.FindStringSubmatch(line); m != nil {
				flushText()
				// Last tag before the fence wins: a corrected filename
				// supersedes a mistyped one on the preceding line.
				pendingName = cleanFileName(m[1])
				continue
			}
		}

		if strings.HasPrefix(trimmed, "```") {
			if inCode {
				flushCode()
				inCode = false
			} else {
				flushText()
				pendingLang = fenceLanguage(trimmed)
				inCode = true
			}
			continue
		}

		if inCode {
			codeBuf.WriteString(line)
			codeBuf.WriteString("\n")
		} else {
			textBuf.WriteString(line)
			textBuf.WriteString("\n")
		}
	}

	if inCode {
		// Truncated mid-fence: recover the partial file body.
		flushCode()
	} else {
		flushText()
	}

	if len(segments) == 0 {
		return []models.Segment{models.TextSegment("")}
	}

	return segments
}

// cleanFileName trims surrounding whitespace and stray brackets from a
// tagged filename. The path itself is preserved verbatim; callers that
// need a bare name strip the directory part themselves.
func cleanFileName(name string) string {
	return strings.Trim(name, " \t[]")
}

// fenceLanguage extracts the language tag from an opening fence line.
func fenceLanguage(trimmed string) string {
	rest := strings.TrimLeft(trimmed, "`")
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
