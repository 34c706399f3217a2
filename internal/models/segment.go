package models

// SegmentType distinguishes narrative text from file content in a
// parsed model response.
type SegmentType string

const (
	SegmentText SegmentType = "text"
	SegmentCode SegmentType = "code"
)

// Segment is one parsed unit of a model response: either narrative text
// or one complete file's content tagged with its name and language.
type Segment struct {
	Type     SegmentType `json:"type"`
	Content  string      `json:"content,omitempty"`
	FileName string      `json:"file_name,omitempty"`
	Language string      `json:"language,omitempty"`
	Code     string      `json:"code,omitempty"`
}

// TextSegment creates a text segment
func TextSegment(content string) Segment {
	return Segment{Type: SegmentText, Content: content}
}

// CodeSegment creates a code segment
func CodeSegment(fileName, language, code string) Segment {
	return Segment{Type: SegmentCode, FileName: fileName, Language: language, Code: code}
}

// CodeSegments filters a segment list down to its code segments,
// preserving order.
func CodeSegments(segments []Segment) []Segment {
	var out []Segment
	for _, s := range segments {
		if s.Type == SegmentCode {
			out = append(out, s)
		}
	}
	return out
}
