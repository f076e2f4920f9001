package domain

const DefaultLanguage = "cpp"

// Document is the room's shared code buffer. Updates replace the whole
// buffer; the last write to reach the hub wins.
type Document struct {
	Code     string `json:"code"`
	Language string `json:"language"`
	Revision uint64 `json:"revision"`
}

func NewDocument() *Document {
	return &Document{
		Language: DefaultLanguage,
	}
}

// SetCode overwrites the buffer and reports whether the text changed.
func (d *Document) SetCode(code string) bool {
	if d.Code == code {
		return false
	}
	d.Code = code
	d.Revision++
	return true
}

// SetLanguage changes the language tag and reports whether it changed.
// Empty tags are ignored.
func (d *Document) SetLanguage(language string) bool {
	if language == "" || d.Language == language {
		return false
	}
	d.Language = language
	d.Revision++
	return true
}
