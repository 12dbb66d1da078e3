// Package assistant answers chat messages: text transaction batches, receipt
// images and a handful of slash commands.
package assistant

// Kind tags the payload of a Content.
type Kind int

const (
	KindText Kind = iota
	KindImage
	KindUnsupported
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	default:
		return "unsupported"
	}
}

// Content is the payload of an incoming message, resolved once by the
// transport: text, an image on local disk, or something we cannot handle.
type Content struct {
	Kind      Kind
	Text      string
	ImagePath string
	Label     string // what the unsupported payload was, e.g. "sticker"
}

// Text wraps a text payload.
func Text(s string) Content { return Content{Kind: KindText, Text: s} }

// Image wraps an image file.
func Image(path string) Content { return Content{Kind: KindImage, ImagePath: path} }

// Unsupported wraps any other payload.
func Unsupported(label string) Content { return Content{Kind: KindUnsupported, Label: label} }

// Message is one incoming chat message.
type Message struct {
	UserID   int64
	Username string
	Content  Content
}

// Reply is the assistant's answer. Options are quick replies the transport
// may render as buttons.
type Reply struct {
	Text    string
	Options []string
}
