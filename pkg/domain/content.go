package domain

type SegmentType string

const (
	SegmentText    SegmentType = "text"
	SegmentImage   SegmentType = "image"
	SegmentMention SegmentType = "mention"
	SegmentSticker SegmentType = "sticker"
)

// ImageInfo carries the platform metadata of one image segment.
type ImageInfo struct {
	File     string
	URL      string
	Caption  string
	FileSize int64
	Sticker  string
}

// Segment is one piece of an inbound message. Only the fields matching Type
// are meaningful.
type Segment struct {
	Type      SegmentType
	Text      string
	Image     *ImageInfo
	MentionID int64
	StickerID string
}

func TextSegment(text string) Segment {
	return Segment{Type: SegmentText, Text: text}
}

func ImageSegment(info ImageInfo) Segment {
	return Segment{Type: SegmentImage, Image: &info}
}

// CanonicalMessage is the normalized, transport-agnostic message content.
// A message that reduced to a single text segment is carried in Plain with
// Segments left nil; anything else keeps the ordered segment list.
type CanonicalMessage struct {
	Plain    string
	Segments []Segment
}

func TextMessage(text string) CanonicalMessage {
	return CanonicalMessage{Plain: text}
}

func (m CanonicalMessage) IsPlain() bool { return m.Segments == nil }
