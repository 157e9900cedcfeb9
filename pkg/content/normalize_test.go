package content

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jwen23/campusbot/pkg/domain"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		raw      []domain.Segment
		want     domain.CanonicalMessage
		hasText  bool
		hasImage bool
		text     string
	}{
		{
			name:    "single text collapses to plain",
			raw:     []domain.Segment{domain.TextSegment("hello")},
			want:    domain.TextMessage("hello"),
			hasText: true,
			text:    "hello",
		},
		{
			name: "blank text dropped, image and text kept",
			raw: []domain.Segment{
				domain.TextSegment("   "),
				domain.ImageSegment(domain.ImageInfo{File: "a.png"}),
				domain.TextSegment("hi"),
			},
			want: domain.CanonicalMessage{Segments: []domain.Segment{
				domain.ImageSegment(domain.ImageInfo{File: "a.png"}),
				domain.TextSegment("hi"),
			}},
			hasText:  true,
			hasImage: true,
			text:     "hi",
		},
		{
			name: "unknown segment type skipped",
			raw: []domain.Segment{
				{Type: domain.SegmentType("video")},
				domain.TextSegment("after"),
			},
			want:    domain.TextMessage("after"),
			hasText: true,
			text:    "after",
		},
		{
			name: "only blank text yields empty message",
			raw:  []domain.Segment{domain.TextSegment("\t\n")},
			want: domain.CanonicalMessage{},
		},
		{
			name: "mention and sticker preserved in order",
			raw: []domain.Segment{
				{Type: domain.SegmentMention, MentionID: 42},
				{Type: domain.SegmentSticker, StickerID: "14"},
			},
			want: domain.CanonicalMessage{Segments: []domain.Segment{
				{Type: domain.SegmentMention, MentionID: 42},
				{Type: domain.SegmentSticker, StickerID: "14"},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.hasText, HasText(got))
			assert.Equal(t, tt.hasImage, HasImage(got))
			assert.Equal(t, tt.text, ExtractText(got))
		})
	}
}

func TestExtractTextJoinsSegments(t *testing.T) {
	msg := Normalize([]domain.Segment{
		domain.TextSegment("first"),
		domain.ImageSegment(domain.ImageInfo{File: "pic.jpg"}),
		domain.TextSegment("second"),
	})

	assert.Equal(t, "first second", ExtractText(msg))
}

func TestFirstImage(t *testing.T) {
	msg := Normalize([]domain.Segment{
		domain.TextSegment("look"),
		domain.ImageSegment(domain.ImageInfo{File: "one.png", URL: "http://x/one.png"}),
		domain.ImageSegment(domain.ImageInfo{File: "two.png"}),
	})

	img := FirstImage(msg)
	if assert.NotNil(t, img) {
		assert.Equal(t, "one.png", img.File)
	}
	assert.Len(t, ExtractImages(msg), 2)

	assert.Nil(t, FirstImage(domain.TextMessage("no images")))
}

func TestDescribe(t *testing.T) {
	msg := Normalize([]domain.Segment{
		domain.TextSegment("see"),
		domain.ImageSegment(domain.ImageInfo{File: "cat.jpg"}),
		{Type: domain.SegmentMention, MentionID: 7},
		{Type: domain.SegmentSticker, StickerID: "3"},
	})

	assert.Equal(t, "see [image: cat.jpg] [@7] [sticker 3]", Describe(msg))
	assert.Equal(t, "plain", Describe(domain.TextMessage("plain")))
}
