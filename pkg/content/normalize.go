// Package content normalizes heterogeneous platform message segments into the
// canonical content model and provides query helpers over it. Everything here
// is a pure function.
package content

import (
	"fmt"
	"strings"

	"github.com/jwen23/campusbot/pkg/domain"
)

// Normalize converts an ordered list of platform segments into a canonical
// message. Whitespace-only text segments are dropped and segments of unknown
// type are skipped without aborting the rest of the message. A result of a
// single text segment collapses to plain text.
func Normalize(raw []domain.Segment) domain.CanonicalMessage {
	var segments []domain.Segment

	for _, seg := range raw {
		switch seg.Type {
		case domain.SegmentText:
			if strings.TrimSpace(seg.Text) == "" {
				continue
			}
			segments = append(segments, domain.TextSegment(seg.Text))
		case domain.SegmentImage:
			if seg.Image == nil {
				continue
			}
			img := *seg.Image
			segments = append(segments, domain.ImageSegment(img))
		case domain.SegmentMention:
			segments = append(segments, domain.Segment{Type: domain.SegmentMention, MentionID: seg.MentionID})
		case domain.SegmentSticker:
			segments = append(segments, domain.Segment{Type: domain.SegmentSticker, StickerID: seg.StickerID})
		default:
			// Unknown platform segment types must not break the message.
		}
	}

	if len(segments) == 1 && segments[0].Type == domain.SegmentText {
		return domain.TextMessage(segments[0].Text)
	}
	return domain.CanonicalMessage{Segments: segments}
}

func HasText(m domain.CanonicalMessage) bool {
	if m.IsPlain() {
		return m.Plain != ""
	}
	for _, seg := range m.Segments {
		if seg.Type == domain.SegmentText {
			return true
		}
	}
	return false
}

func HasImage(m domain.CanonicalMessage) bool {
	for _, seg := range m.Segments {
		if seg.Type == domain.SegmentImage {
			return true
		}
	}
	return false
}

// ExtractText joins all text segments with a single space.
func ExtractText(m domain.CanonicalMessage) string {
	if m.IsPlain() {
		return m.Plain
	}
	var parts []string
	for _, seg := range m.Segments {
		if seg.Type == domain.SegmentText {
			parts = append(parts, seg.Text)
		}
	}
	return strings.Join(parts, " ")
}

// ExtractImages returns all image segments in order.
func ExtractImages(m domain.CanonicalMessage) []domain.ImageInfo {
	var images []domain.ImageInfo
	for _, seg := range m.Segments {
		if seg.Type == domain.SegmentImage && seg.Image != nil {
			images = append(images, *seg.Image)
		}
	}
	return images
}

// FirstImage returns the first image of the message, or nil.
func FirstImage(m domain.CanonicalMessage) *domain.ImageInfo {
	for _, seg := range m.Segments {
		if seg.Type == domain.SegmentImage && seg.Image != nil {
			img := *seg.Image
			return &img
		}
	}
	return nil
}

// Describe renders the whole message as text, replacing non-text segments
// with readable placeholders. Used when recording a message into the
// conversation history.
func Describe(m domain.CanonicalMessage) string {
	if m.IsPlain() {
		return m.Plain
	}
	var parts []string
	for _, seg := range m.Segments {
		switch seg.Type {
		case domain.SegmentText:
			parts = append(parts, seg.Text)
		case domain.SegmentImage:
			parts = append(parts, fmt.Sprintf("[image: %s]", seg.Image.File))
		case domain.SegmentMention:
			parts = append(parts, fmt.Sprintf("[@%d]", seg.MentionID))
		case domain.SegmentSticker:
			parts = append(parts, fmt.Sprintf("[sticker %s]", seg.StickerID))
		}
	}
	return strings.Join(parts, " ")
}
