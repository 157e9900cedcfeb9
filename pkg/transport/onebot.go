// Package transport is the thin adapter between the platform and the engine.
// It speaks the OneBot HTTP flavor: inbound events arrive as JSON posts,
// outbound messages are fire-and-forget API calls.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/jwen23/campusbot/pkg/domain"
)

type inboundEvent struct {
	PostType    string           `json:"post_type"`
	MessageType string           `json:"message_type"`
	SelfID      int64            `json:"self_id"`
	UserID      int64            `json:"user_id"`
	GroupID     int64            `json:"group_id"`
	Sender      inboundSender    `json:"sender"`
	Message     []inboundSegment `json:"message"`
}

type inboundSender struct {
	Nickname string `json:"nickname"`
	Card     string `json:"card"`
	Role     string `json:"role"`
}

type inboundSegment struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type httpTransport struct {
	listenAddr string
	apiURL     string
	hc         *http.Client
	events     chan domain.InboundEvent
}

func NewHTTPTransport(listenAddr, apiURL string) *httpTransport {
	return &httpTransport{
		listenAddr: listenAddr,
		apiURL:     apiURL,
		hc:         &http.Client{Timeout: 10 * time.Second},
		events:     make(chan domain.InboundEvent),
	}
}

func (t *httpTransport) Name() string { return "http_transport" }

func (t *httpTransport) Events() <-chan domain.InboundEvent { return t.events }

func (t *httpTransport) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", t.handleEvent)

	srv := &http.Server{Addr: t.listenAddr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("transport listening", "addr", t.listenAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving transport: %w", err)
	}
	return nil
}

func (t *httpTransport) handleEvent(w http.ResponseWriter, r *http.Request) {
	var ev inboundEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		http.Error(w, "bad event payload", http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)

	if ev.PostType != "message" {
		return
	}

	event, ok := t.convert(ev)
	if !ok {
		return
	}

	select {
	case t.events <- event:
	case <-r.Context().Done():
	}
}

func (t *httpTransport) convert(ev inboundEvent) (domain.InboundEvent, bool) {
	scope := domain.ScopePrivate
	if ev.MessageType == "group" {
		scope = domain.ScopeGroup
	}

	senderName := ev.Sender.Card
	if senderName == "" {
		senderName = ev.Sender.Nickname
	}

	event := domain.InboundEvent{
		Scope:      scope,
		SenderID:   ev.UserID,
		SenderName: senderName,
		SelfID:     ev.SelfID,
		GroupID:    ev.GroupID,
		GroupAdmin: ev.Sender.Role == "admin" || ev.Sender.Role == "owner",
	}

	for _, seg := range ev.Message {
		switch seg.Type {
		case "text":
			var data struct {
				Text string `json:"text"`
			}
			if json.Unmarshal(seg.Data, &data) == nil {
				event.Segments = append(event.Segments, domain.TextSegment(data.Text))
			}
		case "image":
			var data struct {
				File    string `json:"file"`
				URL     string `json:"url"`
				Summary string `json:"summary"`
				Size    int64  `json:"file_size"`
			}
			if json.Unmarshal(seg.Data, &data) == nil {
				event.Segments = append(event.Segments, domain.ImageSegment(domain.ImageInfo{
					File:     data.File,
					URL:      data.URL,
					Caption:  data.Summary,
					FileSize: data.Size,
				}))
			}
		case "at":
			var data struct {
				QQ string `json:"qq"`
			}
			if json.Unmarshal(seg.Data, &data) == nil {
				if id, err := strconv.ParseInt(data.QQ, 10, 64); err == nil {
					event.Mentions = append(event.Mentions, id)
					event.Segments = append(event.Segments, domain.Segment{Type: domain.SegmentMention, MentionID: id})
				}
			}
		case "face":
			var data struct {
				ID string `json:"id"`
			}
			if json.Unmarshal(seg.Data, &data) == nil {
				event.Segments = append(event.Segments, domain.Segment{Type: domain.SegmentSticker, StickerID: data.ID})
			}
		default:
			// Unknown segment types are passed through unrecognized and
			// dropped by the normalizer.
			event.Segments = append(event.Segments, domain.Segment{Type: domain.SegmentType(seg.Type)})
		}
	}

	if len(event.Segments) == 0 {
		return domain.InboundEvent{}, false
	}
	return event, true
}

func (t *httpTransport) SendPrivate(ctx context.Context, userID int64, text string) error {
	return t.call(ctx, "send_private_msg", map[string]any{"user_id": userID, "message": text})
}

func (t *httpTransport) SendGroup(ctx context.Context, groupID int64, text string) error {
	return t.call(ctx, "send_group_msg", map[string]any{"group_id": groupID, "message": text})
}

func (t *httpTransport) call(ctx context.Context, action string, params map[string]any) error {
	payload, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.apiURL+"/"+action, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.hc.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("calling %s: status %d", action, resp.StatusCode)
	}

	slog.DebugContext(ctx, "sent message", "action", action)
	return nil
}
