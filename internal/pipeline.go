package internal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Pipeline turns observed raw messages into appended, persisted records:
// normalize, identify, dedup-check, resolve reply target, append, persist.
type Pipeline struct {
	store     *Store
	ids       IDGenerator
	resolver  *ReplyResolver
	sessionID string
	now       func() time.Time
}

// PipelineOption configures a Pipeline
type PipelineOption func(*Pipeline)

// WithPrefixLen sets the content prefix length used for live ids.
func WithPrefixLen(n int) PipelineOption {
	return func(p *Pipeline) {
		p.ids = NewIDGenerator(n)
	}
}

// WithSessionID overrides the recorder session id stamped on new records.
func WithSessionID(id string) PipelineOption {
	return func(p *Pipeline) {
		p.sessionID = id
	}
}

// WithClock overrides the capture clock.
func WithClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) {
		p.now = now
	}
}

// NewSessionID returns a time-ordered id for a recorder run.
func NewSessionID() string {
	id := uuid.Must(uuid.NewV7())
	return strings.ReplaceAll(id.String(), "-", "")
}

// NewPipeline creates a pipeline appending to store
func NewPipeline(store *Store, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		store:    store,
		ids:      NewIDGenerator(DefaultPrefixLen),
		resolver: NewReplyResolver(store),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.sessionID == "" {
		p.sessionID = NewSessionID()
	}
	return p
}

// SessionID returns the id stamped on records accepted by this pipeline.
func (p *Pipeline) SessionID() string {
	return p.sessionID
}

// CycleResult summarizes one ingested batch
type CycleResult struct {
	Observed   int
	Duplicates int
	Invalid    int
	Accepted   []MessageRecord
}

// ErrInvalidMessage is returned by IngestOne for messages missing a
// timestamp, author or content.
var ErrInvalidMessage = errors.New("message is missing timestamp, author or content")

// Ingest runs the batch through the pipeline in order. Every accepted record
// is persisted before the next message is processed. A persist failure stops
// the batch; the record stays in memory and is written by the next
// successful persist.
func (p *Pipeline) Ingest(ctx context.Context, batch []RawMessage) (CycleResult, error) {
	var result CycleResult

	for _, msg := range batch {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Observed++

		rec, accepted, err := p.IngestOne(msg)
		switch {
		case errors.Is(err, ErrInvalidMessage):
			result.Invalid++
			continue
		case err != nil && accepted:
			result.Accepted = append(result.Accepted, rec)
			return result, err
		case err != nil:
			return result, err
		case !accepted:
			result.Duplicates++
			continue
		}
		result.Accepted = append(result.Accepted, rec)
	}

	return result, nil
}

// IngestOne processes a single message. accepted is false for messages
// already in the store. When accepted is true and err is non-nil the record
// was appended but could not be persisted.
func (p *Pipeline) IngestOne(msg RawMessage) (rec MessageRecord, accepted bool, err error) {
	if msg.Timestamp == "" || msg.Author == "" || msg.Content == "" {
		return MessageRecord{}, false, ErrInvalidMessage
	}

	id := p.ids.Generate(msg.Timestamp, msg.Author, msg.Content)
	if p.store.Exists(id) {
		return MessageRecord{}, false, nil
	}

	now := p.now()
	rec = MessageRecord{
		ID:         id,
		Date:       now.Format("20060102"),
		Timestamp:  msg.Timestamp,
		Author:     msg.Author,
		Content:    msg.Content,
		IsReply:    msg.IsReply,
		CapturedAt: now.Format(time.RFC3339),
		SessionID:  p.sessionID,
	}

	// Resolve before appending so a message can never reply to itself.
	if msg.IsReply {
		rec.ReplyTargetAuthor = msg.ReplyTargetAuthor
		if target, ok := p.resolver.Resolve(msg.ReplyTargetAuthor, msg.ReplyPreview); ok {
			rec.ReplyTargetID = target
		}
	}

	if err := p.store.Append(rec); err != nil {
		return MessageRecord{}, false, err
	}
	if err := p.store.Persist(); err != nil {
		return rec, true, fmt.Errorf("failed to persist message %q: %w", id, err)
	}
	return rec, true, nil
}
