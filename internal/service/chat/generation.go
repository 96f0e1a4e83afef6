package chat

import (
	"context"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/zhouzirui/z-stylist/backend/internal/model/chat"
	"github.com/zhouzirui/z-stylist/backend/internal/service/reply"
)

const fallbackReply = "Sorry, I couldn't pull up suggestions right now. Please try again in a moment."

// lane serializes the reply work of one thread. Its context is cancelled
// when the thread is deleted.
type lane struct {
	ctx     context.Context
	cancel  context.CancelFunc
	tail    chan struct{}
	loading int
}

// SendMessage appends the user's text right away and schedules a streamed
// assistant reply. Blank text is ignored.
func (s *Service) SendMessage(ctx context.Context, text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	s.Initialize(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	thread := s.ensureActiveLocked()
	history := chat.CloneMessages(thread.Messages)
	s.appendLocked(thread, chat.NewUserMessage(trimmed, ""))

	req := reply.Request{Kind: reply.KindText, Text: trimmed, Mode: s.mode, History: history}
	threadID := thread.ID
	s.scheduleLocked(threadID, func(ctx context.Context) {
		s.runReply(ctx, threadID, req, s.timing.ReplyDelay, true)
	})
	return true
}

// SendImageMessage records an image search and schedules a complete
// assistant reply. An empty image is ignored.
func (s *Service) SendImageMessage(ctx context.Context, imageData string) bool {
	if strings.TrimSpace(imageData) == "" {
		return false
	}
	s.Initialize(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	thread := s.ensureActiveLocked()
	s.appendLocked(thread, chat.NewUserMessage(reply.ImageCaption, imageData))

	req := reply.Request{Kind: reply.KindImage, Image: imageData, Mode: s.mode, History: chat.CloneMessages(thread.Messages)}
	threadID := thread.ID
	s.scheduleLocked(threadID, func(ctx context.Context) {
		s.runReply(ctx, threadID, req, s.timing.ImageDelay, false)
	})
	return true
}

// ScanBarcode schedules a price-comparison reply for a scanned item. No user
// message is recorded.
func (s *Service) ScanBarcode(ctx context.Context) {
	s.Initialize(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	thread := s.ensureActiveLocked()
	req := reply.Request{Kind: reply.KindBarcode, Mode: s.mode, History: chat.CloneMessages(thread.Messages)}
	threadID := thread.ID
	s.scheduleLocked(threadID, func(ctx context.Context) {
		s.runReply(ctx, threadID, req, s.timing.ScanDelay, false)
	})
}

// ensureActiveLocked returns the active thread, creating one when the active
// thread was deleted.
func (s *Service) ensureActiveLocked() *chat.Thread {
	if t := s.findLocked(s.activeID); t != nil {
		return t
	}
	thread := chat.NewThread("")
	s.threads = append([]*chat.Thread{&thread}, s.threads...)
	s.activeID = thread.ID
	s.emitLocked(chat.Event{Type: chat.EventThreadCreated, ThreadID: thread.ID, Title: thread.Title})
	s.emitLocked(chat.Event{Type: chat.EventThreadActivated, ThreadID: thread.ID})
	return &thread
}

func (s *Service) appendLocked(thread *chat.Thread, msg chat.Message) {
	thread.Messages = append(thread.Messages, msg)
	m := msg.Clone()
	s.emitLocked(chat.Event{Type: chat.EventMessageAppended, ThreadID: thread.ID, Message: &m})
}

func (s *Service) laneLocked(threadID string) *lane {
	if ln, ok := s.lanes[threadID]; ok {
		return ln
	}
	ctx, cancel := context.WithCancel(s.root)
	ln := &lane{ctx: ctx, cancel: cancel}
	s.lanes[threadID] = ln
	return ln
}

func (s *Service) loadingLocked(threadID string) bool {
	ln, ok := s.lanes[threadID]
	return ok && ln.loading > 0
}

// scheduleLocked queues job behind the thread's earlier work and marks the
// thread as loading until the reply shell appears.
func (s *Service) scheduleLocked(threadID string, job func(ctx context.Context)) {
	ln := s.laneLocked(threadID)
	ln.loading++
	s.emitLoadingLocked(threadID)

	prev := ln.tail
	done := make(chan struct{})
	ln.tail = done

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(done)
		if prev != nil {
			select {
			case <-prev:
			case <-ln.ctx.Done():
				return
			}
		}
		if ln.ctx.Err() != nil {
			return
		}
		job(ln.ctx)
	}()
}

func (s *Service) emitLoadingLocked(threadID string) {
	loading := s.loadingLocked(threadID)
	s.emitLocked(chat.Event{Type: chat.EventLoadingChanged, ThreadID: threadID, Loading: &loading})
}

// runReply waits out the simulated latency, asks the generator for a reply
// and appends it to threadID. A thread deleted meanwhile drops the reply.
func (s *Service) runReply(ctx context.Context, threadID string, req reply.Request, delay time.Duration, stream bool) {
	if !sleep(ctx, delay) {
		return
	}

	out, err := s.generator.Generate(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Warn("reply generation failed", zap.String("thread", threadID), zap.String("kind", string(req.Kind)), zap.Error(err))
		out = reply.Reply{Content: fallbackReply}
	}
	if strings.TrimSpace(out.Content) == "" {
		out.Content = fallbackReply
	}

	var msg chat.Message
	if stream {
		msg = chat.NewAssistantShell(out.Content, out.Products, out.Chips)
	} else {
		msg = chat.NewAssistantMessage(out.Content, out.Products, out.Chips)
	}

	s.mu.Lock()
	thread := s.findLocked(threadID)
	if thread == nil || ctx.Err() != nil {
		s.mu.Unlock()
		s.logger.Debug("dropping reply for deleted thread", zap.String("thread", threadID))
		return
	}
	if ln, ok := s.lanes[threadID]; ok && ln.loading > 0 {
		ln.loading--
	}
	s.appendLocked(thread, msg)
	s.emitLoadingLocked(threadID)
	s.mu.Unlock()

	if stream {
		if !s.streamReply(ctx, threadID, msg.ID, msg.FullContent) {
			return
		}
	}
	s.finishReply(threadID, msg.ID)
}

// streamReply reveals content one whitespace-delimited token per tick. The
// task is bound to (threadID, messageID) and stops when ctx, the thread's
// lane, is cancelled. It reports whether the message reached its full content.
func (s *Service) streamReply(ctx context.Context, threadID, messageID, full string) bool {
	cuts := tokenBoundaries(full)
	var ticks <-chan time.Time
	if s.timing.TokenInterval > 0 {
		ticker := time.NewTicker(s.timing.TokenInterval)
		defer ticker.Stop()
		ticks = ticker.C
	} else {
		cuts = []int{len(full)}
	}

	for i, cut := range cuts {
		if ticks != nil {
			select {
			case <-ctx.Done():
				return false
			case <-ticks:
			}
		}

		s.mu.Lock()
		thread := s.findLocked(threadID)
		if thread == nil || ctx.Err() != nil {
			s.mu.Unlock()
			return false
		}
		idx := thread.IndexOf(messageID)
		if idx < 0 {
			s.mu.Unlock()
			return false
		}
		msg := &thread.Messages[idx]
		delta := full[len(msg.Content):cut]
		msg.Content = full[:cut]
		msg.State = chat.StateStreaming
		if i == len(cuts)-1 {
			msg.State = chat.StateComplete
		}
		s.emitLocked(chat.Event{Type: chat.EventMessageDelta, ThreadID: threadID, Delta: delta, Message: &chat.Message{ID: messageID, Role: chat.RoleAssistant, State: msg.State}})
		s.mu.Unlock()
	}
	return true
}

// finishReply recomputes the title and persists once a reply is complete.
func (s *Service) finishReply(threadID, messageID string) {
	s.mu.Lock()
	thread := s.findLocked(threadID)
	if thread == nil {
		s.mu.Unlock()
		return
	}
	thread.RefreshTitle()
	if idx := thread.IndexOf(messageID); idx >= 0 {
		m := thread.Messages[idx].Clone()
		s.emitLocked(chat.Event{Type: chat.EventMessageCompleted, ThreadID: threadID, Message: &m})
	}
	s.emitLocked(chat.Event{Type: chat.EventThreadUpdated, ThreadID: threadID, Title: thread.Title})
	s.mu.Unlock()

	s.persist()
}

// tokenBoundaries returns the end offset of every whitespace-delimited word
// in text. The last boundary is always len(text), so revealing text[:cut]
// for each cut in order converges on text.
func tokenBoundaries(text string) []int {
	var cuts []int
	inWord := false
	for i, r := range text {
		if unicode.IsSpace(r) {
			if inWord {
				cuts = append(cuts, i)
			}
			inWord = false
			continue
		}
		inWord = true
	}
	if inWord || len(cuts) == 0 {
		cuts = append(cuts, len(text))
	} else {
		cuts[len(cuts)-1] = len(text)
	}
	return cuts
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
