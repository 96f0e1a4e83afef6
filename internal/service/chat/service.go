package chat

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/zhouzirui/z-stylist/backend/internal/model/chat"
	"github.com/zhouzirui/z-stylist/backend/internal/service/reply"
	"github.com/zhouzirui/z-stylist/backend/internal/storage"
)

// Timing holds the simulated latencies of the assistant.
type Timing struct {
	ReplyDelay    time.Duration
	ImageDelay    time.Duration
	ScanDelay     time.Duration
	TokenInterval time.Duration
}

// DefaultTiming mirrors the demo's pacing.
func DefaultTiming() Timing {
	return Timing{
		ReplyDelay:    1500 * time.Millisecond,
		ImageDelay:    2000 * time.Millisecond,
		ScanDelay:     2000 * time.Millisecond,
		TokenInterval: 60 * time.Millisecond,
	}
}

// Publisher receives session events. Publish is called while the session
// lock is held, so it must not block or call back into the Service.
type Publisher interface {
	Publish(event chat.Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(chat.Event) {}

// Snapshot is the read-only view handed to clients.
type Snapshot struct {
	CurrentChatID string         `json:"currentChatId"`
	Messages      []chat.Message `json:"messages"`
	IsLoading     bool           `json:"isLoading"`
	ChatHistory   []chat.Thread  `json:"chatHistory"`
	ChatMode      chat.Mode      `json:"chatMode"`
}

// Option customizes a Service.
type Option func(*Service)

// WithTiming overrides the simulated latencies.
func WithTiming(timing Timing) Option {
	return func(s *Service) { s.timing = timing }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPublisher sets the event sink.
func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithHistoryKey changes the storage key of the thread collection.
func WithHistoryKey(key string) Option {
	return func(s *Service) {
		if key != "" {
			s.historyKey = key
		}
	}
}

// Service owns the chat threads of the single active session, the active
// selection, the conversation mode and every in-flight assistant reply.
type Service struct {
	store      storage.Store
	generator  reply.Generator
	timing     Timing
	logger     *zap.Logger
	publisher  Publisher
	historyKey string

	initMu   sync.Mutex
	saveMu   sync.Mutex
	wg       sync.WaitGroup
	root     context.Context
	stop     context.CancelFunc

	mu       sync.Mutex
	threads  []*chat.Thread
	activeID string
	mode     chat.Mode
	lanes    map[string]*lane
	// loaded 为 false 时存储里的历史还没读到，persist 不会落盘
	loaded   bool
	offline  bool
}

// NewService wires the session manager. Call Initialize before use; every
// operation also initializes lazily.
func NewService(store storage.Store, generator reply.Generator, opts ...Option) *Service {
	root, stop := context.WithCancel(context.Background())
	s := &Service{
		store:      store,
		generator:  generator,
		timing:     DefaultTiming(),
		logger:     zap.NewNop(),
		publisher:  nopPublisher{},
		historyKey: chat.HistoryKey,
		root:       root,
		stop:       stop,
		mode:       chat.ModeDefault,
		lanes:      make(map[string]*lane),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("chat")
	return s
}

// Initialize loads the persisted history. Missing, malformed or empty
// history yields a single fresh thread that is written back. When the store
// cannot be read the session runs on an unsaved in-memory thread and every
// later operation retries the load; nothing is written until it succeeds.
func (s *Service) Initialize(ctx context.Context) {
	if s.historyLoaded() {
		return
	}

	s.initMu.Lock()
	defer s.initMu.Unlock()
	if s.historyLoaded() {
		return
	}

	stored, err := s.loadHistory(ctx)
	if err != nil {
		s.mu.Lock()
		started := s.startOfflineLocked()
		s.mu.Unlock()
		if started {
			s.logger.Error("chat history unreadable, saving paused until it loads", zap.Error(err))
		} else {
			s.logger.Warn("chat history still unreadable", zap.Error(err))
		}
		return
	}

	s.mu.Lock()
	write, kept := s.adoptHistoryLocked(stored)
	total := len(s.threads)
	s.mu.Unlock()

	s.logger.Info("session initialized", zap.Int("threads", total), zap.Int("unsaved", kept), zap.Bool("write", write))
	if write {
		s.persist()
	}
}

func (s *Service) historyLoaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// startOfflineLocked gives the session a fresh in-memory thread the first
// time the history cannot be read.
func (s *Service) startOfflineLocked() bool {
	if s.offline {
		return false
	}
	s.offline = true
	fresh := chat.NewThread("")
	s.threads = []*chat.Thread{&fresh}
	s.activeID = fresh.ID
	s.emitLocked(chat.Event{Type: chat.EventThreadCreated, ThreadID: fresh.ID, Title: fresh.Title})
	s.emitLocked(chat.Event{Type: chat.EventThreadActivated, ThreadID: fresh.ID})
	return true
}

// adoptHistoryLocked installs the stored threads. Threads created while the
// store was unreadable stay in front when they hold messages or pending work;
// empty ones are dropped. It reports whether the collection must be written
// back and how many unsaved threads were kept.
func (s *Service) adoptHistoryLocked(stored []chat.Thread) (bool, int) {
	threads := make([]*chat.Thread, 0, len(s.threads)+len(stored))
	for _, t := range s.threads {
		if len(t.Messages) > 0 || s.loadingLocked(t.ID) {
			threads = append(threads, t)
		}
	}
	kept := len(threads)
	for i := range stored {
		t := stored[i]
		threads = append(threads, &t)
	}

	write := kept > 0
	if len(threads) == 0 {
		fresh := chat.NewThread("")
		threads = append(threads, &fresh)
		s.emitLocked(chat.Event{Type: chat.EventThreadCreated, ThreadID: fresh.ID, Title: fresh.Title})
		write = true
	}

	s.threads = threads
	s.loaded = true
	if s.offline {
		s.emitLocked(chat.Event{Type: chat.EventHistoryLoaded})
	}
	// 离线期间主动删掉的 active 不自动补上
	if s.findLocked(s.activeID) == nil && (!s.offline || s.activeID != "" || kept == 0) {
		s.activeID = threads[0].ID
		s.emitLocked(chat.Event{Type: chat.EventThreadActivated, ThreadID: s.activeID})
	}
	s.offline = false
	return write, kept
}

// StartNewChat prepends a new empty thread and makes it active.
func (s *Service) StartNewChat(ctx context.Context, initialPrompt string) chat.Thread {
	s.Initialize(ctx)

	thread := chat.NewThread(initialPrompt)
	s.mu.Lock()
	s.threads = append([]*chat.Thread{&thread}, s.threads...)
	s.activeID = thread.ID
	out := thread.Clone()
	s.emitLocked(chat.Event{Type: chat.EventThreadCreated, ThreadID: thread.ID, Title: thread.Title})
	s.emitLocked(chat.Event{Type: chat.EventThreadActivated, ThreadID: thread.ID})
	s.mu.Unlock()

	s.persist()
	return out
}

// LoadChat activates an existing thread. Unknown ids are ignored.
func (s *Service) LoadChat(threadID string) bool {
	s.Initialize(s.root)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findLocked(threadID) == nil {
		return false
	}
	s.activeID = threadID
	s.emitLocked(chat.Event{Type: chat.EventThreadActivated, ThreadID: threadID})
	return true
}

// DeleteChat removes a thread and cancels its pending work. Deleting the
// active thread leaves no thread active.
func (s *Service) DeleteChat(ctx context.Context, threadID string) bool {
	s.Initialize(ctx)

	s.mu.Lock()
	idx := -1
	for i, t := range s.threads {
		if t.ID == threadID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.threads = append(s.threads[:idx:idx], s.threads[idx+1:]...)
	if s.activeID == threadID {
		s.activeID = ""
	}
	if ln, ok := s.lanes[threadID]; ok {
		ln.cancel()
		delete(s.lanes, threadID)
	}
	s.emitLocked(chat.Event{Type: chat.EventThreadDeleted, ThreadID: threadID})
	s.mu.Unlock()

	s.logger.Info("thread deleted", zap.String("thread", threadID))
	s.persist()
	return true
}

// SetMode changes the mode used by the next text reply. Unknown modes are
// ignored.
func (s *Service) SetMode(mode chat.Mode) {
	if !mode.Valid() {
		s.logger.Warn("ignoring unknown mode", zap.String("mode", string(mode)))
		return
	}
	s.mu.Lock()
	s.mode = mode
	s.emitLocked(chat.Event{Type: chat.EventModeChanged, Mode: mode})
	s.mu.Unlock()
}

// Mode returns the current conversation mode.
func (s *Service) Mode() chat.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// State returns a deep copy of the observable session state.
func (s *Service) State() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		CurrentChatID: s.activeID,
		Messages:      []chat.Message{},
		ChatHistory:   make([]chat.Thread, 0, len(s.threads)),
		ChatMode:      s.mode,
	}
	for _, t := range s.threads {
		snap.ChatHistory = append(snap.ChatHistory, t.Clone())
	}
	if active := s.findLocked(s.activeID); active != nil {
		snap.Messages = chat.CloneMessages(active.Messages)
		snap.IsLoading = s.loadingLocked(active.ID)
	}
	return snap
}

// Thread returns a copy of one thread.
func (s *Service) Thread(threadID string) (chat.Thread, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t := s.findLocked(threadID); t != nil {
		return t.Clone(), true
	}
	return chat.Thread{}, false
}

// Wait blocks until every scheduled reply has settled.
func (s *Service) Wait() {
	s.wg.Wait()
}

// Close cancels all pending replies and waits for them to stop.
func (s *Service) Close() {
	s.stop()
	s.wg.Wait()
}

func (s *Service) findLocked(threadID string) *chat.Thread {
	if threadID == "" {
		return nil
	}
	for _, t := range s.threads {
		if t.ID == threadID {
			return t
		}
	}
	return nil
}

func (s *Service) emitLocked(event chat.Event) {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	s.publisher.Publish(event)
}
