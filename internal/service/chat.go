package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"estate/internal/model"
	"estate/internal/observability"
)

// ChatService runs the scripted chat widget. Turns within one session are
// serialized: a message sent while a reply is pending waits for it.
type ChatService struct {
	dispatcher    *Dispatcher
	assistant     Assistant
	delay         DelayStrategy
	followUpDelay time.Duration
	ttl           time.Duration
	logger        *slog.Logger
	metrics       *observability.Metrics
	now           func() time.Time

	mu       sync.Mutex
	sessions map[string]*chatSession
	lastID   int64
}

type chatSession struct {
	turn chan struct{} // one-slot semaphore held for a whole turn

	mu         sync.Mutex
	messages   []model.ChatMessage
	lastActive time.Time
	inTurn     bool // set while a turn is pending; the janitor skips such sessions
}

// ChatOptions configures a ChatService
type ChatOptions struct {
	Delay         DelayStrategy
	FollowUpDelay time.Duration
	SessionTTL    time.Duration
}

// NewChatService creates a new chat service
func NewChatService(dispatcher *Dispatcher, assistant Assistant, opts ChatOptions, logger *slog.Logger, metrics *observability.Metrics) *ChatService {
	if assistant == nil {
		assistant = DisabledAssistant{}
	}
	if opts.Delay == nil {
		opts.Delay = NoDelay{}
	}
	return &ChatService{
		dispatcher:    dispatcher,
		assistant:     assistant,
		delay:         opts.Delay,
		followUpDelay: opts.FollowUpDelay,
		ttl:           opts.SessionTTL,
		logger:        logger,
		metrics:       metrics,
		now:           time.Now,
		sessions:      make(map[string]*chatSession),
	}
}

// StartSession opens a session whose transcript starts with the greeting
func (s *ChatService) StartSession() *model.ChatSession {
	now := s.now()
	greeting := model.ChatMessage{
		ID:        s.nextID(now),
		Role:      model.RoleBot,
		Content:   Greeting,
		Timestamp: now,
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = &chatSession{
		turn:       make(chan struct{}, 1),
		messages:   []model.ChatMessage{greeting},
		lastActive: now,
	}
	count := len(s.sessions)
	s.mu.Unlock()

	s.metrics.SetChatSessions(count)
	s.logger.Debug("chat session started", "session_id", id)

	return &model.ChatSession{SessionID: id, Messages: []model.ChatMessage{greeting}}
}

// History returns a copy of the session transcript
func (s *ChatService) History(sessionID string) ([]model.ChatMessage, error) {
	sess := s.session(sessionID)
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return append([]model.ChatMessage(nil), sess.messages...), nil
}

// Send runs one chat turn. The user message and the reply are appended
// together once the artificial delay has elapsed; a cancelled turn leaves
// the transcript untouched.
func (s *ChatService) Send(ctx context.Context, sessionID, text string) (*model.ChatReply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	sess := s.session(sessionID)
	if sess == nil {
		return nil, ErrSessionNotFound
	}

	select {
	case sess.turn <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-sess.turn }()

	sentAt := s.now()
	sess.mu.Lock()
	sess.inTurn = true
	sess.lastActive = sentAt
	history := append([]model.ChatMessage(nil), sess.messages...)
	sess.mu.Unlock()
	defer func() {
		sess.mu.Lock()
		sess.inTurn = false
		sess.mu.Unlock()
	}()
	// the janitor may have evicted the session before the turn was marked
	if s.session(sessionID) != sess {
		return nil, ErrSessionNotFound
	}

	type outcome struct {
		topic   model.Topic
		content string
		source  string
	}
	task := After(ctx, s.delay, func(ctx context.Context) (outcome, error) {
		topic, content := s.dispatcher.Respond(text)
		source := SourceRules

		if s.assistant.Enabled() {
			reply, err := s.assistant.Reply(ctx, history, text)
			if err == nil {
				content, source = reply, SourceAssistant
			} else {
				s.metrics.ObserveAssistantFallback("chat")
				s.logger.Warn("assistant reply failed, using canned response", "error", err)
			}
		}
		return outcome{topic: topic, content: content, source: source}, nil
	})

	out, err := task.Wait()
	if err != nil {
		return nil, err
	}

	repliedAt := s.now()
	user := model.ChatMessage{ID: s.nextID(sentAt), Role: model.RoleUser, Content: text, Timestamp: sentAt}
	bot := model.ChatMessage{ID: s.nextID(repliedAt), Role: model.RoleBot, Content: out.content, Timestamp: repliedAt, Topic: out.topic}

	sess.mu.Lock()
	sess.messages = append(sess.messages, user, bot)
	sess.lastActive = repliedAt
	sess.mu.Unlock()

	reply := &model.ChatReply{
		SessionID: sessionID,
		User:      user,
		Bot:       bot,
		Topic:     out.topic,
		Source:    out.source,
	}
	if out.topic == model.TopicAgent {
		reply.FollowUp = &model.FollowUpAction{
			Action:  model.FollowUpContactForm,
			AfterMs: s.followUpDelay.Milliseconds(),
		}
	}

	s.metrics.ObserveChatTurn(string(out.topic))
	s.logger.Info("chat turn", "session_id", sessionID, "topic", out.topic, "source", out.source)
	return reply, nil
}

// FollowUp schedules the reply's follow-up action. It returns nil when the
// reply has none.
func (s *ChatService) FollowUp(ctx context.Context, reply *model.ChatReply) *Task[model.FollowUpAction] {
	if reply == nil || reply.FollowUp == nil {
		return nil
	}
	action := *reply.FollowUp
	return After(ctx, FixedDelay(s.followUpDelay), func(context.Context) (model.FollowUpAction, error) {
		return action, nil
	})
}

// QuickActions lists the canned prompts
func (s *ChatService) QuickActions() []string {
	return QuickActions()
}

// RunJanitor evicts idle sessions every interval until ctx is done
func (s *ChatService) RunJanitor(ctx context.Context, interval time.Duration) {
	if s.ttl <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.evictIdle(); n > 0 {
				s.logger.Info("evicted idle chat sessions", "count", n)
			}
		}
	}
}

func (s *ChatService) evictIdle() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	evicted := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := !sess.inTurn && sess.lastActive.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			evicted++
		}
	}
	count := len(s.sessions)
	s.mu.Unlock()

	s.metrics.SetChatSessions(count)
	return evicted
}

func (s *ChatService) session(id string) *chatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[id]
}

// nextID returns a millisecond timestamp id, bumped to stay strictly increasing
func (s *ChatService) nextID(at time.Time) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := at.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}
