package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/caseflow/helpdesk/internal/domain"
	"github.com/caseflow/helpdesk/internal/llm"
)

// In-memory fakes backing the service tests.

type fakeUserRepo struct {
	users map[string]*domain.User
	seq   int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (f *fakeUserRepo) addUser(name string, role domain.Role) *domain.User {
	f.seq++
	user := &domain.User{
		ID:           fmt.Sprintf("u-%d", f.seq),
		Name:         name,
		Email:        fmt.Sprintf("%s@example.com", name),
		PasswordHash: "x",
		Role:         role,
		CreatedAt:    time.Now(),
	}
	f.users[user.ID] = user
	return user
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.seq++
	user.ID = fmt.Sprintf("u-%d", f.seq)
	user.CreatedAt = time.Now()
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeTicketRepo struct {
	tickets map[string]*domain.Ticket
	order   []string
	seq     int

	// afterGet runs after GetByID returns its snapshot, letting tests
	// interleave a concurrent update between read and accept.
	afterGet func(f *fakeTicketRepo)
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[string]*domain.Ticket{}}
}

func (f *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	f.seq++
	ticket.ID = fmt.Sprintf("t-%d", f.seq)
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	copied := *ticket
	f.tickets[ticket.ID] = &copied
	f.order = append([]string{ticket.ID}, f.order...)
	return nil
}

func (f *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := f.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	if f.afterGet != nil {
		hook := f.afterGet
		f.afterGet = nil
		hook(f)
	}
	return &copied, nil
}

func (f *fakeTicketRepo) List(_ context.Context) ([]domain.Ticket, error) {
	out := make([]domain.Ticket, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, *f.tickets[id])
	}
	return out, nil
}

func (f *fakeTicketRepo) UpdateStatus(_ context.Context, ticket *domain.Ticket) error {
	stored, ok := f.tickets[ticket.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Status = ticket.Status
	stored.AssignedTo = ticket.AssignedTo
	stored.UpdatedAt = time.Now()
	return nil
}

func (f *fakeTicketRepo) Accept(_ context.Context, ticket *domain.Ticket, assigneeID string) (bool, error) {
	stored, ok := f.tickets[ticket.ID]
	if !ok || stored.Status != ticket.Status {
		return false, nil
	}
	stored.Status = domain.TicketStatusInProgress
	stored.AssignedTo = &assigneeID
	stored.UpdatedAt = time.Now()
	ticket.Status = domain.TicketStatusInProgress
	ticket.AssignedTo = &assigneeID
	return true, nil
}

func (f *fakeTicketRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.tickets, id)
	for i, oid := range f.order {
		if oid == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

type fakeCommentRepo struct {
	comments map[string][]domain.Comment
	seq      int
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: map[string][]domain.Comment{}}
}

func (f *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	f.seq++
	comment.ID = fmt.Sprintf("c-%d", f.seq)
	comment.CreatedAt = time.Now()
	f.comments[comment.TicketID] = append(f.comments[comment.TicketID], *comment)
	return nil
}

func (f *fakeCommentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Comment, error) {
	return append([]domain.Comment{}, f.comments[ticketID]...), nil
}

func (f *fakeCommentRepo) CountByTicket(_ context.Context, ticketID string) (int, error) {
	return len(f.comments[ticketID]), nil
}

type fakeArticleRepo struct {
	articles map[string]*domain.KnowledgeArticle
	order    []string
	seq      int
}

func newFakeArticleRepo() *fakeArticleRepo {
	return &fakeArticleRepo{articles: map[string]*domain.KnowledgeArticle{}}
}

func (f *fakeArticleRepo) Create(_ context.Context, article *domain.KnowledgeArticle) error {
	f.seq++
	article.ID = fmt.Sprintf("a-%d", f.seq)
	article.CreatedAt = time.Now()
	article.UpdatedAt = article.CreatedAt
	copied := *article
	f.articles[article.ID] = &copied
	f.order = append([]string{article.ID}, f.order...)
	return nil
}

func (f *fakeArticleRepo) Update(_ context.Context, article *domain.KnowledgeArticle) error {
	if _, ok := f.articles[article.ID]; !ok {
		return pgx.ErrNoRows
	}
	article.UpdatedAt = time.Now()
	copied := *article
	f.articles[article.ID] = &copied
	return nil
}

func (f *fakeArticleRepo) GetByID(_ context.Context, id string) (*domain.KnowledgeArticle, error) {
	article, ok := f.articles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *article
	return &copied, nil
}

func (f *fakeArticleRepo) List(_ context.Context) ([]domain.KnowledgeArticle, error) {
	out := make([]domain.KnowledgeArticle, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, *f.articles[id])
	}
	return out, nil
}

func (f *fakeArticleRepo) ListActive(_ context.Context) ([]domain.KnowledgeArticle, error) {
	out := make([]domain.KnowledgeArticle, 0, len(f.order))
	for _, id := range f.order {
		if f.articles[id].IsActive {
			out = append(out, *f.articles[id])
		}
	}
	return out, nil
}

func (f *fakeArticleRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.articles[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.articles, id)
	for i, oid := range f.order {
		if oid == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

type fakeConversationRepo struct {
	conversations map[string]*domain.Conversation
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{conversations: map[string]*domain.Conversation{}}
}

func (f *fakeConversationRepo) Get(_ context.Context, userID string) (*domain.Conversation, error) {
	if conv, ok := f.conversations[userID]; ok {
		copied := *conv
		copied.History = append([]domain.ChatMessage{}, conv.History...)
		return &copied, nil
	}
	return domain.NewConversation(), nil
}

func (f *fakeConversationRepo) Save(_ context.Context, userID string, conv *domain.Conversation) error {
	copied := *conv
	copied.History = append([]domain.ChatMessage{}, conv.History...)
	f.conversations[userID] = &copied
	return nil
}

func (f *fakeConversationRepo) Clear(_ context.Context, userID string) error {
	delete(f.conversations, userID)
	return nil
}

type fakeProvider struct {
	response     string
	err          error
	lastSystem   string
	lastMessages []domain.ChatMessage
	lastOptions  llm.Options
	calls        int
}

func (f *fakeProvider) Complete(_ context.Context, system string, messages []domain.ChatMessage, opts llm.Options) (string, error) {
	f.calls++
	f.lastSystem = system
	f.lastMessages = messages
	f.lastOptions = opts
	return f.response, f.err
}

func (f *fakeProvider) StreamCompletion(_ context.Context, system string, messages []domain.ChatMessage, opts llm.Options) (llm.Stream, error) {
	f.calls++
	f.lastSystem = system
	f.lastMessages = messages
	f.lastOptions = opts
	if f.err != nil {
		return nil, f.err
	}
	return &fakeStream{chunks: []string{f.response}}, nil
}

type fakeStream struct {
	chunks []string
	pos    int
}

func (s *fakeStream) Recv() (string, error) {
	if s.pos >= len(s.chunks) {
		return "", io.EOF
	}
	chunk := s.chunks[s.pos]
	s.pos++
	return chunk, nil
}

func (s *fakeStream) Close() error { return nil }
