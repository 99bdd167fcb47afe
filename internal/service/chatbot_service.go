package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/caseflow/helpdesk/internal/config"
	"github.com/caseflow/helpdesk/internal/domain"
	"github.com/caseflow/helpdesk/internal/intent"
	"github.com/caseflow/helpdesk/internal/llm"
	"github.com/caseflow/helpdesk/internal/repository"
	apperrors "github.com/caseflow/helpdesk/pkg/util/errorutil"
)

const chatSystemPrompt = "Você é um assistente especializado em suporte técnico e gerenciamento de chamados. " +
	"Ajude os usuários com questões relacionadas a TI, SAC e Financeiro de forma clara e objetiva. " +
	"Responda sempre em português brasileiro."

const analysisSystemPrompt = "Você é um especialista em análise de chamados de suporte. " +
	"Responda sempre em formato JSON válido."

const analysisPromptTemplate = `
Analise a seguinte mensagem e o histórico da conversa para extrair informações de um chamado de suporte.

Mensagem atual: "%s"

Histórico da conversa:
%s

Baseado na análise, extraia as seguintes informações:

1. TÍTULO: Um resumo curto e claro do problema (máximo 60 caracteres)
2. DESCRIÇÃO: Uma descrição detalhada do problema baseada na conversa
3. CATEGORIA: Determine a categoria mais apropriada:
   - TI: problemas com sistemas, computadores, impressoras, rede, email, senhas, softwares
   - SAC: questões relacionadas a clientes, reclamações, atendimento, produtos, entregas
   - FINANCEIRO: questões sobre reembolsos, pagamentos, faturas, cobranças, descontos
4. PRIORIDADE: Determine a prioridade:
   - URGENT: servidor parado, sistema fora do ar, não consegue acessar sistemas críticos
   - HIGH: problemas que afetam diretamente o trabalho
   - MEDIUM: problemas importantes mas não críticos
   - LOW: troca de tinta, limpeza, treinamento, dúvidas simples

Responda APENAS no formato JSON:
{
  "title": "título extraído",
  "description": "descrição detalhada",
  "category": "TI|SAC|FINANCEIRO",
  "priority": "LOW|MEDIUM|HIGH|URGENT",
  "confidence": 0.95
}
`

const (
	replyClarify = "Não consegui entender completamente sua solicitação. Qual departamento deveria atender seu chamado?\n\n" +
		"🔧 **TI** - Problemas com sistemas, computadores, impressoras, rede\n" +
		"💼 **SAC** - Questões de clientes, reclamações, atendimento\n" +
		"💰 **FINANCEIRO** - Reembolsos, pagamentos, faturas\n\n" +
		"Por favor, me dê mais detalhes sobre o problema."

	replyAmbiguous = "Por favor, responda com \"sim\" para confirmar a criação do chamado ou \"não\" se quiser alterar algo.\n\n" +
		"O que gostaria de alterar no chamado? (título, descrição, categoria)"

	replyModify = "Entendi! O que gostaria de alterar no chamado?\n\n" +
		"📝 **Título/Descrição:** Explique melhor o problema\n" +
		"🏢 **Departamento:** Especifique TI, SAC ou FINANCEIRO\n" +
		"⚡ **Prioridade:** Me diga se é urgente ou pode esperar\n\n" +
		"Descreva as alterações que gostaria de fazer:"

	replyCancelled = "❌ Chamado cancelado! \n\n" +
		"Se precisar de ajuda ou quiser criar outro chamado, é só falar comigo.\n\n" +
		"😊 Em que mais posso ajudá-lo?"
)

type ChatbotService struct {
	provider      llm.Provider
	tickets       *TicketService
	comments      repository.CommentRepository
	conversations repository.ConversationRepository
	logger        *zap.Logger
	cfg           config.LLMConfig
}

func NewChatbotService(
	provider llm.Provider,
	tickets *TicketService,
	comments repository.CommentRepository,
	conversations repository.ConversationRepository,
	logger *zap.Logger,
	cfg config.LLMConfig,
) *ChatbotService {
	return &ChatbotService{
		provider:      provider,
		tickets:       tickets,
		comments:      comments,
		conversations: conversations,
		logger:        logger,
		cfg:           cfg,
	}
}

// AnalyzeIntent reports whether a message asks to open a ticket.
func (s *ChatbotService) AnalyzeIntent(message string) bool {
	return intent.IsTicketRequest(message)
}

// ExtractDraft asks the language model to distill a ticket draft out of the
// message and conversation history. A draft that cannot be parsed or is
// missing required fields yields (nil, nil) so callers can ask the user for
// clarification instead of failing.
func (s *ChatbotService) ExtractDraft(ctx context.Context, message string, history []domain.ChatMessage) (*domain.TicketDraft, error) {
	prompt := fmt.Sprintf(analysisPromptTemplate, message, transcript(history))

	raw, err := s.provider.Complete(ctx, analysisSystemPrompt,
		[]domain.ChatMessage{{Role: domain.ChatRoleUser, Content: prompt}},
		llm.Options{Temperature: float32(s.cfg.AnalysisTemperature), MaxTokens: s.cfg.AnalysisMaxTokens},
	)
	if err != nil {
		return nil, err
	}

	var draft domain.TicketDraft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		s.logger.Warn("draft extraction returned malformed JSON", zap.Error(err))
		return nil, nil
	}
	if draft.Title == "" || draft.Description == "" || draft.Category == "" || draft.Priority == "" {
		return nil, nil
	}
	if !domain.ValidCategory(draft.Category) || !domain.ValidPriority(draft.Priority) {
		s.logger.Warn("draft extraction returned invalid enum",
			zap.String("category", string(draft.Category)),
			zap.String("priority", string(draft.Priority)))
		return nil, nil
	}
	if draft.Confidence == 0 {
		draft.Confidence = 0.8
	}
	return &draft, nil
}

// CreateTicketFromChat extracts a draft from the message and immediately
// opens the ticket, recording the conversation transcript as the first
// comment.
func (s *ChatbotService) CreateTicketFromChat(ctx context.Context, actor *domain.User, message string, history []domain.ChatMessage) (*domain.Ticket, *domain.TicketDraft, error) {
	draft, err := s.ExtractDraft(ctx, message, history)
	if err != nil {
		return nil, nil, err
	}
	if draft == nil {
		return nil, nil, apperrors.NewValidationError("could not analyze the message", nil)
	}

	ticket, err := s.createFromDraft(ctx, actor, draft, history)
	if err != nil {
		return nil, nil, err
	}
	return ticket, draft, nil
}

// ConverseReply is one chatbot turn.
type ConverseReply struct {
	Reply         string                   `json:"reply"`
	State         domain.ConversationState `json:"state"`
	Draft         *domain.TicketDraft      `json:"draft,omitempty"`
	Ticket        *domain.Ticket           `json:"ticket,omitempty"`
	TicketCreated bool                     `json:"ticket_created"`
}

// Converse advances the per-user conversation state machine by one user
// message. The state lives server-side so the flow survives page reloads.
func (s *ChatbotService) Converse(ctx context.Context, actor *domain.User, message string) (*ConverseReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.NewValidationError("message is required", nil)
	}

	conv, err := s.conversations.Get(ctx, actor.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	conv.History = append(conv.History, domain.ChatMessage{Role: domain.ChatRoleUser, Content: message})

	reply, err := s.advance(ctx, actor, conv, message)
	if err != nil {
		return nil, err
	}

	conv.History = append(conv.History, domain.ChatMessage{Role: domain.ChatRoleAssistant, Content: reply.Reply})
	conv.State = reply.State
	conv.Draft = reply.Draft
	if err := s.conversations.Save(ctx, actor.ID, conv); err != nil {
		s.logger.Warn("failed to persist conversation state", zap.Error(err))
	}
	return reply, nil
}

func (s *ChatbotService) advance(ctx context.Context, actor *domain.User, conv *domain.Conversation, message string) (*ConverseReply, error) {
	if conv.State != domain.ConversationIdle &&
		intent.InterpretConfirmation(message) == intent.ConfirmationCancel {
		return &ConverseReply{Reply: replyCancelled, State: domain.ConversationIdle}, nil
	}

	switch conv.State {
	case domain.ConversationAwaitingConfirmation:
		return s.handleConfirmation(ctx, actor, conv, message)
	case domain.ConversationAwaitingModification:
		return s.proposeDraft(ctx, message, conv.History)
	}

	if intent.IsTicketRequest(message) {
		return s.proposeDraft(ctx, message, conv.History)
	}
	return s.smallTalk(ctx, conv.History)
}

func (s *ChatbotService) handleConfirmation(ctx context.Context, actor *domain.User, conv *domain.Conversation, message string) (*ConverseReply, error) {
	switch intent.InterpretConfirmation(message) {
	case intent.ConfirmationPositive:
		if conv.Draft == nil {
			return &ConverseReply{Reply: replyClarify, State: domain.ConversationIdle}, nil
		}
		ticket, err := s.createFromDraft(ctx, actor, conv.Draft, conv.History)
		if err != nil {
			return nil, err
		}
		return &ConverseReply{
			Reply:         ticketCreatedMessage(ticket),
			State:         domain.ConversationIdle,
			Ticket:        ticket,
			TicketCreated: true,
		}, nil
	case intent.ConfirmationNegative:
		return &ConverseReply{
			Reply: replyModify,
			State: domain.ConversationAwaitingModification,
			Draft: conv.Draft,
		}, nil
	default:
		return &ConverseReply{
			Reply: replyAmbiguous,
			State: domain.ConversationAwaitingConfirmation,
			Draft: conv.Draft,
		}, nil
	}
}

func (s *ChatbotService) proposeDraft(ctx context.Context, message string, history []domain.ChatMessage) (*ConverseReply, error) {
	draft, err := s.ExtractDraft(ctx, message, history)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		return &ConverseReply{Reply: replyClarify, State: domain.ConversationIdle}, nil
	}
	return &ConverseReply{
		Reply: draftSummaryMessage(draft),
		State: domain.ConversationAwaitingConfirmation,
		Draft: draft,
	}, nil
}

func (s *ChatbotService) smallTalk(ctx context.Context, history []domain.ChatMessage) (*ConverseReply, error) {
	answer, err := s.provider.Complete(ctx, chatSystemPrompt, history,
		llm.Options{MaxTokens: s.cfg.ChatMaxTokens})
	if err != nil {
		return nil, err
	}
	return &ConverseReply{Reply: answer, State: domain.ConversationIdle}, nil
}

// StreamChat proxies an open-ended chat to the language model and streams
// the answer back.
func (s *ChatbotService) StreamChat(ctx context.Context, messages []domain.ChatMessage) (llm.Stream, error) {
	if len(messages) == 0 {
		return nil, apperrors.NewValidationError("messages array required", nil)
	}
	return s.provider.StreamCompletion(ctx, chatSystemPrompt, messages,
		llm.Options{MaxTokens: s.cfg.ChatMaxTokens})
}

func (s *ChatbotService) createFromDraft(ctx context.Context, actor *domain.User, draft *domain.TicketDraft, history []domain.ChatMessage) (*domain.Ticket, error) {
	ticket, err := s.tickets.CreateTicket(ctx, actor, CreateTicketInput{
		Title:       draft.Title,
		Description: draft.Description,
		Category:    draft.Category,
		Priority:    draft.Priority,
		ViaChatbot:  true,
	})
	if err != nil {
		return nil, err
	}

	if len(history) > 0 {
		comment := &domain.Comment{
			TicketID: ticket.ID,
			UserID:   actor.ID,
			Content:  "Histórico da conversa do chatbot:\n\n" + transcript(history),
		}
		if err := s.comments.Create(ctx, comment); err != nil {
			s.logger.Warn("failed to attach conversation transcript",
				zap.String("ticket_id", ticket.ID), zap.Error(err))
		}
	}
	return ticket, nil
}

func transcript(history []domain.ChatMessage) string {
	lines := make([]string, 0, len(history))
	for _, msg := range history {
		speaker := "Assistente"
		if msg.Role == domain.ChatRoleUser {
			speaker = "Usuário"
		}
		lines = append(lines, speaker+": "+msg.Content)
	}
	return strings.Join(lines, "\n\n")
}

func draftSummaryMessage(draft *domain.TicketDraft) string {
	return fmt.Sprintf("📋 **Resumo do Chamado**\n\n**Título:** %s\n**Descrição:** %s\n**Departamento:** %s\n**Prioridade:** %s\n\n"+
		"✅ Posso criar este chamado para você?\n❌ Digite \"não\" se quiser alterar algo",
		draft.Title, draft.Description, draft.Category, priorityLabel(draft.Priority))
}

func ticketCreatedMessage(ticket *domain.Ticket) string {
	return fmt.Sprintf("✅ **Chamado criado com sucesso!**\n\n🎫 **ID:** %s\n📋 **Título:** %s\n🏢 **Departamento:** %s\n⚡ **Prioridade:** %s\n\n"+
		"Seu chamado foi adicionado à coluna \"Novos chamados\" e será atendido em breve.\n\n"+
		"❓ Tem mais alguma dúvida que posso ajudar?",
		ticket.ID, ticket.Title, ticket.Category, priorityLabel(ticket.Priority))
}

func priorityLabel(p domain.TicketPriority) string {
	switch p {
	case domain.TicketPriorityLow:
		return "🟢 Baixa"
	case domain.TicketPriorityMedium:
		return "🟡 Média"
	case domain.TicketPriorityHigh:
		return "🟠 Alta"
	case domain.TicketPriorityUrgent:
		return "🔴 Urgente"
	default:
		return string(p)
	}
}
