package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/domain"
	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/repository"
)

const (
	AuthMethodAPIKey  = "api_key"
	AuthMethodSession = "session"
)

// ChatDispatcher hands accepted messages to the response pipeline
type ChatDispatcher interface {
	Dispatch(ctx context.Context, msg *domain.ChatMessage) (string, error)
}

// ChatCaller is what the unified chat endpoint knows about its caller.
// Binding is set when the gateway already verified an API key.
type ChatCaller struct {
	Binding      *domain.KeyBinding
	SessionToken string
}

// ChatService authorizes the unified chat endpoint. Public chatbots are
// reached with an API key bound to them; internal chatbots need a session
// of the owning tenant.
type ChatService struct {
	chatbotRepo repository.ChatbotRepository
	sessions    *SessionService
	tenants     *TenantService
	authorizer  *Authorizer
	dispatcher  ChatDispatcher
}

func NewChatService(
	chatbotRepo repository.ChatbotRepository,
	sessions *SessionService,
	tenants *TenantService,
	authorizer *Authorizer,
	dispatcher ChatDispatcher,
) *ChatService {
	return &ChatService{
		chatbotRepo: chatbotRepo,
		sessions:    sessions,
		tenants:     tenants,
		authorizer:  authorizer,
		dispatcher:  dispatcher,
	}
}

// Send authorizes the caller for chatbotID and enqueues the message.
// sessionID of uuid.Nil starts a new conversation.
func (s *ChatService) Send(ctx context.Context, caller ChatCaller, chatbotID, sessionID uuid.UUID, message string) (*domain.ChatReceipt, error) {
	const op = "chat.send"

	message = strings.TrimSpace(message)
	if message == "" {
		return nil, domain.NewError(domain.CodeInvalidInput, op, "message is required")
	}

	msg, err := s.authorize(ctx, caller, chatbotID)
	if err != nil {
		return nil, err
	}

	if sessionID == uuid.Nil {
		sessionID = uuid.New()
	}
	msg.SessionID = sessionID
	msg.Message = message
	msg.ReceivedAt = time.Now().UTC()

	messageID, err := s.dispatcher.Dispatch(ctx, msg)
	if err != nil {
		log.Error().Err(err).Str("op", op).Str("chatbot_id", chatbotID.String()).Msg("Failed to dispatch chat message")
		return nil, domain.Internal(op, err)
	}

	return &domain.ChatReceipt{
		MessageID: messageID,
		ChatbotID: chatbotID,
		SessionID: sessionID,
	}, nil
}

func (s *ChatService) authorize(ctx context.Context, caller ChatCaller, chatbotID uuid.UUID) (*domain.ChatMessage, error) {
	const op = "chat.authorize"
	notFound := domain.NewError(domain.CodeNotFound, op, "chatbot not found")

	chatbot, err := s.chatbotRepo.GetByID(ctx, chatbotID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound
		}
		log.Error().Err(err).Str("op", op).Str("chatbot_id", chatbotID.String()).Msg("Failed to load chatbot")
		return nil, domain.Internal(op, err)
	}

	if !chatbot.IsActive {
		return nil, notFound
	}

	switch chatbot.Type {
	case domain.ChatbotTypePublic:
		if caller.Binding == nil {
			return nil, domain.NewError(domain.CodeUnauthenticated, op, "api key required")
		}
		// a key only ever grants the chatbot it was issued for
		if caller.Binding.ChatbotID != chatbot.ID || caller.Binding.CompanyID != chatbot.CompanyID {
			return nil, domain.NewError(domain.CodeUnauthenticated, op, "api key is not valid for this chatbot")
		}
		keyID := caller.Binding.KeyID
		return &domain.ChatMessage{
			ChatbotID:  chatbot.ID,
			CompanyID:  chatbot.CompanyID,
			AuthMethod: AuthMethodAPIKey,
			APIKeyID:   &keyID,
		}, nil

	case domain.ChatbotTypeInternal:
		identity, err := s.sessions.Resolve(ctx, caller.SessionToken)
		if err != nil {
			return nil, err
		}
		tenantID, err := s.tenants.Resolve(ctx, identity)
		if err != nil {
			return nil, err
		}
		if _, err := s.authorizer.AuthorizeHidden(ctx, tenantID, chatbot.ID); err != nil {
			return nil, err
		}
		userID := identity.UserID
		return &domain.ChatMessage{
			ChatbotID:  chatbot.ID,
			CompanyID:  chatbot.CompanyID,
			AuthMethod: AuthMethodSession,
			UserID:     &userID,
		}, nil

	default:
		log.Error().Str("op", op).Str("chatbot_id", chatbotID.String()).Str("type", string(chatbot.Type)).Msg("Chatbot has unknown type")
		return nil, notFound
	}
}
