// Package memory implements the repository interfaces over maps. It backs
// service and HTTP tests and mirrors the PostgreSQL semantics they rely on:
// unique key hashes, newest-first listing and a one-time company assignment.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/domain"
	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/repository"
)

type Store struct {
	mu        sync.RWMutex
	users     map[uuid.UUID]domain.User
	companies map[uuid.UUID]domain.Company
	chatbots  map[uuid.UUID]domain.Chatbot
	keys      map[uuid.UUID]domain.APIKey
	writes    int
}

func NewStore() *Store {
	return &Store{
		users:     make(map[uuid.UUID]domain.User),
		companies: make(map[uuid.UUID]domain.Company),
		chatbots:  make(map[uuid.UUID]domain.Chatbot),
		keys:      make(map[uuid.UUID]domain.APIKey),
	}
}

// Writes counts successful mutations, for asserting that a denied request changed nothing
func (s *Store) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

func (s *Store) PutUser(user domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
}

func (s *Store) PutCompany(company domain.Company) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies[company.ID] = company
}

func (s *Store) PutChatbot(chatbot domain.Chatbot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chatbots[chatbot.ID] = chatbot
}

func (s *Store) PutAPIKey(key domain.APIKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[key.ID] = key
}

// APIKey returns a copy of the stored key
func (s *Store) APIKey(id uuid.UUID) (domain.APIKey, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key, ok := s.keys[id]
	return key, ok
}

func (s *Store) Users() repository.UserRepository { return userRepo{s} }
func (s *Store) Companies() repository.CompanyRepository { return companyRepo{s} }
func (s *Store) Chatbots() repository.ChatbotRepository { return chatbotRepo{s} }
func (s *Store) APIKeys() repository.APIKeyRepository { return apiKeyRepo{s} }

type userRepo struct{ s *Store }

func (r userRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

type companyRepo struct{ s *Store }

func (r companyRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Company, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	company, ok := r.s.companies[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &company, nil
}

func (r companyRepo) CreateWithOwner(ctx context.Context, company *domain.Company, ownerID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[ownerID]
	if !ok || user.HasCompany() {
		return repository.ErrAlreadyAssigned
	}
	if _, exists := r.s.companies[company.ID]; exists {
		return repository.ErrDuplicate
	}

	now := time.Now().UTC()
	company.CreatedAt = now
	company.UpdatedAt = now
	r.s.companies[company.ID] = *company

	companyID := company.ID
	role := domain.UserRoleOwner
	user.CompanyID = &companyID
	user.Role = &role
	user.UpdatedAt = now
	r.s.users[ownerID] = user
	r.s.writes++
	return nil
}

type chatbotRepo struct{ s *Store }

func (r chatbotRepo) Create(ctx context.Context, chatbot *domain.Chatbot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.chatbots[chatbot.ID]; exists {
		return repository.ErrDuplicate
	}
	now := time.Now().UTC()
	chatbot.CreatedAt = now
	chatbot.UpdatedAt = now
	r.s.chatbots[chatbot.ID] = *chatbot
	r.s.writes++
	return nil
}

func (r chatbotRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Chatbot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	chatbot, ok := r.s.chatbots[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &chatbot, nil
}

func (r chatbotRepo) ListByCompanyID(ctx context.Context, companyID uuid.UUID) ([]*domain.Chatbot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	chatbots := []*domain.Chatbot{}
	for _, chatbot := range r.s.chatbots {
		if chatbot.CompanyID == companyID {
			chatbot := chatbot
			chatbots = append(chatbots, &chatbot)
		}
	}
	sort.Slice(chatbots, func(i, j int) bool {
		return chatbots[i].CreatedAt.After(chatbots[j].CreatedAt)
	})
	return chatbots, nil
}

func (r chatbotRepo) CountByCompanyID(ctx context.Context, companyID uuid.UUID) (int, error) {
	chatbots, err := r.ListByCompanyID(ctx, companyID)
	return len(chatbots), err
}

type apiKeyRepo struct{ s *Store }

func (r apiKeyRepo) Create(ctx context.Context, key *domain.APIKey) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.keys {
		if existing.KeyHash == key.KeyHash {
			return repository.ErrDuplicate
		}
	}
	if key.CreatedAt.IsZero() {
		key.CreatedAt = time.Now().UTC()
	}
	r.s.keys[key.ID] = *key
	r.s.writes++
	return nil
}

func (r apiKeyRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.APIKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	key, ok := r.s.keys[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &key, nil
}

func (r apiKeyRepo) GetByHash(ctx context.Context, keyHash string) (*domain.ResolvedAPIKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, key := range r.s.keys {
		if key.KeyHash != keyHash {
			continue
		}
		chatbot, ok := r.s.chatbots[key.ChatbotID]
		if !ok {
			// the join finds nothing without its chatbot
			return nil, repository.ErrNotFound
		}
		return &domain.ResolvedAPIKey{APIKey: key, CompanyID: chatbot.CompanyID}, nil
	}
	return nil, repository.ErrNotFound
}

func (r apiKeyRepo) ListByChatbotID(ctx context.Context, chatbotID uuid.UUID) ([]*domain.APIKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	keys := []*domain.APIKey{}
	for _, key := range r.s.keys {
		if key.ChatbotID == chatbotID {
			key := key
			keys = append(keys, &key)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].CreatedAt.After(keys[j].CreatedAt)
	})
	return keys, nil
}

func (r apiKeyRepo) CountByChatbotID(ctx context.Context, chatbotID uuid.UUID, active bool) (int, error) {
	keys, err := r.ListByChatbotID(ctx, chatbotID)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, key := range keys {
		if key.IsActive == active {
			n++
		}
	}
	return n, nil
}

func (r apiKeyRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key, ok := r.s.keys[id]
	if !ok {
		return repository.ErrNotFound
	}
	key.IsActive = false
	if key.RevokedAt == nil {
		now := time.Now().UTC()
		key.RevokedAt = &now
	}
	r.s.keys[id] = key
	r.s.writes++
	return nil
}
