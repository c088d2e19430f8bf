package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/octobees/portfolio-importer/api/internal/dto"
	"github.com/octobees/portfolio-importer/api/internal/entity"
	"github.com/octobees/portfolio-importer/api/internal/repository"
)

const defaultSearchLimit = 20

// ProfileStore exposes pool-bound repositories and transactions.
type ProfileStore interface {
	repository.TxRunner
	Repositories() repository.Repositories
}

// UserService reads and edits imported portfolio profiles.
type UserService struct {
	store       ProfileStore
	phoneRegion string
	logger      *slog.Logger
}

// NewUserService builds a new UserService instance.
func NewUserService(store ProfileStore, phoneRegion string, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	region := strings.ToUpper(strings.TrimSpace(phoneRegion))
	if region == "" {
		region = defaultPhoneRegion
	}
	return &UserService{store: store, phoneRegion: region, logger: logger}
}

// GetUserDetails returns the user with works and clients, media included.
func (s *UserService) GetUserDetails(ctx context.Context, username string) (*dto.UserDetails, error) {
	repos := s.store.Repositories()
	user, err := repos.Users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return loadDetails(ctx, repos, user)
}

// UpdateUser applies a partial profile update and syncs works and clients in
// one transaction. Unknown payload keys are ignored.
func (s *UserService) UpdateUser(ctx context.Context, username string, payload map[string]any) (*dto.UserDetails, error) {
	req, unused, err := decodeUpdateRequest(payload)
	if err != nil {
		return nil, err
	}
	if len(unused) > 0 {
		s.logger.DebugContext(ctx, "ignoring unknown profile fields", "username", username, "fields", unused)
	}
	if errs := validateUpdateRequest(req); errs != nil {
		return nil, errs
	}
	fields, errs := s.userFields(req)
	if errs != nil {
		return nil, errs
	}

	var details *dto.UserDetails
	err = s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		user, err := repos.Users.FindByUsername(ctx, username)
		if err != nil {
			return err
		}

		if !fields.IsEmpty() {
			user, err = repos.Users.Update(ctx, user.ID, fields)
			if err != nil {
				if errors.Is(err, repository.ErrEmailDuplicate) {
					return NewValidationError("email", "This email address is already taken by another user.")
				}
				return persistenceErr("update user", err)
			}
		}

		if req.Works != nil {
			if err := syncWorks(ctx, repos.Works, user.ID, req.Works); err != nil {
				return err
			}
		}
		if req.Clients != nil {
			if err := syncClients(ctx, repos, user.ID, req.Clients); err != nil {
				return err
			}
		}

		details, err = loadDetails(ctx, repos, user)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user profile updated", "username", username)
	return details, nil
}

// DeleteUser removes the user and, through cascading keys, everything it owns.
func (s *UserService) DeleteUser(ctx context.Context, username string) error {
	if err := s.store.Repositories().Users.DeleteByUsername(ctx, username); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return err
		}
		return persistenceErr("delete user", err)
	}
	s.logger.InfoContext(ctx, "user deleted", "username", username)
	return nil
}

// SearchUsers finds users whose username or profile text contains query.
func (s *UserService) SearchUsers(ctx context.Context, query string, limit int) (*dto.SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, NewValidationError("q", "The q field is required.")
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	users, err := s.store.Repositories().Users.Search(ctx, query, limit)
	if err != nil {
		return nil, persistenceErr("search users", err)
	}
	if users == nil {
		users = []entity.User{}
	}
	return &dto.SearchResponse{Users: users, Count: len(users)}, nil
}

func (s *UserService) userFields(req dto.UpdateUserRequest) (repository.UserFields, *ValidationError) {
	fields := repository.UserFields{
		Name:       req.Name,
		Email:      req.Email,
		JobTitle:   req.JobTitle,
		Address:    req.Address,
		Bio:        req.Bio,
		Expertise:  req.Expertise,
		Skills:     req.Skills,
		SocialURLs: req.SocialURLs,
	}
	if req.Phone != nil {
		phone := normalizePhone(*req.Phone, s.phoneRegion)
		if phone == "" {
			return fields, NewValidationError("phone", "The phone field must be a valid phone number.")
		}
		fields.Phone = &phone
	}
	return fields, nil
}

func loadDetails(ctx context.Context, repos repository.Repositories, user *entity.User) (*dto.UserDetails, error) {
	works, err := repos.Works.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, persistenceErr("list works", err)
	}
	clients, err := repos.Clients.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, persistenceErr("list clients", err)
	}
	return &dto.UserDetails{User: *user, Works: works, Clients: clients}, nil
}
