package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/octobees/portfolio-importer/api/internal/dto"
	"github.com/octobees/portfolio-importer/api/internal/entity"
	"github.com/octobees/portfolio-importer/api/internal/extractor"
	"github.com/octobees/portfolio-importer/api/internal/repository"
)

const importedMediaType = "image"

// PortfolioExtractor turns a portfolio URL into normalized owner, works and clients.
type PortfolioExtractor interface {
	Extract(ctx context.Context, pageURL string) (*extractor.PortfolioExtractionResult, error)
}

// PortfolioImportService imports an external portfolio page into a user profile.
type PortfolioImportService struct {
	tx        repository.TxRunner
	extractor PortfolioExtractor
	logger    *slog.Logger
}

// NewPortfolioImportService wires the import flow.
func NewPortfolioImportService(tx repository.TxRunner, ex PortfolioExtractor, logger *slog.Logger) *PortfolioImportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PortfolioImportService{tx: tx, extractor: ex, logger: logger}
}

// ImportPortfolio extracts pageURL and stores the result under username in one
// transaction. Works and clients are appended to whatever the user already has.
func (s *PortfolioImportService) ImportPortfolio(ctx context.Context, username, pageURL string) (*dto.ImportResponse, error) {
	if errs := validateImportInput(username, pageURL); errs != nil {
		return nil, errs
	}
	username = strings.TrimSpace(username)
	pageURL = strings.TrimSpace(pageURL)

	var (
		resp       *dto.ImportResponse
		ownerFound bool
	)
	err := s.tx.WithinTx(ctx, func(repos repository.Repositories) error {
		user, err := findOrCreateUser(ctx, repos.Users, username)
		if err != nil {
			return err
		}

		result, err := s.extractor.Extract(ctx, pageURL)
		if err != nil {
			return err
		}

		ownerFound = result.Owner.Name != nil
		user, err = mergeOwnerProfile(ctx, repos.Users, user, result.Owner)
		if err != nil {
			return err
		}

		works, err := saveWorks(ctx, repos.Works, user, result.Works)
		if err != nil {
			return err
		}

		clients, err := saveClients(ctx, repos, user, result.Clients)
		if err != nil {
			return err
		}

		resp = &dto.ImportResponse{
			User:    *user,
			Works:   works,
			Clients: clients,
			Summary: dto.ImportSummary{
				TotalWorks:      len(works),
				TotalClients:    len(clients),
				SocialURLsFound: len(result.Owner.SocialURLs),
			},
		}
		return nil
	})
	if err != nil {
		importErr := &ImportError{Username: username, URL: pageURL, Err: err}
		if importErr.IsExtraction() {
			s.logger.ErrorContext(ctx, "portfolio extraction failed", "username", username, "url", pageURL, "error", err)
		} else {
			s.logger.ErrorContext(ctx, "portfolio import failed", "username", username, "url", pageURL, "error", err)
		}
		return nil, importErr
	}

	s.logger.InfoContext(ctx, "portfolio imported",
		"user_id", resp.User.ID,
		"username", username,
		"url", pageURL,
		"works_count", resp.Summary.TotalWorks,
		"clients_count", resp.Summary.TotalClients,
		"owner_data_found", ownerFound,
	)
	return resp, nil
}

func findOrCreateUser(ctx context.Context, users repository.UsersRepository, username string) (*entity.User, error) {
	user, err := users.FindByUsername(ctx, username)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, persistenceErr("find user", err)
	}
	user, err = users.Create(ctx, username, username)
	if err != nil {
		return nil, persistenceErr("create user", err)
	}
	return user, nil
}

// mergeOwnerProfile copies the non-empty owner fields onto the user. The name
// is only replaced when it says something the username does not.
func mergeOwnerProfile(ctx context.Context, users repository.UsersRepository, user *entity.User, owner extractor.OwnerProfile) (*entity.User, error) {
	var fields repository.UserFields
	if owner.Name != nil && *owner.Name != "" && *owner.Name != user.Username {
		fields.Name = owner.Name
	}
	if owner.JobTitle != nil && *owner.JobTitle != "" {
		fields.JobTitle = owner.JobTitle
	}
	if owner.Introduction != nil && *owner.Introduction != "" {
		fields.Bio = owner.Introduction
	}
	if len(owner.Expertise) > 0 {
		joined := strings.Join(owner.Expertise, ", ")
		fields.Expertise = &joined
	}
	if len(owner.Skills) > 0 {
		joined := strings.Join(owner.Skills, ", ")
		fields.Skills = &joined
	}
	if len(owner.SocialURLs) > 0 {
		socials := append([]string(nil), owner.SocialURLs...)
		fields.SocialURLs = &socials
	}

	if fields.IsEmpty() {
		return user, nil
	}
	updated, err := users.Update(ctx, user.ID, fields)
	if err != nil {
		return nil, persistenceErr("update user profile", err)
	}
	return updated, nil
}

func saveWorks(ctx context.Context, repo repository.WorksRepository, user *entity.User, items []extractor.WorkItem) ([]entity.Work, error) {
	works := make([]entity.Work, 0, len(items))
	for _, item := range items {
		title, url := item.Title, item.URL
		work, err := repo.Create(ctx, user.ID, repository.WorkFields{
			Title:       &title,
			Description: item.Description,
			URL:         &url,
		})
		if err != nil {
			return nil, persistenceErr("create work", err)
		}
		works = append(works, *work)
	}
	return works, nil
}

func saveClients(ctx context.Context, repos repository.Repositories, user *entity.User, items []extractor.ClientTestimonial) ([]entity.Client, error) {
	clients := make([]entity.Client, 0, len(items))
	for _, item := range items {
		if item.Name == "" || item.Feedback == "" {
			continue
		}
		name, feedback := item.Name, item.Feedback
		client, err := repos.Clients.Create(ctx, user.ID, repository.ClientFields{
			Name:         &name,
			Introduction: item.Introduction,
			JobTitle:     item.JobTitle,
			Feedback:     &feedback,
		})
		if err != nil {
			return nil, persistenceErr("create client", err)
		}

		// the photo lives only as a media row; photo_url is left for profile edits
		if item.PhotoURL != nil && *item.PhotoURL != "" {
			mediaType := importedMediaType
			media, err := repos.Media.Create(ctx, client.ID, repository.MediaFields{
				URL:  item.PhotoURL,
				Type: &mediaType,
			})
			if err != nil {
				return nil, persistenceErr("create client media", err)
			}
			client.Media = append(client.Media, *media)
		}
		clients = append(clients, *client)
	}
	return clients, nil
}
