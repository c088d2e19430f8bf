package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/octobees/portfolio-importer/api/internal/dto"
	"github.com/octobees/portfolio-importer/api/internal/repository"
)

// Reconciliation rule shared by works, clients and media: an id that matches an
// owned row updates it, or deletes it when _delete is true. Anything else,
// including unknown ids, creates a new row. Rows not mentioned are kept.

func syncWorks(ctx context.Context, repo repository.WorksRepository, userID uuid.UUID, items []dto.WorkInput) error {
	existing, err := repo.ListByUser(ctx, userID)
	if err != nil {
		return persistenceErr("list works", err)
	}
	owned := make(map[uuid.UUID]struct{}, len(existing))
	for _, w := range existing {
		owned[w.ID] = struct{}{}
	}

	for i, item := range items {
		fields := repository.WorkFields{Title: item.Title, Description: item.Description, URL: item.URL}
		id, ok := matchOwned(item.ID, owned)
		switch {
		case ok && item.Delete:
			err = ignoreNotFound(repo.Delete(ctx, userID, id), repository.ErrWorkNotFound)
		case ok:
			err = ignoreNotFound(repo.Update(ctx, userID, id, fields), repository.ErrWorkNotFound)
		default:
			if isBlank(item.Title) {
				return NewValidationError(fmt.Sprintf("works.%d.title", i), "Work title is required when creating new work.")
			}
			_, err = repo.Create(ctx, userID, fields)
		}
		if err != nil {
			return persistenceErr("sync works", err)
		}
	}
	return nil
}

func syncClients(ctx context.Context, repos repository.Repositories, userID uuid.UUID, items []dto.ClientInput) error {
	existing, err := repos.Clients.ListByUser(ctx, userID)
	if err != nil {
		return persistenceErr("list clients", err)
	}
	owned := make(map[uuid.UUID]struct{}, len(existing))
	for _, c := range existing {
		owned[c.ID] = struct{}{}
	}

	for i, item := range items {
		fields := repository.ClientFields{
			Name:         item.Name,
			PhotoURL:     item.PhotoURL,
			Introduction: item.Introduction,
			JobTitle:     item.JobTitle,
			Feedback:     item.Feedback,
		}
		id, ok := matchOwned(item.ID, owned)
		switch {
		case ok && item.Delete:
			if err := ignoreNotFound(repos.Clients.Delete(ctx, userID, id), repository.ErrClientNotFound); err != nil {
				return persistenceErr("sync clients", err)
			}
			continue
		case ok:
			if err := ignoreNotFound(repos.Clients.Update(ctx, userID, id, fields), repository.ErrClientNotFound); err != nil {
				return persistenceErr("sync clients", err)
			}
		default:
			if isBlank(item.Name) {
				return NewValidationError(fmt.Sprintf("clients.%d.name", i), "Client name is required when creating new client.")
			}
			created, err := repos.Clients.Create(ctx, userID, fields)
			if err != nil {
				return persistenceErr("sync clients", err)
			}
			id = created.ID
		}

		if item.Media != nil {
			if err := syncMedia(ctx, repos.Media, id, i, item.Media); err != nil {
				return err
			}
		}
	}
	return nil
}

func syncMedia(ctx context.Context, repo repository.ClientMediaRepository, clientID uuid.UUID, clientIndex int, items []dto.MediaInput) error {
	existing, err := repo.ListByClient(ctx, clientID)
	if err != nil {
		return persistenceErr("list client media", err)
	}
	owned := make(map[uuid.UUID]struct{}, len(existing))
	for _, m := range existing {
		owned[m.ID] = struct{}{}
	}

	for j, item := range items {
		fields := repository.MediaFields{URL: item.URL, Type: item.Type, Title: item.Title, Description: item.Description}
		id, ok := matchOwned(item.ID, owned)
		switch {
		case ok && item.Delete:
			err = ignoreNotFound(repo.Delete(ctx, clientID, id), repository.ErrMediaNotFound)
		case ok:
			err = ignoreNotFound(repo.Update(ctx, clientID, id, fields), repository.ErrMediaNotFound)
		default:
			if isBlank(item.URL) {
				return NewValidationError(fmt.Sprintf("clients.%d.media.%d.url", clientIndex, j), "Media URL is required when creating new media.")
			}
			_, err = repo.Create(ctx, clientID, fields)
		}
		if err != nil {
			return persistenceErr("sync client media", err)
		}
	}
	return nil
}

func matchOwned(raw *string, owned map[uuid.UUID]struct{}) (uuid.UUID, bool) {
	if raw == nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return uuid.Nil, false
	}
	_, ok := owned[id]
	return id, ok
}

// ignoreNotFound treats a row that vanished earlier in the same sync as handled.
func ignoreNotFound(err, notFound error) error {
	if errors.Is(err, notFound) {
		return nil
	}
	return err
}
