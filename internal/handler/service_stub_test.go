package handler

import (
	"context"

	"github.com/octobees/portfolio-importer/api/internal/dto"
)

type importerStub struct {
	importFn func(ctx context.Context, username, pageURL string) (*dto.ImportResponse, error)
}

func (s *importerStub) ImportPortfolio(ctx context.Context, username, pageURL string) (*dto.ImportResponse, error) {
	return s.importFn(ctx, username, pageURL)
}

type profileStub struct {
	getFn    func(ctx context.Context, username string) (*dto.UserDetails, error)
	updateFn func(ctx context.Context, username string, payload map[string]any) (*dto.UserDetails, error)
	deleteFn func(ctx context.Context, username string) error
	searchFn func(ctx context.Context, query string, limit int) (*dto.SearchResponse, error)
}

func (s *profileStub) GetUserDetails(ctx context.Context, username string) (*dto.UserDetails, error) {
	return s.getFn(ctx, username)
}

func (s *profileStub) UpdateUser(ctx context.Context, username string, payload map[string]any) (*dto.UserDetails, error) {
	return s.updateFn(ctx, username, payload)
}

func (s *profileStub) DeleteUser(ctx context.Context, username string) error {
	return s.deleteFn(ctx, username)
}

func (s *profileStub) SearchUsers(ctx context.Context, query string, limit int) (*dto.SearchResponse, error) {
	return s.searchFn(ctx, query, limit)
}
