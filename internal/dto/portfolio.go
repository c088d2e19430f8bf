package dto

import "github.com/octobees/portfolio-importer/api/internal/entity"

// ImportRequest is the body of a portfolio import call.
type ImportRequest struct {
	URL string `json:"url"`
}

// ImportSummary counts what an import produced.
type ImportSummary struct {
	TotalWorks      int `json:"total_works"`
	TotalClients    int `json:"total_clients"`
	SocialURLsFound int `json:"social_urls_found"`
}

// ImportResponse is returned after a successful import.
type ImportResponse struct {
	User    entity.User     `json:"user"`
	Works   []entity.Work   `json:"works"`
	Clients []entity.Client `json:"clients"`
	Summary ImportSummary   `json:"summary"`
}
