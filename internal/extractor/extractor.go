package extractor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/octobees/portfolio-importer/api/internal/gateway"
)

const portfolioPrompt = `Extract all information from this portfolio page including:

**PORTFOLIO OWNER/TALENT INFORMATION:**
- Name of the portfolio owner/talent
- Job title, profession, or role (e.g., 'Video Editor', 'Graphic Designer')
- About me section, introduction, or bio text
- Areas of expertise, specializations, or what they're good at
- Skills, proficiency, technical abilities, software knowledge, or experience details
- Social media URLs (Instagram, LinkedIn, Twitter, YouTube, etc.)

**PORTFOLIO WORKS:**
- All portfolio work items including videos, images, projects
- YouTube videos, Vimeo videos, embedded videos
- Image galleries and portfolio images
- Project showcases and case studies
For each work item: title/name, URL/link, description/caption

**CLIENT INFORMATION (if available):**
- Client feedback, reviews, testimonials, or case studies
- Customer quotes, recommendations, or project details
- Client work examples or collaborations

For each client, get:
- Client name
- Client job title, position, or company
- Client feedback, testimonial text, or project description
- Client photo or company logo URL if available

Focus on actual content, not navigation elements. If client information doesn't exist, that's okay - just extract owner info and works.`

// PortfolioExtractionResult is everything extracted from one portfolio page.
type PortfolioExtractionResult struct {
	Owner   OwnerProfile        `json:"owner"`
	Works   []WorkItem          `json:"works"`
	Clients []ClientTestimonial `json:"clients"`
}

// ExtractionError wraps a failed gateway call for a portfolio URL.
type ExtractionError struct {
	URL string
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract portfolio %s: %v", e.URL, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Extractor turns a portfolio URL into a PortfolioExtractionResult with a single
// gateway call.
type Extractor struct {
	querier gateway.Querier
	params  gateway.Params
	logger  *slog.Logger
}

// New wires an extractor around the gateway and the request options to send.
func New(querier gateway.Querier, params gateway.Params, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{querier: querier, params: params, logger: logger}
}

// Extract queries the page and normalizes the owner, works and clients found in it.
func (e *Extractor) Extract(ctx context.Context, pageURL string) (*PortfolioExtractionResult, error) {
	data, err := e.querier.QueryDataWithPrompt(ctx, pageURL, portfolioPrompt, e.params)
	if err != nil {
		return nil, &ExtractionError{URL: pageURL, Err: err}
	}

	raw := FromAny(data)
	if e.logger.Enabled(ctx, slog.LevelDebug) {
		e.logger.DebugContext(ctx, "agentql portfolio response", "url", pageURL, "data", raw.Any())
	}

	result := Normalize(raw)
	return &result, nil
}

// Normalize runs the owner, works and clients normalizers over one payload.
func Normalize(raw Value) PortfolioExtractionResult {
	return PortfolioExtractionResult{
		Owner:   NormalizeOwner(raw),
		Works:   NormalizeWorks(raw),
		Clients: NormalizeClients(raw),
	}
}
