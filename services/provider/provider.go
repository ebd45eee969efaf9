package provider

import (
	"context"
	"fmt"
	"strings"

	providerRepo "frontdesk/database/repository/provider"
	"frontdesk/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProviderService manages the physician registry: the operator-facing
// administrative path that owns working hours and time-off.
type ProviderService interface {
	Register(ctx context.Context, p *models.Provider) (*models.Provider, error)
	Update(ctx context.Context, p *models.Provider) (*models.Provider, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Provider, error)
	GetAll(ctx context.Context) ([]models.Provider, error)
	// MatchByName finds the registered provider whose name most resembles
	// what the voice layer heard, or nil if nothing is close enough.
	MatchByName(ctx context.Context, heard string) (*models.Provider, error)
}

// DefaultProviderService implements ProviderService.
type DefaultProviderService struct {
	Repo   providerRepo.ProviderRepository
	Logger *zap.Logger
}

func (s *DefaultProviderService) Register(ctx context.Context, p *models.Provider) (*models.Provider, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, fmt.Errorf("provider name is required")
	}
	if len(p.WorkingHours) == 0 {
		return nil, fmt.Errorf("provider %s has no working hours", p.Name)
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.Normalize()
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *DefaultProviderService) Update(ctx context.Context, p *models.Provider) (*models.Provider, error) {
	p.Normalize()
	if err := s.Repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *DefaultProviderService) Delete(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}

func (s *DefaultProviderService) GetByID(ctx context.Context, id string) (*models.Provider, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *DefaultProviderService) GetAll(ctx context.Context) ([]models.Provider, error) {
	return s.Repo.GetAll(ctx)
}

// matchThreshold is the minimum similarity between the heard name and a
// registered one; tune it against transcription quality.
const matchThreshold = 0.5

func (s *DefaultProviderService) MatchByName(ctx context.Context, heard string) (*models.Provider, error) {
	providers, err := s.Repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	var best *models.Provider
	bestScore := matchThreshold
	for i := range providers {
		score := similarity(providers[i].Name, heard)
		if score > bestScore {
			best = &providers[i]
			bestScore = score
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

// similarity is a normalized edit-distance ratio in [0,1], case-insensitive.
func similarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.9
	}
	dist := levenshtein(a, b)
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	return 1 - float64(dist)/float64(longest)
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
