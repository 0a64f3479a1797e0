package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stackcare/stackcare-backend/internal/data/repos"
	"github.com/stackcare/stackcare-backend/internal/pkg/errors"
	"github.com/stackcare/stackcare-backend/internal/pkg/logger"
	"github.com/stackcare/stackcare-backend/internal/types"
)

const (
	// ResolverStrategyExact matches name and brand by case-insensitive
	// equality. It is the default.
	ResolverStrategyExact = "exact"
	// ResolverStrategyToken scores candidates by token-set similarity and
	// accepts the best one above a fixed threshold.
	ResolverStrategyToken = "token"

	tokenNameWeight    = 0.7
	tokenBrandWeight   = 0.3
	tokenScoreAccept   = 0.7
	tokenCandidateScan = 500
)

// EntityResolver maps a recognized product onto the catalog. Resolution never
// fails the surrounding request over match quality: an unknown product becomes
// a pending catalog entry linked to the submitting user.
type EntityResolver interface {
	Resolve(ctx context.Context, tx *gorm.DB, userID uuid.UUID, product types.RecognizedProduct) (*types.Resolution, error)
}

// NewEntityResolver selects the matching strategy by name. Unknown names fall
// back to exact so a bad env value cannot disable resolution.
func NewEntityResolver(
	log *logger.Logger,
	supplementRepo repos.SupplementRepo,
	userSupplementRepo repos.UserSupplementRepo,
	strategy string,
) EntityResolver {
	base := resolverBase{
		log:                log.With("service", "EntityResolver"),
		supplementRepo:     supplementRepo,
		userSupplementRepo: userSupplementRepo,
	}
	switch strategy {
	case ResolverStrategyToken:
		base.log = base.log.With("strategy", ResolverStrategyToken)
		return &tokenResolver{resolverBase: base}
	case ResolverStrategyExact, "":
	default:
		base.log.Warn("unknown resolver strategy, using exact", "strategy", strategy)
	}
	return &exactResolver{resolverBase: base}
}

type resolverBase struct {
	log                *logger.Logger
	supplementRepo     repos.SupplementRepo
	userSupplementRepo repos.UserSupplementRepo
}

// createPending records the product as a pending catalog entry and links the
// submitter with the "submitted" relation so publish can later reclassify it.
func (rb *resolverBase) createPending(ctx context.Context, tx *gorm.DB, userID uuid.UUID, product types.RecognizedProduct) (*types.Resolution, error) {
	entry := &types.Supplement{
		Name:        product.Name,
		Brand:       product.Brand,
		Form:        product.Form,
		ServingSize: product.ServingSize,
		ServingUnit: product.ServingUnit,
		PerServing:  product.PerServing,
		Status:      types.SupplementStatusPending,
		CreatedBy:   &userID,
	}
	created, err := rb.supplementRepo.Create(ctx, tx, entry)
	if err != nil {
		return nil, fmt.Errorf("create pending supplement: %w", err)
	}
	if err := rb.userSupplementRepo.Link(ctx, tx, userID, created.ID, types.RelationSubmitted); err != nil {
		return nil, fmt.Errorf("link submission: %w", err)
	}
	return &types.Resolution{
		Status:       types.ResolutionPending,
		SupplementID: &created.ID,
		Product:      product,
	}, nil
}

type exactResolver struct {
	resolverBase
}

func (er *exactResolver) Resolve(ctx context.Context, tx *gorm.DB, userID uuid.UUID, product types.RecognizedProduct) (*types.Resolution, error) {
	name := strings.TrimSpace(product.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: product name is required", errors.ErrInvalidArgument)
	}
	product.Name = name

	if product.Brand != nil && strings.TrimSpace(*product.Brand) != "" {
		match, err := er.supplementRepo.FindPublishedByNameBrand(ctx, tx, name, strings.TrimSpace(*product.Brand))
		if err != nil {
			return nil, fmt.Errorf("exact lookup: %w", err)
		}
		if match != nil {
			return &types.Resolution{
				Status:       types.ResolutionMatch,
				Match:        match,
				Score:        1.0,
				SupplementID: &match.ID,
				Product:      product,
			}, nil
		}
	}

	// A generic suggestion is advisory only. The caller decides whether to
	// link the generic entry or submit a distinct branded one, so nothing is
	// written here.
	generic, err := er.supplementRepo.FindGenericPublishedByName(ctx, tx, name)
	if err != nil {
		return nil, fmt.Errorf("generic lookup: %w", err)
	}
	if generic != nil {
		return &types.Resolution{
			Status:  types.ResolutionGenericSuggestion,
			Generic: generic,
			Product: product,
		}, nil
	}

	return er.createPending(ctx, tx, userID, product)
}

type tokenResolver struct {
	resolverBase
}

func (tr *tokenResolver) Resolve(ctx context.Context, tx *gorm.DB, userID uuid.UUID, product types.RecognizedProduct) (*types.Resolution, error) {
	name := strings.TrimSpace(product.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: product name is required", errors.ErrInvalidArgument)
	}
	product.Name = name

	candidates, err := tr.supplementRepo.ListPublished(ctx, tx, tokenCandidateScan)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	var best *types.Supplement
	bestScore := 0.0
	for _, candidate := range candidates {
		score := productScore(product, candidate)
		if score > bestScore {
			best = candidate
			bestScore = score
		}
	}

	if best != nil && bestScore >= tokenScoreAccept {
		return &types.Resolution{
			Status:       types.ResolutionMatch,
			Match:        best,
			Score:        bestScore,
			SupplementID: &best.ID,
			Product:      product,
		}, nil
	}

	return tr.createPending(ctx, tx, userID, product)
}

// productScore weighs name similarity 0.7 against brand similarity 0.3. When
// either side has no brand, the name carries full weight instead of capping
// the score at the name weight.
func productScore(product types.RecognizedProduct, candidate *types.Supplement) float64 {
	nameScore := tokenSetJaccard(product.Name, candidate.Name)
	if product.Brand == nil || candidate.Brand == nil {
		return nameScore
	}
	return tokenNameWeight*nameScore + tokenBrandWeight*tokenSetJaccard(*product.Brand, *candidate.Brand)
}

// tokenSetJaccard splits both strings into lowercase alphanumeric tokens and
// returns |intersection| / |union|.
func tokenSetJaccard(a, b string) float64 {
	setA := tokenize(a)
	setB := tokenize(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	intersection := 0
	for token := range setA {
		if setB[token] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func tokenize(value string) map[string]bool {
	fields := strings.FieldsFunc(strings.ToLower(value), func(r rune) bool {
		return !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'))
	})
	tokens := make(map[string]bool, len(fields))
	for _, field := range fields {
		tokens[field] = true
	}
	return tokens
}
