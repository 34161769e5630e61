package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/finedust/calendar-builder/internal/models"
	appErrors "github.com/finedust/calendar-builder/pkg/errors"
)

// ForkChooser picks one of the alternative sections of a forked teaching.
// It must return one of candidates; it may block on user input and should honour ctx.
type ForkChooser func(ctx context.Context, candidates []models.Teaching) (models.Teaching, error)

// HierarchyResolver flattens teaching trees into the leaves a student attends.
type HierarchyResolver struct {
	logger *zap.Logger
}

// NewHierarchyResolver constructs the resolver.
func NewHierarchyResolver(logger *zap.Logger) *HierarchyResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HierarchyResolver{logger: logger}
}

// ResolveAll resolves every distinct root of pool once, in first-seen order.
func (r *HierarchyResolver) ResolveAll(ctx context.Context, pool []models.Teaching, forkHint string, chooseFork ForkChooser) ([]models.Teaching, error) {
	if err := validatePool(pool); err != nil {
		return nil, err
	}
	var roots []int
	seen := make(map[int]struct{})
	for _, t := range pool {
		if _, ok := seen[t.RootID]; ok {
			continue
		}
		seen[t.RootID] = struct{}{}
		roots = append(roots, t.RootID)
	}

	var leaves []models.Teaching
	for _, root := range roots {
		group := make([]models.Teaching, 0)
		for _, t := range pool {
			if t.RootID == root {
				group = append(group, t)
			}
		}
		resolved, err := r.Resolve(ctx, root, group, forkHint, chooseFork)
		if err != nil {
			return nil, err
		}
		leaves = append(leaves, resolved...)
	}
	return leaves, nil
}

// Resolve returns the leaves reached from teachingID.
//
// A node without children is a leaf. Children of type PART are all expanded in
// pool order; children of type FORK are narrowed to one, either the single child
// whose description contains forkHint literally or the one chooseFork returns.
func (r *HierarchyResolver) Resolve(ctx context.Context, teachingID int, pool []models.Teaching, forkHint string, chooseFork ForkChooser) ([]models.Teaching, error) {
	return r.resolve(ctx, teachingID, pool, forkHint, chooseFork, make(map[int]bool))
}

func (r *HierarchyResolver) resolve(ctx context.Context, teachingID int, pool []models.Teaching, forkHint string, chooseFork ForkChooser, path map[int]bool) ([]models.Teaching, error) {
	if path[teachingID] {
		return nil, appErrors.Clone(appErrors.ErrCyclicHierarchy,
			fmt.Sprintf("teaching %d is its own ancestor", teachingID))
	}
	path[teachingID] = true
	defer delete(path, teachingID)

	children := childrenOf(teachingID, pool)
	if len(children) == 0 {
		var self []models.Teaching
		for _, t := range pool {
			if t.ID == teachingID {
				self = append(self, t)
			}
		}
		return self, nil
	}

	switch kind := children[0].Type; kind {
	case models.TeachingTypePart:
		var leaves []models.Teaching
		for _, c := range children {
			sub, err := r.resolve(ctx, c.ID, pool, forkHint, chooseFork, path)
			if err != nil {
				return nil, err
			}
			leaves = append(leaves, sub...)
		}
		return leaves, nil
	case models.TeachingTypeFork:
		chosen, err := r.chooseFork(ctx, children, forkHint, chooseFork)
		if err != nil {
			return nil, err
		}
		r.logger.Debug("fork resolved",
			zap.Int("parent", teachingID), zap.Int("chosen", chosen.ID), zap.String("description", chosen.SubjectDescription))
		return r.resolve(ctx, chosen.ID, pool, forkHint, chooseFork, path)
	default:
		return nil, appErrors.Clone(appErrors.ErrUnknownHierarchy,
			fmt.Sprintf("unknown teaching type: %s", kind))
	}
}

func (r *HierarchyResolver) chooseFork(ctx context.Context, children []models.Teaching, forkHint string, chooseFork ForkChooser) (models.Teaching, error) {
	if forkHint != "" {
		var candidates []models.Teaching
		for _, c := range children {
			if strings.Contains(c.SubjectDescription, forkHint) {
				candidates = append(candidates, c)
			}
		}
		if len(candidates) == 1 {
			return candidates[0], nil
		}
		r.logger.Info("unable to extract a single match with the fork hint",
			zap.String("hint", forkHint), zap.Int("matches", len(candidates)))
	}
	if chooseFork == nil {
		return models.Teaching{}, appErrors.Clone(appErrors.ErrAmbiguousFork,
			fmt.Sprintf("choose one of %d forked teachings: %s", len(children), describe(children)))
	}
	chosen, err := chooseFork(ctx, children)
	if err != nil {
		return models.Teaching{}, err
	}
	for _, c := range children {
		if c.ID == chosen.ID {
			return c, nil
		}
	}
	return models.Teaching{}, appErrors.Clone(appErrors.ErrAmbiguousFork,
		fmt.Sprintf("teaching %d is not one of the forked alternatives", chosen.ID))
}

func childrenOf(id int, pool []models.Teaching) []models.Teaching {
	var children []models.Teaching
	for _, t := range pool {
		if t.FatherID != nil && *t.FatherID == id {
			children = append(children, t)
		}
	}
	return children
}

// validatePool checks that every teaching reaches, through present parents,
// a root that is the one named by its RootID.
func validatePool(pool []models.Teaching) error {
	byID := make(map[int]models.Teaching, len(pool))
	for _, t := range pool {
		byID[t.ID] = t
	}
	for _, t := range pool {
		current := t
		visited := map[int]bool{current.ID: true}
		for current.FatherID != nil {
			father, ok := byID[*current.FatherID]
			if !ok {
				return appErrors.Clone(appErrors.ErrMalformedData,
					fmt.Sprintf("teaching %d references missing parent %d", current.ID, *current.FatherID))
			}
			if visited[father.ID] {
				return appErrors.Clone(appErrors.ErrCyclicHierarchy,
					fmt.Sprintf("the ancestors of teaching %d loop through %d", t.ID, father.ID))
			}
			visited[father.ID] = true
			current = father
		}
		if current.ID != t.RootID {
			return appErrors.Clone(appErrors.ErrMalformedData,
				fmt.Sprintf("teaching %d belongs to root %d but descends from %d", t.ID, t.RootID, current.ID))
		}
	}
	return nil
}

func describe(teachings []models.Teaching) string {
	parts := make([]string, 0, len(teachings))
	for _, t := range teachings {
		parts = append(parts, fmt.Sprintf("%d (%s)", t.ID, t.SubjectDescription))
	}
	return strings.Join(parts, ", ")
}
