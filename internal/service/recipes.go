package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hotelledger/backend/internal/analyzer"
	"hotelledger/backend/internal/domain"
)

// AnalyzeRecipes costs every menu item of the requested departments against
// current inventory prices. It is not scoped to a date window.
func (s *Service) AnalyzeRecipes(ctx context.Context, req domain.RecipeAnalysisRequest) (domain.RecipeAnalysisReport, error) {
	if err := s.validateRequest(req); err != nil {
		return domain.RecipeAnalysisReport{}, err
	}
	depts := departments(req.Departments)

	var cat catalog
	var menu []domain.MenuItem
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := s.repo.ListMenuItems(gctx, depts)
		if err != nil {
			return fmt.Errorf("list menu items: %w", err)
		}
		menu = items
		return nil
	})
	g.Go(func() error {
		// recipes may draw on any department's stock
		items, err := s.repo.ListInventory(gctx, nil)
		if err != nil {
			return fmt.Errorf("list inventory: %w", err)
		}
		cat.inventory = domain.IndexInventory(items)
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.RecipeAnalysisReport{}, err
	}

	items := analyzer.AnalyzeMenu(menu, cat.inventory, s.thresholds)
	report := domain.RecipeAnalysisReport{
		Items:   items,
		Summary: analyzer.Summarize(items),
	}
	s.log.Debug("recipes analyzed",
		zap.Int("items", report.Summary.TotalItems),
		zap.Int("with_warnings", report.Summary.WithWarnings),
	)
	return report, nil
}
