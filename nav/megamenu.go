package nav

import (
	"context"
	"strings"

	"github.com/fwojciec/catmap"
	gq "github.com/fwojciec/catmap/goquery"
)

var _ catmap.NavigationStrategy = (*MegaMenuStrategy)(nil)

// Interaction methods tried in order for each trigger.
const (
	methodHover = "hover"
	methodClick = "click"
	methodFocus = "focus"
)

// MegaMenuStrategy extracts navigation from hover- or click-driven mega
// menus without a known site pattern. For each top-level trigger it
// attempts interaction methods in a fixed sequence (hover, then click,
// then programmatic focus) until one reveals a dropdown with at least
// one link, and records which method succeeded.
type MegaMenuStrategy struct {
	// TriggerSelectors are candidate top-level trigger selectors, tried
	// in order until one matches at least two elements.
	TriggerSelectors []string

	// DropdownSelectors are candidate revealed-region selectors.
	DropdownSelectors []string

	// Pacing controls settle and cleanup delays.
	Pacing InteractionConfig
}

// Name returns the strategy identifier.
func (s *MegaMenuStrategy) Name() string { return "megamenu" }

// Priority orders the strategy in tie-breaks.
func (s *MegaMenuStrategy) Priority() int { return 2 }

// defaultTriggerSelectors cover the common top-bar shapes.
var defaultTriggerSelectors = []string{
	"header nav > ul > li > a",
	"nav[role=navigation] > ul > li > a",
	"header [class*=menu] > li > a",
	"header nav a",
}

// defaultDropdownSelectors cover the common revealed-region shapes.
var defaultDropdownSelectors = []string{
	"header nav li ul",
	"header nav [class*=dropdown]",
	"header nav [class*=submenu]",
	"header [class*=mega-menu]",
	"[class*=flyout]",
}

// Execute attempts each interaction method per trigger until a dropdown
// becomes visible, then harvests its links. The page is settled before
// returning.
func (s *MegaMenuStrategy) Execute(ctx context.Context, page catmap.Page, pageURL string) (*catmap.StrategyResult, error) {
	pacing := s.Pacing.withDefaults()

	triggerSelectors := s.TriggerSelectors
	if triggerSelectors == nil {
		triggerSelectors = defaultTriggerSelectors
	}
	dropdownSelectors := s.DropdownSelectors
	if dropdownSelectors == nil {
		dropdownSelectors = defaultDropdownSelectors
	}

	var triggers []catmap.Element
	for _, selector := range triggerSelectors {
		found, err := page.Find(ctx, selector)
		if err != nil {
			return nil, err
		}
		if len(found) >= 2 {
			triggers = found
			break
		}
	}
	if len(triggers) == 0 {
		return &catmap.StrategyResult{Confidence: 0}, nil
	}
	if len(triggers) > pacing.MaxTriggers {
		triggers = triggers[:pacing.MaxTriggers]
	}

	defer settlePage(ctx, page, pacing)

	methodsUsed := make(map[string]bool)
	var tree []catmap.NavigationNode

	for _, trigger := range triggers {
		if ctx.Err() != nil {
			break
		}

		name, err := trigger.Text(ctx)
		if err != nil || strings.TrimSpace(name) == "" {
			continue
		}
		name = strings.TrimSpace(name)

		children, method := s.openAndHarvest(ctx, page, pageURL, trigger, dropdownSelectors, pacing)
		if method != "" {
			methodsUsed[method] = true
		}

		node := catmap.NavigationNode{
			Name:           name,
			URL:            resolveHref(pageURL, triggerURL(ctx, trigger)),
			Children:       children,
			SourceStrategy: s.Name(),
			Confidence:     0.7,
		}
		if node.Validate() != nil {
			continue
		}
		tree = append(tree, node)
	}

	if len(tree) == 0 {
		return &catmap.StrategyResult{Confidence: 0}, nil
	}

	metadata := make(map[string]string)
	for method := range methodsUsed {
		metadata["method_"+method] = "true"
	}
	return &catmap.StrategyResult{
		Tree:       tree,
		Confidence: 0.7,
		Metadata:   metadata,
	}, nil
}

// openAndHarvest tries hover, click and focus in order until a dropdown
// with at least one link is visible, returning the harvested children
// and the method that worked.
func (s *MegaMenuStrategy) openAndHarvest(ctx context.Context, page catmap.Page, pageURL string, trigger catmap.Element, dropdownSelectors []string, pacing InteractionConfig) ([]catmap.NavigationNode, string) {
	for _, method := range []string{methodHover, methodClick, methodFocus} {
		var err error
		switch method {
		case methodHover:
			err = trigger.Hover(ctx)
		case methodClick:
			err = trigger.Click(ctx)
		case methodFocus:
			err = trigger.Focus(ctx)
		}
		if err != nil {
			continue
		}
		if err := sleep(ctx, pacing.SettleDelay); err != nil {
			return nil, ""
		}

		children := s.visibleDropdownLinks(ctx, page, pageURL, dropdownSelectors)
		if len(children) > 0 {
			return children, method
		}
	}
	return nil, ""
}

// visibleDropdownLinks harvests links from the first visible dropdown
// region that contains any.
func (s *MegaMenuStrategy) visibleDropdownLinks(ctx context.Context, page catmap.Page, pageURL string, dropdownSelectors []string) []catmap.NavigationNode {
	for _, selector := range dropdownSelectors {
		regions, err := page.Find(ctx, selector)
		if err != nil {
			continue
		}
		for _, region := range regions {
			visible, err := region.Visible(ctx)
			if err != nil || !visible {
				continue
			}
			html, err := region.HTML(ctx)
			if err != nil {
				continue
			}
			nodes, err := gq.HarvestLinks(html, pageURL)
			if err != nil || len(nodes) == 0 {
				continue
			}
			for i := range nodes {
				nodes[i].SourceStrategy = s.Name()
				nodes[i].Confidence = 0.7
			}
			return nodes
		}
	}
	return nil
}
