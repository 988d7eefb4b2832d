package nav

import (
	"context"
	"time"

	"github.com/fwojciec/catmap"
)

// InteractionConfig holds the pacing used by strategies that interact
// with the page. Delays are deliberate and never zero: asynchronous
// menu rendering needs time to stabilize, and instant interaction
// cadences trip anti-bot defenses.
type InteractionConfig struct {
	// SettleDelay is the pause after opening a menu before harvesting.
	SettleDelay time.Duration

	// CleanupDelay bounds the pause after resetting UI state.
	CleanupDelay time.Duration

	// MaxTriggers caps how many top-level triggers one strategy
	// interacts with.
	MaxTriggers int
}

// DefaultInteractionConfig returns the standard pacing.
func DefaultInteractionConfig() InteractionConfig {
	return InteractionConfig{
		SettleDelay:  300 * time.Millisecond,
		CleanupDelay: 200 * time.Millisecond,
		MaxTriggers:  15,
	}
}

// withDefaults fills in zero fields so nobody ever runs with no pacing.
func (c InteractionConfig) withDefaults() InteractionConfig {
	def := DefaultInteractionConfig()
	if c.SettleDelay <= 0 {
		c.SettleDelay = def.SettleDelay
	}
	if c.CleanupDelay <= 0 {
		c.CleanupDelay = def.CleanupDelay
	}
	if c.MaxTriggers <= 0 {
		c.MaxTriggers = def.MaxTriggers
	}
	return c
}

// sleep pauses for d unless the context is canceled first.
func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// settlePage resets transient UI state after menu interaction: pointer
// moved to a neutral element so no hover-opened menu lingers. Strategies
// run concurrently against the same page, so this post-condition is what
// keeps one strategy's interaction from corrupting another's read.
func settlePage(ctx context.Context, page catmap.Page, pacing InteractionConfig) {
	bodies, err := page.Find(ctx, "body")
	if err == nil && len(bodies) > 0 {
		_ = bodies[0].Hover(ctx)
	}
	_ = sleep(ctx, pacing.CleanupDelay)
}

// triggerURL reads an anchor trigger's destination, if it has one.
func triggerURL(ctx context.Context, el catmap.Element) string {
	href, ok, err := el.Attr(ctx, "href")
	if err != nil || !ok {
		return ""
	}
	return href
}
