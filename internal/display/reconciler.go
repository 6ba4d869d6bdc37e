package display

import (
	"errors"

	"github.com/starinfo/extension/internal/star"
	"github.com/starinfo/extension/pkg/core"
)

// Reconciler keeps the host's info box and hint arrow in line with the
// promoted star. It remembers what it last applied and only calls the host
// when that changes.
type Reconciler struct {
	host   Host
	opts   Options
	health HealthText

	badge *Badge
	hint  *core.WorldPoint
}

// NewReconciler creates a Reconciler that drives host.
func NewReconciler(host Host, opts Options) *Reconciler {
	return &Reconciler{host: host, opts: opts}
}

func (r *Reconciler) Options() Options {
	return r.opts
}

// Health returns the health text for promoted, sharing the remembered
// reading with the info box.
func (r *Reconciler) Health(promoted *star.Star) string {
	if promoted == nil {
		r.health.Reset()
		return ""
	}
	r.health.Forget(promoted.ID())
	return r.health.Text(promoted)
}

// Overlay returns the overlay label and colour for promoted, or false when
// nothing is tracked.
func (r *Reconciler) Overlay(promoted *star.Star) (string, string, bool) {
	if promoted == nil {
		return "", "", false
	}
	return OverlayText(promoted, r.Health(promoted)), r.opts.TextColor, true
}

// Reconcile applies the display for promoted, or clears it when promoted is nil.
func (r *Reconciler) Reconcile(promoted *star.Star) error {
	if promoted == nil {
		r.health.Reset()
		return errors.Join(r.removeBadge(), r.clearHint())
	}

	var errs []error
	if r.opts.ShowInfoBox {
		errs = append(errs, r.setBadge(r.badgeFor(promoted)))
	} else {
		errs = append(errs, r.removeBadge())
	}
	if r.opts.ShowHintArrow {
		errs = append(errs, r.setHint(promoted.Location()))
	} else {
		errs = append(errs, r.clearHint())
	}
	return errors.Join(errs...)
}

// SetOptions changes the toggles and reapplies the display for promoted.
func (r *Reconciler) SetOptions(opts Options, promoted *star.Star) error {
	r.opts = opts
	return r.Reconcile(promoted)
}

// Clear removes everything the reconciler has shown.
func (r *Reconciler) Clear() error {
	return r.Reconcile(nil)
}

func (r *Reconciler) badgeFor(s *star.Star) Badge {
	health := r.Health(s)
	return Badge{
		ItemID:  StarItemID,
		Text:    OverlayText(s, health),
		Tooltip: tooltip(s, health),
		Color:   r.opts.TextColor,
	}
}

func (r *Reconciler) setBadge(b Badge) error {
	if r.badge != nil && *r.badge == b {
		return nil
	}
	if err := r.host.SetInfoBox(b); err != nil {
		return err
	}
	r.badge = &b
	return nil
}

func (r *Reconciler) removeBadge() error {
	if r.badge == nil {
		return nil
	}
	if err := r.host.RemoveInfoBox(); err != nil {
		return err
	}
	r.badge = nil
	return nil
}

func (r *Reconciler) setHint(p core.WorldPoint) error {
	if r.hint != nil && *r.hint == p {
		return nil
	}
	if err := r.host.SetHintArrow(p); err != nil {
		return err
	}
	r.hint = &p
	return nil
}

func (r *Reconciler) clearHint() error {
	if r.hint == nil {
		return nil
	}
	if err := r.host.ClearHintArrow(); err != nil {
		return err
	}
	r.hint = nil
	return nil
}
