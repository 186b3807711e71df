package forms

import (
	"errors"
	"fmt"

	"ticketsafi/web/internal/model"
	"ticketsafi/web/internal/service/ticketsafi"
)

const MsgQuantityBelowMin = "Quantity for '%s' cannot be lower than %d."

// QuantityError reports an allocation below what a tier's lock allows.
type QuantityError struct {
	Tier string
	Min  int
}

func (e *QuantityError) Error() string {
	return fmt.Sprintf("tier %q quantity below %d", e.Tier, e.Min)
}

// Message is the form text for the error.
func (e *QuantityError) Message() string {
	return fmt.Sprintf(MsgQuantityBelowMin, e.Tier, e.Min)
}

// TierLock describes which fields of a stored tier may still change. A tier
// that has sold tickets keeps its name, description and price, and its
// allocation can only grow.
type TierLock struct {
	Locked      bool
	MinQuantity int
}

func LockFor(t model.Tier) TierLock {
	if t.QuantitySold <= 0 {
		return TierLock{MinQuantity: 1}
	}
	return TierLock{Locked: true, MinQuantity: max(t.QuantityAllocated, t.QuantitySold)}
}

// Apply enforces the lock on a submitted row for stored tier t. Locked
// fields take the stored values whatever was submitted.
func (l TierLock) Apply(t model.Tier, in ticketsafi.TierSubmission) (ticketsafi.TierSubmission, error) {
	in.ID = t.ID
	if l.Locked {
		in.Name = t.Name
		in.Description = t.Description
		in.Price = t.Price.Float()
	}
	if in.QuantityAllocated < l.MinQuantity {
		return in, &QuantityError{Tier: t.Name, Min: l.MinQuantity}
	}
	return in, nil
}

// EditRows turns stored tiers into form rows.
func EditRows(tiers []model.Tier) []TierRow {
	rows := make([]TierRow, 0, len(tiers))
	for _, t := range tiers {
		rows = append(rows, TierRow{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			Price:       formatPrice(t.Price.Float()),
			Quantity:    fmt.Sprint(t.QuantityAllocated),
		})
	}
	return rows
}

// ApplyTierLocks merges submitted rows with the stored tiers. Rows naming a
// stored tier are checked against its lock; rows without an id are new
// tiers. Stored tiers with sales cannot be removed and are kept if missing
// from the submission.
func ApplyTierLocks(stored []model.Tier, rows []TierRow) ([]ticketsafi.TierSubmission, Errors) {
	byID := make(map[string]model.Tier, len(stored))
	for _, t := range stored {
		byID[t.ID] = t
	}

	errs := Errors{}
	seen := make(map[string]bool, len(rows))
	out := make([]ticketsafi.TierSubmission, 0, len(rows))
	for i, row := range rows {
		t, known := byID[row.ID]
		lock := TierLock{MinQuantity: 1}
		if known {
			lock = LockFor(t)
			seen[t.ID] = true
			if lock.Locked {
				// Locked fields keep their stored values whatever was posted.
				row.Name, row.Description, row.Price = t.Name, t.Description, formatPrice(t.Price.Float())
			}
		} else {
			row.ID = ""
		}

		sub, rowErrs := row.Parse()
		for f, msg := range rowErrs {
			errs.Add(fmt.Sprintf("tiers.%d.%s", i, f), msg)
		}
		if known && !rowErrs.Any() {
			var err error
			sub, err = lock.Apply(t, sub)
			var qErr *QuantityError
			if errors.As(err, &qErr) {
				errs.Add(fmt.Sprintf("tiers.%d.quantity", i), qErr.Message())
			}
		}
		out = append(out, sub)
	}

	for _, t := range stored {
		if seen[t.ID] || !LockFor(t).Locked {
			continue
		}
		out = append(out, ticketsafi.TierSubmission{
			ID:                t.ID,
			Name:              t.Name,
			Description:       t.Description,
			Price:             t.Price.Float(),
			QuantityAllocated: t.QuantityAllocated,
		})
	}

	if len(out) == 0 {
		errs.Add("", MsgNeedTier)
	}
	if errs.Any() {
		return nil, errs
	}
	return out, nil
}

func formatPrice(p float64) string {
	return fmt.Sprint(p)
}
