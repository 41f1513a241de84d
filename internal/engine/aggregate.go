package engine

import (
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/TrussCut/internal/model"
)

// ReportOptions controls how members are grouped before optimization.
type ReportOptions struct {
	// MergeStandardProfile re-keys STANDARD pieces of a type to that type's
	// explicit profile when the input holds exactly one such profile.
	MergeStandardProfile bool

	// Parallelism bounds concurrent per-group optimization. Zero means GOMAXPROCS.
	Parallelism int
}

func (o ReportOptions) limit() int {
	if o.Parallelism > 0 {
		return o.Parallelism
	}
	return runtime.GOMAXPROCS(0)
}

// BuildReport groups members by (type, profile), numbers the pieces of each
// group in encounter order, and computes the bars each group needs.
//
// Details follow the member order. Summaries and cut plans are sorted by group
// key. Bars are always packed from the group's raw lengths, so a report built
// from combined member lists is the only valid way to merge batches.
func BuildReport(members []model.Member, plan model.CuttingPlan, opts ReportOptions) (model.Report, error) {
	if err := plan.Validate(); err != nil {
		return model.Report{}, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}

	keys := groupKeys(members, opts.MergeStandardProfile)

	report := model.Report{
		Plan:      plan,
		Details:   make([]model.DetailRow, 0, len(members)),
		Summaries: []model.SummaryRow{},
		CutPlans:  []model.GroupCutPlan{},
	}

	groups := make(map[model.GroupKey][]Piece)
	for i, m := range members {
		key := keys[i]
		seq := len(groups[key]) + 1
		id := model.PieceID(key, seq)
		groups[key] = append(groups[key], Piece{ID: id, Length: m.Length})

		report.Details = append(report.Details, model.DetailRow{
			SequenceIndex: seq,
			PieceID:       id,
			Length:        m.Length,
			Type:          key.Type,
			Profile:       key.Profile,
			Source:        m.Source,
		})
	}

	order := make([]model.GroupKey, 0, len(groups))
	for key := range groups {
		order = append(order, key)
	}
	sort.Slice(order, func(i, j int) bool {
		return order[i].Less(order[j])
	})

	// Groups never share bars; each goroutine writes only its own slots.
	// The first failing group in sorted order wins so errors are reproducible.
	bars := make([][]model.Bar, len(order))
	errs := make([]error, len(order))
	opt := New(plan)
	var g errgroup.Group
	g.SetLimit(opts.limit())
	for i, key := range order {
		g.Go(func() error {
			packed, err := opt.Pack(groups[key])
			if err != nil {
				errs[i] = fmt.Errorf("group %s: %w", key, err)
				return nil
			}
			bars[i] = packed
			return nil
		})
	}
	_ = g.Wait()
	for _, err := range errs {
		if err != nil {
			return model.Report{}, err
		}
	}

	for i, key := range order {
		var total float64
		for _, p := range groups[key] {
			total += p.Length
		}
		report.Summaries = append(report.Summaries, model.SummaryRow{
			Group:        key,
			PieceCount:   len(groups[key]),
			TotalLength:  total,
			BarsRequired: len(bars[i]),
		})
		report.CutPlans = append(report.CutPlans, model.GroupCutPlan{
			Group: key,
			Bars:  bars[i],
		})
	}

	return report, nil
}

// CombineMembers concatenates member lists from independent extraction runs,
// preserving run order. Pass the result to BuildReport to merge batches.
func CombineMembers(runs ...[]model.Member) []model.Member {
	n := 0
	for _, r := range runs {
		n += len(r)
	}
	combined := make([]model.Member, 0, n)
	for _, r := range runs {
		combined = append(combined, r...)
	}
	return combined
}

// groupKeys returns the aggregation key of each member, index-aligned.
func groupKeys(members []model.Member, mergeStandard bool) []model.GroupKey {
	keys := make([]model.GroupKey, len(members))
	for i, m := range members {
		keys[i] = m.Key()
	}
	if !mergeStandard {
		return keys
	}

	explicit := make(map[model.MemberType]map[string]bool)
	for _, k := range keys {
		if k.Profile == model.StandardProfile {
			continue
		}
		if explicit[k.Type] == nil {
			explicit[k.Type] = make(map[string]bool)
		}
		explicit[k.Type][k.Profile] = true
	}

	for i, k := range keys {
		if k.Profile != model.StandardProfile || len(explicit[k.Type]) != 1 {
			continue
		}
		for profile := range explicit[k.Type] {
			keys[i].Profile = profile
		}
	}
	return keys
}
