// Package stats computes dashboard counts over applications and provider profiles.
package stats

import "github.com/jwalitptl/care-portal-api/internal/model"

func newBuckets() map[model.ProviderType]int {
	buckets := make(map[model.ProviderType]int, len(model.ProviderTypes))
	for _, t := range model.ProviderTypes {
		buckets[t] = 0
	}
	return buckets
}

// Aggregate groups applications by status and type and counts provider
// profiles. Applications with an unrecognised status are skipped, so Total
// always equals the sum of the status counts. An unrecognised provider type
// is counted in Total but in no type bucket.
func Aggregate(apps []*model.ProviderApplication, profiles []*model.ProviderProfile) model.ApplicationStats {
	out := model.ApplicationStats{
		ByType: newBuckets(),
		Providers: model.ProviderStats{
			ByType: newBuckets(),
		},
	}

	for _, app := range apps {
		if app == nil {
			continue
		}
		switch app.Status {
		case model.ApplicationPending:
			out.Pending++
		case model.ApplicationApproved:
			out.Approved++
		case model.ApplicationRejected:
			out.Rejected++
		case model.ApplicationNeedsRevision:
			out.NeedsRevision++
		default:
			continue
		}
		out.Total++
		if app.ProviderType.Valid() {
			out.ByType[app.ProviderType]++
		}
	}

	for _, p := range profiles {
		if p == nil {
			continue
		}
		out.Providers.Total++
		if p.IsVerified {
			out.Providers.Verified++
		}
		if p.ProviderType.Valid() {
			out.Providers.ByType[p.ProviderType]++
		}
	}
	return out
}
