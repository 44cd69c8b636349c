package stats

import "github.com/smallbiznis/crmlite/internal/report/domain"

// Aggregate counts one group's records per required status and result name and the
// number of distinct regions they reference. Records without a region share one bucket.
func Aggregate(records []domain.Record, statuses, results []domain.Category) (domain.Stats, error) {
	statusIDs, err := resolve(domain.TableStatus, statuses, domain.RequiredStatusNames())
	if err != nil {
		return domain.Stats{}, err
	}
	resultIDs, err := resolve(domain.TableResult, results, domain.RequiredResultNames())
	if err != nil {
		return domain.Stats{}, err
	}

	statusBuckets := newBuckets(domain.RequiredStatusNames())
	resultBuckets := newBuckets(domain.RequiredResultNames())

	regions := make(map[int64]struct{})
	withoutRegion := false

	for _, r := range records {
		count(statusBuckets, statusIDs, r.StatusID)
		count(resultBuckets, resultIDs, r.ResultID)

		if r.RegionID == nil {
			withoutRegion = true
			continue
		}
		regions[*r.RegionID] = struct{}{}
	}

	regionsInWork := len(regions)
	if withoutRegion {
		regionsInWork++
	}

	return domain.NewStats(statusBuckets, resultBuckets, regionsInWork, len(records)), nil
}

// resolve maps each required name to the ids carrying it. Duplicate names in a table
// are merged, so their counts add up.
func resolve(table string, entries []domain.Category, required []string) ([]map[int64]struct{}, error) {
	byName := make(map[string]map[int64]struct{}, len(entries))
	for _, e := range entries {
		ids, ok := byName[e.Name]
		if !ok {
			ids = make(map[int64]struct{})
			byName[e.Name] = ids
		}
		ids[e.ID] = struct{}{}
	}

	out := make([]map[int64]struct{}, len(required))
	for i, name := range required {
		ids, ok := byName[name]
		if !ok {
			return nil, &domain.MissingCategoryError{Table: table, Name: name}
		}
		out[i] = ids
	}
	return out, nil
}

func newBuckets(names []string) []domain.Bucket {
	buckets := make([]domain.Bucket, len(names))
	for i, name := range names {
		buckets[i] = domain.Bucket{Name: name}
	}
	return buckets
}

func count(buckets []domain.Bucket, ids []map[int64]struct{}, id int64) {
	for i := range buckets {
		if _, ok := ids[i][id]; ok {
			buckets[i].Count++
		}
	}
}
