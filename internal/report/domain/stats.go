package domain

type Bucket struct {
	Name  string
	Count int
}

// Stats is the aggregation of one group's records. It is never mutated after construction.
type Stats struct {
	statuses      []Bucket
	results       []Bucket
	regionsInWork int
	total         int
}

func NewStats(statuses, results []Bucket, regionsInWork, total int) Stats {
	return Stats{
		statuses:      append([]Bucket(nil), statuses...),
		results:       append([]Bucket(nil), results...),
		regionsInWork: regionsInWork,
		total:         total,
	}
}

func (s Stats) Statuses() []Bucket { return append([]Bucket(nil), s.statuses...) }

func (s Stats) Results() []Bucket { return append([]Bucket(nil), s.results...) }

func (s Stats) RegionsInWork() int { return s.regionsInWork }

func (s Stats) Total() int { return s.total }

func (s Stats) StatusCount(name string) int { return countOf(s.statuses, name) }

func (s Stats) ResultCount(name string) int { return countOf(s.results, name) }

func countOf(buckets []Bucket, name string) int {
	for _, b := range buckets {
		if b.Name == name {
			return b.Count
		}
	}
	return 0
}
