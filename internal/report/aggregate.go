package report

import (
	"math"

	"github.com/wipdash/wipdash/internal/api"
)

// Rollup is the derived summary of a set of logs. Durations accumulate in
// whole seconds and amounts in integer cents; conversion to hours or a
// currency string happens only at presentation time.
type Rollup struct {
	TotalDurationSecs   int64
	TotalAmountCents    int64
	DistinctClients     int
	DistinctTeamMembers int
	EntryCount          int
}

// Cents converts a currency amount to integer cents, rounding half away
// from zero.
func Cents(amount float64) int64 {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0
	}
	return int64(math.Round(amount * 100))
}

// Aggregate walks logs and produces the roll-up. Distinct counts use set
// semantics on the identifier fields; logs with an empty identifier are
// not counted as an entity.
func Aggregate(logs []api.TimeLog) Rollup {
	var r Rollup
	clients := make(map[string]struct{})
	members := make(map[string]struct{})

	for _, log := range logs {
		r.TotalDurationSecs += log.DurationSecs
		r.TotalAmountCents += Cents(log.Amount)
		if log.ClientID != "" {
			clients[log.ClientID] = struct{}{}
		}
		if log.TeamMemberID != "" {
			members[log.TeamMemberID] = struct{}{}
		}
		r.EntryCount++
	}

	r.DistinctClients = len(clients)
	r.DistinctTeamMembers = len(members)
	return r
}

// Rollup aggregates every log in the group for its header row.
func (g Group) Rollup() Rollup {
	return Aggregate(g.Logs())
}

// Rollup aggregates one leaf bucket.
func (b Bucket) Rollup() Rollup {
	return Aggregate(b.Logs)
}

// UnbilledShare returns the fraction (0..1) of the total amount still not
// invoiced, the number behind the WIP warning.
func UnbilledShare(logs []api.TimeLog) float64 {
	var total, unbilled int64
	for _, log := range logs {
		c := Cents(log.Amount)
		total += c
		if log.Status == api.StatusNotInvoiced {
			unbilled += c
		}
	}
	if total <= 0 {
		return 0
	}
	return float64(unbilled) / float64(total)
}
