package service

import (
	"math"
	"math/big"
	"strings"

	"stack-scheduler/internal/api"
	"stack-scheduler/internal/domain"
)

// agentCounter counts plays per agent and remembers first-seen order so ties
// resolve to the agent encountered first.
type agentCounter struct {
	order  []string
	counts map[string]int
}

func newAgentCounter() *agentCounter {
	return &agentCounter{counts: make(map[string]int)}
}

func (c *agentCounter) add(agent string) {
	if _, seen := c.counts[agent]; !seen {
		c.order = append(c.order, agent)
	}
	c.counts[agent]++
}

func (c *agentCounter) mostPlayed() string {
	best := domain.UnknownAgent
	bestCount := 0
	for _, agent := range c.order {
		if c.counts[agent] > bestCount {
			best = agent
			bestCount = c.counts[agent]
		}
	}
	return best
}

type statTotals struct {
	matches   int
	wins      int
	losses    int
	kills     int
	deaths    int
	assists   int
	score     int
	headshots int
	bodyshots int
	legshots  int
}

// ReduceStats folds a match list into one summary for handle. Matches where
// the handle is not on the roster are skipped entirely.
func ReduceStats(matches []api.MatchRecord, handle domain.PlayerHandle) domain.StatsSummary {
	var t statTotals
	agents := newAgentCounter()

	for _, match := range matches {
		entry := findRosterEntry(match.Players.AllPlayers, handle)
		if entry == nil {
			continue
		}
		t.matches++

		t.kills += entry.Stats.Kills
		t.deaths += entry.Stats.Deaths
		t.assists += entry.Stats.Assists
		t.score += entry.Stats.Score
		t.headshots += entry.Stats.Headshots
		t.bodyshots += entry.Stats.Bodyshots
		t.legshots += entry.Stats.Legshots

		agent := entry.Character
		if agent == "" {
			agent = domain.UnknownAgent
		}
		agents.add(agent)

		// unknown outcome counts as a loss
		if outcome, ok := match.Teams[strings.ToLower(entry.Team)]; ok && outcome.HasWon {
			t.wins++
		} else {
			t.losses++
		}
	}

	if t.matches == 0 {
		return domain.DefaultStatsSummary()
	}

	n := float64(t.matches)
	summary := domain.StatsSummary{
		TotalMatches:    t.matches,
		Wins:            t.wins,
		Losses:          t.losses,
		WinRate:         round(float64(t.wins)/n*100, 1),
		AvgScore:        t.score / t.matches,
		AvgKills:        round(float64(t.kills)/n, 1),
		AvgDeaths:       round(float64(t.deaths)/n, 1),
		AvgAssists:      round(float64(t.assists)/n, 1),
		KDRatio:         float64(t.kills),
		MostPlayedAgent: agents.mostPlayed(),
	}

	if t.deaths > 0 {
		summary.KDRatio = round(float64(t.kills)/float64(t.deaths), 2)
	}

	if shots := t.headshots + t.bodyshots + t.legshots; shots > 0 {
		summary.HeadshotPercent = round(float64(t.headshots)/float64(shots)*100, 1)
	}

	return summary
}

func findRosterEntry(roster []api.RosterEntry, handle domain.PlayerHandle) *api.RosterEntry {
	for i := range roster {
		if handle.Matches(roster[i].Name, roster[i].Tag) {
			return &roster[i]
		}
	}
	return nil
}

// round rounds half away from zero on the exact binary value of v, so
// 1.075 (stored as 1.07499...) becomes 1.07 at two places.
func round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(places)), nil)

	x := new(big.Float).SetPrec(256).SetFloat64(math.Abs(v))
	x.Mul(x, new(big.Float).SetPrec(256).SetInt(scale))
	x.Add(x, big.NewFloat(0.5))
	n, _ := x.Int(nil)

	whole, _ := new(big.Float).SetInt(n).Float64()
	return math.Copysign(whole/math.Pow10(places), v)
}
