package service_test

import (
	"context"
	"sync"

	"stack-scheduler/internal/api"
)

// fakeUpstream answers from in-memory tables and records every call.
// A missing entry means "no data".
type fakeUpstream struct {
	mu            sync.Mutex
	accounts      map[string]*api.AccountResponse
	mmr           map[string]*api.MMRResponse // keyed by region
	matchesByName map[string]*api.MatchesResponse
	matchesByID   map[string]*api.MatchesResponse
	calls         []string
}

func newFakeUpstream() *fakeUpstream {
	return &fakeUpstream{
		accounts:      map[string]*api.AccountResponse{},
		mmr:           map[string]*api.MMRResponse{},
		matchesByName: map[string]*api.MatchesResponse{},
		matchesByID:   map[string]*api.MatchesResponse{},
	}
}

func (f *fakeUpstream) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeUpstream) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeUpstream) GetAccount(_ context.Context, name, tag string) (*api.AccountResponse, bool) {
	f.record("account:" + name + "#" + tag)
	resp, ok := f.accounts[name+"#"+tag]
	return resp, ok
}

func (f *fakeUpstream) GetMMR(_ context.Context, region, name, tag string) (*api.MMRResponse, bool) {
	f.record("mmr:" + region)
	resp, ok := f.mmr[region]
	return resp, ok
}

func (f *fakeUpstream) GetMatchesByName(_ context.Context, region, name, tag string) (*api.MatchesResponse, bool) {
	f.record("matches:" + region + ":" + name + "#" + tag)
	resp, ok := f.matchesByName[name+"#"+tag]
	return resp, ok
}

func (f *fakeUpstream) GetMatchesByPuuid(_ context.Context, region, puuid string) (*api.MatchesResponse, bool) {
	f.record("matches_by_puuid:" + region + ":" + puuid)
	resp, ok := f.matchesByID[puuid]
	return resp, ok
}

func rankAt(tier int, name string, rr, elo int, peak string) *api.MMRResponse {
	return &api.MMRResponse{Data: &api.MMRData{
		CurrentData: &api.MMRCurrentData{
			CurrentTier:        tier,
			CurrentTierPatched: name,
			RankingInTier:      rr,
			Elo:                elo,
		},
		HighestRank: &api.MMRHighestRank{PatchedTier: peak},
	}}
}

func entry(name, tag, team, agent string, stats api.RosterStats) api.RosterEntry {
	return api.RosterEntry{Name: name, Tag: tag, Team: team, Character: agent, Stats: stats}
}

func match(redWon bool, roster ...api.RosterEntry) api.MatchRecord {
	return api.MatchRecord{
		Players: api.MatchPlayers{AllPlayers: roster},
		Teams: map[string]api.TeamOutcome{
			"red":  {HasWon: redWon},
			"blue": {HasWon: !redWon},
		},
	}
}
