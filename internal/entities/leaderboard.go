package entities

import "sort"

// LeaderboardSize is the fixed number of leaderboard slots
const LeaderboardSize = 20

// LeaderboardEntry is one occupied leaderboard slot
type LeaderboardEntry struct {
	Owner string `json:"owner"`
	Score uint64 `json:"score"`
}

// Leaderboard keeps the top players by total points. Slots are kept sorted
// by score, highest first, with empty slots (Owner == "") always last.
type Leaderboard struct {
	TopPlayers  [LeaderboardSize]string `json:"top_players"`
	TopScores   [LeaderboardSize]uint64 `json:"top_scores"`
	LastUpdated int64                   `json:"last_updated"`
}

// UpdateScore records score for owner. An owner already on the board has
// its score overwritten in place. A new owner takes an empty slot, or
// replaces the lowest score only when strictly higher. Returns whether
// owner is on the board afterwards.
func (l *Leaderboard) UpdateScore(owner string, score uint64, now int64) bool {
	if owner == "" {
		return false
	}

	if pos := l.indexOf(owner); pos >= 0 {
		l.TopScores[pos] = score
	} else if !l.insert(owner, score) {
		return false
	}

	l.sort()
	l.LastUpdated = now
	return true
}

func (l *Leaderboard) insert(owner string, score uint64) bool {
	for i := range l.TopPlayers {
		if l.TopPlayers[i] == "" {
			l.TopPlayers[i] = owner
			l.TopScores[i] = score
			return true
		}
	}

	lowest := 0
	for i := 1; i < LeaderboardSize; i++ {
		if l.TopScores[i] < l.TopScores[lowest] {
			lowest = i
		}
	}
	if score <= l.TopScores[lowest] {
		return false
	}
	l.TopPlayers[lowest] = owner
	l.TopScores[lowest] = score
	return true
}

func (l *Leaderboard) sort() {
	entries := make([]LeaderboardEntry, LeaderboardSize)
	for i := range entries {
		entries[i] = LeaderboardEntry{Owner: l.TopPlayers[i], Score: l.TopScores[i]}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if (a.Owner == "") != (b.Owner == "") {
			return b.Owner == ""
		}
		return a.Score > b.Score
	})
	for i, e := range entries {
		l.TopPlayers[i] = e.Owner
		l.TopScores[i] = e.Score
	}
}

func (l *Leaderboard) indexOf(owner string) int {
	if owner == "" {
		return -1
	}
	for i, p := range l.TopPlayers {
		if p == owner {
			return i
		}
	}
	return -1
}

// Rank returns owner's 1-based position
func (l *Leaderboard) Rank(owner string) (int, bool) {
	pos := l.indexOf(owner)
	if pos < 0 {
		return 0, false
	}
	return pos + 1, true
}

// IsTopK reports whether owner is within the first k slots
func (l *Leaderboard) IsTopK(owner string, k int) bool {
	rank, ok := l.Rank(owner)
	return ok && rank <= k
}

// Entries returns the occupied slots in rank order
func (l *Leaderboard) Entries() []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, LeaderboardSize)
	for i, p := range l.TopPlayers {
		if p == "" {
			continue
		}
		entries = append(entries, LeaderboardEntry{Owner: p, Score: l.TopScores[i]})
	}
	return entries
}
