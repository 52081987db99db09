package game

import (
	"log"

	"starduel/internal/protocol"
)

// ScoreState holds the score of both player slots.
type ScoreState [PlayerCount]int

// Increment adds one point to slot and returns the new score.
func (s *ScoreState) Increment(slot int) int {
	s[slot]++
	return s[slot]
}

// Set overwrites the score of slot. It reports false for an invalid slot
// or a negative score.
func (s *ScoreState) Set(slot, score int) bool {
	if slot < 0 || slot >= PlayerCount || score < 0 {
		return false
	}
	s[slot] = score
	return true
}

// awardPoint credits the local player for destroying an enemy and
// broadcasts the new total.
func (s *Session) awardPoint() {
	score := s.scores.Increment(s.player)
	s.renderer.SetScore(s.player, score)
	s.sender.Emit(protocol.ScoreUpdate{Player: s.player, Score: score})
}

// ApplyRemoteScore overwrites a slot with a score received from the relay.
// Applying the same update twice leaves the same state.
func (s *Session) ApplyRemoteScore(u protocol.ScoreUpdate) bool {
	if err := u.Validate(); err != nil {
		log.Printf("Ignoring score update: %v", err)
		return false
	}
	s.scores.Set(u.Player, u.Score)
	s.renderer.SetScore(u.Player, u.Score)
	return true
}
