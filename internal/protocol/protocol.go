package protocol

import "github.com/pkg/errors"

// Event names carried in the envelope.
const (
	EventScore = "score"
)

// Player slots.
const (
	SlotCount = 2
)

// ScoreUpdate announces the current score of one player slot. Receivers
// overwrite their copy of the slot with Score, so duplicates are harmless.
type ScoreUpdate struct {
	Player int `json:"plr" msgpack:"plr"`
	Score  int `json:"score" msgpack:"score"`
}

// Validate checks the slot and score ranges.
func (u ScoreUpdate) Validate() error {
	if u.Player < 0 || u.Player >= SlotCount {
		return errors.Errorf("player slot %d out of range", u.Player)
	}
	if u.Score < 0 {
		return errors.Errorf("negative score %d", u.Score)
	}
	return nil
}

// Envelope frames every message as a named event with a payload.
type Envelope struct {
	Event string      `json:"event" msgpack:"event"`
	Data  ScoreUpdate `json:"data" msgpack:"data"`
}

// header is the part of an envelope the relay needs to route a frame.
type header struct {
	Event string `json:"event" msgpack:"event"`
}

// EncodeScore builds a score event frame.
func EncodeScore(c Codec, u ScoreUpdate) ([]byte, error) {
	data, err := c.Marshal(Envelope{Event: EventScore, Data: u})
	if err != nil {
		return nil, errors.Wrap(err, "encoding score event")
	}
	return data, nil
}

// DecodeEvent returns the event name of a frame without decoding its payload.
func DecodeEvent(c Codec, data []byte) (string, error) {
	var h header
	if err := c.Unmarshal(data, &h); err != nil {
		return "", errors.Wrap(err, "decoding envelope")
	}
	if h.Event == "" {
		return "", errors.New("envelope has no event name")
	}
	return h.Event, nil
}

// DecodeScore decodes and validates a score event frame.
func DecodeScore(c Codec, data []byte) (ScoreUpdate, error) {
	var env Envelope
	if err := c.Unmarshal(data, &env); err != nil {
		return ScoreUpdate{}, errors.Wrap(err, "decoding score event")
	}
	if env.Event != EventScore {
		return ScoreUpdate{}, errors.Errorf("unexpected event %q", env.Event)
	}
	if err := env.Data.Validate(); err != nil {
		return ScoreUpdate{}, err
	}
	return env.Data, nil
}
