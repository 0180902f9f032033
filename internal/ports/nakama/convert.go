package nakama

import (
	"encoding/json"
	"fmt"

	"telefunken/internal/app"
	"telefunken/internal/domain"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

var wireJSON = protojson.MarshalOptions{EmitUnpopulated: true}

// encodeMessage marshals a JSON-shaped map through structpb so every
// outbound message shares one wire encoding.
func encodeMessage(fields map[string]interface{}) ([]byte, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to build message: %w", err)
	}
	return wireJSON.Marshal(s)
}

// encodeEvent maps an app event to its op code and wire payload.
func encodeEvent(ev app.Event) (int64, []byte, error) {
	var (
		op     int64
		fields map[string]interface{}
	)
	switch ev.Kind {
	case app.EventGameCreated, app.EventGameJoined, app.EventGameStarted, app.EventTurnChanged, app.EventDealChanged:
		p := ev.Payload.(app.SnapshotPayload)
		op = snapshotOpCodes[ev.Kind]
		fields = map[string]interface{}{"view": viewToWire(p.View)}
	case app.EventPlayerJoined:
		p := ev.Payload.(app.PlayerJoinedPayload)
		op = OpPlayerJoined
		fields = map[string]interface{}{
			"user_id":      p.UserID,
			"player_order": stringsToWire(p.PlayerOrder),
		}
	case app.EventCardBought:
		p := ev.Payload.(app.CardBoughtPayload)
		op = OpCardBought
		fields = map[string]interface{}{
			"user_id": p.UserID,
			"card":    int(p.Card),
			"view":    viewToWire(p.View),
		}
		if p.Drawn != nil {
			fields["drawn"] = int(*p.Drawn)
		}
	case app.EventGameEnded:
		p := ev.Payload.(app.GameEndedPayload)
		op = OpGameEnded
		history := make([]interface{}, 0, len(p.History))
		for _, d := range p.History {
			history = append(history, dealSummaryToWire(d))
		}
		fields = map[string]interface{}{
			"view":    viewToWire(p.View),
			"history": history,
			"totals":  intsToWire(p.Totals),
		}
	default:
		return 0, nil, fmt.Errorf("unknown event kind %q", ev.Kind)
	}
	data, err := encodeMessage(fields)
	return op, data, err
}

var snapshotOpCodes = map[app.EventKind]int64{
	app.EventGameCreated: OpGameCreated,
	app.EventGameJoined:  OpGameJoined,
	app.EventGameStarted: OpGameStarted,
	app.EventTurnChanged: OpTurnChanged,
	app.EventDealChanged: OpDealChanged,
}

func viewToWire(v domain.ClientView) map[string]interface{} {
	melds := make(map[string]interface{}, len(v.Melds))
	for id, ms := range v.Melds {
		melds[id] = meldsToWire(ms)
	}
	constraints := make([]interface{}, 0, len(v.DealConstraints))
	for _, c := range v.DealConstraints {
		constraints = append(constraints, constraintToWire(c))
	}
	seats := make(map[string]interface{}, len(v.SeatCompliance))
	for id, flags := range v.SeatCompliance {
		seats[id] = boolsToWire(flags)
	}
	return map[string]interface{}{
		"player_id":         v.PlayerID,
		"phase":             string(v.Phase),
		"owner":             v.Owner,
		"player_order":      stringsToWire(v.PlayerOrder),
		"dealer":            v.Dealer,
		"turn_player":       v.TurnPlayer,
		"deal":              v.Deal,
		"deal_constraints":  constraints,
		"hand":              cardsToWire(v.Hand),
		"hand_counts":       intsToWire(v.HandCounts),
		"melds":             melds,
		"discard_pile":      cardsToWire(v.DiscardPile),
		"draw_pile_count":   v.DrawPileCount,
		"chips":             intsToWire(v.Chips),
		"compliance":        boolsToWire(v.Compliance),
		"seat_compliance":   seats,
		"bought_this_round": v.BoughtThisRound,
		"first_turn":        v.FirstTurn,
		"extra_round":       v.ExtraRound,
	}
}

func boolsToWire(flags []bool) []interface{} {
	out := make([]interface{}, 0, len(flags))
	for _, ok := range flags {
		out = append(out, ok)
	}
	return out
}

func constraintToWire(c domain.DealConstraint) map[string]interface{} {
	return map[string]interface{}{
		"required_melds": c.RequiredMelds,
		"exact_size":     c.Shape.ExactSize,
		"pure_only":      c.Shape.PureOnly,
	}
}

func dealSummaryToWire(d domain.DealSummary) map[string]interface{} {
	players := make([]interface{}, 0, len(d.Players))
	for _, p := range d.Players {
		bought := make([]interface{}, 0, len(p.Bought))
		for _, b := range p.Bought {
			bought = append(bought, map[string]interface{}{"card": int(b.Card), "drawn": int(b.Drawn)})
		}
		players = append(players, map[string]interface{}{
			"player_id":       p.PlayerID,
			"remaining":       cardsToWire(p.Remaining),
			"melds":           meldsToWire(p.Melds),
			"bought":          bought,
			"remaining_value": p.RemainingValue,
		})
	}
	return map[string]interface{}{
		"deal":       d.Deal,
		"constraint": constraintToWire(d.Constraint),
		"players":    players,
	}
}

func cardsToWire(cards []domain.Card) []interface{} {
	out := make([]interface{}, 0, len(cards))
	for _, c := range cards {
		out = append(out, int(c))
	}
	return out
}

func meldsToWire(melds []domain.Meld) []interface{} {
	out := make([]interface{}, 0, len(melds))
	for _, m := range melds {
		out = append(out, cardsToWire(m))
	}
	return out
}

func stringsToWire(ss []string) []interface{} {
	out := make([]interface{}, 0, len(ss))
	for _, s := range ss {
		out = append(out, s)
	}
	return out
}

func intsToWire(m map[string]int) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Inbound requests.

type playRequest struct {
	Melds         [][]int               `json:"melds"`
	Modifications []modificationRequest `json:"modifications"`
	Discard       *int                  `json:"discard"`
}

type modificationRequest struct {
	Kind     string `json:"kind"` // "extend" or "replace"
	Owner    string `json:"owner"`
	Meld     int    `json:"meld"`
	FromHand []int  `json:"from_hand"`
	ToHand   []int  `json:"to_hand"`
}

type buyRequest struct {
	Card int `json:"card"`
}

type startRequest struct {
	FillBots *bool `json:"fill_bots"`
}

func decodeRequest(data []byte, v interface{}) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedMove, err)
	}
	return nil
}

// decodePlay turns a play request into a domain move. Card ranges are
// checked by the domain.
func decodePlay(data []byte) (domain.PlayerMove, error) {
	var req playRequest
	if err := decodeRequest(data, &req); err != nil {
		return domain.PlayerMove{}, err
	}
	move := domain.PlayerMove{}
	for _, m := range req.Melds {
		move.Melds = append(move.Melds, domain.Meld(cardsFromWire(m)))
	}
	for _, r := range req.Modifications {
		mod := domain.MeldModification{
			Owner:     r.Owner,
			MeldIndex: r.Meld,
			FromHand:  cardsFromWire(r.FromHand),
			ToHand:    cardsFromWire(r.ToHand),
		}
		switch r.Kind {
		case "extend", "":
			mod.Kind = domain.ModificationExtension
		case "replace":
			mod.Kind = domain.ModificationReplacement
		default:
			return domain.PlayerMove{}, fmt.Errorf("%w: modification kind %q", domain.ErrMalformedMove, r.Kind)
		}
		move.Modifications = append(move.Modifications, mod)
	}
	if req.Discard != nil {
		d := domain.Card(*req.Discard)
		move.Discard = &d
	}
	return move, nil
}

func cardsFromWire(ids []int) []domain.Card {
	out := make([]domain.Card, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.Card(id))
	}
	return out
}

// matchLabel is the JSON label other RPCs filter on.
type matchLabel struct {
	Open    bool   `json:"open"`
	Phase   string `json:"phase"`
	Players int    `json:"players"`
	Mode    string `json:"mode"`
}

func encodeLabel(l matchLabel) (string, error) {
	data, err := encodeMessage(map[string]interface{}{
		MatchLabelKeyOpen:  l.Open,
		MatchLabelKeyPhase: l.Phase,
		"players":          l.Players,
		"mode":             l.Mode,
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeLabel(label string) (matchLabel, error) {
	var l matchLabel
	if err := json.Unmarshal([]byte(label), &l); err != nil {
		return matchLabel{}, fmt.Errorf("failed to parse match label: %w", err)
	}
	return l, nil
}
