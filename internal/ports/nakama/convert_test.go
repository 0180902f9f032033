package nakama

import (
	"encoding/json"
	"testing"

	"telefunken/internal/app"
	"telefunken/internal/domain"

	jwt "github.com/form3tech-oss/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePlay(t *testing.T) {
	data := []byte(`{
		"melds": [[0, 13, 26]],
		"modifications": [
			{"kind": "extend", "owner": "p2", "meld": 1, "from_hand": [5]},
			{"kind": "replace", "owner": "p1", "meld": 0, "from_hand": [7], "to_hand": [51]}
		],
		"discard": 40
	}`)

	move, err := decodePlay(data)
	require.NoError(t, err)

	require.Len(t, move.Melds, 1)
	assert.Equal(t, domain.Meld{0, 13, 26}, move.Melds[0])
	require.Len(t, move.Modifications, 2)
	assert.Equal(t, domain.ModificationExtension, move.Modifications[0].Kind)
	assert.Equal(t, "p2", move.Modifications[0].Owner)
	assert.Equal(t, 1, move.Modifications[0].MeldIndex)
	assert.Equal(t, domain.ModificationReplacement, move.Modifications[1].Kind)
	assert.Equal(t, []domain.Card{51}, move.Modifications[1].ToHand)
	require.NotNil(t, move.Discard)
	assert.Equal(t, domain.Card(40), *move.Discard)
}

func TestDecodePlay_Errors(t *testing.T) {
	for name, data := range map[string]string{
		"BadJSON":     `{"melds":`,
		"UnknownKind": `{"modifications":[{"kind":"swap"}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := decodePlay([]byte(data))
			assert.ErrorIs(t, err, domain.ErrMalformedMove)
		})
	}

	move, err := decodePlay(nil)
	require.NoError(t, err)
	assert.Nil(t, move.Discard)
}

func TestEncodeEvent_PlayerJoined(t *testing.T) {
	op, data, err := encodeEvent(app.Event{
		Kind:    app.EventPlayerJoined,
		Payload: app.PlayerJoinedPayload{UserID: "p2", PlayerOrder: []string{"p1", "p2"}},
	})
	require.NoError(t, err)
	assert.Equal(t, OpPlayerJoined, op)

	var msg map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "p2", msg["user_id"])
	assert.Equal(t, []interface{}{"p1", "p2"}, msg["player_order"])
}

func TestEncodeEvent_Snapshot(t *testing.T) {
	sess := domain.NewSession("p1", domain.Options{}, nil)
	require.NoError(t, sess.AddPlayer("p2"))
	require.NoError(t, sess.StartGame())
	view, err := sess.View("p1")
	require.NoError(t, err)

	op, data, err := encodeEvent(app.Event{Kind: app.EventGameStarted, Payload: app.SnapshotPayload{View: view}})
	require.NoError(t, err)
	assert.Equal(t, OpGameStarted, op)

	var msg struct {
		View struct {
			PlayerID       string            `json:"player_id"`
			Phase          string            `json:"phase"`
			Hand           []int             `json:"hand"`
			HandCounts     map[string]int    `json:"hand_counts"`
			DrawPileCount  int               `json:"draw_pile_count"`
			Compliance     []bool            `json:"compliance"`
			SeatCompliance map[string][]bool `json:"seat_compliance"`
		} `json:"view"`
	}
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "p1", msg.View.PlayerID)
	assert.Equal(t, string(domain.PhaseInProgress), msg.View.Phase)
	assert.Len(t, msg.View.Hand, len(view.Hand))
	assert.Equal(t, view.HandCounts["p2"], msg.View.HandCounts["p2"])
	assert.Equal(t, view.DrawPileCount, msg.View.DrawPileCount)
	assert.Len(t, msg.View.Compliance, len(view.DealConstraints))
	require.Len(t, msg.View.SeatCompliance, 2)
	assert.Equal(t, view.SeatCompliance["p2"], msg.View.SeatCompliance["p2"])
}

func TestEncodeEvent_UnknownKind(t *testing.T) {
	_, _, err := encodeEvent(app.Event{Kind: "mystery"})
	assert.Error(t, err)
}

func TestMatchLabel_RoundTrip(t *testing.T) {
	label := matchLabel{Open: true, Phase: "waiting", Players: 3, Mode: "quick"}
	encoded, err := encodeLabel(label)
	require.NoError(t, err)

	decoded, err := decodeLabel(encoded)
	require.NoError(t, err)
	assert.Equal(t, label, decoded)

	_, err = decodeLabel("not json")
	assert.Error(t, err)
}

func TestUserIDFromToken(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"uid": "user-42"}).SignedString([]byte("server-key"))
	require.NoError(t, err)

	uid, err := userIDFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", uid)

	noUID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"usn": "x"}).SignedString([]byte("server-key"))
	require.NoError(t, err)
	_, err = userIDFromToken(noUID)
	assert.Error(t, err)

	_, err = userIDFromToken("garbage")
	assert.Error(t, err)
}
