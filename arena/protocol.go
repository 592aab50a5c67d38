package arena

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

// Inbound frame envelopes. Fields not recognized by a given type are
// ignored; JSON defaults mirror the wire schema pinned in the spec.

type inPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type inVelocity struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type inDirection struct {
	Left  bool `json:"left"`
	Right bool `json:"right"`
	Up    bool `json:"up"`
	Down  bool `json:"down"`
}

// inEnvelope carries every field any inbound message type might use; each
// handler reads only the fields it needs. Decoding a superset envelope
// once per frame is simpler than a two-pass type-then-payload decode and
// costs nothing extra since frames are small and JSON decoding is already
// reflective.
type inEnvelope struct {
	Type       string       `json:"type"`
	ClientTime int64        `json:"clientTime"`
	ID         string       `json:"id"`
	Username   string       `json:"username"`
	ObjectType string       `json:"objectType"`
	Position   *inPosition  `json:"position"`
	Velocity   *inVelocity  `json:"velocity"`
	Direction  *inDirection `json:"direction"`
	Health     *int         `json:"health"`
	Size       *float64     `json:"size"`
	Damage     *int         `json:"damage"`
	Charging   bool         `json:"charging"`
	LifeLength *int64       `json:"lifeLength"`
	TimeUpdate int64        `json:"timeUpdate"`
}

// outPosition/outVelocity mirror inPosition/inVelocity on the outbound
// side; kept distinct so the two directions of the schema can evolve
// independently even though today they're shaped alike.
type outPosition struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

type outVelocity struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

// wireRecord is the per-object record shared by "hit" frames (JSON text)
// and batch_update frames (MessagePack binary) — same schema, different
// encodings, so a single struct with both tag sets covers both paths.
type wireRecord struct {
	ID          string      `json:"id" msgpack:"id"`
	MessageType string      `json:"messageType" msgpack:"messageType"`
	ObjectType  string      `json:"objectType" msgpack:"objectType"`
	Username    string      `json:"username" msgpack:"username"`
	Position    outPosition `json:"position" msgpack:"position"`
	Velocity    outVelocity `json:"velocity" msgpack:"velocity"`
	Size        float64     `json:"size" msgpack:"size"`
	Charging    bool        `json:"charging" msgpack:"charging"`
	ExpireDate  int64       `json:"expireDate" msgpack:"expireDate"`
	IsDead      bool        `json:"isDead" msgpack:"isDead"`
	TimeUpdate  int64       `json:"timeUpdate" msgpack:"timeUpdate"`
	NewHealth   int         `json:"newHealth" msgpack:"newHealth"`
}

func toWireRecord(o *Object, now int64, messageType string) wireRecord {
	return wireRecord{
		ID:          o.ID,
		MessageType: messageType,
		ObjectType:  o.Kind.String(),
		Username:    o.Username,
		Position:    outPosition{X: o.CurX(now), Y: o.CurY(now)},
		Velocity:    outVelocity{X: o.VX, Y: o.VY},
		Size:        o.Size,
		Charging:    o.Charging,
		ExpireDate:  now + o.LifeLength,
		IsDead:      o.IsDead,
		TimeUpdate:  o.TimeUpdate,
		NewHealth:   o.Health,
	}
}

// Encode produces the outbound per-object record for a batch_update
// entry: projected position, not the stored anchor.
func (o *Object) Encode(now int64) wireRecord {
	return toWireRecord(o, now, "movement")
}

func encodeHitJSON(o *Object, now int64) []byte {
	rec := toWireRecord(o, now, "hit")
	b, err := json.Marshal(rec)
	if err != nil {
		return nil
	}
	return b
}

type pongFrame struct {
	MessageType string `json:"messageType"`
	ServerTime  int64  `json:"serverTime"`
	ClientTime  int64  `json:"clientTime"`
}

func encodePongJSON(serverTime, clientTime int64) []byte {
	b, err := json.Marshal(pongFrame{
		MessageType: "pong",
		ServerTime:  serverTime,
		ClientTime:  clientTime,
	})
	if err != nil {
		return nil
	}
	return b
}

type batchUpdateFrame struct {
	MessageType string       `msgpack:"messageType"`
	Timestamp   int64        `msgpack:"timestamp"`
	Updates     []wireRecord `msgpack:"updates"`
}

// encodeBatchUpdateMsgpack builds the single binary frame a view tick
// sends per connection: the projected state of every batch member at now.
func encodeBatchUpdateMsgpack(now int64, members []*Object) []byte {
	updates := make([]wireRecord, 0, len(members))
	for _, m := range members {
		updates = append(updates, m.Encode(now))
	}
	b, err := msgpack.Marshal(batchUpdateFrame{
		MessageType: "batch_update",
		Timestamp:   now,
		Updates:     updates,
	})
	if err != nil {
		return nil
	}
	return b
}
