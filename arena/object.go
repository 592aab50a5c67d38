package arena

import "strings"

// Kind tags an Object as either a player or a snowball. The source this
// server is modeled on used a GameObject base class with a Snowball
// override for position projection; since a Player's projection is just
// the zero-velocity case of a Snowball's, one tagged struct with a single
// projection formula covers both and needs no dispatch.
type Kind uint8

const (
	KindPlayer Kind = iota
	KindSnowball
)

func (k Kind) String() string {
	if k == KindSnowball {
		return "snowball"
	}
	return "player"
}

// notSnowballOwner is the sentinel OwnerID returns for ids that are not
// shaped like a snowball id.
const notSnowballOwner = "not_snowball"

// Object is the server's authoritative record for a live game entity.
// Fields are mutated in place by the owning worker and read under the
// Grid's per-cell locks by every worker's view tick.
type Object struct {
	ID       string
	Kind     Kind
	Username string

	X, Y   float64
	VX, VY float64
	Size   float64

	Row, Col int

	Health int
	Damage int

	TimeUpdate int64 // ms, wall-clock anchor for projection
	LifeLength int64 // ms, remaining TTL from TimeUpdate

	IsDead       bool
	IsPenetrable bool
	Charging     bool
}

// NewPlayer builds a fresh Player entity, as allocated on socket open.
func NewPlayer(id string) *Object {
	return &Object{
		ID:           id,
		Kind:         KindPlayer,
		Username:     "unknown",
		Health:       DefaultHealth,
		Size:         DefaultSize,
		IsPenetrable: false,
		LifeLength:   1<<62 - 1, // effectively infinite
	}
}

// NewSnowball builds a fresh Snowball entity, as allocated on the first
// movement frame bearing an unseen snowball id.
func NewSnowball(id string) *Object {
	return &Object{
		ID:           id,
		Kind:         KindSnowball,
		IsPenetrable: true,
	}
}

// OwnerID extracts the throwing player's id from a snowball id of the
// canonical shape "snowball_<playerId>_<seq>". Ids of any other shape
// yield the sentinel, which never equals a real player id, so ownership
// checks against it always fail safe (no self-damage suppression, no
// collision match against the sentinel).
func OwnerID(id string) string {
	if !strings.HasPrefix(id, "snowball_") {
		return notSnowballOwner
	}
	first := strings.IndexByte(id, '_')
	if first < 0 {
		return notSnowballOwner
	}
	rest := id[first+1:]
	second := strings.IndexByte(rest, '_')
	if second < 0 {
		return notSnowballOwner
	}
	return rest[:second]
}

// SetVelocityFromDirection derives vx,vy from a boolean intent vector
// scaled by PlayerSpeed, dividing each axis by sqrt(2) when both a
// horizontal and a vertical direction are in effect (diagonal movement),
// so diagonal speed equals PlayerSpeed.
func (o *Object) SetVelocityFromDirection(left, right, up, down bool) {
	var dx, dy float64
	if left {
		dx -= 1
	}
	if right {
		dx += 1
	}
	if up {
		dy -= 1
	}
	if down {
		dy += 1
	}
	if dx != 0 && dy != 0 {
		dx /= sqrt2
		dy /= sqrt2
	}
	o.VX = dx * PlayerSpeed
	o.VY = dy * PlayerSpeed
}

// CurX projects the object's x coordinate at wall-clock time now.
func (o *Object) CurX(now int64) float64 {
	return o.X + o.VX*float64(now-o.TimeUpdate)/1000.0
}

// CurY projects the object's y coordinate at wall-clock time now.
func (o *Object) CurY(now int64) float64 {
	return o.Y + o.VY*float64(now-o.TimeUpdate)/1000.0
}

// Expired reports whether the object has outlived its TTL.
func (o *Object) Expired(now int64) bool {
	return now-o.TimeUpdate > o.LifeLength
}

// Touch is a static overlap test against other's stored position, used
// for impenetrable barriers: it never projects either object, and marks
// self dead on contact.
func (o *Object) Touch(other *Object) bool {
	dx := other.X - o.X
	dy := other.Y - o.Y
	sizeSum := o.Size + other.Size
	if dx*dx+dy*dy <= sizeSum*sizeSum {
		o.IsDead = true
		return true
	}
	return false
}

// Collide tests self's projected position at now against other's stored
// position. A hit marks self dead and re-anchors self into the death
// grace window so it survives one more view tick before eviction.
func (o *Object) Collide(other *Object, now int64) bool {
	if o.IsDead {
		return false
	}
	dx := other.X - o.CurX(now)
	dy := other.Y - o.CurY(now)
	sizeSum := o.Size + other.Size
	if dx*dx+dy*dy <= sizeSum*sizeSum {
		o.IsDead = true
		o.TimeUpdate = now
		o.LifeLength = DeathGraceMS
		return true
	}
	return false
}

// Hurt applies damage, marking the object dead and re-anchoring into the
// death grace window if health reaches zero, and always emits a "hit"
// frame through send so the client observes the new health.
func (o *Object) Hurt(now int64, damage int, send func([]byte)) {
	o.Health -= damage
	if o.Health < 0 {
		o.Health = 0
	}
	if o.Health == 0 {
		o.IsDead = true
		o.TimeUpdate = now
		o.LifeLength = DeathGraceMS
	}
	if send != nil {
		send(encodeHitJSON(o, now))
	}
}
