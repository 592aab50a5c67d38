package arena

import "testing"

func TestProjectionIdentityAtAnchor(t *testing.T) {
	o := NewSnowball("snowball_A_1")
	o.X, o.Y = 10, 20
	o.VX, o.VY = 5, -5
	o.TimeUpdate = 1000

	if got := o.CurX(1000); got != 10 {
		t.Fatalf("CurX at anchor = %v, want 10", got)
	}
	if got := o.CurY(1000); got != 20 {
		t.Fatalf("CurY at anchor = %v, want 20", got)
	}
}

func TestProjectionLinearInTime(t *testing.T) {
	o := NewSnowball("snowball_A_1")
	o.X = 0
	o.VX = 300 // units/sec
	o.TimeUpdate = 0

	x1 := o.CurX(1000)
	x2 := o.CurX(2000)
	if diff := x2 - x1; diff != 300 {
		t.Fatalf("CurX(2000)-CurX(1000) = %v, want 300", diff)
	}
}

func TestPlayerZeroVelocityProjectsToStored(t *testing.T) {
	p := NewPlayer("A")
	p.X, p.Y = 42, 7
	p.TimeUpdate = 500
	if got := p.CurX(10_000); got != 42 {
		t.Fatalf("player CurX = %v, want 42", got)
	}
	if got := p.CurY(10_000); got != 7 {
		t.Fatalf("player CurY = %v, want 7", got)
	}
}

func TestExpired(t *testing.T) {
	o := NewSnowball("snowball_A_1")
	o.TimeUpdate = 0
	o.LifeLength = 100
	if o.Expired(100) {
		t.Fatalf("exactly at TTL boundary should not be expired")
	}
	if !o.Expired(101) {
		t.Fatalf("past TTL boundary should be expired")
	}
}

func TestHurtToZeroMarksDeadWithGraceWindow(t *testing.T) {
	p := NewPlayer("A")
	p.Health = 10
	var sent [][]byte
	p.Hurt(5000, 10, func(b []byte) { sent = append(sent, b) })

	if p.Health != 0 {
		t.Fatalf("health = %d, want 0", p.Health)
	}
	if !p.IsDead {
		t.Fatalf("expected IsDead after lethal hurt")
	}
	if p.TimeUpdate != 5000 {
		t.Fatalf("TimeUpdate = %d, want 5000", p.TimeUpdate)
	}
	if p.LifeLength != DeathGraceMS {
		t.Fatalf("LifeLength = %d, want %d", p.LifeLength, DeathGraceMS)
	}
	if len(sent) != 1 {
		t.Fatalf("expected exactly one hit frame, got %d", len(sent))
	}
}

func TestHurtNonLethalStillEmitsHit(t *testing.T) {
	p := NewPlayer("A")
	p.Health = 100
	var sent int
	p.Hurt(1000, 10, func(b []byte) { sent++ })
	if p.Health != 90 {
		t.Fatalf("health = %d, want 90", p.Health)
	}
	if p.IsDead {
		t.Fatalf("non-lethal hurt should not mark dead")
	}
	if sent != 1 {
		t.Fatalf("expected one hit frame, got %d", sent)
	}
}

func TestHurtNeverGoesNegative(t *testing.T) {
	p := NewPlayer("A")
	p.Health = 5
	p.Hurt(0, 999, func([]byte) {})
	if p.Health != 0 {
		t.Fatalf("health = %d, want clamped to 0", p.Health)
	}
}

func TestCollideMarksSelfDeadWithGraceWindow(t *testing.T) {
	snowball := NewSnowball("snowball_B_1")
	snowball.X, snowball.Y = 100, 100
	snowball.Size = 5
	snowball.TimeUpdate = 0

	player := NewPlayer("A")
	player.X, player.Y = 100, 100
	player.Size = 10

	if !snowball.Collide(player, 0) {
		t.Fatalf("expected overlapping objects to collide")
	}
	if !snowball.IsDead {
		t.Fatalf("expected snowball marked dead on collision")
	}
	if snowball.LifeLength != DeathGraceMS {
		t.Fatalf("LifeLength = %d, want %d", snowball.LifeLength, DeathGraceMS)
	}
}

func TestCollideMiss(t *testing.T) {
	snowball := NewSnowball("snowball_B_1")
	snowball.X, snowball.Y = 0, 0
	snowball.Size = 1
	player := NewPlayer("A")
	player.X, player.Y = 1000, 1000
	player.Size = 1

	if snowball.Collide(player, 0) {
		t.Fatalf("expected far-apart objects not to collide")
	}
	if snowball.IsDead {
		t.Fatalf("missed collision should not mark dead")
	}
}

func TestOwnerIDCanonicalShape(t *testing.T) {
	cases := map[string]string{
		"snowball_alice_1":  "alice",
		"snowball_bob_42":   "bob",
		"snowball_a_b_c":    "a",
		"not-shaped-at-all": notSnowballOwner,
		"":                  notSnowballOwner,
		"noUnderscore":      notSnowballOwner,
		"only_one":          notSnowballOwner,
	}
	for id, want := range cases {
		if got := OwnerID(id); got != want {
			t.Errorf("OwnerID(%q) = %q, want %q", id, got, want)
		}
	}
}

func TestVelocityFromDirectionDiagonalNormalized(t *testing.T) {
	p := NewPlayer("A")
	p.SetVelocityFromDirection(false, true, true, false) // right+up
	speedSq := p.VX*p.VX + p.VY*p.VY
	want := PlayerSpeed * PlayerSpeed
	if diff := speedSq - want; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("diagonal speed^2 = %v, want %v", speedSq, want)
	}
}

func TestVelocityFromDirectionOpposingCancel(t *testing.T) {
	p := NewPlayer("A")
	p.SetVelocityFromDirection(true, true, false, false)
	if p.VX != 0 || p.VY != 0 {
		t.Fatalf("opposing directions should cancel, got vx=%v vy=%v", p.VX, p.VY)
	}
}
