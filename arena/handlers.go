package arena

// handlePing responds with a pong carrying the client's own timestamp and
// the server's current wall clock, on the same connection.
func (w *Worker) handlePing(conn *ClientConn, env inEnvelope) {
	conn.Send(encodePongJSON(nowMS(), env.ClientTime))
}

// handleJoin populates the connection's Player from a join frame and
// inserts it into the grid. Out-of-bounds positions are silently dropped
// by Grid.Insert (I3); the connection stays open either way so the
// client may retry.
func (w *Worker) handleJoin(conn *ClientConn, env inEnvelope) {
	p := conn.player
	if env.ID != "" {
		p.ID = env.ID
	}
	if env.Username != "" {
		p.Username = env.Username
	}
	if env.Health != nil {
		p.Health = *env.Health
	}
	if env.Size != nil {
		p.Size = *env.Size
	}
	if env.Position != nil {
		p.X = env.Position.X
		p.Y = env.Position.Y
	}
	p.TimeUpdate = clampTime(nowMS(), env.TimeUpdate)

	w.grid.Insert(p)
}

// handleMovement routes a movement frame by its declared objectType.
func (w *Worker) handleMovement(conn *ClientConn, env inEnvelope) {
	switch env.ObjectType {
	case "player":
		w.handlePlayerMovement(conn, env)
	case "snowball":
		w.handleSnowballMovement(env)
	}
}

// handlePlayerMovement drives velocity from the direction intent vector
// (the common path) or, in the explicit-position variant, overwrites the
// position directly and requests an immediate grid re-index rather than
// waiting for the next tick's implicit cell-boundary check.
func (w *Worker) handlePlayerMovement(conn *ClientConn, env inEnvelope) {
	p := conn.player
	now := nowMS()

	if env.Position != nil {
		p.X = env.Position.X
		p.Y = env.Position.Y
		p.TimeUpdate = clampTime(now, env.TimeUpdate)
		w.grid.Update(p, now)
		return
	}

	if env.Direction != nil {
		p.SetVelocityFromDirection(env.Direction.Left, env.Direction.Right, env.Direction.Up, env.Direction.Down)
	}
	p.TimeUpdate = clampTime(now, env.TimeUpdate)
}

// handleSnowballMovement looks up the snowball by id in this worker's
// thread-local object map; an unseen id is a creation, not an error. In
// both the create and update case every positional/damage field is
// overwritten from the payload.
func (w *Worker) handleSnowballMovement(env inEnvelope) {
	if env.ID == "" {
		return
	}
	now := nowMS()

	obj, existing := w.objects[env.ID]
	isNew := !existing
	if isNew {
		obj = NewSnowball(env.ID)
	}

	if env.Position != nil {
		obj.X = env.Position.X
		obj.Y = env.Position.Y
	}
	if env.Velocity != nil {
		obj.VX = env.Velocity.X
		obj.VY = env.Velocity.Y
	}
	if env.Size != nil {
		obj.Size = *env.Size
	}
	if env.Damage != nil {
		obj.Damage = *env.Damage
	}
	if env.LifeLength != nil {
		obj.LifeLength = *env.LifeLength
	}
	obj.Charging = env.Charging
	obj.TimeUpdate = clampTime(now, env.TimeUpdate)

	if isNew {
		w.objects[env.ID] = obj
		w.grid.Insert(obj)
	}
}
