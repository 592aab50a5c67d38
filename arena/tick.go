package arena

// viewTick runs once per PlayerTickInterval: for every owned connection
// it evicts dead or expired players, re-indexes the player when its
// projected position has crossed into another cell, queries the grid for
// the view window around the player, resolves collisions against damaging
// neighbors, and sends one batch_update frame with everything else.
func (w *Worker) viewTick(now int64) {
	for conn := range w.clients {
		p := conn.player

		if p.IsDead {
			w.grid.Remove(p)
			delete(w.clients, conn)
			continue
		}
		if p.Expired(now) {
			w.grid.Remove(p)
			delete(w.clients, conn)
			continue
		}

		w.grid.Update(p, now)

		yLo := p.Y - FixedViewHeight
		yHi := p.Y + FixedViewHeight
		xLo := p.X - FixedViewWidth
		xHi := p.X + FixedViewWidth

		neighbors := w.grid.Search(yLo, yHi, xLo, xHi)
		batch := make([]*Object, 0, len(neighbors))

		for _, obj := range neighbors {
			if obj.ID == p.ID {
				continue
			}
			if obj.IsDead && obj.Expired(now) {
				continue
			}
			if obj.Damage > 0 && OwnerID(obj.ID) != p.ID {
				if obj.Collide(p, now) {
					p.Hurt(now, obj.Damage, conn.Send)
					continue
				}
			}
			batch = append(batch, obj)
		}

		conn.SendBinary(encodeBatchUpdateMsgpack(now, batch))
		w.metrics.AddTick(1)
	}
}

// objectTickOnce runs once per ObjectTickInterval: it advances or culls
// every snowball this worker's clients originated. Dead or expired
// snowballs are dropped from both the thread-local map and the grid;
// everything else is projected forward via Grid.Update.
func (w *Worker) objectTickOnce(now int64) {
	for id, obj := range w.objects {
		if obj == nil || obj.IsDead {
			delete(w.objects, id)
			w.grid.Remove(obj)
			continue
		}
		if obj.Expired(now) {
			delete(w.objects, id)
			w.grid.Remove(obj)
			continue
		}
		w.grid.Update(obj, now)
	}
}
