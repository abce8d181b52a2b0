package rules

/*
Next applies Conway's Game of Life rules to a cell given its live neighbour count.

	alive, neighbors < 2  -> dead (underpopulation)
	alive, neighbors 2|3  -> alive
	alive, neighbors > 3  -> dead (overpopulation)
	dead,  neighbors == 3 -> alive (reproduction)
	otherwise             -> unchanged
*/
func Next(alive bool, neighbors uint8) bool {
	switch {
	case alive && neighbors < 2:
		return false
	case alive && (neighbors == 2 || neighbors == 3):
		return true
	case alive && neighbors > 3:
		return false
	case !alive && neighbors == 3:
		return true
	}
	return alive
}
