package model

const defaultHistorySize = 5

// Detector spots universes that stopped changing or settled into a short
// cycle. It only keeps hashes of recently observed generations.
type Detector struct {
	size    int
	history []string
}

func NewDetector(size int) *Detector {
	if size < 3 {
		size = defaultHistorySize
	}
	return &Detector{size: size}
}

// Observe checks u against recent generations and then records it.
// It returns true when u matches one of the last three observed states.
func (d *Detector) Observe(u *Universe) bool {
	hash := u.Hash()

	stagnant := false
	for i := len(d.history) - 1; i >= 0 && i >= len(d.history)-3; i-- {
		if d.history[i] == hash {
			stagnant = true
			break
		}
	}

	d.history = append(d.history, hash)
	if len(d.history) > d.size {
		d.history = d.history[1:]
	}
	return stagnant
}

// Reset forgets all observed generations
func (d *Detector) Reset() {
	d.history = nil
}
