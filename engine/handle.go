package engine

// Handle is a stable index into one of the world's arenas or slot pools
type Handle int

// NoHandle marks an empty reference
const NoHandle Handle = -1

// Valid reports whether h refers to something
func (h Handle) Valid() bool {
	return h >= 0
}
