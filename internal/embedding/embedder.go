package embedding

import "yase/internal/domain"

// Vocabulary maps normalized tokens to their vectors.
// Implementations are read-only once built.
type Vocabulary interface {
	Vector(token string) (domain.Vector, bool)
	Len() int
}
