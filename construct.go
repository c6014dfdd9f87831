package bernoulli

// MakeUnion returns a ∪ b, reduced by x ∪ ∅ = x and x ∪ U = U.
func MakeUnion[T any](a, b Set[T]) Set[T] {
	switch a.(type) {
	case EmptySet[T]:
		return b
	case UniversalSet[T]:
		return a
	}
	switch b.(type) {
	case EmptySet[T]:
		return a
	case UniversalSet[T]:
		return b
	}
	return NewUnion(a, b)
}

// MakeIntersection returns a ∩ b, reduced by x ∩ ∅ = ∅ and x ∩ U = x.
func MakeIntersection[T any](a, b Set[T]) Set[T] {
	switch a.(type) {
	case EmptySet[T]:
		return a
	case UniversalSet[T]:
		return b
	}
	switch b.(type) {
	case EmptySet[T]:
		return b
	case UniversalSet[T]:
		return a
	}
	return NewIntersection(a, b)
}

// MakeDisjointUnion returns a ⊔ b, reduced by ∅ ⊔ ∅ = ∅ and U ⊔ U = U.
//
// Mixed operands always produce a node: the element type of the result is
// Either[A, B], so a single operand cannot stand in for the union.
func MakeDisjointUnion[A, B any](a Set[A], b Set[B]) Set[Either[A, B]] {
	_, emptyA := a.(EmptySet[A])
	_, emptyB := b.(EmptySet[B])
	if emptyA && emptyB {
		return EmptySet[Either[A, B]]{}
	}
	_, univA := a.(UniversalSet[A])
	_, univB := b.(UniversalSet[B])
	if univA && univB {
		return UniversalSet[Either[A, B]]{}
	}
	return NewDisjointUnion(a, b)
}

// MakeCartesianProduct returns a × b, reduced by ∅ × x = x × ∅ = ∅ and
// U × U = U.
func MakeCartesianProduct[A, B any](a Set[A], b Set[B]) Set[Pair[A, B]] {
	_, emptyA := a.(EmptySet[A])
	_, emptyB := b.(EmptySet[B])
	if emptyA || emptyB {
		return EmptySet[Pair[A, B]]{}
	}
	_, univA := a.(UniversalSet[A])
	_, univB := b.(UniversalSet[B])
	if univA && univB {
		return UniversalSet[Pair[A, B]]{}
	}
	return NewCartesianProduct(a, b)
}

// MakePowerSet returns P(a), reduced by P(U) = U. P(∅) = {∅} is not empty and
// yields a node.
func MakePowerSet[T any](a Set[T]) Set[[]T] {
	if _, ok := a.(UniversalSet[T]); ok {
		return UniversalSet[[]T]{}
	}
	return NewPowerSet(a)
}
