package ring

// Vector is a module element: k ring elements sharing one domain.
type Vector []Ring

// NewVector returns the zero vector of length k in the given domain.
func NewVector(k int, d Domain) Vector {
	v := make(Vector, k)
	for i := range v {
		v[i].Domain = d
	}
	return v
}

func (v Vector) mustMatchLen(w Vector, op string) {
	if len(v) != len(w) {
		invalidShape("%s: vector length %d, want %d", op, len(w), len(v))
	}
}

// Add sets v = v + w element-wise.
func (v Vector) Add(w Vector) {
	v.mustMatchLen(w, "add")
	for i := range v {
		v[i].Add(&w[i])
	}
}

// NTT transforms every element of v in place.
func (v Vector) NTT() {
	for i := range v {
		v[i].NTT()
	}
}

// InverseNTT transforms every element of v back to the coefficient domain.
func (v Vector) InverseNTT() {
	for i := range v {
		v[i].InverseNTT()
	}
}

// Dot returns the inner product sum(v[i] * w[i]). Both vectors must be in
// the NTT domain; so is the result.
func (v Vector) Dot(w Vector) Ring {
	v.mustMatchLen(w, "dot")
	acc := NewRing(NTT)
	for i := range v {
		p := Product(&v[i], &w[i])
		acc.Add(&p)
	}
	return acc
}

// Clone returns a deep copy of v.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// Equal reports whether v and w are element-wise equal.
func (v Vector) Equal(w Vector) bool {
	if len(v) != len(w) {
		return false
	}
	for i := range v {
		if !v[i].Equal(&w[i]) {
			return false
		}
	}
	return true
}

// Zeroize clears every element of v.
func (v Vector) Zeroize() {
	for i := range v {
		v[i].Zeroize()
	}
}
