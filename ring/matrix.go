package ring

// Matrix is a k x k matrix of NTT-domain ring elements stored row-major.
type Matrix struct {
	k       int
	entries []Ring
}

// NewMatrix returns the zero k x k matrix.
func NewMatrix(k int) *Matrix {
	m := &Matrix{k: k, entries: make([]Ring, k*k)}
	for i := range m.entries {
		m.entries[i].Domain = NTT
	}
	return m
}

// K returns the matrix dimension.
func (m *Matrix) K() int {
	return m.k
}

// At returns the entry in row i, column j.
func (m *Matrix) At(i, j int) *Ring {
	return &m.entries[i*m.k+j]
}

// Set stores r in row i, column j. r must be in the NTT domain.
func (m *Matrix) Set(i, j int, r Ring) {
	r.mustBe(NTT, "matrix set")
	m.entries[i*m.k+j] = r
}

// MulVector computes A * v: result[i] = sum_j A[i][j] * v[j].
func (m *Matrix) MulVector(v Vector) Vector {
	return m.mul(v, false)
}

// MulVectorTransposed computes A^T * v: result[i] = sum_j A[j][i] * v[j].
func (m *Matrix) MulVectorTransposed(v Vector) Vector {
	return m.mul(v, true)
}

func (m *Matrix) mul(v Vector, transpose bool) Vector {
	if len(v) != m.k {
		invalidShape("matrix multiply: vector length %d, want %d", len(v), m.k)
	}
	result := NewVector(m.k, NTT)
	for i := 0; i < m.k; i++ {
		for j := 0; j < m.k; j++ {
			a := m.At(i, j)
			if transpose {
				a = m.At(j, i)
			}
			p := Product(a, &v[j])
			result[i].Add(&p)
		}
	}
	return result
}
