package vocab

import (
	"sort"

	"gonum.org/v1/gonum/mat"
	"k8s.io/apimachinery/pkg/util/sets"
)

// CSR is a binary matrix in compressed sparse row layout. The set columns of
// row i are indices[indptr[i]:indptr[i+1]], ascending and without repeats.
type CSR struct {
	rows, cols int
	indptr     []int
	indices    []int
}

var _ mat.Matrix = (*CSR)(nil)

func (m *CSR) Dims() (int, int) {
	return m.rows, m.cols
}

func (m *CSR) At(i, j int) float64 {
	if i < 0 || i >= m.rows {
		panic(mat.ErrRowAccess)
	}
	if j < 0 || j >= m.cols {
		panic(mat.ErrColAccess)
	}
	row := m.Row(i)
	k := sort.SearchInts(row, j)
	if k < len(row) && row[k] == j {
		return 1
	}
	return 0
}

func (m *CSR) T() mat.Matrix {
	return mat.Transpose{Matrix: m}
}

// Row returns the set columns of row i. The slice aliases the matrix.
func (m *CSR) Row(i int) []int {
	return m.indices[m.indptr[i]:m.indptr[i+1]]
}

// NNZ returns the number of set cells.
func (m *CSR) NNZ() int {
	return len(m.indices)
}

// Dense copies m into a gonum dense matrix. A matrix with no rows or no
// columns gives an empty mat.Dense.
func (m *CSR) Dense() *mat.Dense {
	if m.rows == 0 || m.cols == 0 {
		return &mat.Dense{}
	}
	d := mat.NewDense(m.rows, m.cols, nil)
	for i := 0; i < m.rows; i++ {
		for _, j := range m.Row(i) {
			d.Set(i, j, 1)
		}
	}
	return d
}

// ProjectMatrix builds a len(rows) x Size() matrix whose cell (i, j) is set
// when token j occurs in rows[i]. Unknown tokens are skipped.
func (v *Vocabulary[T]) ProjectMatrix(rows [][]T) *CSR {
	m := &CSR{
		rows:   len(rows),
		cols:   len(v.tokens),
		indptr: make([]int, 1, len(rows)+1),
	}
	for _, row := range rows {
		cols := sets.New[int]()
		for _, tk := range row {
			if j := v.Lookup(tk); j != Unknown {
				cols.Insert(j)
			}
		}
		m.indices = append(m.indices, sets.List(cols)...)
		m.indptr = append(m.indptr, len(m.indices))
	}
	return m
}

// ProjectVector returns a multi-hot vector of length Size() with a 1 for
// every known token. An empty vocabulary gives an empty mat.VecDense.
func (v *Vocabulary[T]) ProjectVector(tokens []T) *mat.VecDense {
	if len(v.tokens) == 0 {
		return &mat.VecDense{}
	}
	x := mat.NewVecDense(len(v.tokens), nil)
	for _, tk := range tokens {
		if j := v.Lookup(tk); j != Unknown {
			x.SetVec(j, 1)
		}
	}
	return x
}
