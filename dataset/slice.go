package dataset

import (
	"gonum.org/v1/gonum/mat"
)

// SliceMatrix returns the rows of X selected by indices, in indices order.
func SliceMatrix(X mat.Matrix, indices []int) *mat.Dense {
	_, cols := X.Dims()
	out := mat.NewDense(len(indices), cols, nil)
	for i, idx := range indices {
		for j := 0; j < cols; j++ {
			out.Set(i, j, X.At(idx, j))
		}
	}
	return out
}

// SliceVector returns the entries of the column vector y selected by indices,
// in indices order. y must be n×1.
func SliceVector(y mat.Matrix, indices []int) *mat.VecDense {
	out := mat.NewVecDense(len(indices), nil)
	for i, idx := range indices {
		out.SetVec(i, y.At(idx, 0))
	}
	return out
}

// SliceFloats returns the elements of data selected by indices, in indices
// order.
func SliceFloats(data []float64, indices []int) []float64 {
	out := make([]float64, len(indices))
	for i, idx := range indices {
		out[i] = data[idx]
	}
	return out
}

// SliceStrings returns the elements of data selected by indices, in indices
// order.
func SliceStrings(data []string, indices []int) []string {
	out := make([]string, len(indices))
	for i, idx := range indices {
		out[i] = data[idx]
	}
	return out
}
