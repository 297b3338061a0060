package utils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Vector is a field sequence indexed along the grid. Chainable methods change
// the receiver's data in place and return it; use Copy() first to keep the
// original.
type Vector struct {
	V *mat.VecDense
}

func NewVector(N int, dataO ...[]float64) (R Vector) {
	var (
		data []float64
	)
	if len(dataO) != 0 {
		if len(dataO[0]) != N {
			err := fmt.Errorf("mismatch in allocation: NewVector N = %v, len(data[0]) = %v", N, len(dataO[0]))
			panic(err)
		}
		data = dataO[0]
	} else {
		data = make([]float64, N)
	}
	if N == 0 {
		// gonum does not allow zero length vectors
		return
	}
	R = Vector{mat.NewVecDense(N, data)}
	return
}

func NewVectorConstant(N int, val float64) Vector {
	return NewVector(N, ConstArray(N, val))
}

func (v Vector) AtVec(i int) float64 { return v.V.AtVec(i) }

func (v Vector) Len() int {
	if v.V == nil {
		return 0
	}
	return v.V.Len()
}

func (v Vector) IsEmpty() bool { return v.V == nil }

// DataP exposes the backing slice, no copy
func (v Vector) DataP() []float64 {
	if v.V == nil {
		return nil
	}
	return v.V.RawVector().Data
}

// Data returns a copy of the values
func (v Vector) Data() (r []float64) {
	r = make([]float64, v.Len())
	copy(r, v.DataP())
	return
}

func (v Vector) Copy() (R Vector) { // Does not change receiver
	return NewVector(v.Len(), v.Data())
}

// Chainable methods (extended), all change the receiver
func (v Vector) Set(val float64) Vector {
	var (
		data = v.DataP()
	)
	for i := range data {
		data[i] = val
	}
	return v
}

func (v Vector) Add(a Vector) Vector {
	floats.Add(v.DataP(), a.DataP())
	return v
}

func (v Vector) Subtract(a Vector) Vector {
	floats.Sub(v.DataP(), a.DataP())
	return v
}

func (v Vector) ElMul(a Vector) Vector {
	floats.Mul(v.DataP(), a.DataP())
	return v
}

func (v Vector) Scale(a float64) Vector {
	floats.Scale(a, v.DataP())
	return v
}

func (v Vector) AddScalar(a float64) Vector {
	floats.AddConst(a, v.DataP())
	return v
}

func (v Vector) Apply(f func(float64) float64) Vector {
	var (
		data = v.DataP()
	)
	for i, val := range data {
		data[i] = f(val)
	}
	return v
}

func (v Vector) Apply2(a Vector, f func(val, aval float64) float64) Vector {
	var (
		data  = v.DataP()
		aData = a.DataP()
	)
	if len(aData) != len(data) {
		panic(&ShapeError{Op: "Apply2", Want: len(data), Got: len(aData)})
	}
	for i, val := range data {
		data[i] = f(val, aData[i])
	}
	return v
}

func (v Vector) Apply3(a, b Vector, f func(val, aval, bval float64) float64) Vector {
	var (
		data  = v.DataP()
		aData = a.DataP()
		bData = b.DataP()
	)
	if err := CheckLen("Apply3", len(data), len(aData), len(bData)); err != nil {
		panic(err)
	}
	for i, val := range data {
		data[i] = f(val, aData[i], bData[i])
	}
	return v
}

func (v Vector) Min() float64 { return floats.Min(v.DataP()) }
func (v Vector) Max() float64 { return floats.Max(v.DataP()) }

// AbsMax is the infinity norm
func (v Vector) AbsMax() float64 { return floats.Norm(v.DataP(), math.Inf(1)) }

// Find returns the positions where (value op target) holds, abs compares |value|.
// NaN values never satisfy any op.
func (v Vector) Find(op EvalOp, target float64, abs bool) (I Index) {
	var (
		data = v.DataP()
	)
	I = NewIndex(0)
	for i, val := range data {
		if abs {
			val = math.Abs(val)
		}
		if op.Eval(val, target) {
			I = append(I, i)
		}
	}
	return
}

func (v Vector) SubsetVector(I Index) (R Vector) { // Does not change receiver
	var (
		data  = v.DataP()
		dataR = make([]float64, len(I))
	)
	for i, ind := range I {
		dataR[i] = data[ind]
	}
	return NewVector(len(I), dataR)
}

func (v Vector) AssignVector(I Index, A Vector) Vector { // Changes receiver
	var (
		data  = v.DataP()
		aData = A.DataP()
	)
	if len(I) != len(aData) {
		panic(&ShapeError{Op: "AssignVector", Want: len(I), Got: len(aData)})
	}
	for i, ind := range I {
		data[ind] = aData[i]
	}
	return v
}

func (v Vector) AssignScalar(I Index, val float64) Vector { // Changes receiver
	var (
		data = v.DataP()
	)
	for _, ind := range I {
		data[ind] = val
	}
	return v
}

// Equal is exact, bitwise on the values (NaN != NaN)
func (v Vector) Equal(a Vector) bool {
	return floats.Equal(v.DataP(), a.DataP())
}

// Merge returns a new vector equal to b, with the positions listed in I taken
// from a. Both a and b must be fully computed by the caller.
func Merge(a, b Vector, I Index) (R Vector, err error) {
	if err = CheckLen("Merge", a.Len(), b.Len()); err != nil {
		return
	}
	for _, ind := range I {
		if ind < 0 || ind >= a.Len() {
			err = fmt.Errorf("merge index out of bounds: index = %d, max_bounds = %d", ind, a.Len()-1)
			return
		}
	}
	R = b.Copy().AssignVector(I, a.SubsetVector(I))
	return
}
