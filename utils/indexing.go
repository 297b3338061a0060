package utils

type Index []int

func NewIndex(N int) (I Index) {
	return make(Index, N)
}

// Complement returns the positions of [0,N) not present in I
func (I Index) Complement(N int) (r Index) {
	var (
		in = make([]bool, N)
	)
	for _, ind := range I {
		if ind >= 0 && ind < N {
			in[ind] = true
		}
	}
	r = NewIndex(0)
	for i, found := range in {
		if !found {
			r = append(r, i)
		}
	}
	return
}
