package classifier

import "math/rand/v2"

// Dataset holds aligned feature rows and labels.
type Dataset struct {
	X [][]float64
	Y []int
}

// Len returns the row count.
func (d Dataset) Len() int { return len(d.X) }

// Split shuffles d deterministically and returns a training set and a
// held-out set containing roughly testFrac of the rows.
func Split(d Dataset, testFrac float64, seed uint64) (train, test Dataset) {
	n := d.Len()
	perm := rand.New(rand.NewPCG(seed, seed)).Perm(n)

	nTest := int(float64(n) * testFrac)
	if testFrac > 0 && nTest == 0 && n > 1 {
		nTest = 1
	}

	for i, p := range perm {
		if i < nTest {
			test.X = append(test.X, d.X[p])
			test.Y = append(test.Y, d.Y[p])
		} else {
			train.X = append(train.X, d.X[p])
			train.Y = append(train.Y, d.Y[p])
		}
	}
	return train, test
}
