package cv

import (
	"math"
	"sort"

	"cvleak/domain/core"
	"cvleak/domain/dataset"
)

// Classifier is fit on a training matrix and predicts a class per row.
type Classifier interface {
	Name() string
	Fit(m *dataset.Matrix, labels *dataset.Labels) error
	Predict(row []float64) (int, error)
}

// ClassifierFactory builds a fresh classifier per fold so no fitted
// state crosses fold boundaries.
type ClassifierFactory func() Classifier

// NearestCentroid classifies a row by the closest class centroid in
// Euclidean distance. Parameter-free and fully deterministic, which
// keeps the demonstration about the procedure rather than the model.
type NearestCentroid struct {
	centroids [][]float64
	populated []bool
}

// NewNearestCentroid creates a new nearest-centroid classifier
func NewNearestCentroid() *NearestCentroid {
	return &NearestCentroid{}
}

// Name returns the classifier name
func (c *NearestCentroid) Name() string {
	return "nearest_centroid"
}

// Fit computes per-class centroids from the training rows.
func (c *NearestCentroid) Fit(m *dataset.Matrix, labels *dataset.Labels) error {
	if m.Rows() == 0 {
		return core.NewInvalidArgumentError("training set", "must be non-empty")
	}
	if m.Rows() != labels.Len() {
		return core.NewInvalidArgumentError("training set", "row/label count mismatch")
	}

	classCount := labels.ClassCount
	cols := m.Cols()
	sums := make([][]float64, classCount)
	counts := make([]int, classCount)
	for c := range sums {
		sums[c] = make([]float64, cols)
	}

	for i, row := range m.Data {
		label := labels.Values[i]
		counts[label]++
		for j, v := range row {
			sums[label][j] += v
		}
	}

	c.centroids = make([][]float64, classCount)
	c.populated = make([]bool, classCount)
	for cls := 0; cls < classCount; cls++ {
		if counts[cls] == 0 {
			continue
		}
		centroid := make([]float64, cols)
		for j := range centroid {
			centroid[j] = sums[cls][j] / float64(counts[cls])
		}
		c.centroids[cls] = centroid
		c.populated[cls] = true
	}

	return nil
}

// Predict returns the class whose centroid is nearest to the row.
// Distance ties resolve to the lower class index.
func (c *NearestCentroid) Predict(row []float64) (int, error) {
	if c.centroids == nil {
		return 0, core.NewInvalidArgumentError("classifier", "must be fit before predicting")
	}

	best := -1
	bestDist := math.Inf(1)
	for cls, centroid := range c.centroids {
		if !c.populated[cls] {
			continue
		}
		dist := squaredDistance(row, centroid)
		if dist < bestDist {
			bestDist = dist
			best = cls
		}
	}
	if best < 0 {
		return 0, core.NewInvalidArgumentError("classifier", "no populated classes after fit")
	}
	return best, nil
}

// KNN classifies a row by majority vote among its k nearest training
// rows. Neighbor ties resolve by row index, vote ties by class index.
type KNN struct {
	k       int
	rows    [][]float64
	labels  []int
	classes int
}

// NewKNN creates a k-nearest-neighbor classifier
func NewKNN(k int) *KNN {
	return &KNN{k: k}
}

// Name returns the classifier name
func (c *KNN) Name() string {
	return "knn"
}

// Fit stores the training rows.
func (c *KNN) Fit(m *dataset.Matrix, labels *dataset.Labels) error {
	if c.k <= 0 {
		return core.NewInvalidArgumentError("k", "must be positive")
	}
	if m.Rows() == 0 {
		return core.NewInvalidArgumentError("training set", "must be non-empty")
	}
	if m.Rows() != labels.Len() {
		return core.NewInvalidArgumentError("training set", "row/label count mismatch")
	}
	c.rows = m.Data
	c.labels = labels.Values
	c.classes = labels.ClassCount
	return nil
}

// Predict votes among the k nearest training rows.
func (c *KNN) Predict(row []float64) (int, error) {
	if c.rows == nil {
		return 0, core.NewInvalidArgumentError("classifier", "must be fit before predicting")
	}

	type neighbor struct {
		dist  float64
		index int
	}
	neighbors := make([]neighbor, len(c.rows))
	for i, r := range c.rows {
		neighbors[i] = neighbor{dist: squaredDistance(row, r), index: i}
	}
	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].dist != neighbors[j].dist {
			return neighbors[i].dist < neighbors[j].dist
		}
		return neighbors[i].index < neighbors[j].index
	})

	k := c.k
	if k > len(neighbors) {
		k = len(neighbors)
	}

	votes := make([]int, c.classes)
	for _, n := range neighbors[:k] {
		votes[c.labels[n.index]]++
	}

	best := 0
	for cls := 1; cls < len(votes); cls++ {
		if votes[cls] > votes[best] {
			best = cls
		}
	}
	return best, nil
}

// Accuracy scores a fitted classifier on held-out rows: the fraction of
// exact label matches.
func Accuracy(clf Classifier, m *dataset.Matrix, labels *dataset.Labels) (float64, error) {
	if m.Rows() == 0 {
		return 0, core.NewInvalidArgumentError("test set", "must be non-empty")
	}
	correct := 0
	for i, row := range m.Data {
		predicted, err := clf.Predict(row)
		if err != nil {
			return 0, err
		}
		if predicted == labels.Values[i] {
			correct++
		}
	}
	return float64(correct) / float64(m.Rows()), nil
}

func squaredDistance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
