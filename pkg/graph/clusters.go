package graph

import (
	"errors"
	"math"

	"github.com/dd0wney/cluso-antcluster/pkg/vector"
)

// AssignClusters partitions vertices by the nearest center in feature space.
//
// Every vertex is compared against every center with Euclidean distance and
// assigned to the closest one; on ties the lowest center index wins. The
// result always has len(centers) lists, some possibly empty, and every
// vertex appears in exactly one of them, in input order.
func AssignClusters(vertices []*Node, centers [][]float64) ([][]*Node, error) {
	if len(centers) == 0 {
		return nil, NewError("assign clusters").Cause(ErrNoCenters).Err()
	}

	dim := len(centers[0])
	for i, c := range centers {
		if len(c) != dim {
			return nil, NewError("assign clusters").Center(i).Cause(ErrDimensionMismatch).Err()
		}
	}

	clusters := make([][]*Node, len(centers))
	for i := range clusters {
		clusters[i] = make([]*Node, 0)
	}

	for _, node := range vertices {
		if node == nil {
			return nil, NewError("assign clusters").Cause(ErrNilNode).Err()
		}

		idx, _, err := nearestCenter(node.Features(), centers)
		if err != nil {
			return nil, NewError("assign clusters").Node(node.ID()).Cause(err).Err()
		}
		clusters[idx] = append(clusters[idx], node)
	}

	return clusters, nil
}

// NearestCenter returns the index of the center closest to features and the
// distance to it.
func NearestCenter(features []float64, centers [][]float64) (int, float64, error) {
	if len(centers) == 0 {
		return -1, 0, ErrNoCenters
	}
	return nearestCenter(features, centers)
}

func nearestCenter(features []float64, centers [][]float64) (int, float64, error) {
	minIndex := 0
	minDistance := math.MaxFloat64

	for i, center := range centers {
		d, err := vector.EuclideanDistance(center, features)
		if err != nil {
			if errors.Is(err, vector.ErrDimensionMismatch) {
				return -1, 0, ErrDimensionMismatch
			}
			return -1, 0, err
		}
		if d < minDistance {
			minDistance = d
			minIndex = i
		}
	}

	return minIndex, minDistance, nil
}

// Centroids returns the mean feature vector of each cluster. Empty clusters
// yield a nil entry.
func Centroids(clusters [][]*Node) ([][]float64, error) {
	out := make([][]float64, len(clusters))

	for i, cluster := range clusters {
		if len(cluster) == 0 {
			continue
		}

		features := make([][]float64, len(cluster))
		for j, n := range cluster {
			features[j] = n.Features()
		}

		mean, err := vector.Mean(features)
		if err != nil {
			return nil, NewError("centroids").Center(i).Cause(ErrDimensionMismatch).Err()
		}
		out[i] = mean
	}

	return out, nil
}

// SumSquaredError returns the within-cluster sum of squared feature
// distances of every node to its cluster's center.
func SumSquaredError(clusters [][]*Node, centers [][]float64) (float64, error) {
	if len(clusters) != len(centers) {
		return 0, NewError("sse").Context("cluster/center count differs").Cause(ErrDimensionMismatch).Err()
	}

	total := 0.0
	for i, cluster := range clusters {
		for _, n := range cluster {
			d, err := vector.SquaredEuclidean(n.Features(), centers[i])
			if err != nil {
				return 0, NewError("sse").Node(n.ID()).Cause(ErrDimensionMismatch).Err()
			}
			total += d
		}
	}

	return total, nil
}
