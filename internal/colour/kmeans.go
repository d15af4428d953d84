package colour

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// partition is the outcome of one k-means run in whitened space.
type partition struct {
	centroids   [][]float64
	assignments []int
	counts      []int
	iterations  int
}

// kmeans clusters points into k groups using k-means++ seeding followed by
// Lloyd iterations. It stops once an assignment pass changes nothing or after
// maxIterations passes. Callers guarantee len(points) >= k > 0.
func kmeans(points [][]float64, k, maxIterations int, rng *rand.Rand) *partition {
	centroids := initializeCentroidsKMeansPlusPlus(points, k, rng)

	assignments := make([]int, len(points))
	for i := range assignments {
		assignments[i] = -1
	}

	iterations := 0
	for iterations < maxIterations {
		iterations++

		changed := false
		for i, point := range points {
			nearest := findNearestCentroid(point, centroids)
			if assignments[i] != nearest {
				assignments[i] = nearest
				changed = true
			}
		}
		if !changed {
			break
		}

		centroids = recalculateCentroids(points, assignments, centroids)
	}

	counts := make([]int, k)
	for _, a := range assignments {
		counts[a]++
	}

	return &partition{
		centroids:   centroids,
		assignments: assignments,
		counts:      counts,
		iterations:  iterations,
	}
}

// initializeCentroidsKMeansPlusPlus picks the first centroid uniformly and
// each later one with probability proportional to its squared distance from
// the nearest centroid already chosen.
func initializeCentroidsKMeansPlusPlus(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	chosen := make([]bool, len(points))

	first := rng.Intn(len(points))
	centroids = append(centroids, clonePoint(points[first]))
	chosen[first] = true

	weights := make([]float64, len(points))
	for len(centroids) < k {
		total := 0.0
		for i, point := range points {
			minDist := math.MaxFloat64
			for _, c := range centroids {
				minDist = min(minDist, floats.Distance(point, c, 2))
			}
			weights[i] = minDist * minDist
			total += weights[i]
		}

		next := -1
		if total > 0 {
			target := rng.Float64() * total
			cumulative := 0.0
			for i, w := range weights {
				if w == 0 {
					continue
				}
				cumulative += w
				next = i
				if cumulative > target {
					break
				}
			}
		} else {
			// Fewer distinct points than clusters; take the next unused sample.
			for i := range points {
				if !chosen[i] {
					next = i
					break
				}
			}
		}

		centroids = append(centroids, clonePoint(points[next]))
		chosen[next] = true
	}

	return centroids
}

// findNearestCentroid returns the index of the nearest centroid. Ties go to
// the lowest index.
func findNearestCentroid(point []float64, centroids [][]float64) int {
	minDist := math.MaxFloat64
	nearest := 0

	for i, c := range centroids {
		dist := floats.Distance(point, c, 2)
		if dist < minDist {
			minDist = dist
			nearest = i
		}
	}

	return nearest
}

// recalculateCentroids moves each centroid to the mean of its members. A
// centroid with no members stays where it was.
func recalculateCentroids(points [][]float64, assignments []int, previous [][]float64) [][]float64 {
	k := len(previous)
	sums := make([][]float64, k)
	for i := range sums {
		sums[i] = make([]float64, len(previous[i]))
	}
	counts := make([]int, k)

	for i, point := range points {
		cluster := assignments[i]
		floats.Add(sums[cluster], point)
		counts[cluster]++
	}

	centroids := make([][]float64, k)
	for i := 0; i < k; i++ {
		if counts[i] == 0 {
			centroids[i] = previous[i]
			continue
		}
		floats.Scale(1/float64(counts[i]), sums[i])
		centroids[i] = sums[i]
	}

	return centroids
}

func clonePoint(p []float64) []float64 {
	return append([]float64(nil), p...)
}
