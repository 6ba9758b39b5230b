package detection

import (
	"math"
	"sort"
)

const (
	houghAngles = 180

	// Peaks closer than this to an accepted line are treated as the same line.
	duplicateRho   = 5
	duplicateTheta = 5
)

// Line is a straight segment found in an EdgeMap.
type Line struct {
	Start Point `json:"start"`
	End   Point `json:"end"`

	Length float64 `json:"length"`

	// AngleDegrees is the direction from Start to End, in (-180, 180].
	AngleDegrees float64 `json:"angle_degrees"`

	// Votes is the accumulator count of the Hough peak.
	Votes int `json:"votes"`
}

// LinesResult lists segments strongest first.
type LinesResult struct {
	Lines []Line `json:"lines"`
	Count int    `json:"count"`
}

type houghPeak struct {
	rho   int // signed distance from the origin
	theta int
	votes int
}

// DetectLines finds up to maxLines straight segments at least minLength
// pixels long using a Hough transform at 1° and 1 px resolution.
func DetectLines(m *EdgeMap, minLength, maxLines int) *LinesResult {
	if minLength < 2 {
		minLength = 2
	}
	if maxLines <= 0 {
		maxLines = 50
	}

	cos, sin := houghTables()
	maxDist := int(math.Ceil(math.Hypot(float64(m.Width), float64(m.Height))))
	rhos := 2*maxDist + 1
	acc := make([]int, rhos*houghAngles)

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if !m.On[y*m.Width+x] {
				continue
			}
			for t := 0; t < houghAngles; t++ {
				r := int(math.Round(float64(x)*cos[t]+float64(y)*sin[t])) + maxDist
				acc[r*houghAngles+t]++
			}
		}
	}

	peaks := findPeaks(acc, maxDist, minLength/2)
	lines := make([]Line, 0)
	accepted := make([]houghPeak, 0)
	for _, pk := range peaks {
		if len(lines) >= maxLines {
			break
		}
		if nearAccepted(accepted, pk) {
			continue
		}
		l, ok := segment(m, pk, cos[pk.theta], sin[pk.theta])
		if !ok || l.Length < float64(minLength-1) {
			continue
		}
		accepted = append(accepted, pk)
		lines = append(lines, l)
	}

	return &LinesResult{Lines: lines, Count: len(lines)}
}

func houghTables() (cos, sin []float64) {
	cos = make([]float64, houghAngles)
	sin = make([]float64, houghAngles)
	for t := range cos {
		a := float64(t) * math.Pi / 180
		cos[t], sin[t] = math.Cos(a), math.Sin(a)
	}
	return cos, sin
}

// findPeaks returns accumulator cells with at least minVotes that no cell in
// their 5x5 neighbourhood beats, strongest first. Theta wraps around.
func findPeaks(acc []int, maxDist, minVotes int) []houghPeak {
	rhos := 2*maxDist + 1
	minVotes = max(minVotes, 1)
	peaks := make([]houghPeak, 0)
	for r := 0; r < rhos; r++ {
		for t := 0; t < houghAngles; t++ {
			v := acc[r*houghAngles+t]
			if v < minVotes || !localMax(acc, rhos, r, t, v) {
				continue
			}
			peaks = append(peaks, houghPeak{rho: r - maxDist, theta: t, votes: v})
		}
	}
	sort.SliceStable(peaks, func(i, j int) bool {
		return peaks[i].votes > peaks[j].votes
	})
	return peaks
}

func localMax(acc []int, rhos, r, t, v int) bool {
	for dr := -2; dr <= 2; dr++ {
		nr := r + dr
		if nr < 0 || nr >= rhos {
			continue
		}
		for dt := -2; dt <= 2; dt++ {
			nt := (t + dt + houghAngles) % houghAngles
			if acc[nr*houghAngles+nt] > v {
				return false
			}
		}
	}
	return true
}

// nearAccepted reports whether pk duplicates an accepted peak. A line near
// theta 0 also appears near theta 180 with its rho negated.
func nearAccepted(accepted []houghPeak, pk houghPeak) bool {
	for _, a := range accepted {
		dt, rho := abs(a.theta-pk.theta), pk.rho
		if dt > houghAngles/2 {
			dt, rho = houghAngles-dt, -rho
		}
		if dt <= duplicateTheta && abs(a.rho-rho) <= duplicateRho {
			return true
		}
	}
	return false
}

// segment collects edge pixels within 1.5 px of the line and takes the two
// extremes along its direction as endpoints, ordered left to right (top to
// bottom for vertical lines).
func segment(m *EdgeMap, pk houghPeak, cosT, sinT float64) (Line, bool) {
	rho := float64(pk.rho)
	var start, end Point
	lo, hi := math.Inf(1), math.Inf(-1)
	n := 0
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if !m.On[y*m.Width+x] {
				continue
			}
			if math.Abs(float64(x)*cosT+float64(y)*sinT-rho) > 1.5 {
				continue
			}
			n++
			// Position along the line direction (-sin, cos).
			d := -float64(x)*sinT + float64(y)*cosT
			if d < lo {
				lo, start = d, Point{X: x, Y: y}
			}
			if d > hi {
				hi, end = d, Point{X: x, Y: y}
			}
		}
	}
	if n < 2 {
		return Line{}, false
	}
	if start.X > end.X || (start.X == end.X && start.Y > end.Y) {
		start, end = end, start
	}

	dx, dy := float64(end.X-start.X), float64(end.Y-start.Y)
	return Line{
		Start:        start,
		End:          end,
		Length:       math.Round(math.Hypot(dx, dy)*10) / 10,
		AngleDegrees: math.Round(math.Atan2(dy, dx)*180/math.Pi*10) / 10,
		Votes:        pk.votes,
	}, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
