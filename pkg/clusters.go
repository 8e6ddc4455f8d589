package gainmap

type ClusterKind uint8

const (
	ClusterNoHit ClusterKind = iota
	ClusterAmbiguous
	ClusterFound
)

// ClusterResult is the outcome of one (axis, side) channel list. Centroid is
// only meaningful for ClusterFound.
type ClusterResult struct {
	Kind     ClusterKind
	Centroid float64
}

func NoHit() ClusterResult {
	return ClusterResult{Kind: ClusterNoHit}
}

func Ambiguous() ClusterResult {
	return ClusterResult{Kind: ClusterAmbiguous}
}

func Centroid(value float64) ClusterResult {
	return ClusterResult{Kind: ClusterFound, Centroid: value}
}

func (c ClusterResult) Found() bool {
	return c.Kind == ClusterFound
}

// FindCluster accepts a channel list only if it is a run of consecutive
// channels in the given order, and returns its centroid.
func FindCluster(channels ChannelList) ClusterResult {
	if len(channels) == 0 {
		return NoHit()
	}
	sum := channels[0]
	for i := 1; i < len(channels); i++ {
		if channels[i-1]+1 != channels[i] {
			return Ambiguous()
		}
		sum += channels[i]
	}
	return Centroid(float64(sum) / float64(len(channels)))
}

type CoordinateKind uint8

const (
	CoordAbsent CoordinateKind = iota
	CoordDoubleHit
	CoordValid
)

type Coordinate struct {
	Kind  CoordinateKind
	Value int
}

func (c Coordinate) Valid() bool {
	return c.Kind == CoordValid
}

type ResolvedHit struct {
	X Coordinate
	Y Coordinate
}

// Usable reports whether the event can contribute a charge sample.
func (h ResolvedHit) Usable() bool {
	return h.X.Valid() && h.Y.Valid()
}

type Side uint8

const (
	SideNone Side = iota
	SideLeft
	SideRight
)

type EventClusters struct {
	XLeft  ClusterResult
	XRight ClusterResult
	YLeft  ClusterResult
	YRight ClusterResult
}

func FindClusters(record EventRecord) EventClusters {
	return EventClusters{
		XLeft:  FindCluster(record.XLeft),
		XRight: FindCluster(record.XRight),
		YLeft:  FindCluster(record.YLeft),
		YRight: FindCluster(record.YRight),
	}
}

// ResolveHit decides the pixel of the event with the default right segment
// offset.
func ResolveHit(c EventClusters) ResolvedHit {
	return ResolveHitWithOffset(c, RIGHT_OFFSET)
}

func ResolveHitWithOffset(c EventClusters, rightOffset int) ResolvedHit {
	return ResolvedHit{
		X: resolveAxis(c.XLeft, c.XRight, float64(rightOffset), NX),
		Y: resolveAxis(c.YLeft, c.YRight, 0, NY),
	}
}

// resolveAxis keeps the axis only when exactly one side saw a clean cluster.
func resolveAxis(left, right ClusterResult, rightOffset float64, size int) Coordinate {
	var value float64
	switch {
	case left.Found() && right.Found():
		return Coordinate{Kind: CoordDoubleHit}
	case left.Found() && right.Kind == ClusterNoHit:
		value = left.Centroid
	case right.Found() && left.Kind == ClusterNoHit:
		value = right.Centroid + rightOffset
	default:
		return Coordinate{Kind: CoordAbsent}
	}
	if value < 0 || value >= float64(size) {
		return Coordinate{Kind: CoordAbsent}
	}
	return Coordinate{Kind: CoordValid, Value: int(value)}
}

// axisSide tells which side provided the coordinate of an axis.
func axisSide(left, right ClusterResult) Side {
	switch {
	case left.Found() && !right.Found():
		return SideLeft
	case right.Found() && !left.Found():
		return SideRight
	default:
		return SideNone
	}
}

// SameSide reports whether x and y were measured by the same readout segment.
func (c EventClusters) SameSide() bool {
	xSide := axisSide(c.XLeft, c.XRight)
	return xSide != SideNone && xSide == axisSide(c.YLeft, c.YRight)
}

// Status classifies an event that was not accepted. A double hit on any
// axis wins over an ambiguous cluster, which wins over a missing one.
func (c EventClusters) Status(hit ResolvedHit) EventStatus {
	if hit.Usable() {
		return EventAccepted
	}
	if hit.X.Kind == CoordDoubleHit || hit.Y.Kind == CoordDoubleHit {
		return EventDoubleHit
	}
	for _, cluster := range []ClusterResult{c.XLeft, c.XRight, c.YLeft, c.YRight} {
		if cluster.Kind == ClusterAmbiguous {
			return EventAmbiguous
		}
	}
	if !c.XLeft.Found() && !c.XRight.Found() || !c.YLeft.Found() && !c.YRight.Found() {
		return EventNoHit
	}
	return EventOutOfRange
}
