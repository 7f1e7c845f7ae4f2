package entity

// CheckProximity returns true if the bounding capsules of p and other overlap. The vertical gap between
// the centers is reduced by the sum of both half-heights when it exceeds that sum, otherwise the centers
// are treated as level; the remaining squared distance is compared to the squared sum of radii. This is
// an approximation and is symmetric in p and other.
func (p *Profile) CheckProximity(other *Profile) bool {
	if other == nil || !p.Alive() || !other.Alive() {
		return false
	}
	p1, p2 := p.Center(), other.Center()
	rSum := p.radius + other.radius
	hhSum := p.height + other.height

	if p1.Y()-p2.Y() > hhSum {
		p1[1] -= hhSum
	} else if p2.Y()-p1.Y() > hhSum {
		p2[1] -= hhSum
	} else {
		p2[1] = p1[1]
	}
	return p2.Sub(p1).LenSqr() <= rSum*rSum
}
