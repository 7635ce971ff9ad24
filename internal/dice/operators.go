package dice

// Scaled is the result of a scale operator. It either carries a newly built
// Spec or the original Spec, untouched, when the operation was refused.
type Scaled struct {
	spec    *Spec
	changed bool
}

// Spec returns the resulting spec: the new one when Changed, otherwise the
// original operand.
func (r Scaled) Spec() *Spec {
	return r.spec
}

// Changed reports whether the operator produced a new spec.
func (r Scaled) Changed() bool {
	return r.changed
}

func unchanged(s *Spec) Scaled {
	return Scaled{spec: s}
}

func scaled(s *Spec) Scaled {
	return Scaled{spec: s, changed: true}
}

// derive copies every field except the notation cache into a fresh spec.
func (s *Spec) derive() *Spec {
	d := scaffold(s.minimum)
	d.SetCount(s.count)
	d.SetFaces(s.faces)
	d.SetBonus(s.bonus)
	d.SetReroll(s.reroll)
	d.SetSets(s.sets)
	d.bonusPerDie = s.bonusPerDie
	d.rerollPerDie = s.rerollPerDie
	d.valid = s.valid
	return d
}

// AddBonus returns a new spec with n added to the bonus.
func (s *Spec) AddBonus(n int) *Spec {
	d := s.derive()
	d.SetBonus(s.bonus + n)
	return d
}

// SubBonus returns a new spec with n subtracted from the bonus.
func (s *Spec) SubBonus(n int) *Spec {
	d := s.derive()
	d.SetBonus(s.bonus - n)
	return d
}

// RerollBy returns a new spec with n added to the reroll count.
func (s *Spec) RerollBy(n int) *Spec {
	d := s.derive()
	d.SetReroll(s.reroll + n)
	return d
}

// ScaleCount adds n dice. A result of zero dice or fewer is refused and the
// original spec is returned unchanged.
func (s *Spec) ScaleCount(n int) Scaled {
	count := s.count + n
	if count <= 0 {
		return unchanged(s)
	}
	d := s.derive()
	d.SetCount(count)
	return scaled(d)
}

// ScaleFaces offsets the faces per die by n. It is additive, not a division:
// 1d6 scaled by 2 becomes 1d8. A zero offset returns the original spec.
// An offset that would make faces negative keeps the current faces.
func (s *Spec) ScaleFaces(n int) Scaled {
	if n == 0 {
		return unchanged(s)
	}
	d := s.derive()
	d.SetFaces(s.faces + n)
	return scaled(d)
}

// ScaleSets adds n sets. A result of zero sets or fewer is refused and the
// original spec is returned unchanged.
func (s *Spec) ScaleSets(n int) Scaled {
	sets := s.sets + n
	if sets <= 0 {
		return unchanged(s)
	}
	d := s.derive()
	d.SetSets(sets)
	return scaled(d)
}
