package dice

// minimumSource always rolls the lower bound.
func minimumSource(min, _ int) int {
	return min
}

// sequenceSource returns values in order, repeating the last one.
func sequenceSource(values ...int) Source {
	next := 0
	return func(int, int) int {
		value := values[min(next, len(values)-1)]
		next++
		return value
	}
}

type draw struct {
	min int
	max int
}

// recordingSource records the bounds of every draw and rolls the minimum.
func recordingSource(draws *[]draw) Source {
	return func(min, max int) int {
		*draws = append(*draws, draw{min: min, max: max})
		return min
	}
}

func mustParse(notation string) *Spec {
	spec, err := Parse(notation)
	if err != nil {
		panic(err)
	}
	return spec
}
