// Package dice parses, renders, transforms, and rolls tabletop dice notation.
//
// # Notation
//
// A notation string describes a number of dice with a number of faces, an
// optional bonus, an optional reroll, and an optional set multiplier:
//
//	[(][count]d<faces>[bonus][^reroll][)][x<sets>]
//
// Examples: "1d6", "3d4+2", "2d6^+1", "(3d4+2^+1)x3".
//
//   - The bonus is a signed integer. A doubled sign ("++2", "--1") applies the
//     bonus to every die instead of once per set.
//   - The reroll draws |reroll| extra dice. A positive reroll keeps the
//     highest count dice, a negative one keeps the lowest.
//   - The set multiplier rolls the whole expression that many times and
//     reports one total per set.
//
// # Randomness
//
// Rolls draw every die from a Source supplied by the caller. RollDefault uses
// the process-wide source installed with RegisterSource, which returns 1 for
// every die until replaced.
//
// # Operators
//
// Spec values are not mutated by the arithmetic helpers. AddBonus, SubBonus
// and RerollBy always build a new Spec; ScaleCount, ScaleFaces and ScaleSets
// return a Scaled result that reports whether a new Spec was produced or the
// original was returned unchanged.
package dice
