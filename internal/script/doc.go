// Package script runs Lua scripts that build and roll dice.
//
// Scripts see a global Dice table:
//
//	local attack = Dice.new("1d20+5")
//	local damage = Dice.new("2d6") + 3
//	return attack:roll(), damage:scale_sets(1):notation()
//
// Dice.new(notation [, minimum]) and Dice.faces(faces [, minimum]) build
// specs; Dice.roll(notation [, minimum]) parses and rolls in one call.
// Spec methods mirror the Go API: roll, total, notation, count, faces,
// sets, bonus, reroll, minimum, add, sub, reroll_by, scale_count,
// scale_faces and scale_sets. The scale methods return the resulting spec
// and a boolean reporting whether it changed. The + and - operators adjust
// the bonus.
//
// Invalid notation raises a Lua error, which surfaces as the Go error
// returned by RunString or RunFile.
package script
