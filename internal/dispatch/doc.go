// Package dispatch compiles an enum description into generated dispatch
// code: one function per enum containing a single type switch, one case
// per variant in declared order, each case calling the variant's wired
// handler, plus the trampoline methods that make every enum value satisfy
// the matching runtime contract.
//
// Compilation is pure and arm-by-arm stateless: arms depend only on their
// own variant, so declared order is preserved purely for deterministic,
// readable output. All rule violations are collected across variants into
// one diagnostics set instead of aborting on the first.
package dispatch
