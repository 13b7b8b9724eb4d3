// Package testutil provides shared test helpers: fake renderer scripts that
// honor the real CLI contract (-f/-o flags, exit codes, trace files) and
// message fixtures. Tests build controlled renderer behavior from these
// instead of shelling out to the real engine.
package testutil
