// Package renderer runs the external POML rendering engine as a subprocess.
//
// The engine is treated as a black box with a fixed I/O contract: it accepts
// a markup file, optional context and stylesheet files, writes its result to
// an output path, and signals failure through a non-zero exit status. Args
// captures that contract; CLI executes it. Output is read from the output
// file by the caller, never from stdout — stdout and stderr are captured
// solely for diagnosis.
package renderer
