// Package sim wires a Config into a full run: grid, initial profile,
// right-hand side, stepper and output-time driver. A run owns all of its
// buffers, so independent runs may execute concurrently.
package sim
