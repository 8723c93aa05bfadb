// Package viz renders result matrices in the terminal.
//
//   - [Heatmap]: space-time shade plot, time running upwards
//   - [Profile] and [Profiles]: line charts of single rows
//   - [Waterfall]: projected 3-D stack of profiles on a Braille [Canvas],
//     nearer curves hiding the ones behind
//
// Output is plain text unless a [Theme] is supplied.
package viz
