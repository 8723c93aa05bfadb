package integrators

import (
	"context"
	"testing"

	"github.com/san-kum/solitons/internal/dynamo"
)

func benchmarkSolve(b *testing.B, mk func() Stepper, sys dynamo.System, y0 dynamo.State) {
	times := linspace(0, 2, 11)
	opts := DefaultOptions()
	opts.FirstStep = 0.001
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := Solve(context.Background(), mk(), sys, y0, times, opts); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkBDF_Oscillator(b *testing.B) {
	benchmarkSolve(b, func() Stepper { return NewBDF() }, &harmonicOscillator{}, dynamo.State{1, 0})
}

func BenchmarkRK45_Oscillator(b *testing.B) {
	benchmarkSolve(b, func() Stepper { return NewRK45() }, &harmonicOscillator{}, dynamo.State{1, 0})
}

func BenchmarkRK4_Oscillator(b *testing.B) {
	benchmarkSolve(b, func() Stepper { return NewRK4() }, &harmonicOscillator{}, dynamo.State{1, 0})
}

func BenchmarkBDF_Stiff(b *testing.B) {
	benchmarkSolve(b, func() Stepper { return NewBDF() }, &stiffDecay{lambda: 1000}, dynamo.State{1})
}
