package main

import "math"

var functions = map[string]func(float64) float64{
	"sin":    math.Sin,
	"cos":    math.Cos,
	"tan":    math.Tan,
	"exp":    math.Exp,
	"log":    math.Log,
	"sqrt":   math.Sqrt,
	"abs":    math.Abs,
	"id":     func(x float64) float64 { return x },
	"square": func(x float64) float64 { return x * x },
	"cube":   func(x float64) float64 { return x * x * x },
	"gauss":  func(x float64) float64 { return math.Exp(-x * x / 2) },
	"sinc": func(x float64) float64 {
		if x == 0 {
			return 1
		}
		return math.Sin(x) / x
	},
}

func to32(fn func(float64) float64) func(float32) float32 {
	return func(x float32) float32 { return float32(fn(float64(x))) }
}
