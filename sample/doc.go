// Package sample provides the one-column numeric sample that feeds a power
// transform fit.
//
// # Creating a Sample
//
//	s := sample.New([]float64{0.5, 1.2, 2.3, math.NaN(), 4.8})
//	clean := s.DropNaN()
//
// # Loading from CSV
//
// Load one column of a CSV file. Empty cells and NA/NaN/null markers become
// NaN:
//
//	s, err := sample.LoadCSVColumn("blood.csv", "Monetary")
//
//	opts := sample.DefaultCSVOptions()
//	opts.Delimiter = ';'
//	opts.Column = "3" // by position
//	s, err := sample.LoadCSV("data.csv", opts)
//
// # Basic Statistics
//
// Statistics skip missing values:
//
//	mean := s.Mean()
//	std := s.Std()
//	median := s.Median()
//	summary := s.Describe()
//
// # Transforming
//
// Apply a fitted exponent and write the result:
//
//	out := s.Transform(power.YeoJohnson, res.Lambda)
//	err := sample.SaveCSV(out, "transformed.csv")
package sample
