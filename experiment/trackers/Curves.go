// Package trackers saves experiment results to disk and loads them back
package trackers

import (
	"encoding/gob"
	"fmt"
	"os"

	"sfneuman.com/rldemos/experiment"
)

// SaveCurves gob-encodes the aggregated curves of a bandit experiment
// to the file at filename, creating or truncating it
func SaveCurves(filename string, curves *experiment.Curves) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("saveCurves: could not create file: %v", err)
	}
	defer file.Close()

	en := gob.NewEncoder(file)
	if err := en.Encode(curves); err != nil {
		return fmt.Errorf("saveCurves: could not encode curves: %v", err)
	}
	return nil
}

// LoadCurves loads curves previously written by SaveCurves
func LoadCurves(filename string) (*experiment.Curves, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loadCurves: could not open file: %v", err)
	}
	defer file.Close()

	var curves experiment.Curves
	de := gob.NewDecoder(file)
	if err := de.Decode(&curves); err != nil {
		return nil, fmt.Errorf("loadCurves: could not decode curves: %v", err)
	}
	return &curves, nil
}
