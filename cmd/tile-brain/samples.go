package main

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	tilemath "github.com/drakos74/tile-brain/internal/math"
)

// readSamples reads the column names from the header line and one sample from every following line.
func readSamples(in io.Reader) ([]string, []tilemath.Sample, error) {
	r := csv.NewReader(bufio.NewReader(in))
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("no header found")
	} else if err != nil {
		return nil, nil, fmt.Errorf("could not read header: %w", err)
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	samples := make([]tilemath.Sample, 0)
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, nil, fmt.Errorf("could not read sample %d: %w", len(samples)+1, err)
		}
		s := tilemath.NewZeroSample(len(record))
		for i, v := range record {
			w, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("could not parse weight '%s' of sample %d: %w", v, len(samples)+1, err)
			}
			s[i] = w
		}
		samples = append(samples, s)
	}
	return columns, samples, nil
}
