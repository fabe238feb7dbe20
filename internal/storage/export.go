package storage

import (
	"encoding/json"
	"io"
	"math"

	"github.com/san-kum/gondola/internal/sim"
)

type ExportData struct {
	Run     RunMetadata    `json:"run"`
	Samples []ExportSample `json:"samples"`
}

type ExportSample struct {
	Time    float64 `json:"t"`
	Param   float64 `json:"u"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Heading float64 `json:"heading"`
	Speed   float64 `json:"speed"`
	Force   float64 `json:"force"`
	Phase   string  `json:"phase"`
}

// ExportJSON writes a run and its trajectory as one JSON document.
// Samples with non-finite values are left out.
func ExportJSON(w io.Writer, meta *RunMetadata, samples []sim.Sample) error {
	data := ExportData{
		Run:     *meta,
		Samples: make([]ExportSample, 0, len(samples)),
	}
	for _, s := range samples {
		if !finite(s) {
			continue
		}
		data.Samples = append(data.Samples, ExportSample{
			Time:    s.Time,
			Param:   s.Param,
			X:       s.Position.X,
			Y:       s.Position.Y,
			Heading: s.Heading,
			Speed:   s.Speed,
			Force:   s.Force,
			Phase:   s.Phase.String(),
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func finite(s sim.Sample) bool {
	for _, v := range []float64{s.Time, s.Param, s.Heading, s.Speed, s.Force} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return s.Position.IsValid()
}
