package gondola_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gondola/internal/dynamo"
	"github.com/san-kum/gondola/internal/gondola"
	"github.com/san-kum/gondola/internal/spline"
	"github.com/san-kum/gondola/internal/track"
)

func newTrack(pts ...dynamo.Vec2) *track.Track {
	return track.FromPoints("test", pts)
}

func valley() *track.Track {
	return newTrack(dynamo.V(0, 0), dynamo.V(1, -1), dynamo.V(2, 0))
}

// pinnedTrack stands in for a track whose geometry collapses to a single
// point while pinned, so every finite-difference tangent is zero.
type pinnedTrack struct {
	*track.Track
	pinned bool
	at     dynamo.Vec2
}

func (p *pinnedTrack) Evaluate(t float64) dynamo.Vec2 {
	if p.pinned {
		return p.at
	}
	return p.Track.Evaluate(t)
}

func ride(b *gondola.Body, dt float64, maxSteps int) int {
	for i := 0; i < maxSteps; i++ {
		if b.Phase() != gondola.Running {
			return i
		}
		b.Step(dt)
	}
	return maxSteps
}

var _ = Describe("Body", func() {
	Describe("lifecycle", func() {
		It("starts Idle and ignores steps until started", func() {
			b := gondola.NewBody(valley())
			Expect(b.Phase()).To(Equal(gondola.Idle))

			before := b.Snapshot()
			b.Step(0.01)
			Expect(b.Snapshot()).To(Equal(before))
		})

		It("seeds the ride just past the first knot", func() {
			b := gondola.NewBody(valley())
			Expect(b.Start()).To(BeTrue())

			Expect(b.Phase()).To(Equal(gondola.Running))
			Expect(b.Param()).To(BeNumerically("~", gondola.StartOffset, 1e-12))
			Expect(b.Speed()).To(BeZero())
			Expect(b.Heading()).To(BeZero())
			Expect(b.Cause()).To(Equal(gondola.NotFallen))

			// Curve point (0.000199, -0.000298) offset by the unit normal.
			Expect(b.Position().X).To(BeNumerically("~", 0.8316, 1e-3))
			Expect(b.Position().Y).To(BeNumerically("~", 0.5554, 1e-3))
			Expect(b.Energy()).To(BeNumerically("~", gondola.Gravity*-0.000298+0.5, 1e-4))
		})

		It("treats a second Start as a no-op", func() {
			b := gondola.NewBody(valley())
			Expect(b.Start()).To(BeTrue())
			for i := 0; i < 5; i++ {
				b.Step(0.01)
			}

			before := b.Snapshot()
			Expect(b.Start()).To(BeFalse())
			Expect(b.Snapshot()).To(Equal(before))
		})

		DescribeTable("refuses to start without a tangent",
			func(pts []dynamo.Vec2) {
				b := gondola.NewBody(newTrack(pts...))
				Expect(b.Start()).To(BeFalse())
				Expect(b.Phase()).To(Equal(gondola.Idle))
			},
			Entry("empty track", []dynamo.Vec2{}),
			Entry("single point", []dynamo.Vec2{dynamo.V(3, 4)}),
			Entry("coincident points", []dynamo.Vec2{dynamo.V(1, 1), dynamo.V(1, 1)}),
		)
	})

	Describe("riding the valley", func() {
		var b *gondola.Body

		BeforeEach(func() {
			b = gondola.NewBody(valley())
			Expect(b.Start()).To(BeTrue())
		})

		It("gains speed while the track descends", func() {
			prev := b.Speed()
			for i := 0; i < 20; i++ {
				b.Step(0.01)
				Expect(b.Phase()).To(Equal(gondola.Running))
				Expect(b.Speed()).To(BeNumerically(">", prev))
				prev = b.Speed()
			}
			Expect(b.Param()).To(BeNumerically("<", 1))
		})

		It("rolls the wheel backwards as it moves forward", func() {
			for i := 0; i < 10; i++ {
				b.Step(0.01)
			}
			Expect(b.Heading()).To(BeNumerically("<", 0))
		})

		It("keeps contact and runs out past the last knot", func() {
			steps := ride(b, 0.01, 1000)
			Expect(steps).To(BeNumerically("<", 1000))
			Expect(b.Phase()).To(Equal(gondola.Fallen))
			Expect(b.Cause()).To(Equal(gondola.RanOut))
			Expect(b.Param()).To(BeNumerically(">", 2))
		})

		It("never moves again once fallen", func() {
			ride(b, 0.01, 1000)
			Expect(b.Phase()).To(Equal(gondola.Fallen))

			before := b.Snapshot()
			for i := 0; i < 10; i++ {
				b.Step(0.01)
			}
			Expect(b.Param()).To(Equal(before.Param))
			Expect(b.Position()).To(Equal(before.Position))
			Expect(b.Heading()).To(Equal(before.Heading))
			Expect(b.Start()).To(BeFalse())
		})
	})

	Describe("losing contact", func() {
		It("falls on the first step when riding the underside", func() {
			b := gondola.NewBody(newTrack(dynamo.V(0, 0), dynamo.V(-1, -1), dynamo.V(-2, -2)))
			Expect(b.Start()).To(BeTrue())
			start := b.Snapshot()

			b.Step(0.01)
			Expect(b.Phase()).To(Equal(gondola.Fallen))
			Expect(b.Cause()).To(Equal(gondola.LostContact))
			Expect(b.RadialForce()).To(BeNumerically("<", 0))
			Expect(b.Param()).To(Equal(start.Param))
			Expect(b.Position()).To(Equal(start.Position))
		})

		It("flies off a crest taken at speed", func() {
			b := gondola.NewBody(newTrack(dynamo.V(0, 0), dynamo.V(1, -10), dynamo.V(2, -9), dynamo.V(3, -10)))
			Expect(b.Start()).To(BeTrue())

			ride(b, 0.01, 1000)
			Expect(b.Phase()).To(Equal(gondola.Fallen))
			Expect(b.Cause()).To(Equal(gondola.LostContact))
			Expect(b.Param()).To(BeNumerically(">", 1.5))
			Expect(b.Param()).To(BeNumerically("<", 2))
		})
	})

	Describe("degenerate tangent", func() {
		It("skips steps while the tangent vanishes and resumes after", func() {
			tr := &pinnedTrack{Track: newTrack(dynamo.V(0, 0), dynamo.V(1, -1), dynamo.V(2, -2), dynamo.V(3, -3))}
			b := gondola.NewBody(tr)
			Expect(b.Start()).To(BeTrue())
			for i := 0; i < 5; i++ {
				b.Step(0.01)
			}
			Expect(b.Phase()).To(Equal(gondola.Running))

			tr.pinned, tr.at = true, tr.Track.Evaluate(b.Param())
			Expect(spline.Derivative(tr, b.Param()).Len()).To(BeNumerically("<", gondola.Epsilon))

			before := b.Snapshot()
			for i := 0; i < 3; i++ {
				b.Step(0.01)
			}
			Expect(b.Snapshot()).To(Equal(before))

			tr.pinned = false
			b.Step(0.01)
			Expect(b.Phase()).To(Equal(gondola.Running))
			Expect(b.Param()).To(BeNumerically(">", before.Param))
		})

		It("finds no tangent on a flat closing segment", func() {
			tr := newTrack(dynamo.V(0, 0), dynamo.V(1, -1), dynamo.V(1, -1), dynamo.V(1, -1))
			Expect(spline.Derivative(tr, 2.5).Len()).To(BeNumerically("<", gondola.Epsilon))
		})
	})

	Describe("determinism", func() {
		It("replays bit-identical trajectories", func() {
			record := func() []gondola.Snapshot {
				b := gondola.NewBody(valley())
				b.Start()
				var out []gondola.Snapshot
				for i := 0; i < 120; i++ {
					b.Step(0.01)
					out = append(out, b.Snapshot())
				}
				return out
			}

			Expect(record()).To(Equal(record()))
		})
	})
})

var _ = Describe("Snapshot", func() {
	It("flags non-finite values", func() {
		Expect(gondola.Snapshot{}.IsValid()).To(BeTrue())
		Expect(gondola.Snapshot{Speed: math.NaN()}.IsValid()).To(BeFalse())
		Expect(gondola.Snapshot{Position: dynamo.V(math.Inf(1), 0)}.IsValid()).To(BeFalse())
	})
})

var _ = Describe("Phase and FallCause", func() {
	It("have readable names", func() {
		Expect(gondola.Idle.String()).To(Equal("idle"))
		Expect(gondola.Running.String()).To(Equal("running"))
		Expect(gondola.Fallen.String()).To(Equal("fallen"))
		Expect(gondola.LostContact.String()).To(Equal("lost contact"))
		Expect(gondola.RanOut.String()).To(Equal("ran out of track"))
	})
})
