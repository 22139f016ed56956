package dynamo_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/damper/internal/dynamo"
)

var _ = Describe("Damper", func() {
	Context("critically damped step response", func() {
		It("settles on the target without overshoot", func() {
			d, err := dynamo.NewScalar(dynamo.Params{Frequency: 1, Damping: 1, Response: 0}, 0)
			Expect(err).NotTo(HaveOccurred())

			peak := math.Inf(-1)
			for i := 0; i < 300; i++ {
				y, err := d.Update(1.0/60, 1)
				Expect(err).NotTo(HaveOccurred())
				peak = math.Max(peak, y)
			}

			Expect(d.Value()).To(BeNumerically("~", 1, 1e-3))
			Expect(peak).To(BeNumerically("<=", 1.01))
		})
	})

	Context("underdamped step response", func() {
		It("overshoots and then settles", func() {
			d, err := dynamo.NewScalar(dynamo.Params{Frequency: 5, Damping: 0.5, Response: 0}, 0)
			Expect(err).NotTo(HaveOccurred())

			overshot := false
			for i := 0; i < 200; i++ {
				y, err := d.Update(0.01, 1)
				Expect(err).NotTo(HaveOccurred())
				if y > 1 {
					overshot = true
				}
			}

			Expect(overshot).To(BeTrue())
			Expect(d.Value()).To(BeNumerically("~", 1, 1e-3))
		})
	})

	Context("invalid configuration", func() {
		It("rejects a zero frequency at construction", func() {
			_, err := dynamo.NewScalar(dynamo.Params{Frequency: 0, Damping: 1}, 0)
			Expect(err).To(MatchError(dynamo.ErrInvalidParameter))
		})

		It("keeps the prior state when reconfigured with a zero frequency", func() {
			d, err := dynamo.NewScalar(dynamo.Params{Frequency: 2, Damping: 0.7, Response: 1}, 0)
			Expect(err).NotTo(HaveOccurred())
			for i := 0; i < 20; i++ {
				_, err := d.Update(0.02, 1)
				Expect(err).NotTo(HaveOccurred())
			}

			value, velocity := d.Value(), d.Velocity()
			params, consts := d.Params(), d.Constants()

			Expect(d.SetFrequency(0)).To(MatchError(dynamo.ErrInvalidParameter))
			Expect(d.Value()).To(Equal(value))
			Expect(d.Velocity()).To(Equal(velocity))
			Expect(d.Params()).To(Equal(params))
			Expect(d.Constants()).To(Equal(consts))
		})
	})

	DescribeTable("stays finite for coarse and fine steps",
		func(params dynamo.Params, dt float64) {
			d, err := dynamo.NewScalar(params, 0)
			Expect(err).NotTo(HaveOccurred())
			for i := 0; i < 1000; i++ {
				y, err := d.Update(dt, math.Sin(float64(i)*0.3))
				Expect(err).NotTo(HaveOccurred())
				Expect(math.IsNaN(y) || math.IsInf(y, 0)).To(BeFalse())
			}
		},
		Entry("fast filter, slow frame", dynamo.Params{Frequency: 50, Damping: 0.2, Response: 2}, 0.1),
		Entry("undamped", dynamo.Params{Frequency: 1, Damping: 0, Response: 0}, 1.0/60),
		Entry("heavily overdamped", dynamo.Params{Frequency: 3, Damping: 20, Response: -1}, 0.5),
		Entry("tiny step", dynamo.Params{Frequency: 0.2, Damping: 1, Response: 1}, 1e-5),
	)
})
