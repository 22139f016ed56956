// Package dynamo implements a second-order damper: a filter that follows a
// moving target with tunable frequency, damping and anticipation.
//
// The filter discretizes
//
//	k2*y'' + k1*y' + y = x + k3*x'
//
// with a semi-implicit Euler step. The key types are:
//
//   - [Params]: frequency, damping ratio and response
//   - [Constants]: k1, k2, k3 and friends, derived from Params
//   - [Policy]: per-step coefficient selection that keeps the step stable
//     for any dt ([PoleMatching], [Simple])
//   - [Damper]: the generic engine over any [algebra.Algebra]
//
// # Example
//
//	d, err := dynamo.NewVec3(dynamo.Params{Frequency: 2, Damping: 0.5, Response: 2}, start)
//	if err != nil {
//		return err
//	}
//	pos, err := d.Update(frameDt, target)
//
// # Thread Safety
//
// Damper instances are NOT thread-safe. Independent dampers share no state
// and can be stepped from different goroutines.
package dynamo
