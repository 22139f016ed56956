package main

import (
	"fmt"
	"math"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/damper/internal/algebra"
	"github.com/san-kum/damper/internal/dynamo"
	"github.com/san-kum/damper/internal/sim"
)

// followFrames is the frame rate of the follow command.
var followFrames int

func newFollowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "follow",
		Short: "follow a point orbiting in 3D in real time",
		Args:  cobra.NoArgs,
		RunE:  runFollow,
	}
	f := cmd.Flags()
	f.Float64VarP(&frequency, "frequency", "f", dynamo.Critical.Frequency, "natural frequency (Hz)")
	f.Float64VarP(&damping, "damping", "z", dynamo.Critical.Damping, "damping ratio")
	f.Float64VarP(&response, "response", "r", dynamo.Critical.Response, "initial response")
	f.Float64Var(&duration, "time", 3, "duration")
	f.IntVar(&followFrames, "fps", 20, "frames per second")
	return cmd
}

// runFollow steps a Vec3 damper from the wall clock, the way an engine
// would call it once per frame.
func runFollow(cmd *cobra.Command, args []string) error {
	if followFrames <= 0 {
		return fmt.Errorf("fps must be positive, got %d", followFrames)
	}
	p := dynamo.Params{Frequency: frequency, Damping: damping, Response: response}
	d, err := dynamo.NewVec3(p, algebra.Vec3{})
	if err != nil {
		return err
	}

	ticker := time.NewTicker(time.Second / time.Duration(followFrames))
	defer ticker.Stop()

	follower := sim.NewFollower(d, sim.NewWallClock())
	start := time.Now()
	fmt.Println(styles.Title.Render(fmt.Sprintf("following orbit  f=%g z=%g r=%g", p.Frequency, p.Damping, p.Response)))
	fmt.Println(styles.Header.Render(fmt.Sprintf("%8s  %24s  %24s  %8s", "t", "target", "value", "lag")))

	for {
		select {
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		case now := <-ticker.C:
			t := now.Sub(start).Seconds()
			target := algebra.Vec3{X: math.Cos(t), Y: math.Sin(t), Z: 0.5 * math.Sin(2*t)}
			v, err := follower.Set(target)
			if err != nil {
				logger.Warn("frame skipped", zap.Float64("t", t), zap.Error(err))
				continue
			}
			fmt.Printf("%8.3f  %24s  %24s  %8.4f\n", t, fmtVec(target), fmtVec(v), v.Sub(target).Norm())
			if t >= duration {
				return nil
			}
		}
	}
}

func fmtVec(v algebra.Vec3) string {
	return fmt.Sprintf("(%6.3f %6.3f %6.3f)", v.X, v.Y, v.Z)
}
