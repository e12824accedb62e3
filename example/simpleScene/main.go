package main

import (
	"fmt"
	"os"

	"github.com/akmonengine/proximity"
	"github.com/akmonengine/proximity/actor"
	"github.com/akmonengine/proximity/query"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

// SetupScene creates a ball falling through a box, and a rotated cube resting next to it
func SetupScene(logger *zap.Logger) (*proximity.World[string], *actor.Object[mgl64.Vec3, string]) {
	config := proximity.DefaultConfig()
	config.Prediction = 0.05

	world := proximity.NewWorld[string](config, 2.0, proximity.WithLogger(logger))

	ballUID := world.Add(actor.NewTransformAt(mgl64.Vec3{0, 5, 0}), &actor.Ball[mgl64.Vec3]{Radius: 0.5}, "ball")
	world.Add(actor.NewTransformAt(mgl64.Vec3{0, 0, 0}), &actor.Box{HalfExtents: mgl64.Vec3{2, 0.5, 2}}, "floor")
	world.Add(actor.Transform{
		Position: mgl64.Vec3{2.5, 1.2, 0},
		Rotation: mgl64.QuatRotate(mgl64.DegToRad(45), mgl64.Vec3{0, 1, 0}),
	}, actor.NewCube(0.5), "cube")

	ball, _ := world.Object(ballUID)

	world.ProximitySignal.Subscribe(func(event proximity.ProximityEvent[string]) {
		logger.Info("proximity", zap.String("first", event.Data1), zap.String("second", event.Data2), zap.Bool("started", event.Started))
	})
	world.ContactSignal.Subscribe(func(event proximity.ContactEvent[string]) {
		logger.Info("contact", zap.String("first", event.Data1), zap.String("second", event.Data2), zap.Bool("started", event.Started))
	})

	return world, ball
}

func main() {
	logger, err := proximity.NewLogger("debug")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	world, ball := SetupScene(logger)

	const maxSteps int = 100
	const speed float64 = 0.1

	for step := 0; step < maxSteps; step++ {
		position := ball.Placement.Translation().Sub(mgl64.Vec3{0, speed, 0})
		ball.Placement = actor.NewTransformAt(position)

		if err := world.Step(); err != nil {
			logger.Error("step failed", zap.Error(err))
			os.Exit(1)
		}

		for c := range world.NarrowPhase.ContactPairs(world.Objects).Contacts().All() {
			logContact(logger, step, c)
		}
	}

	// Closest points between the ball and the cube, outside of the pipeline
	for _, o := range []float64{0, 10} {
		result := query.ClosestPointsBetween[mgl64.Vec3](
			actor.NewTransformAt(mgl64.Vec3{o, 0, 0}), &actor.Ball[mgl64.Vec3]{Radius: 0.5},
			actor.NewTransformAt(mgl64.Vec3{2, 0, 0}), actor.NewCube(0.5),
			1.0,
		)
		logger.Info("closest points", zap.Float64("offset", o), zap.Stringer("kind", result.Kind), zap.Any("points", result.Points))
	}
}

func logContact(logger *zap.Logger, step int, c proximity.PairContact[mgl64.Vec3, string]) {
	logger.Debug("active contact",
		zap.Int("step", step),
		zap.String("first", c.Object1.Data),
		zap.String("second", c.Object2.Data),
		zap.Float64("depth", c.Contact.Depth),
		zap.Any("normal", c.Contact.Normal),
	)
}
