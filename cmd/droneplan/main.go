// Command droneplan plans and simulates drone delivery fleets.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/dronefleet/droneplan/internal/plan"
	"github.com/dronefleet/droneplan/internal/scenario"
	"github.com/dronefleet/droneplan/internal/sim"
	"github.com/dronefleet/droneplan/internal/world"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "plan":
		runPlan(os.Args[2:])
	case "simulate":
		runSimulate(os.Args[2:])
	case "bench":
		runBench(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: droneplan <plan|simulate|bench> [flags]")
}

// plainTextReporter is a minimal Reporter that writes status lines to
// stdout, grounded on the teacher's cmd/mapfhet fmt.Printf-driven demo
// runner.
type plainTextReporter struct{}

func (plainTextReporter) Report(status, reason string) {
	fmt.Printf("[%s] %s\n", status, reason)
}

func runPlan(args []string) {
	fs := flag.NewFlagSet("plan", flag.ExitOnError)
	scenarioPath := fs.String("scenario", "", "path to a scenario JSON file (omit to use a generated fixture)")
	mode := fs.String("mode", string(plan.ModeAStarSequence), "planner mode: astar-sequence, csp, genetic")
	seed := fs.Int64("seed", 1, "genetic algorithm random seed")
	droneCount := fs.Int("drones", 3, "fixture drone count (ignored when -scenario is set)")
	deliveryCount := fs.Int("deliveries", 10, "fixture delivery count (ignored when -scenario is set)")
	fs.Parse(args)

	var reporter scenario.Reporter = plainTextReporter{}
	now := time.Now().UTC()

	w, err := loadWorld(*scenarioPath, *droneCount, *deliveryCount, now)
	if err != nil {
		reporter.Report("error", err.Error())
		os.Exit(1)
	}

	itinerary := plan.Plan(
		plan.Mode(*mode),
		w.Drones(),
		w.PendingDeliveries(),
		w.Zones(),
		w.Now(),
		plan.PlanOptions{Rand: rand.New(rand.NewSource(*seed))},
	)

	if len(itinerary) == 0 {
		reporter.Report("infeasible", "no itinerary could be produced for the requested mode")
		return
	}

	for droneID, deliveries := range itinerary {
		fmt.Printf("drone %s: %d deliveries\n", droneID, len(deliveries))
		for _, d := range deliveries {
			fmt.Printf("  %s at (%.1f,%.1f) priority=%d\n", d.ID, d.Position.X, d.Position.Y, d.Priority)
		}
	}
	reporter.Report("ok", fmt.Sprintf("planned %d drone itineraries", len(itinerary)))
}

func runSimulate(args []string) {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	scenarioPath := fs.String("scenario", "", "path to a scenario JSON file (omit to use a generated fixture)")
	speed := fs.String("speed", string(sim.SpeedNormal), "tick speed label: slow, normal, fast")
	ticks := fs.Int("ticks", 20, "number of ticks to run")
	droneCount := fs.Int("drones", 3, "fixture drone count (ignored when -scenario is set)")
	deliveryCount := fs.Int("deliveries", 10, "fixture delivery count (ignored when -scenario is set)")
	fs.Parse(args)

	now := time.Now().UTC()
	w, err := loadWorld(*scenarioPath, *droneCount, *deliveryCount, now)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	itinerary := plan.Plan(plan.ModeAStarSequence, w.Drones(), w.PendingDeliveries(), w.Zones(), w.Now(), plan.PlanOptions{})
	router := plan.NewRouter(20, 20)
	for _, drone := range w.Drones() {
		for _, delivery := range itinerary[drone.ID] {
			leg := router.FindPath(drone.Route[len(drone.Route)-1], delivery.Position, drone, w.Zones(), w.Now())
			drone.Route = append(drone.Route, leg[1:]...)
		}
	}

	clk := sim.NewClock(now, sim.DefaultTickStep)
	simulator := sim.NewSimulator(w, clk)

	period := sim.TickPeriod(sim.SpeedLabel(*speed))
	fmt.Printf("ticking at %v intervals (label=%s)\n", period, *speed)

	simulator.Run(*ticks)

	fmt.Printf("ran %d ticks, %d waypoints popped, %.3f battery debited\n",
		simulator.Metrics.TicksElapsed, simulator.Metrics.WaypointsPopped, simulator.Metrics.BatteryDebited)
}

func runBench(args []string) {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	droneCount := fs.Int("drones", 3, "fixture drone count")
	deliveryCount := fs.Int("deliveries", 20, "fixture delivery count")
	seed := fs.Int64("seed", 1, "genetic algorithm random seed")
	fs.Parse(args)

	now := time.Now().UTC()
	doc := scenario.GenerateFixture(scenario.FixtureOptions{DroneCount: *droneCount, DeliveryCount: *deliveryCount, Now: now})
	w := scenario.Build(doc, now)

	modes := []plan.Mode{plan.ModeAStarSequence, plan.ModeCSP, plan.ModeGenetic}
	for _, mode := range modes {
		start := time.Now()
		itinerary := plan.Plan(mode, w.Drones(), w.PendingDeliveries(), w.Zones(), w.Now(),
			plan.PlanOptions{Rand: rand.New(rand.NewSource(*seed))})
		elapsed := time.Since(start)

		served := 0
		for _, deliveries := range itinerary {
			served += len(deliveries)
		}
		fmt.Printf("%-15s served=%d/%d elapsed=%v\n", mode, served, len(w.PendingDeliveries()), elapsed)

		for _, d := range w.Drones() {
			d.Reset()
		}
	}
}

func loadWorld(scenarioPath string, droneCount, deliveryCount int, now time.Time) (*world.World, error) {
	if scenarioPath == "" {
		doc := scenario.GenerateFixture(scenario.FixtureOptions{DroneCount: droneCount, DeliveryCount: deliveryCount, Now: now})
		return scenario.Build(doc, now), nil
	}

	f, err := os.Open(scenarioPath)
	if err != nil {
		return nil, fmt.Errorf("open scenario %q: %w", scenarioPath, err)
	}
	defer f.Close()

	return scenario.Load(f, now)
}
