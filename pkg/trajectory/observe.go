package trajectory

import "github.com/matzehuels/snowball/pkg/sim"

// Observe records a simulation event, making a Recorder a [sim.Observer].
// Weight changes carry no trajectory and are ignored.
func (r *Recorder) Observe(ev sim.Event) error {
	switch ev.Kind {
	case sim.NodeAdded:
		return r.AddNode(ev.ID, ev.Colour)
	case sim.NodeMoved:
		return r.SetPosition(ev.ID, ev.Position)
	case sim.NodeRemoved:
		return r.RemoveNode(ev.ID)
	case sim.StepDone:
		r.NextStep()
	}
	return nil
}
