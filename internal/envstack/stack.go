package envstack

// Layer is a single mapping of variable names to values.
type Layer map[string]string

// Stack is an ordered stack of environment layers. It is not safe for
// concurrent use; the scheduler drives it from a single control thread, and
// forked sub-executions operate on an independent Clone.
type Stack struct {
	layers []Layer
}

// New creates a stack whose bottom layer is the given global environment.
// The global layer is never popped.
func New(global Layer) *Stack {
	if global == nil {
		global = Layer{}
	}
	return &Stack{layers: []Layer{global}}
}

// Push adds a new layer on top of the stack.
func (s *Stack) Push(patch Layer) {
	s.layers = append(s.layers, patch)
}

// Pop removes the most recently pushed layer. Popping the global layer is a
// push/pop discipline violation in the caller, so it panics.
func (s *Stack) Pop() {
	if len(s.layers) <= 1 {
		panic("envstack: pop would remove the global layer")
	}
	s.layers = s.layers[:len(s.layers)-1]
}

// Depth returns the number of layers currently on the stack, including the
// global layer.
func (s *Stack) Depth() int {
	return len(s.layers)
}

// Resolve returns the effective value of a variable: the value from the
// nearest enclosing layer that defines it.
func (s *Stack) Resolve(name string) (string, bool) {
	for i := len(s.layers) - 1; i >= 0; i-- {
		if v, ok := s.layers[i][name]; ok {
			return v, true
		}
	}
	return "", false
}

// Flatten collapses the stack into a plain mapping, suitable for handing to
// a child process. Mutations of the returned map never propagate back.
func (s *Stack) Flatten() map[string]string {
	out := make(map[string]string)
	for _, layer := range s.layers {
		for k, v := range layer {
			out[k] = v
		}
	}
	return out
}

// Clone returns an independent copy of the stack. The layer mappings
// themselves are copied, so pushes, pops, and writes on the clone are
// invisible to the original.
func (s *Stack) Clone() *Stack {
	layers := make([]Layer, len(s.layers))
	for i, layer := range s.layers {
		copied := make(Layer, len(layer))
		for k, v := range layer {
			copied[k] = v
		}
		layers[i] = copied
	}
	return &Stack{layers: layers}
}
