// Package input turns SDL events into the per-frame controls of the water
// demo: orbit drag and zoom, window resizes and key-bound actions.
package input

import (
	"slices"

	"github.com/veandco/go-sdl2/sdl"
)

// Action is a demo command bound to a key.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionSimple
	ActionReflective
	ActionRefractive
	ActionGrowTargets
	ActionShrinkTargets
	ActionSaveTargets
)

var actionNames = [...]string{
	ActionNone:          "none",
	ActionQuit:          "quit",
	ActionSimple:        "simple",
	ActionReflective:    "reflective",
	ActionRefractive:    "refractive",
	ActionGrowTargets:   "grow-targets",
	ActionShrinkTargets: "shrink-targets",
	ActionSaveTargets:   "save-targets",
}

func (a Action) String() string {
	if a >= 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// DefaultBindings maps keys to demo actions.
func DefaultBindings() map[sdl.Scancode]Action {
	return map[sdl.Scancode]Action{
		sdl.SCANCODE_ESCAPE: ActionQuit,
		sdl.SCANCODE_1:      ActionSimple,
		sdl.SCANCODE_2:      ActionReflective,
		sdl.SCANCODE_3:      ActionRefractive,
		sdl.SCANCODE_EQUALS: ActionGrowTargets,
		sdl.SCANCODE_MINUS:  ActionShrinkTargets,
		sdl.SCANCODE_F12:    ActionSaveTargets,
	}
}

// Frame is the input gathered by one Update.
type Frame struct {
	Quit    bool
	Resized bool
	// Orbit drag in pixels, accumulated while the drag button is held.
	DragX, DragY float32
	// Wheel steps, positive away from the user.
	Zoom    float32
	Actions []Action
}

// Has reports whether a was triggered this frame.
func (f *Frame) Has(a Action) bool {
	return slices.Contains(f.Actions, a)
}

// Input polls SDL once per frame.
type Input struct {
	Bindings map[sdl.Scancode]Action
	// DragButton is the mouse button that orbits the camera.
	DragButton uint8

	frame Frame
}

// New returns an Input with the default bindings, dragging with the left button.
func New() *Input {
	return &Input{
		Bindings:   DefaultBindings(),
		DragButton: sdl.BUTTON_LEFT,
		frame:      Frame{Actions: make([]Action, 0, 4)},
	}
}

// Update drains the SDL event queue and returns what happened since the
// previous call. The returned Frame is reused by the next Update.
func (i *Input) Update() *Frame {
	f := &i.frame
	*f = Frame{Actions: f.Actions[:0]}

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		i.handle(f, event)
	}
	return f
}

func (i *Input) handle(f *Frame, event sdl.Event) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		f.Quit = true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			f.Resized = true
		}

	case *sdl.KeyboardEvent:
		if e.Type != sdl.KEYDOWN || e.Repeat != 0 {
			return
		}
		switch a := i.Bindings[e.Keysym.Scancode]; a {
		case ActionNone:
		case ActionQuit:
			f.Quit = true
		default:
			f.Actions = append(f.Actions, a)
		}

	case *sdl.MouseMotionEvent:
		if e.State&sdl.Button(uint32(i.DragButton)) != 0 {
			f.DragX += float32(e.XRel)
			f.DragY += float32(e.YRel)
		}

	case *sdl.MouseWheelEvent:
		f.Zoom += float32(e.Y)
	}
}
