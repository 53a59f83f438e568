package scene

import (
	"errors"
	"slices"
)

// ErrSceneSealed is returned by AddObject and AddLight after Seal.
var ErrSceneSealed = errors.New("scene: scene is sealed")

// Settings are the fixed construction parameters of a Scene.
type Settings struct {
	Background Color
	Fog        FogExp2
	FOV        float64
	Near       float64
	Far        float64
	CameraPos  Vec3
}

func DefaultSettings() Settings {
	return Settings{
		Background: Hex(0x050505),
		Fog:        FogExp2{Color: Hex(0x050505), Density: 0.002},
		FOV:        75,
		Near:       0.1,
		Far:        1000,
		CameraPos:  Vec3{0, 0, 5},
	}
}

// Scene owns the camera, lights and renderables of one surface.
type Scene struct {
	Background Color
	Fog        *FogExp2

	camera  *Camera
	lights  []Light
	objects []Object
	sealed  bool
}

// New builds an empty scene for a viewport of the given size. A
// non-positive height yields aspect 1.
func New(width, height int, s Settings) *Scene {
	aspect := 1.0
	if width > 0 && height > 0 {
		aspect = float64(width) / float64(height)
	}
	cam := NewPerspectiveCamera(s.FOV, aspect, s.Near, s.Far)
	cam.SetPosition(s.CameraPos)
	fog := s.Fog
	return &Scene{
		Background: s.Background,
		Fog:        &fog,
		camera:     cam,
		lights:     make([]Light, 0, 3),
		objects:    make([]Object, 0, 16),
	}
}

func (s *Scene) Camera() *Camera { return s.camera }

func (s *Scene) AddObject(o Object) error {
	if s.sealed {
		return ErrSceneSealed
	}
	s.objects = append(s.objects, o)
	return nil
}

func (s *Scene) AddLight(l Light) error {
	if s.sealed {
		return ErrSceneSealed
	}
	s.lights = append(s.lights, l)
	return nil
}

// Seal freezes the object and light lists.
func (s *Scene) Seal()        { s.sealed = true }
func (s *Scene) Sealed() bool { return s.sealed }

// Objects and Lights return copies; the scene's own lists only grow through
// AddObject and AddLight.
func (s *Scene) Objects() []Object { return slices.Clone(s.objects) }
func (s *Scene) Lights() []Light   { return slices.Clone(s.lights) }
