// Package materials is a rendering workload that exercises the binding
// tables: several shader variants share a camera block through the block
// registry, every material owns its block buffer, and each frame draws
// materials picked by popularity.
package materials

import (
	"fmt"
	"math/rand"

	"github.com/hulkholden/gpubind/common/math32"
	"github.com/hulkholden/gpubind/common/vmath"
	"github.com/hulkholden/gpubind/common/wgsltypes"
	"github.com/hulkholden/gpubind/device"
	"github.com/hulkholden/gpubind/engine"
	"github.com/mroth/weightedrand/v2"
)

type Params struct {
	Materials int
	Textures  int
	// Draws is the number of draw calls per frame.
	Draws int
	Seed  int64
}

var (
	cameraBlock = engine.BlockDesc{
		Name: "Camera",
		Members: []wgsltypes.Member{
			{Name: "viewProj", Type: "mat4x4<f32>"},
			{Name: "eye", Type: "vec3<f32>"},
			{Name: "time", Type: "f32"},
		},
	}
	materialBlock = engine.BlockDesc{
		Name: "Material",
		Members: []wgsltypes.Member{
			{Name: "color", Type: "vec4<f32>"},
			{Name: "shininess", Type: "f32"},
			{Name: "roughness", Type: "f32"},
		},
	}
	lightsBlock = engine.BlockDesc{
		Name: "Lights",
		Members: []wgsltypes.Member{
			{Name: "direction", Type: "vec3<f32>"},
			{Name: "intensity", Type: "f32"},
		},
	}

	instanceLayout = wgsltypes.MustNewLayout("Instance",
		wgsltypes.Member{Name: "offset", Type: "vec3<f32>"},
		wgsltypes.Member{Name: "scale", Type: "f32"},
	)
)

// variants are the shader programs materials are drawn with.
var variants = []engine.ProgramDesc{
	{
		Label:    "unlit",
		Uniforms: []engine.UniformDesc{{Name: "model", Type: "mat4x4<f32>", Location: 0}},
		Blocks:   []engine.BlockDesc{cameraBlock, materialBlock},
	},
	{
		Label: "textured",
		Uniforms: []engine.UniformDesc{
			{Name: "model", Type: "mat4x4<f32>", Location: 0},
			{Name: "albedo", Type: wgsltypes.Texture2D, Location: 1},
		},
		Blocks: []engine.BlockDesc{cameraBlock, materialBlock},
	},
	{
		Label: "lit",
		Uniforms: []engine.UniformDesc{
			{Name: "model", Type: "mat4x4<f32>", Location: 0},
			{Name: "albedo", Type: wgsltypes.Texture2D, Location: 1},
			{Name: "normals", Type: wgsltypes.Texture2D, Location: 2},
		},
		Blocks: []engine.BlockDesc{cameraBlock, materialBlock, lightsBlock},
	},
}

type Material struct {
	Name    string
	Program *engine.Program
	Buffer  *engine.GPUBuffer
	Albedo  *engine.Texture
	Normals *engine.Texture
	Sampler *engine.Sampler
	Weight  int
}

type Scene struct {
	ctx       *engine.Context
	programs  []*engine.Program
	materials []*Material
	textures  []*engine.Texture
	samplers  []*engine.Sampler
	camera    *engine.GPUBuffer
	instances *engine.AttributeBuffer
	chooser   *weightedrand.Chooser[int, int]
	rng       *rand.Rand
	draws     int
	frame     int
}

var (
	colorRange     = math32.RangedValue{Min: 0.2, Max: 1}
	shininessRange = math32.RangedValue{Min: 1, Max: 64}
	roughnessRange = math32.RangedValue{Min: 0, Max: 1}
	offsetRange    = math32.RangedValue{Min: -10, Max: 10}
	scaleRange     = math32.RangedValue{Min: 0.5, Max: 2}
)

// NewScene creates the programs, textures and materials of the workload.
func NewScene(ctx *engine.Context, params Params) (*Scene, error) {
	if params.Materials < 1 {
		return nil, fmt.Errorf("need at least one material, got %d", params.Materials)
	}
	s := &Scene{
		ctx:   ctx,
		rng:   rand.New(rand.NewSource(params.Seed)),
		draws: params.Draws,
	}
	for _, desc := range variants {
		p, err := ctx.NewProgram(desc)
		if err != nil {
			s.Release()
			return nil, fmt.Errorf("creating program %q: %v", desc.Label, err)
		}
		s.programs = append(s.programs, p)
	}

	camera, err := ctx.Registry().Acquire(cameraBlock.Name, 0)
	if err != nil {
		s.Release()
		return nil, err
	}
	s.camera = camera

	s.samplers = []*engine.Sampler{
		ctx.NewSampler(device.SamplerParams{MinFilter: device.Nearest, MagFilter: device.Nearest}),
		ctx.NewSampler(device.SamplerParams{MinFilter: device.Linear, MagFilter: device.Linear, WrapS: device.Repeat, WrapT: device.Repeat}),
	}
	for i := 0; i < max(params.Textures, 1); i++ {
		size := 1 << (4 + s.rng.Intn(5))
		s.textures = append(s.textures, ctx.NewTexture(device.TextureDesc{Width: size, Height: size}))
	}

	var choices []weightedrand.Choice[int, int]
	for i := 0; i < params.Materials; i++ {
		m := s.newMaterial(i)
		s.materials = append(s.materials, m)
		choices = append(choices, weightedrand.NewChoice(i, m.Weight))
	}
	s.chooser, err = weightedrand.NewChooser(choices...)
	if err != nil {
		s.Release()
		return nil, fmt.Errorf("creating material chooser: %v", err)
	}

	instances := engine.NewCPUBuffer(max(params.Draws, 1)*instanceLayout.Size, device.StreamDraw)
	s.instances, err = engine.NewAttributeBuffer(instanceLayout, instances, 1)
	if err != nil {
		s.Release()
		return nil, err
	}
	return s, nil
}

func (s *Scene) newMaterial(i int) *Material {
	p := s.programs[i%len(s.programs)]
	blk, _ := p.Block(materialBlock.Name)
	m := &Material{
		Name:    fmt.Sprintf("%s-%d", p.Label(), i),
		Program: p,
		Buffer:  s.ctx.NewGPUBuffer(engine.WithSize(blk.Size()), engine.WithUsage(device.StaticDraw)),
		Sampler: s.samplers[i%len(s.samplers)],
		// Earlier materials are drawn more often.
		Weight: 1 + 100/(i+1),
	}
	if _, ok := p.Sampler("albedo"); ok {
		m.Albedo = s.textures[s.rng.Intn(len(s.textures))]
	}
	if _, ok := p.Sampler("normals"); ok {
		m.Normals = s.textures[s.rng.Intn(len(s.textures))]
	}

	layout := blk.Layout()
	data := make([]byte, blk.Size())
	color := vmath.NewV4(colorRange.Get(s.rng), colorRange.Get(s.rng), colorRange.Get(s.rng), 1)
	wgsltypes.Put(data[layout.MustOffsetOf("color"):], wgsltypes.Vec4(color))
	wgsltypes.Put(data[layout.MustOffsetOf("shininess"):], wgsltypes.Float(shininessRange.Get(s.rng)))
	wgsltypes.Put(data[layout.MustOffsetOf("roughness"):], wgsltypes.Float(roughnessRange.Get(s.rng)))
	m.Buffer.SetSubData(0, data)
	return m
}

func (s *Scene) Context() *engine.Context { return s.ctx }

func (s *Scene) Materials() []*Material { return s.materials }

func (s *Scene) Programs() []*engine.Program { return s.programs }

// Instances holds the per-draw instance data of the last frame.
func (s *Scene) Instances() *engine.AttributeBuffer { return s.instances }

// Frame updates the shared camera and draws Params.Draws materials.
func (s *Scene) Frame() error {
	t := float32(s.frame) / 60
	s.frame++

	angle := t * math32.HalfPi
	sin, cos := math32.SinCos(angle)
	eye := vmath.NewV3(8*cos, 4, 8*sin)
	viewProj := vmath.PerspectiveM4(math32.RadiansFromDegrees(60), 16.0/9.0, 0.1, 100).
		Mul(vmath.LookAtM4(eye, vmath.V3{}, vmath.NewV3(0, 1, 0)))

	// The camera block is shared, so writing it through one program
	// updates every program.
	p := s.programs[0]
	p.SetMat4("viewProj", viewProj)
	p.SetVec3("eye", eye)
	p.SetFloat("time", t)

	for i := 0; i < s.draws; i++ {
		m := s.materials[s.chooser.PickSource(s.rng)]
		offset := vmath.NewV3(offsetRange.Get(s.rng), offsetRange.Get(s.rng), offsetRange.Get(s.rng))
		scale := scaleRange.Get(s.rng)
		s.instances.Put(i, wgsltypes.Vec3(offset), wgsltypes.Float(scale))
		if err := s.draw(m, vmath.TranslateM4(offset).Mul(vmath.ScaleM4(vmath.NewV3(scale, scale, scale)))); err != nil {
			return fmt.Errorf("frame %d, draw %d (%s): %w", s.frame, i, m.Name, err)
		}
	}
	return nil
}

func (s *Scene) draw(m *Material, model vmath.M4) error {
	p := m.Program
	blk, _ := p.Block(materialBlock.Name)
	blk.SetBuffer(m.Buffer)
	if _, ok := p.Block(lightsBlock.Name); ok {
		p.SetVec3("direction", vmath.NewV3(-1, -2, -1).Normalize())
		p.SetFloat("intensity", 1.5)
	}
	p.SetMat4("model", model)
	for _, u := range p.Samplers() {
		tex := m.Albedo
		if u.Name() == "normals" {
			tex = m.Normals
		}
		if err := u.Set(tex, m.Sampler); err != nil {
			return err
		}
	}
	return p.Use()
}

// Release releases everything the scene created.
func (s *Scene) Release() {
	for _, p := range s.programs {
		p.Release()
	}
	for _, m := range s.materials {
		m.Buffer.Release()
	}
	for _, t := range s.textures {
		t.Release()
	}
	for _, smp := range s.samplers {
		smp.Release()
	}
	if s.camera != nil {
		s.ctx.Registry().Release(s.camera)
	}
	if s.instances != nil {
		s.instances.Buffer.Release()
	}
	s.programs, s.materials, s.textures, s.samplers = nil, nil, nil, nil
	s.camera, s.instances = nil, nil
}
