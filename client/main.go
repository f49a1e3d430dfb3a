//go:build js && wasm

package main

import (
	"fmt"
	"syscall/js"
	"time"

	"github.com/hulkholden/gpubind/backend/webgpu"
	"github.com/hulkholden/gpubind/client/browser"
	"github.com/hulkholden/gpubind/client/examples/materials"
	"github.com/hulkholden/gpubind/engine"
	"github.com/hulkholden/gpubind/internal/logging"
	"github.com/mokiat/gog/opt"
	"github.com/mokiat/wasmgpu"
)

const statsInterval = 60

// waitForExports waits until the JS which initializes the globals has finished running.
func waitForExports() {
	for {
		if fn := js.Global().Get("getContext"); !fn.IsUndefined() {
			if ctx := fn.Invoke(); !ctx.IsNull() {
				return
			}
		}
		logging.Debugf("getContext is still undefined")
		time.Sleep(1 * time.Second)
	}
}

func workloadParams() materials.Params {
	params := materials.Params{Materials: 24, Textures: 16, Draws: 64, Seed: 1}
	w, ok := browser.Call("getWorkload")
	if !ok || w.IsNull() {
		return params
	}
	if v := w.Get("materials"); v.Type() == js.TypeNumber {
		params.Materials = v.Int()
	}
	if v := w.Get("textures"); v.Type() == js.TypeNumber {
		params.Textures = v.Int()
	}
	if v := w.Get("draws"); v.Type() == js.TypeNumber {
		params.Draws = v.Int()
	}
	if v := w.Get("seed"); v.Type() == js.TypeNumber {
		params.Seed = int64(v.Int())
	}
	return params
}

func showError(err error) {
	logging.Errorf("run failed: %v", err)
	browser.Call("showError", "Run error: "+err.Error())
}

func run(device wasmgpu.GPUDevice, context wasmgpu.GPUCanvasContext) error {
	dev := webgpu.New(device, webgpu.DefaultLimits)
	ctx := engine.NewContext(dev)
	scene, err := materials.NewScene(ctx, workloadParams())
	if err != nil {
		return fmt.Errorf("creating scene: %w", err)
	}

	renderPassDescriptor := wasmgpu.GPURenderPassDescriptor{
		ColorAttachments: []wasmgpu.GPURenderPassColorAttachment{
			{
				ClearValue: opt.V(wasmgpu.GPUColor{R: 0.0, G: 0.0, B: 0.0, A: 1.0}),
				LoadOp:     wasmgpu.GPULoadOpClear,
				StoreOp:    wasmgpu.GPUStoreOPStore,
			},
		},
	}

	frame := 0
	browser.OnAnimationFrame(func() bool {
		if err := scene.Frame(); err != nil {
			scene.Release()
			showError(err)
			return false
		}
		renderPassDescriptor.ColorAttachments[0].View = context.GetCurrentTexture().CreateView()
		commandEncoder := device.CreateCommandEncoder()
		passEncoder := commandEncoder.BeginRenderPass(renderPassDescriptor)
		passEncoder.End()
		device.Queue().Submit([]wasmgpu.GPUCommandBuffer{
			commandEncoder.Finish(),
		})

		frame++
		if frame%statsInterval == 0 {
			s := ctx.Stats()
			browser.Call("showStats", fmt.Sprintf(
				"frame %d: uniform buffer binds %d (evictions %d), texture binds %d (evictions %d), pushes %d, skipped %d",
				frame, s.UniformBufferBinds, s.UniformBufferEvictions, s.TextureBinds, s.TextureEvictions, s.UniformPushes, s.SkippedPushes))
		}
		return true
	})
	return nil
}

func main() {
	if err := logging.Init("info", "", true); err != nil {
		panic(err)
	}
	engine.SetLogger(logging.Slog())
	logging.Infof("Started client!")

	waitForExports()

	jsContext := js.Global().Call("getContext")
	jsDevice := js.Global().Call("getDevice")
	context := wasmgpu.NewCanvasContext(jsContext)
	device := wasmgpu.NewDevice(jsDevice)

	if err := run(device, context); err != nil {
		showError(err)
	}

	<-make(chan bool)
}
