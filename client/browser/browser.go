//go:build js && wasm

package browser

import "syscall/js"

type HTMLWindow struct{ jsValue js.Value }

func Window() HTMLWindow {
	return HTMLWindow{js.Global().Get("window")}
}
func (w HTMLWindow) RequestAnimationFrame(fn js.Func) { w.jsValue.Call("requestAnimationFrame", fn) }

// OnAnimationFrame calls update on every animation frame until it returns false.
func OnAnimationFrame(update func() bool) {
	var frame js.Func
	frame = js.FuncOf(func(this js.Value, args []js.Value) any {
		frame.Release()
		if update() {
			OnAnimationFrame(update)
		}
		return nil
	})
	Window().RequestAnimationFrame(frame)
}

// Call invokes the global JS function name if it is defined.
func Call(name string, args ...any) (js.Value, bool) {
	fn := js.Global().Get(name)
	if fn.IsUndefined() {
		return js.Undefined(), false
	}
	return fn.Invoke(args...), true
}
