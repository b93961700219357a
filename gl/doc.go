// SPDX-License-Identifier: Unlicense OR MIT

/*
Package gl implements the fixed-function, immediate-mode drawing model
of legacy OpenGL on top of an explicit driver.Device.

A Context owns the whole pipeline state: matrix stacks, blend, depth,
stencil, scissor and alpha configuration, texture units, client arrays
and buffer objects. State setters only record state and push the parts
the device tracks directly (depth, stencil, cull, viewport). Programs
are resolved when a draw is issued, from the texturing and coloring
state of that draw, and fragment programs are re-patched as a batch
whenever the blend configuration changes.

Errors follow the GL model. A failing call records its error code in
a single slot and does nothing else; GetError returns and clears the
slot.

	dev, _ := driver.NewDevice(driver.Software{})
	ctx, _ := gl.NewContext(dev, gl.Config{})
	ctx.ClearColor(0, 0, 0, 1)
	ctx.Clear(gl.COLOR_BUFFER_BIT)
	ctx.Begin(gl.TRIANGLES)
	ctx.Color3f(1, 0, 0)
	ctx.Vertex2f(-1, -1)
	ctx.Vertex2f(1, -1)
	ctx.Vertex2f(0, 1)
	ctx.End()
	ctx.SwapBuffers()

A Context is not safe for concurrent use.
*/
package gl
