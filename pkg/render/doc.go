// Package render serializes a live node tree to HTML.
//
// The server renders the first pass of a session to markup so the page is
// usable before the socket connects. Rendering reads the tree through Source
// (a *surface.Memory in practice), so it sees exactly what reconciliation
// produced, including live properties such as an input's value.
//
// # Basic Usage
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(mem, mount)
//
// # Full Page Rendering
//
//	err := renderer.RenderPage(w, render.PageData{
//		Title:      "Counter",
//		Source:     mem,
//		Mount:      mount,
//		SocketPath: "/ws",
//	})
//
// Text and attribute values are escaped. Void elements are written without a
// closing tag and empty namespaced (SVG) elements self-close.
package render
