package render

import (
	"fmt"
	"io"

	"github.com/vango-dev/vela/pkg/surface"
)

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Title is the page title
	Title string

	// Lang is the language attribute for the html element
	// Defaults to "en" if not specified
	Lang string

	// Styles contains inline CSS styles
	Styles []string

	// Source and Mount select the server-rendered content of the mount
	// element. Source may be nil for an empty mount. Mount is also the node
	// id the client binds to the mount element.
	Source Source
	Mount  surface.NodeID

	// MountID is the id of the element the client attaches to.
	// Defaults to "app".
	MountID string

	// ClientScript is the path to the browser client.
	// Defaults to "/_vela/client.js" if not specified
	ClientScript string

	// SocketPath is the WebSocket endpoint the client connects to.
	SocketPath string
}

// RenderPage renders a complete HTML document to the given writer.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}
	mountID := page.MountID
	if mountID == "" {
		mountID = "app"
	}
	client := page.ClientScript
	if client == "" {
		client = "/_vela/client.js"
	}

	if _, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html lang=\"%s\">\n<head>\n", escapeAttr(lang)); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "  <meta charset=\"utf-8\">\n  <meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n"); err != nil {
		return err
	}
	if page.Title != "" {
		if _, err := fmt.Fprintf(w, "  <title>%s</title>\n", escapeHTML(page.Title)); err != nil {
			return err
		}
	}
	for _, css := range page.Styles {
		if _, err := fmt.Fprintf(w, "  <style>%s</style>\n", css); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "</head>\n<body>\n"); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "<div id=\"%s\">", escapeAttr(mountID)); err != nil {
		return err
	}
	if page.Source != nil && page.Mount != surface.NoNode {
		if err := r.RenderToWriter(w, page.Source, page.Mount); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "</div>\n"); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "<script src=\"%s\" data-mount=\"%s\" data-root=\"%d\" data-socket=\"%s\" defer></script>\n",
		escapeAttr(client), escapeAttr(mountID), page.Mount, escapeAttr(page.SocketPath)); err != nil {
		return err
	}
	_, err := io.WriteString(w, "</body>\n</html>\n")
	return err
}
